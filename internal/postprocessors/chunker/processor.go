// Package chunker provides an overlapping word-window chunking processor.
package chunker

import (
	"context"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// Processor splits document content into overlapping word windows.
// It implements the PostProcessor interface.
type Processor struct {
	settings domain.ChunkSettings
}

// Window is one emitted slice of a document's word sequence.
// Start and End are word offsets, End exclusive.
type Window struct {
	Start int
	End   int
	Text  string
}

// Option configures the chunker processor.
type Option func(*domain.ChunkSettings)

// WithChunkSize sets the window size in words.
func WithChunkSize(size int) Option {
	return func(s *domain.ChunkSettings) {
		s.Size = size
	}
}

// WithOverlap sets the number of words shared by consecutive windows.
func WithOverlap(overlap int) Option {
	return func(s *domain.ChunkSettings) {
		s.Overlap = overlap
	}
}

// WithMinChars sets the length a window must exceed to be emitted.
func WithMinChars(n int) Option {
	return func(s *domain.ChunkSettings) {
		s.MinChars = n
	}
}

// WithSettings replaces all window settings at once.
func WithSettings(settings domain.ChunkSettings) Option {
	return func(s *domain.ChunkSettings) {
		*s = settings
	}
}

// New creates a chunker processor with the given options.
// An overlap that is not strictly smaller than the window size would never
// advance, so it is rejected with a ConfigurationError.
func New(opts ...Option) (*Processor, error) {
	settings := domain.ChunkSettings{
		Size:     domain.DefaultChunkSize,
		Overlap:  domain.DefaultChunkOverlap,
		MinChars: domain.DefaultMinChunkChars,
	}
	for _, opt := range opts {
		opt(&settings)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Processor{settings: settings}, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Settings returns the validated window settings.
func (p *Processor) Settings() domain.ChunkSettings {
	return p.settings
}

// Windows returns the windows of text lazily. The sequence can be ranged
// over more than once and yields the same windows each time.
//
// Window starts advance by size minus overlap. The walk ends with the window
// that reaches the last word, which may be shorter than the window size.
func (p *Processor) Windows(text string) iter.Seq[Window] {
	words := strings.Fields(text)
	size, stride := p.settings.Size, p.settings.Stride()

	return func(yield func(Window) bool) {
		for start := 0; start < len(words); start += stride {
			end := min(start+size, len(words))
			joined := strings.Join(words[start:end], " ")
			if utf8.RuneCountInString(joined) > p.settings.MinChars {
				if !yield(Window{Start: start, End: end, Text: joined}) {
					return
				}
			}
			if end == len(words) {
				return
			}
		}
	}
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
// Chunks carry their source and position but no id.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		return nil, nil
	}

	var chunks []domain.Chunk
	for w := range p.Windows(doc.Content) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunks = append(chunks, domain.Chunk{
			Content:    w.Text,
			Source:     doc.Source,
			ChunkIndex: len(chunks),
		})
	}
	return chunks, nil
}
