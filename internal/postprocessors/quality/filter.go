// Package quality rejects chunks unlikely to carry useful signal.
package quality

import (
	"context"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// Reason explains why a chunk was rejected.
type Reason string

// Rejection reasons. ReasonNone means the chunk was accepted.
const (
	ReasonNone       Reason = ""
	ReasonEmpty      Reason = "empty"
	ReasonTooShort   Reason = "too_short"
	ReasonFewSpaces  Reason = "few_spaces"
	ReasonFewLetters Reason = "few_letters"
)

// Filter applies length, space ratio and letter ratio thresholds.
// It implements both ChunkFilter and PostProcessor.
type Filter struct {
	settings domain.QualitySettings
}

// New creates a filter with the given thresholds.
func New(settings domain.QualitySettings) (*Filter, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Filter{settings: settings}, nil
}

// NewDefault creates a filter with the default thresholds.
func NewDefault() *Filter {
	return &Filter{settings: domain.QualitySettings{
		MinLength:     domain.DefaultMinLength,
		MinSpaceRatio: domain.DefaultMinSpaceRatio,
		MinAlphaRatio: domain.DefaultMinAlphaRatio,
	}}
}

// Name returns the processor name.
func (f *Filter) Name() string {
	return "quality"
}

// Settings returns the active thresholds.
func (f *Filter) Settings() domain.QualitySettings {
	return f.settings
}

// Accept judges one chunk's content. Lengths are counted in characters.
func (f *Filter) Accept(content string) (bool, Reason) {
	if content == "" {
		return false, ReasonEmpty
	}

	length := utf8.RuneCountInString(content)
	if length < f.settings.MinLength {
		return false, ReasonTooShort
	}

	var spaces, letters int
	for _, r := range content {
		if r == ' ' {
			spaces++
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}

	total := float64(length)
	if float64(spaces)/total < f.settings.MinSpaceRatio {
		return false, ReasonFewSpaces
	}
	if float64(letters)/total < f.settings.MinAlphaRatio {
		return false, ReasonFewLetters
	}
	return true, ReasonNone
}

// Filter returns the accepted chunks in their original order.
func (f *Filter) Filter(chunks []domain.Chunk) []domain.Chunk {
	kept := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if ok, _ := f.Accept(c.Content); ok {
			kept = append(kept, c)
		}
	}
	return kept
}

// Process filters the chunks produced by earlier processors.
func (f *Filter) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	return f.Filter(chunks), nil
}
