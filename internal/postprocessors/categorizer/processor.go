// Package categorizer labels chunks with a category derived from their source path.
package categorizer

import (
	"context"
	"strings"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// Rule maps a source path fragment to a category.
// Patterns are matched case-insensitively as substrings.
type Rule struct {
	Pattern  string
	Category domain.Category
}

// DefaultRules is the built-in rule table in priority order: protocol
// markers, config-schema terms, debugging terms, networking terms.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "grpc", Category: domain.CategoryGRPC},
		{Pattern: "gnmi", Category: domain.CategoryGNMI},
		{Pattern: "yang", Category: domain.CategoryYANG},
		{Pattern: "openconfig", Category: domain.CategoryYANG},
		{Pattern: "debug", Category: domain.CategoryDebugging},
		{Pattern: "network", Category: domain.CategoryNetwork},
		{Pattern: "tcp", Category: domain.CategoryNetwork},
	}
}

// Processor assigns categories from an ordered rule table.
// It implements the PostProcessor interface.
type Processor struct {
	rules    []Rule
	fallback domain.Category
}

// Option configures the categorizer processor.
type Option func(*Processor)

// WithRules replaces the rule table. Order is priority order.
func WithRules(rules []Rule) Option {
	return func(p *Processor) {
		p.rules = rules
	}
}

// New creates a categorizer with the default rule table.
// Rules with an empty pattern or a category outside the scheme are dropped.
func New(opts ...Option) *Processor {
	p := &Processor{
		rules:    DefaultRules(),
		fallback: domain.CategoryGeneral,
	}
	for _, opt := range opts {
		opt(p)
	}

	rules := make([]Rule, 0, len(p.rules))
	for _, r := range p.rules {
		if r.Pattern == "" || !r.Category.IsValid() {
			continue
		}
		rules = append(rules, Rule{Pattern: strings.ToLower(r.Pattern), Category: r.Category})
	}
	p.rules = rules

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "categorizer"
}

// Rules returns a copy of the active rule table.
func (p *Processor) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Categorize returns the category of the first rule matching source,
// or general when none does.
func (p *Processor) Categorize(source string) domain.Category {
	lower := strings.ToLower(source)
	for _, r := range p.rules {
		if strings.Contains(lower, r.Pattern) {
			return r.Category
		}
	}
	return p.fallback
}

// Process stamps every chunk with the category of its source.
func (p *Processor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	for i := range chunks {
		chunks[i].Category = p.Categorize(chunks[i].Source)
	}
	return chunks, nil
}
