package quality

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

const prose = "The gNMI protocol defines a set of RPCs for streaming telemetry from network devices."

func TestFilter_Accept(t *testing.T) {
	f := NewDefault()

	tests := []struct {
		name    string
		content string
		ok      bool
		reason  Reason
	}{
		{"prose", prose, true, ReasonNone},
		{"empty", "", false, ReasonEmpty},
		{"too short", "short text with spaces", false, ReasonTooShort},
		{"no spaces", strings.Repeat("abcdefghij", 10), false, ReasonFewSpaces},
		{"symbols", strings.Repeat("{} [] () => ;; ", 8), false, ReasonFewLetters},
		{"digits", strings.Repeat("1234 5678 ", 10), false, ReasonFewLetters},
		{"unicode letters", strings.Repeat("größe überall ", 6), true, ReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := f.Accept(tt.content)
			if ok != tt.ok || reason != tt.reason {
				t.Errorf("Accept() = (%v, %q), want (%v, %q)", ok, reason, tt.ok, tt.reason)
			}
		})
	}
}

func TestFilter_Accept_Boundaries(t *testing.T) {
	f := NewDefault()

	// Exactly MinLength characters is kept.
	exact := strings.Repeat("abcd ", 10)
	if len(exact) != 50 {
		t.Fatalf("fixture length %d", len(exact))
	}
	if ok, reason := f.Accept(exact); !ok {
		t.Errorf("expected 50 chars to pass, rejected with %q", reason)
	}
	if ok, _ := f.Accept(exact[:49]); ok {
		t.Error("expected 49 chars to be rejected")
	}

	// Length counts characters, not bytes.
	runes := strings.Repeat("éééé ", 9)
	if ok, reason := f.Accept(runes); ok || reason != ReasonTooShort {
		t.Errorf("expected 45 characters to be too short, got (%v, %q)", ok, reason)
	}
}

func TestFilter_Accept_Tunable(t *testing.T) {
	f, err := New(domain.QualitySettings{MinLength: 5, MinSpaceRatio: 0, MinAlphaRatio: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok, _ := f.Accept("12345"); !ok {
		t.Error("expected relaxed thresholds to accept digits")
	}
	if ok, reason := f.Accept(""); ok || reason != ReasonEmpty {
		t.Error("empty content must always be rejected")
	}
}

func TestNew_InvalidSettings(t *testing.T) {
	_, err := New(domain.QualitySettings{MinLength: 50, MinSpaceRatio: 1.5, MinAlphaRatio: 0.3})
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestFilter_Filter_Subset(t *testing.T) {
	f := NewDefault()
	chunks := []domain.Chunk{
		{ID: 1, Content: prose, Source: "a.md"},
		{ID: 2, Content: "tiny", Source: "a.md"},
		{ID: 3, Content: strings.Repeat("x", 80), Source: "b.md"},
		{ID: 4, Content: prose + " More prose follows here.", Source: "b.md", ChunkIndex: 1},
	}

	kept := f.Filter(chunks)
	if len(kept) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(kept))
	}
	if kept[0].ID != 1 || kept[1].ID != 4 {
		t.Errorf("expected order [1 4], got [%d %d]", kept[0].ID, kept[1].ID)
	}
	if kept[1].ChunkIndex != 1 || kept[1].Content != chunks[3].Content {
		t.Error("surviving chunk was modified")
	}

	// Every survivor passes, every rejected chunk fails at least one check.
	survivors := map[int64]bool{}
	for _, c := range kept {
		survivors[c.ID] = true
	}
	for _, c := range chunks {
		ok, _ := f.Accept(c.Content)
		if ok != survivors[c.ID] {
			t.Errorf("chunk %d: accept=%v kept=%v", c.ID, ok, survivors[c.ID])
		}
	}
}

func TestFilter_Filter_Empty(t *testing.T) {
	if kept := NewDefault().Filter(nil); len(kept) != 0 {
		t.Errorf("expected no chunks, got %d", len(kept))
	}
}

func TestFilter_Process(t *testing.T) {
	f := NewDefault()
	got, err := f.Process(context.Background(), nil, []domain.Chunk{{Content: prose}, {Content: ""}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 chunk, got %d", len(got))
	}
	if f.Name() != "quality" {
		t.Errorf("unexpected name %q", f.Name())
	}
}
