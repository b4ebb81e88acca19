package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilDependencies(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
	assert.Nil(t, bar.Init())
}

func TestStatusBar_Update(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_Setters(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetState(StateRetrieving)
	bar.SetMessage("hello")
	bar.SetResultCount(3)
	bar.SetWidth(120)

	assert.Equal(t, StateRetrieving, bar.State())
	assert.Equal(t, "hello", bar.Message())
	assert.Equal(t, 3, bar.ResultCount())
	assert.Equal(t, 120, bar.Width())

	bar.Clear()
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(b *Bar)
		want    string
		notWant string
	}{
		{"ready", func(_ *Bar) {}, "Ready", ""},
		{"retrieving", func(b *Bar) { b.SetState(StateRetrieving) }, "Retrieving...", ""},
		{"error", func(b *Bar) { b.SetState(StateError) }, "Error", ""},
		{"error with message", func(b *Bar) {
			b.SetState(StateError)
			b.SetMessage("connection refused")
		}, "Error: connection refused", ""},
		{"help", func(b *Bar) { b.SetState(StateHelp) }, "Help", ""},
		{"empty", func(b *Bar) {
			b.SetState(StateEmpty)
			b.SetThreshold(0.3)
		}, "No results above 0.30", ""},
		{"results", func(b *Bar) {
			b.SetState(StateResults)
			b.SetResultCount(5)
			b.SetThreshold(0.3)
		}, "5 results (threshold 0.30)", "Ready"},
		{"results show result keys", func(b *Bar) {
			b.SetState(StateResults)
			b.SetResultCount(1)
		}, "expand", ""},
		{"default keys", func(_ *Bar) {}, "quit", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			tt.setup(bar)

			view := bar.View()

			assert.Contains(t, view, tt.want)
			if tt.notWant != "" {
				assert.NotContains(t, view, tt.notWant)
			}
		})
	}
}

func TestState_Constants(t *testing.T) {
	assert.Equal(t, State("ready"), StateReady)
	assert.Equal(t, State("retrieving"), StateRetrieving)
	assert.Equal(t, State("error"), StateError)
	assert.Equal(t, State("help"), StateHelp)
	assert.Equal(t, State("results"), StateResults)
	assert.Equal(t, State("empty"), StateEmpty)
}
