package list

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragindex/internal/core/domain"
)

func testResults() []domain.QueryResult {
	return []domain.QueryResult{
		{
			ID:    1,
			Score: 0.82,
			Payload: domain.Payload{
				Content:  "gNMI Subscribe opens a stream of telemetry updates",
				Source:   "docs/gnmi/subscribe.md",
				Category: domain.CategoryGNMI,
			},
		},
		{
			ID:    4,
			Score: 0.41,
			Payload: domain.Payload{
				Content:  "YANG models describe the configuration tree",
				Source:   "docs/yang/models.md",
				Category: domain.CategoryYANG,
			},
		},
		{
			ID:    9,
			Score: 0.33,
			Payload: domain.Payload{
				Content:  "Use grpcurl to inspect services",
				Source:   "docs/debugging/grpcurl.md",
				Category: domain.CategoryDebugging,
			},
		},
	}
}

func TestNewResultList(t *testing.T) {
	r := NewResultList(styles.DefaultStyles())

	require.NotNil(t, r)
	assert.True(t, r.IsEmpty())
	assert.Equal(t, 0, r.Selected())
	assert.Nil(t, r.Init())

	assert.NotNil(t, NewResultList(nil).styles)
}

func TestResultList_SetResults(t *testing.T) {
	r := NewResultList(nil)
	r.SetSelected(0)

	r.SetResults(testResults())

	assert.Equal(t, 3, r.Count())
	assert.Equal(t, 0, r.Selected())
	assert.False(t, r.Expanded())
	assert.Len(t, r.Results(), 3)
}

func TestResultList_SetSelected(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(testResults())

	r.SetSelected(2)
	assert.Equal(t, 2, r.Selected())

	r.SetSelected(10)
	assert.Equal(t, 2, r.Selected())

	r.SetSelected(-1)
	assert.Equal(t, 2, r.Selected())
}

func TestResultList_SelectedResult(t *testing.T) {
	r := NewResultList(nil)
	assert.Nil(t, r.SelectedResult())

	r.SetResults(testResults())
	r.SetSelected(1)

	selected := r.SelectedResult()
	require.NotNil(t, selected)
	assert.Equal(t, int64(4), selected.ID)
}

func TestResultList_Navigation(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(testResults())

	r.MoveUp()
	assert.Equal(t, 0, r.Selected(), "stays at top")

	r.MoveDown()
	r.MoveDown()
	r.MoveDown()
	assert.Equal(t, 2, r.Selected(), "stays at bottom")

	r.MoveUp()
	assert.Equal(t, 1, r.Selected())
}

func TestResultList_Update_Keys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want int
	}{
		{"down arrow", tea.KeyMsg{Type: tea.KeyDown}, 2},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, 0},
		{"j", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, 2},
		{"k", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResultList(nil)
			r.SetResults(testResults())
			r.SetSelected(1)

			updated, cmd := r.Update(tt.msg)

			assert.Nil(t, cmd)
			assert.Equal(t, tt.want, updated.Selected())
		})
	}
}

func TestResultList_ToggleExpanded(t *testing.T) {
	r := NewResultList(nil)

	r.ToggleExpanded()
	assert.False(t, r.Expanded(), "nothing to expand")

	r.SetResults(testResults())
	r.ToggleExpanded()
	assert.True(t, r.Expanded())

	r.MoveDown()
	assert.False(t, r.Expanded(), "moving collapses")
}

func TestResultList_View_Empty(t *testing.T) {
	assert.Contains(t, NewResultList(nil).View(), "No results")
}

func TestResultList_View_WithResults(t *testing.T) {
	r := NewResultList(nil)
	r.SetDimensions(100, 40)
	r.SetResults(testResults())

	view := r.View()

	assert.Contains(t, view, "Results (3)")
	assert.Contains(t, view, "subscribe.md")
	assert.Contains(t, view, "docs/gnmi/subscribe.md")
	assert.Contains(t, view, "0.820")
	assert.Contains(t, view, "[gnmi]")
	assert.Contains(t, view, "> ")
}

func TestResultList_View_ExpandedShowsFullContent(t *testing.T) {
	long := strings.Repeat("telemetry ", 30)
	r := NewResultList(nil)
	r.SetDimensions(60, 20)
	r.SetResults([]domain.QueryResult{{ID: 1, Score: 0.9, Payload: domain.Payload{Content: long, Source: "a.md"}}})

	assert.NotContains(t, r.View(), long)
	assert.Contains(t, r.View(), "...")

	r.ToggleExpanded()
	assert.Contains(t, r.View(), long)
}

func TestResultList_Dimensions(t *testing.T) {
	r := NewResultList(nil)
	assert.Equal(t, 80, r.Width())
	assert.Equal(t, 10, r.Height())

	r.SetDimensions(120, 30)
	assert.Equal(t, 120, r.Width())
	assert.Equal(t, 30, r.Height())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééé...", truncate("éééééééé", 6))
}
