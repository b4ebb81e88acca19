// Package runs provides the run ledger view for the TUI.
package runs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
)

// listLimit bounds how many runs are loaded.
const listLimit = 25

// ErrNoRunService indicates that the run ledger is not available.
var ErrNoRunService = errors.New("run ledger not available")

// View lists recent pipeline runs, newest first.
type View struct {
	styles     *styles.Styles
	runService driving.RunService

	runs     []domain.Run
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new runs view.
func NewView(s *styles.Styles, runService driving.RunService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:     s,
		runService: runService,
	}
}

// Init loads the runs.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadRuns()
}

func (v *View) loadRuns() tea.Cmd {
	return func() tea.Msg {
		if v.runService == nil {
			return messages.RunsLoaded{Err: ErrNoRunService}
		}
		runs, err := v.runService.Recent(context.Background(), listLimit)
		return messages.RunsLoaded{Runs: runs, Err: err}
	}
}

// Update handles messages for the runs view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.RunsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.runs = msg.Runs
		v.err = nil
		if v.selected >= len(v.runs) {
			v.selected = 0
		}
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.runs)-1 {
			v.selected++
		}
	case "r":
		return v, v.Init()
	}
	return v, nil
}

// View renders the runs view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Runs"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading runs..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.runs) == 0:
		b.WriteString(v.styles.Muted.Render("No runs recorded. Run `ragindex index` first."))
	default:
		for i := range v.runs {
			b.WriteString(v.renderRun(i, &v.runs[i]))
			b.WriteString("\n")
		}
		if run := v.SelectedRun(); run != nil && run.Error != "" {
			b.WriteString("\n")
			b.WriteString(v.styles.Error.Render(run.Error))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] navigate  [r] reload  [esc] back"))
	return b.String()
}

// renderRun formats: > stage  status  completed/total  started  [partial]
func (v *View) renderRun(index int, run *domain.Run) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	progress := fmt.Sprintf("%d/%d", run.Completed, run.Total)
	started := run.StartedAt.Local().Format(time.DateTime)
	line := fmt.Sprintf("%s%-8s %-9s %-11s %s", indicator, run.Stage, run.Status, progress, started)
	if run.Model != "" {
		line += "  " + run.Model
	}

	if index == v.selected {
		line = v.styles.Selected.Render(line)
	} else {
		line = v.statusStyle(run).Render(line)
	}
	if run.Partial() {
		line += " " + v.styles.Warning.Render("[partial]")
	}
	return line
}

func (v *View) statusStyle(run *domain.Run) lipgloss.Style {
	switch run.Status {
	case domain.RunStatusComplete:
		return v.styles.Normal
	case domain.RunStatusFailed:
		return v.styles.Error
	default:
		return v.styles.Warning
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Runs returns the loaded runs.
func (v *View) Runs() []domain.Run {
	return v.runs
}

// SelectedIndex returns the selected row.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedRun returns the selected run, or nil if none.
func (v *View) SelectedRun() *domain.Run {
	if v.selected < 0 || v.selected >= len(v.runs) {
		return nil
	}
	return &v.runs[v.selected]
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
