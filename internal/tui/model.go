// Package tui shows the progress of an organize run in the terminal.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"autosort/internal/errors"
	"autosort/internal/organize"
	"autosort/pkg/types"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const maxBarWidth = 60

// eventMsg wraps a progress event read from the organizer.
type eventMsg types.ProgressEvent

// closedMsg reports that the event channel closed without a final event.
type closedMsg struct{}

// Model is the bubbletea model of the progress view.
type Model struct {
	root    string
	events  <-chan types.ProgressEvent
	cancel  func()
	bar     progress.Model
	spinner spinner.Model

	last       types.ProgressEvent
	stats      types.RunStats
	failures   []string
	result     *types.RunResult
	cancelling bool
}

// New creates a model reading events until the final one. cancel is called
// when the user asks to stop.
func New(root string, events <-chan types.ProgressEvent, cancel func()) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StatusStyle

	return &Model{
		root:    root,
		events:  events,
		cancel:  cancel,
		bar:     progress.New(progress.WithGradient(barStart, barEnd), progress.WithWidth(maxBarWidth)),
		spinner: s,
	}
}

// Result returns the final run result, or nil before the run finished.
func (m *Model) Result() *types.RunResult {
	return m.result
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.result != nil {
				return m, tea.Quit
			}
			if !m.cancelling && m.cancel != nil {
				m.cancelling = true
				m.cancel()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-4, maxBarWidth)
		return m, nil

	case eventMsg:
		ev := types.ProgressEvent(msg)
		if ev.Done {
			m.result = ev.RunResult
			return m, tea.Quit
		}
		m.last = ev
		m.stats.Record(ev.Result)
		if ev.Result.Outcome.Failed() {
			m.failures = append(m.failures, filepath.Base(ev.File))
		}
		return m, m.waitForEvent()

	case closedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("autosort · "+m.root) + "\n\n")

	if m.result != nil {
		b.WriteString(m.summary())
		return App.Render(b.String()) + "\n"
	}

	if m.last.Total == 0 {
		b.WriteString(m.spinner.View() + StatusStyle.Render(" Scanning folder...") + "\n")
	} else {
		b.WriteString(m.bar.ViewAs(m.last.Percent/100) + "\n")
		b.WriteString(StatusStyle.Render(fmt.Sprintf("%s (%d/%d)", m.last.Description(), m.last.Index, m.last.Total)) + "\n")
	}
	b.WriteString(m.counters() + "\n")

	if m.cancelling {
		b.WriteString(WarnStyle.Render("Cancelling after the current file...") + "\n")
	} else {
		b.WriteString(StatusStyle.Render("q: cancel") + "\n")
	}
	return App.Render(b.String()) + "\n"
}

func (m *Model) counters() string {
	line := fmt.Sprintf("organized %d · skipped %d", m.stats.Moved, m.stats.Skipped)
	if m.stats.Errors > 0 {
		return line + " · " + ErrorStyle.Render(fmt.Sprintf("errors %d", m.stats.Errors))
	}
	return line + " · errors 0"
}

func (m *Model) summary() string {
	r := m.result
	var b strings.Builder
	switch r.Status {
	case types.StatusCompleted:
		b.WriteString(SuccessStyle.Render("Organization completed") + "\n")
	case types.StatusCancelled:
		b.WriteString(WarnStyle.Render("Organization cancelled") + "\n")
	default:
		b.WriteString(ErrorStyle.Render("Organization failed: "+r.ErrorMessage()) + "\n")
	}
	b.WriteString(fmt.Sprintf("Files processed: %d\n", r.Stats.Processed))
	b.WriteString(fmt.Sprintf("Files skipped:   %d\n", r.Stats.Skipped))
	b.WriteString(fmt.Sprintf("Errors:          %d\n", r.Stats.Errors))
	b.WriteString(fmt.Sprintf("Folders created: %d\n", r.Stats.FoldersCreated))
	if len(r.Conflicts) > 0 {
		b.WriteString(WarnStyle.Render(fmt.Sprintf("Conflicts:       %d", len(r.Conflicts))) + "\n")
	}
	if len(m.failures) > 0 {
		b.WriteString(ErrorStyle.Render("Failed: "+strings.Join(m.failures, ", ")) + "\n")
	}
	return b.String()
}

// Run organizes root with runner while showing the progress view, and
// returns the run result once the view exits.
func Run(ctx context.Context, runner organize.Runner, root string, opts ...tea.ProgramOption) (types.RunResult, error) {
	events := make(chan types.ProgressEvent)
	finished := make(chan types.RunResult, 1)
	go func() { finished <- runner.Run(ctx, root, events) }()

	m := New(root, events, runner.Cancel)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		runner.Cancel()
		go func() {
			for range events {
			}
		}()
		<-finished
		return types.RunResult{}, errors.Wrap(err, "progress view failed")
	}

	// The view may quit before the final event, e.g. on a second key press
	go func() {
		for range events {
		}
	}()
	return <-finished, nil
}
