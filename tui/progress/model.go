package progress

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/tumblrpost/app"
	"github.com/CrestNiraj12/tumblrpost/tui/common"
)

// EventMsg carries a publish progress event into the program.
type EventMsg app.Event

type finishMsg struct{}

// Model renders a spinner next to the current publish stage.
type Model struct {
	spinner spinner.Model
	styles  common.Styles
	keys    common.KeyMap
	cancel  context.CancelFunc

	last     app.Event
	seen     bool
	finished bool
}

// New creates the progress model. cancel is invoked when the user aborts.
func New(styles common.Styles, cancel context.CancelFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner
	return Model{
		spinner: s,
		styles:  styles,
		keys:    common.DefaultKeyMap(),
		cancel:  cancel,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Cancel) {
			if m.cancel != nil {
				m.cancel()
			}
			m.finished = true
			return m, tea.Quit
		}
	case EventMsg:
		m.last = app.Event(msg)
		m.seen = true
		if m.last.Stage == app.StageDone || m.last.Stage == app.StageFailed {
			m.finished = true
			return m, tea.Quit
		}
	case finishMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

// View clears itself once finished so the final result lines stand alone.
func (m Model) View() string {
	if m.finished {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	if !m.seen {
		b.WriteString("starting...")
	} else {
		b.WriteString(describe(m.last))
	}
	b.WriteString("  ")
	b.WriteString(m.styles.Muted.Render(m.keys.ShortHelp()))
	return b.String()
}

func describe(e app.Event) string {
	s := fmt.Sprintf("%s: %s", e.Op, e.Stage)
	if e.Attempt > 0 {
		s += fmt.Sprintf(" (%d/%d)", e.Attempt, e.MaxAttempts)
	}
	if e.PostID != "" {
		s += " id " + e.PostID
	}
	return s
}
