package progress

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/CrestNiraj12/tumblrpost/app"
	"github.com/CrestNiraj12/tumblrpost/tui/common"
)

// Enabled reports whether the spinner should be drawn on f.
func Enabled(f *os.File, disabled bool) bool {
	if disabled || f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Program runs the progress view next to a publish operation and
// implements app.Observer.
type Program struct {
	p    *tea.Program
	done chan struct{}
}

// Start launches the view on out. Pressing the cancel key calls cancel.
func Start(ctx context.Context, out io.Writer, cancel context.CancelFunc) *Program {
	opts := []tea.ProgramOption{
		tea.WithOutput(out),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		opts = append(opts, tea.WithInput(nil))
	}
	styles := common.NewStyles(lipgloss.NewRenderer(out))
	pr := &Program{
		p:    tea.NewProgram(New(styles, cancel), opts...),
		done: make(chan struct{}),
	}
	go func() {
		defer close(pr.done)
		_, _ = pr.p.Run()
	}()
	return pr
}

// Observe forwards e to the view.
func (pr *Program) Observe(e app.Event) {
	pr.p.Send(EventMsg(e))
}

// Stop ends the view and waits until the terminal is restored.
func (pr *Program) Stop() {
	pr.p.Send(finishMsg{})
	<-pr.done
}
