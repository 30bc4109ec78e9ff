package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/bnema/teamrelay/internal/domain"
)

var (
	hireOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	hireFailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type hireDoneMsg struct {
	err error
}

// hireModel draws the spinner while a new worker boots. Startup is a
// sequence of timed keystrokes, so the view counts the seconds spent.
type hireModel struct {
	spinner spinner.Model
	name    domain.WorkerName
	start   time.Time
	now     time.Time
	task    tea.Cmd
	err     error
	done    bool
}

func newHireModel(name domain.WorkerName, start time.Time, task tea.Cmd) hireModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return hireModel{
		spinner: s,
		name:    name,
		start:   start,
		now:     start,
		task:    task,
	}
}

func (m hireModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.task)
}

func (m hireModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.now = time.Now()
		return m, cmd
	case hireDoneMsg:
		m.done = true
		m.err = msg.err
		m.now = time.Now()
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m hireModel) View() string {
	elapsed := m.now.Sub(m.start).Truncate(time.Second)
	switch {
	case !m.done:
		return fmt.Sprintf("%s Hiring %s... %s", m.spinner.View(), m.name, elapsed)
	case m.err != nil:
		return hireFailStyle.Render(fmt.Sprintf("✗ Hiring %s failed after %s", m.name, elapsed)) + "\n"
	default:
		return hireOKStyle.Render(fmt.Sprintf("✓ %s started in %s", m.name, elapsed)) + "\n"
	}
}

// runHireSpinner runs task with a spinner on output. Output that is not a
// terminal gets no animation.
func runHireSpinner(ctx context.Context, output io.Writer, name domain.WorkerName, task func(context.Context) error) error {
	if f, ok := output.(*os.File); !ok || !term.IsTerminal(f.Fd()) {
		return task(ctx)
	}

	taskCmd := func() tea.Msg {
		return hireDoneMsg{err: task(ctx)}
	}

	p := tea.NewProgram(
		newHireModel(name, time.Now(), taskCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(hireModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
