package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bnema/klientenportal-cli/internal/ports"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	elapsedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type workflowDoneMsg struct {
	err error
}

type statusLineMsg string

// workflowSpinner animates while one portal workflow runs. Status lines are kept above the
// spinner so both can share a terminal.
type workflowSpinner struct {
	spinner spinner.Model
	clock   ports.Clock
	label   string
	started time.Time
	elapsed time.Duration
	lines   []string
	err     error
	done    bool
}

func newWorkflowSpinner(label string, clock ports.Clock) workflowSpinner {
	return workflowSpinner{
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(spinnerStyle)),
		clock:   clock,
		label:   label,
		started: clock.Now(),
	}
}

func (m workflowSpinner) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m workflowSpinner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.elapsed = m.clock.Now().Sub(m.started)
		return m, cmd
	case statusLineMsg:
		m.lines = append(m.lines, string(msg))
		return m, nil
	case workflowDoneMsg:
		m.done = true
		m.err = msg.err
		m.elapsed = m.clock.Now().Sub(m.started)
		return m, tea.Quit
	}

	return m, nil
}

func (m workflowSpinner) View() string {
	var b strings.Builder
	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	elapsed := elapsedStyle.Render(fmt.Sprintf("(%s)", m.elapsed.Round(100*time.Millisecond)))
	switch {
	case !m.done:
		fmt.Fprintf(&b, "%s %s %s", m.spinner.View(), m.label, elapsed)
	case m.err != nil:
		fmt.Fprintf(&b, "%s %s %s\n", failedStyle.Render("✗"), m.label, elapsed)
	}

	return b.String()
}

// programWriter hands reporter lines to a running spinner. Once the program stopped, lines go to
// fallback.
type programWriter struct {
	program  *tea.Program
	stopped  <-chan struct{}
	fallback io.Writer
}

func (w programWriter) Write(b []byte) (int, error) {
	select {
	case <-w.stopped:
		return w.fallback.Write(b)
	default:
	}

	w.program.Send(statusLineMsg(strings.TrimSuffix(string(b), "\n")))
	return len(b), nil
}

// runWithSpinner animates on stderr while run executes. Without a terminal, or with --verbose logs
// on stderr, run executes plainly.
func (a *app) runWithSpinner(ctx context.Context, stderr io.Writer, label string, run func(context.Context) error) error {
	if a.verbose || !isTerminal(stderr) {
		return run(ctx)
	}

	return spinWhile(ctx, stderr, a.reporter, a.clock, label, run)
}

// spinWhile returns only after run has returned, so browser cleanup inside run always completes.
// Interrupts reach run through ctx; the program installs no signal handler of its own.
func spinWhile(ctx context.Context, output io.Writer, reporter *writerReporter, clock ports.Clock, label string, run func(context.Context) error) error {
	p := tea.NewProgram(
		newWorkflowSpinner(label, clock),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)

	stopped := make(chan struct{})
	if reporter != nil && isTerminal(reporter.out) {
		previous := reporter.out
		reporter.redirect(programWriter{program: p, stopped: stopped, fallback: previous})
		defer reporter.redirect(previous)
	}

	result := make(chan error, 1)
	go func() {
		err := run(ctx)
		result <- err
		p.Send(workflowDoneMsg{err: err})
	}()

	_, programErr := p.Run()
	close(stopped)

	if err := <-result; err != nil {
		return err
	}
	if programErr != nil && !errors.Is(programErr, tea.ErrProgramKilled) {
		return fmt.Errorf("run spinner: %w", programErr)
	}

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && isatty.IsTerminal(f.Fd())
}
