package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/bnema/random-video-picker/internal/ports"
)

type scanDoneMsg struct {
	paths []string
	err   error
}

type scanSpinnerModel struct {
	spinner spinner.Model
	label   string
	scan    tea.Cmd
	paths   []string
	err     error
	done    bool
}

func newScanSpinnerModel(label string, scan tea.Cmd) scanSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return scanSpinnerModel{
		spinner: s,
		label:   label,
		scan:    scan,
	}
}

func (m scanSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.scan)
}

func (m scanSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case scanDoneMsg:
		m.done = true
		m.paths = msg.paths
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m scanSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// newSpinnerScanner shows a spinner while inner walks a folder. Output that
// is not a terminal gets inner unchanged.
func newSpinnerScanner(inner ports.Scanner, output io.Writer) ports.Scanner {
	if !isTerminal(output) {
		return inner
	}

	return ports.ScannerFunc(func(ctx context.Context, root string, recursive bool) ([]string, error) {
		return runScanSpinner(ctx, output, root, func(ctx context.Context) ([]string, error) {
			return inner.Scan(ctx, root, recursive)
		})
	})
}

func runScanSpinner(ctx context.Context, output io.Writer, root string, scan func(context.Context) ([]string, error)) ([]string, error) {
	scanCmd := func() tea.Msg {
		paths, err := scan(ctx)
		return scanDoneMsg{paths: paths, err: err}
	}

	p := tea.NewProgram(
		newScanSpinnerModel(fmt.Sprintf("Scanning %s...", root), scanCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}

	result, ok := finalModel.(scanSpinnerModel)
	if !ok {
		return nil, fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.paths, result.err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
