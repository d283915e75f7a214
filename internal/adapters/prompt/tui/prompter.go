// Package tui implements the interactive prompts with bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/random-video-picker/internal/domain"
	"github.com/bnema/random-video-picker/internal/ports"
)

// HistoryLimit caps how many entries the history view lists.
const HistoryLimit = 20

var ErrUnexpectedModel = errors.New("unexpected final bubbletea model type")

type Prompter struct {
	input       io.Reader
	output      io.Writer
	placeholder string
	location    *time.Location
}

var _ ports.Prompter = (*Prompter)(nil)

type Option func(*Prompter)

// WithPlaceholder sets the hint shown in the empty folder prompt.
func WithPlaceholder(placeholder string) Option {
	return func(p *Prompter) {
		p.placeholder = placeholder
	}
}

// WithLocation sets the time zone history timestamps are shown in.
func WithLocation(location *time.Location) Option {
	return func(p *Prompter) {
		p.location = location
	}
}

func NewPrompter(input io.Reader, output io.Writer, opts ...Option) *Prompter {
	p := &Prompter{
		input:       input,
		output:      output,
		placeholder: "~/Videos",
		location:    time.Local,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Prompter) AskRoot(ctx context.Context) (string, error) {
	final, err := p.run(ctx, newRootModel(p.placeholder))
	if err != nil {
		return "", err
	}

	result, ok := final.(rootModel)
	if !ok {
		return "", fmt.Errorf("%w: %T", ErrUnexpectedModel, final)
	}
	if result.cancelled {
		return "", domain.ErrPromptCancelled
	}

	return result.value, nil
}

func (p *Prompter) Choose(ctx context.Context, title string, options []string) (int, error) {
	final, err := p.run(ctx, newChooseModel(title, options))
	if err != nil {
		return -1, err
	}

	result, ok := final.(chooseModel)
	if !ok {
		return -1, fmt.Errorf("%w: %T", ErrUnexpectedModel, final)
	}
	if result.cancelled {
		return -1, domain.ErrPromptCancelled
	}

	return result.chosen, nil
}

func (p *Prompter) ShowHistory(ctx context.Context, ledger domain.Ledger) error {
	if len(ledger) == 0 {
		_, err := fmt.Fprintln(p.output, newStyles().empty.Render("No history yet."))
		return err
	}

	_, err := p.run(ctx, newHistoryModel(ledger.Recent(HistoryLimit), p.location))
	return err
}

func (p *Prompter) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	program := tea.NewProgram(
		model,
		tea.WithInput(p.input),
		tea.WithOutput(p.output),
		tea.WithContext(ctx),
	)

	final, err := program.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, fmt.Errorf("run prompt: %w", err)
	}

	return final, nil
}
