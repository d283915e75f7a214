package ports

import (
	"context"

	"github.com/bnema/random-video-picker/internal/domain"
)

// Prompter asks the user for input. Implementations return
// domain.ErrPromptCancelled when the user backs out.
type Prompter interface {
	AskRoot(ctx context.Context) (string, error)
	Choose(ctx context.Context, title string, options []string) (int, error)
	ShowHistory(ctx context.Context, ledger domain.Ledger) error
}

type Presenter interface {
	ShowPick(pick domain.Pick)
	ShowScanError(root string, err error)
	ShowNoCandidates(root string)
	ShowGoodbye()
}

// SelectionPublisher receives the path that should be served to remote players.
type SelectionPublisher interface {
	Set(path string)
}
