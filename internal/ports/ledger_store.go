package ports

import (
	"context"

	"github.com/bnema/random-video-picker/internal/domain"
)

// LedgerStore persists the whole ledger at once. Load returns an empty ledger
// when nothing has been saved yet.
type LedgerStore interface {
	Load(ctx context.Context) (domain.Ledger, error)
	Save(ctx context.Context, ledger domain.Ledger) error
}
