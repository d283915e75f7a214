package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bnema/random-video-picker/internal/domain"
	"github.com/bnema/random-video-picker/internal/ports"
)

type LedgerService struct {
	store  ports.LedgerStore
	clock  ports.Clock
	logger *slog.Logger
}

func NewLedgerService(store ports.LedgerStore, clock ports.Clock, logger *slog.Logger) *LedgerService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &LedgerService{store: store, clock: clock, logger: logger}
}

// Load reads the persisted ledger newest first. A corrupt ledger is logged and
// replaced by an empty one so the session can still start.
func (s *LedgerService) Load(ctx context.Context) (domain.Ledger, error) {
	ledger, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptLedger) {
			s.logger.Warn("could not parse history, starting with empty history", "error", err)
			return domain.Ledger{}, nil
		}
		return nil, domain.NewError(domain.KindFatal, "load history", "", err)
	}
	if ledger == nil {
		return domain.Ledger{}, nil
	}
	ledger.SortNewestFirst()

	return ledger, nil
}

// Record appends path stamped with the current time and persists the full
// ledger. The returned ledger includes the new entry even when saving fails.
func (s *LedgerService) Record(ctx context.Context, ledger domain.Ledger, path string) (domain.Ledger, error) {
	next := ledger.Append(domain.HistoryEntry{Path: path, PickedAt: s.clock.Now()})

	if err := s.store.Save(ctx, next); err != nil {
		return next, domain.NewError(domain.KindFatal, "save history", path, err)
	}

	return next, nil
}
