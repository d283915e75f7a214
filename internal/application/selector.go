package application

import (
	"math/rand/v2"

	"github.com/bnema/random-video-picker/internal/domain"
	"github.com/bnema/random-video-picker/internal/ports"
)

type Selector struct {
	source ports.RandomSource
}

func NewSelector(source ports.RandomSource) *Selector {
	if source == nil {
		source = processSource{}
	}

	return &Selector{source: source}
}

// Select draws one candidate, weighting each by 1/(pickCount+1) where the
// count comes from ledger.
func (s *Selector) Select(candidates []string, ledger domain.Ledger) (domain.CandidateEntry, error) {
	if len(candidates) == 0 {
		return domain.CandidateEntry{}, domain.NewError(domain.KindSelectionImpossible, "select", "", domain.ErrEmptyCandidateSet)
	}

	entries := domain.NewCandidates(candidates, ledger)

	total := 0.0
	for _, entry := range entries {
		total += entry.Weight()
	}

	target := s.source.Float64() * total
	cumulative := 0.0
	for _, entry := range entries {
		cumulative += entry.Weight()
		if target < cumulative {
			return entry, nil
		}
	}

	// Rounding can leave target equal to the final sum.
	return entries[len(entries)-1], nil
}

type processSource struct{}

func (processSource) Float64() float64 {
	return rand.Float64()
}
