package application

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/bnema/random-video-picker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorRejectsEmptyCandidates(t *testing.T) {
	t.Parallel()

	ledger := domain.Ledger{{Path: "a"}}
	_, err := NewSelector(fixedSource{}).Select(nil, ledger)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyCandidateSet)
	assert.Equal(t, domain.KindSelectionImpossible, domain.KindOf(err))
	assert.Equal(t, domain.Ledger{{Path: "a"}}, ledger)
}

func TestSelectorSingleCandidateAlwaysWins(t *testing.T) {
	t.Parallel()

	ledger := make(domain.Ledger, 0, 50)
	for i := 0; i < 50; i++ {
		ledger = append(ledger, domain.HistoryEntry{Path: "/v/only.mp4", PickedAt: time.Unix(int64(i), 0)})
	}

	for _, value := range []float64{0, 0.25, 0.5, 0.999999} {
		got, err := NewSelector(fixedSource{value: value}).Select([]string{"/v/only.mp4"}, ledger)
		require.NoError(t, err)
		assert.Equal(t, domain.CandidateEntry{Path: "/v/only.mp4", PickCount: 50}, got)
	}
}

func TestSelectorDrawFollowsCumulativeWeights(t *testing.T) {
	t.Parallel()

	// Weights: a=1 (unpicked), b=0.5 (picked once), c=1. Total 2.5.
	candidates := []string{"a", "b", "c"}
	ledger := domain.Ledger{{Path: "b"}}

	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{name: "start of range", value: 0, want: "a"},
		{name: "end of a", value: 0.39, want: "a"},
		{name: "start of b", value: 0.41, want: "b"},
		{name: "end of b", value: 0.59, want: "b"},
		{name: "start of c", value: 0.61, want: "c"},
		{name: "top of range", value: 0.9999, want: "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSelector(fixedSource{value: tt.value}).Select(candidates, ledger)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Path)
		})
	}
}

func TestSelectorFavoursUnpickedCandidate(t *testing.T) {
	t.Parallel()

	candidates := []string{"fresh", "seen-1", "seen-2", "seen-3"}
	ledger := domain.Ledger{}
	for _, path := range candidates[1:] {
		for i := 0; i < 10; i++ {
			ledger = append(ledger, domain.HistoryEntry{Path: path})
		}
	}

	selector := NewSelector(rand.New(rand.NewPCG(42, 1024)))
	counts := map[string]int{}
	const draws = 20_000
	for i := 0; i < draws; i++ {
		got, err := selector.Select(candidates, ledger)
		require.NoError(t, err)
		counts[got.Path]++
	}

	// Expected share of "fresh": 1 / (1 + 3/11) ≈ 0.786.
	share := float64(counts["fresh"]) / draws
	assert.InDelta(t, 0.786, share, 0.03)
	for _, path := range candidates[1:] {
		assert.Greater(t, counts["fresh"], counts[path])
	}
}
