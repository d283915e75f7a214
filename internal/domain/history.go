package domain

import (
	"sort"
	"time"
)

// HistoryEntry records a single pick. Entries are never mutated after creation.
type HistoryEntry struct {
	Path     string    `json:"path"`
	PickedAt time.Time `json:"picked_at"`
}

// Ledger is the ordered log of past picks. Duplicate paths are expected: each
// entry counts as one pick.
type Ledger []HistoryEntry

// Count returns how many entries match path exactly.
func (l Ledger) Count(path string) int {
	count := 0
	for _, entry := range l {
		if entry.Path == path {
			count++
		}
	}
	return count
}

// Append returns a new ledger containing entry, sorted newest first. The
// receiver is left untouched.
func (l Ledger) Append(entry HistoryEntry) Ledger {
	next := make(Ledger, 0, len(l)+1)
	next = append(next, l...)
	next = append(next, entry)
	next.SortNewestFirst()
	return next
}

// SortNewestFirst orders entries descending by PickedAt. Entries with equal
// timestamps keep their relative order.
func (l Ledger) SortNewestFirst() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].PickedAt.After(l[j].PickedAt)
	})
}

// Recent returns at most limit entries from the front of the ledger.
func (l Ledger) Recent(limit int) Ledger {
	if limit <= 0 || limit >= len(l) {
		return l
	}
	return l[:limit]
}
