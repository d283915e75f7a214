package application

import (
	"context"

	"github.com/bnema/random-video-picker/internal/domain"
	"github.com/bnema/random-video-picker/internal/ports"
)

// ScanCache remembers the most recent scan. It holds at most one record and
// is owned by a single session, so it does no locking.
type ScanCache struct {
	record *domain.ScanRecord
}

// GetOrScan returns the cached candidates when the record was built for root.
// Otherwise it scans; a failed scan leaves the cache empty.
func (c *ScanCache) GetOrScan(ctx context.Context, root string, recursive bool, scanner ports.Scanner) ([]string, error) {
	if c.record != nil && c.record.Root == root {
		return c.record.Candidates, nil
	}

	c.record = nil
	candidates, err := scanner.Scan(ctx, root, recursive)
	if err != nil {
		return nil, err
	}
	if candidates == nil {
		candidates = []string{}
	}

	c.record = &domain.ScanRecord{Root: root, Candidates: candidates}
	return candidates, nil
}

func (c *ScanCache) Invalidate() {
	c.record = nil
}

// Cached returns the live record, if any.
func (c *ScanCache) Cached() (domain.ScanRecord, bool) {
	if c.record == nil {
		return domain.ScanRecord{}, false
	}
	return *c.record, true
}
