package domain

// DefaultVideoExtensions are the recognised video extensions, lowercase and
// without the leading dot.
var DefaultVideoExtensions = []string{"mp4", "mkv", "avi", "mov", "webm", "flv", "wmv", "mpg", "mpeg", "m4v"}

// CandidateEntry is a scanned file paired with its pick count for one round.
type CandidateEntry struct {
	Path      string `json:"path"`
	PickCount int    `json:"pick_count"`
}

// Weight is the relative probability mass of the entry.
func (c CandidateEntry) Weight() float64 {
	return Weight(c.PickCount)
}

// Weight returns 1/(pickCount+1). Unpicked files weigh 1, the maximum.
// Negative counts are treated as zero.
func Weight(pickCount int) float64 {
	if pickCount < 0 {
		pickCount = 0
	}
	return 1.0 / (float64(pickCount) + 1.0)
}

// NewCandidates pairs every path with its count in ledger, keeping the order
// of paths.
func NewCandidates(paths []string, ledger Ledger) []CandidateEntry {
	counts := make(map[string]int, len(paths))
	for _, entry := range ledger {
		counts[entry.Path]++
	}

	entries := make([]CandidateEntry, 0, len(paths))
	for _, path := range paths {
		entries = append(entries, CandidateEntry{Path: path, PickCount: counts[path]})
	}
	return entries
}

// ScanRecord is the single cached scan result, valid only for Root.
type ScanRecord struct {
	Root       string
	Candidates []string
}

// Metadata is the best-effort probe result for a picked file.
type Metadata struct {
	Resolution string `json:"resolution,omitempty"`
	Duration   string `json:"duration,omitempty"`
}
