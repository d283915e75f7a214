package domain

// Pick is what the session shows after a selection round.
type Pick struct {
	Entry     CandidateEntry
	Metadata  *Metadata
	StreamURL string
}
