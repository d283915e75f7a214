// Package selection holds the one value shared between the interactive
// session and the stream responder.
package selection

import "sync"

// Slot stores the path currently exposed for streaming. All access goes
// through Set, Get and Clear; the lock is held only to copy the string.
type Slot struct {
	mu      sync.RWMutex
	current string
	set     bool
}

func NewSlot() *Slot {
	return &Slot{}
}

// Set replaces the current selection.
func (s *Slot) Set(path string) {
	s.mu.Lock()
	s.current = path
	s.set = true
	s.mu.Unlock()
}

// Get returns the current selection and whether one exists.
func (s *Slot) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current, s.set
}

// Clear drops the current selection.
func (s *Slot) Clear() {
	s.mu.Lock()
	s.current = ""
	s.set = false
	s.mu.Unlock()
}
