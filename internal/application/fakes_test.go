package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bnema/random-video-picker/internal/domain"
)

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

// tickingClock advances by one second on every call.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixedSource struct {
	value float64
}

func (f fixedSource) Float64() float64 {
	return f.value
}

type inMemoryLedgerStore struct {
	ledger  domain.Ledger
	loadErr error
	saveErr error
	saves   int
}

func (s *inMemoryLedgerStore) Load(_ context.Context) (domain.Ledger, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append(domain.Ledger(nil), s.ledger...), nil
}

func (s *inMemoryLedgerStore) Save(_ context.Context, ledger domain.Ledger) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.ledger = append(domain.Ledger(nil), ledger...)
	return nil
}

type countingScanner struct {
	results map[string][]string
	err     error
	calls   int
	roots   []string
}

func (s *countingScanner) Scan(_ context.Context, root string, _ bool) ([]string, error) {
	s.calls++
	s.roots = append(s.roots, root)
	if s.err != nil {
		return nil, s.err
	}
	result, ok := s.results[root]
	if !ok {
		return nil, domain.NewError(domain.KindInvalidRoot, "scan", root, domain.ErrNotADirectory)
	}
	return result, nil
}

type scriptedPrompter struct {
	roots        []string
	choices      []int
	rootCalls    int
	historyCalls int
	titles       []string
}

func (p *scriptedPrompter) AskRoot(_ context.Context) (string, error) {
	p.rootCalls++
	if len(p.roots) == 0 {
		return "", domain.ErrPromptCancelled
	}
	root := p.roots[0]
	p.roots = p.roots[1:]
	return root, nil
}

func (p *scriptedPrompter) Choose(_ context.Context, title string, _ []string) (int, error) {
	p.titles = append(p.titles, title)
	if len(p.choices) == 0 {
		return 0, domain.ErrPromptCancelled
	}
	choice := p.choices[0]
	p.choices = p.choices[1:]
	return choice, nil
}

func (p *scriptedPrompter) ShowHistory(_ context.Context, _ domain.Ledger) error {
	p.historyCalls++
	return nil
}

type recordingPresenter struct {
	picks        []domain.Pick
	scanErrors   []error
	emptyRoots   []string
	goodbyeCalls int
}

func (p *recordingPresenter) ShowPick(pick domain.Pick) {
	p.picks = append(p.picks, pick)
}

func (p *recordingPresenter) ShowScanError(_ string, err error) {
	p.scanErrors = append(p.scanErrors, err)
}

func (p *recordingPresenter) ShowNoCandidates(root string) {
	p.emptyRoots = append(p.emptyRoots, root)
}

func (p *recordingPresenter) ShowGoodbye() {
	p.goodbyeCalls++
}

type recordingPublisher struct {
	paths []string
}

func (p *recordingPublisher) Set(path string) {
	p.paths = append(p.paths, path)
}

type stubProber struct {
	metadata domain.Metadata
	err      error
}

func (p stubProber) Probe(_ context.Context, _ string) (domain.Metadata, error) {
	return p.metadata, p.err
}

var errDiskFull = errors.New("disk full")
