package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bnema/random-video-picker/internal/domain"
	"github.com/bnema/random-video-picker/internal/ports"
)

type State int

const (
	StateAwaitingRoot State = iota
	StateScanning
	StateNoCandidates
	StateSelected
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateAwaitingRoot:
		return "awaiting_root"
	case StateScanning:
		return "scanning"
	case StateNoCandidates:
		return "no_candidates"
	case StateSelected:
		return "selected"
	case StateShuttingDown:
		return "shutting_down"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Event int

const (
	EventRootChosen Event = iota + 1
	EventScanFailed
	EventScanEmpty
	EventItemPicked
	EventUserRequestsAnother
	EventUserRequestsRescan
	EventUserRequestsNewRoot
	EventUserViewsHistory
	EventUserQuits
)

func (e Event) String() string {
	switch e {
	case EventRootChosen:
		return "root_chosen"
	case EventScanFailed:
		return "scan_failed"
	case EventScanEmpty:
		return "scan_empty"
	case EventItemPicked:
		return "item_picked"
	case EventUserRequestsAnother:
		return "user_requests_another"
	case EventUserRequestsRescan:
		return "user_requests_rescan"
	case EventUserRequestsNewRoot:
		return "user_requests_new_root"
	case EventUserViewsHistory:
		return "user_views_history"
	case EventUserQuits:
		return "user_quits"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

type transitionKey struct {
	from  State
	event Event
}

var transitions = map[transitionKey]State{
	{StateAwaitingRoot, EventRootChosen}: StateScanning,
	{StateAwaitingRoot, EventUserQuits}:  StateShuttingDown,

	{StateScanning, EventScanFailed}: StateAwaitingRoot,
	{StateScanning, EventScanEmpty}:  StateNoCandidates,
	{StateScanning, EventItemPicked}: StateSelected,
	{StateScanning, EventUserQuits}:  StateShuttingDown,

	{StateNoCandidates, EventUserRequestsRescan}:  StateScanning,
	{StateNoCandidates, EventUserRequestsNewRoot}: StateAwaitingRoot,
	{StateNoCandidates, EventUserViewsHistory}:    StateAwaitingRoot,
	{StateNoCandidates, EventUserQuits}:           StateShuttingDown,

	{StateSelected, EventUserRequestsAnother}: StateScanning,
	{StateSelected, EventUserRequestsRescan}:  StateScanning,
	{StateSelected, EventUserRequestsNewRoot}: StateAwaitingRoot,
	{StateSelected, EventUserViewsHistory}:    StateSelected,
	{StateSelected, EventUserQuits}:           StateShuttingDown,
}

// Transition returns the state reached from `from` on `event`.
func Transition(from State, event Event) (State, error) {
	next, ok := transitions[transitionKey{from: from, event: event}]
	if !ok {
		return from, fmt.Errorf("%w: %s on %s", domain.ErrInvalidTransition, event, from)
	}
	return next, nil
}

type menuItem struct {
	label string
	event Event
}

var (
	selectedMenu = []menuItem{
		{label: "Pick another from the same folder", event: EventUserRequestsAnother},
		{label: "Rescan this folder", event: EventUserRequestsRescan},
		{label: "Choose a different folder", event: EventUserRequestsNewRoot},
		{label: "View history", event: EventUserViewsHistory},
		{label: "Quit", event: EventUserQuits},
	}
	noCandidatesMenu = []menuItem{
		{label: "Choose another folder", event: EventUserRequestsNewRoot},
		{label: "Rescan this folder", event: EventUserRequestsRescan},
		{label: "View history", event: EventUserViewsHistory},
		{label: "Quit", event: EventUserQuits},
	}
)

type SessionDeps struct {
	Ledger    *LedgerService
	Selector  *Selector
	Scanner   ports.Scanner
	Prober    ports.MetadataProber
	Prompter  ports.Prompter
	Presenter ports.Presenter
	Publisher ports.SelectionPublisher
	// ExpandRoot turns user input such as "~/videos" into a path.
	ExpandRoot func(string) (string, error)
	Logger     *slog.Logger
}

type SessionOptions struct {
	InitialRoot string
	Recursive   bool
	StreamURL   string
}

// Session is the interactive loop. It owns the scan cache and the ledger;
// only the publisher is shared with other goroutines.
type Session struct {
	deps      SessionDeps
	state     State
	root      string
	recursive bool
	streamURL string
	cache     ScanCache
	ledger    domain.Ledger
	last      *domain.Pick
}

func NewSession(deps SessionDeps, opts SessionOptions, ledger domain.Ledger) *Session {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.ExpandRoot == nil {
		deps.ExpandRoot = func(path string) (string, error) { return path, nil }
	}
	if ledger == nil {
		ledger = domain.Ledger{}
	}

	return &Session{
		deps:      deps,
		state:     StateAwaitingRoot,
		root:      strings.TrimSpace(opts.InitialRoot),
		recursive: opts.Recursive,
		streamURL: opts.StreamURL,
		ledger:    ledger,
	}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Root() string {
	return s.root
}

func (s *Session) Ledger() domain.Ledger {
	return s.ledger
}

func (s *Session) LastPick() (domain.Pick, bool) {
	if s.last == nil {
		return domain.Pick{}, false
	}
	return *s.last, true
}

// Run steps the session until the user quits. Only fatal errors are returned.
func (s *Session) Run(ctx context.Context) error {
	for s.state != StateShuttingDown {
		if err := s.Step(ctx); err != nil {
			return err
		}
	}

	s.deps.Presenter.ShowGoodbye()
	return nil
}

// Step performs the work of the current state and applies the resulting event.
func (s *Session) Step(ctx context.Context) error {
	var (
		event Event
		err   error
	)

	switch s.state {
	case StateAwaitingRoot:
		event, err = s.awaitRoot(ctx)
	case StateScanning:
		event, err = s.scanAndPick(ctx)
	case StateNoCandidates:
		event, err = s.menu(ctx, "No videos found. What would you like to do?", noCandidatesMenu)
	case StateSelected:
		event, err = s.menu(ctx, "What next?", selectedMenu)
	case StateShuttingDown:
		return nil
	}
	if err != nil {
		return err
	}

	next, err := Transition(s.state, event)
	if err != nil {
		return err
	}
	s.deps.Logger.Debug("session transition", "from", s.state, "event", event, "to", next)
	s.state = next

	return nil
}

func (s *Session) awaitRoot(ctx context.Context) (Event, error) {
	root := s.root
	for root == "" {
		input, err := s.deps.Prompter.AskRoot(ctx)
		if err != nil {
			if isQuit(ctx, err) {
				return EventUserQuits, nil
			}
			return 0, fmt.Errorf("prompt for folder: %w", err)
		}
		root = strings.TrimSpace(input)
	}

	expanded, err := s.deps.ExpandRoot(root)
	if err != nil {
		// The scan will reject the raw value and send us back here.
		s.deps.Logger.Debug("expand folder path", "path", root, "error", err)
		expanded = root
	}
	if abs, err := filepath.Abs(expanded); err == nil {
		expanded = abs
	}

	if cached, ok := s.cache.Cached(); ok && cached.Root != expanded {
		s.cache.Invalidate()
	}
	s.root = expanded

	return EventRootChosen, nil
}

func (s *Session) scanAndPick(ctx context.Context) (Event, error) {
	candidates, err := s.cache.GetOrScan(ctx, s.root, s.recursive, s.deps.Scanner)
	if err != nil {
		if ctx.Err() != nil {
			return EventUserQuits, nil
		}
		s.deps.Logger.Debug("scan failed", "root", s.root, "kind", domain.KindOf(err), "error", err)
		s.deps.Presenter.ShowScanError(s.root, err)
		s.cache.Invalidate()
		s.root = ""
		return EventScanFailed, nil
	}

	if len(candidates) == 0 {
		s.deps.Presenter.ShowNoCandidates(s.root)
		return EventScanEmpty, nil
	}

	entry, err := s.deps.Selector.Select(candidates, s.ledger)
	if err != nil {
		return 0, err
	}

	pick := domain.Pick{Entry: entry, StreamURL: s.streamURL}
	if metadata, ok := s.probe(ctx, entry.Path); ok {
		pick.Metadata = &metadata
	}

	ledger, err := s.deps.Ledger.Record(ctx, s.ledger, entry.Path)
	s.ledger = ledger
	if err != nil {
		return 0, err
	}

	if s.deps.Publisher != nil {
		s.deps.Publisher.Set(entry.Path)
	}

	s.last = &pick
	s.deps.Presenter.ShowPick(pick)

	return EventItemPicked, nil
}

func (s *Session) probe(ctx context.Context, path string) (domain.Metadata, bool) {
	if s.deps.Prober == nil {
		return domain.Metadata{}, false
	}

	metadata, err := s.deps.Prober.Probe(ctx, path)
	if err != nil {
		s.deps.Logger.Debug("metadata probe failed", "path", path, "error", err)
		return domain.Metadata{}, false
	}

	return metadata, true
}

func (s *Session) menu(ctx context.Context, title string, items []menuItem) (Event, error) {
	labels := make([]string, 0, len(items))
	for _, item := range items {
		labels = append(labels, item.label)
	}

	choice, err := s.deps.Prompter.Choose(ctx, title, labels)
	if err != nil {
		if isQuit(ctx, err) {
			return EventUserQuits, nil
		}
		return 0, fmt.Errorf("prompt for next action: %w", err)
	}
	if choice < 0 || choice >= len(items) {
		return EventUserQuits, nil
	}

	event := items[choice].event
	switch event {
	case EventUserRequestsRescan:
		s.cache.Invalidate()
	case EventUserRequestsNewRoot:
		s.cache.Invalidate()
		s.root = ""
	case EventUserViewsHistory:
		if err := s.deps.Prompter.ShowHistory(ctx, s.ledger); err != nil && !isQuit(ctx, err) {
			return 0, fmt.Errorf("show history: %w", err)
		}
		if s.state == StateNoCandidates {
			s.cache.Invalidate()
			s.root = ""
		}
	}

	return event, nil
}

func isQuit(ctx context.Context, err error) bool {
	return errors.Is(err, domain.ErrPromptCancelled) || ctx.Err() != nil
}
