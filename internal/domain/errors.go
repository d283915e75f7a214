package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCandidateSet = errors.New("no candidates to select from")
	ErrNotADirectory     = errors.New("path is not a directory")
	ErrCorruptLedger     = errors.New("history ledger is corrupt")
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrPromptCancelled   = errors.New("prompt cancelled")
)

// Kind classifies failures by how the program reacts to them.
type Kind int

const (
	// KindRecoverable failures are logged and replaced by a default.
	KindRecoverable Kind = iota + 1
	// KindInvalidRoot means the scan root is missing, unreadable or not a directory.
	KindInvalidRoot
	// KindScanFailed means traversal failed part way through.
	KindScanFailed
	// KindSelectionImpossible means the selector was handed nothing to choose from.
	KindSelectionImpossible
	// KindInfrastructure disables an optional capability for the session.
	KindInfrastructure
	// KindFatal terminates the process.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindRecoverable:
		return "recoverable"
	case KindInvalidRoot:
		return "invalid root"
	case KindScanFailed:
		return "scan failed"
	case KindSelectionImpossible:
		return "selection impossible"
	case KindInfrastructure:
		return "infrastructure"
	case KindFatal:
		return "fatal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error carries a Kind plus the operation and path that failed.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s %q: %s", e.Op, e.Path, e.Kind)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an *Error.
func NewError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf reports the Kind of the first *Error in err's chain, or zero when
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsFatal reports whether err must terminate the process. Errors without a
// Kind are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	kind := KindOf(err)
	return kind == 0 || kind == KindFatal
}
