package main

import "errors"

var (
	ErrNotFound          = errors.New("element not found")
	ErrLocked            = errors.New("element is locked")
	ErrInvalid           = errors.New("invalid value")
	ErrBusy              = errors.New("export in progress")
	ErrFrameNotCommitted = errors.New("export frame not committed")
	ErrEmptyCapture      = errors.New("capture returned an empty image")
	ErrMalformed         = errors.New("malformed document")
)

// Result is the outcome of a command.
type Result int

const (
	Applied Result = iota
	Unchanged
	NotFound
	Locked
	Invalid
	Busy
)

// OK reports whether the command left the document in the requested state.
func (r Result) OK() bool { return r == Applied || r == Unchanged }

func (r Result) Err() error {
	switch r {
	case NotFound:
		return ErrNotFound
	case Locked:
		return ErrLocked
	case Invalid:
		return ErrInvalid
	case Busy:
		return ErrBusy
	default:
		return nil
	}
}

func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case Unchanged:
		return "unchanged"
	case NotFound:
		return "rejected-not-found"
	case Locked:
		return "rejected-locked"
	case Invalid:
		return "rejected-invalid"
	case Busy:
		return "rejected-busy"
	default:
		return "unknown"
	}
}
