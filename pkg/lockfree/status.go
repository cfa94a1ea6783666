package lockfree

import "errors"

// Status is the result of an operation that may run on the audio thread.
type Status int32

const (
	// StatusSuccess means the operation completed.
	StatusSuccess Status = iota
	// StatusBusy means a guard could not be acquired; back off and retry later.
	StatusBusy
	// StatusTimeout means a control-side operation ran out of time.
	StatusTimeout
	// StatusInvalid means a nil or failing producer was supplied.
	StatusInvalid
	// StatusFailure means an illegal state transition or a processing failure.
	StatusFailure
	// StatusFull means a queue had no free slot.
	StatusFull
	// StatusEmpty means a queue had nothing to take.
	StatusEmpty
	// StatusNotRunning means processing was requested outside the running state.
	StatusNotRunning
)

// Sentinel errors returned by Status.Err, for use with errors.Is.
var (
	ErrBusy       = errors.New("lockfree: busy")
	ErrTimeout    = errors.New("lockfree: timeout")
	ErrInvalid    = errors.New("lockfree: invalid")
	ErrFailure    = errors.New("lockfree: failure")
	ErrFull       = errors.New("lockfree: full")
	ErrEmpty      = errors.New("lockfree: empty")
	ErrNotRunning = errors.New("lockfree: not running")
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusBusy:
		return "BUSY"
	case StatusTimeout:
		return "TIMEOUT"
	case StatusInvalid:
		return "INVALID"
	case StatusFailure:
		return "FAILURE"
	case StatusFull:
		return "FULL"
	case StatusEmpty:
		return "EMPTY"
	case StatusNotRunning:
		return "NOT_RUNNING"
	default:
		return "UNKNOWN"
	}
}

// OK reports whether s is StatusSuccess.
func (s Status) OK() bool {
	return s == StatusSuccess
}

// Err converts s to an error, nil for StatusSuccess. Control-side callers use
// it to join the usual error flow.
func (s Status) Err() error {
	switch s {
	case StatusSuccess:
		return nil
	case StatusBusy:
		return ErrBusy
	case StatusTimeout:
		return ErrTimeout
	case StatusInvalid:
		return ErrInvalid
	case StatusFull:
		return ErrFull
	case StatusEmpty:
		return ErrEmpty
	case StatusNotRunning:
		return ErrNotRunning
	default:
		return ErrFailure
	}
}
