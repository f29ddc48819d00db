// Package faults classifies errors crossing component boundaries so callers
// can branch on failure kind instead of matching message strings.
package faults

import (
	"errors"
	"fmt"
)

// Kind identifies the failure class of a Fault.
type Kind int

const (
	// KindUnknown is the zero value, used for unclassified errors.
	KindUnknown Kind = iota
	// KindInput marks caller mistakes: empty question, unsupported format.
	KindInput
	// KindUnavailable marks an unreachable remote service.
	KindUnavailable
	// KindUpstream marks a non-success response from a remote service.
	KindUpstream
	// KindIntegrity marks corrupted stored data, e.g. a vector
	// dimensionality mismatch.
	KindIntegrity
	// KindMisconfigured marks missing credentials or endpoints.
	KindMisconfigured
)

// String returns a short label for the kind.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindUnavailable:
		return "unavailable"
	case KindUpstream:
		return "upstream"
	case KindIntegrity:
		return "integrity"
	case KindMisconfigured:
		return "misconfigured"
	default:
		return "unknown"
	}
}

// Fault is an error carrying a Kind and a human-readable message.
type Fault struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return f.Message + ": " + f.Err.Error()
	}
	return f.Message
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// New creates a Fault with a formatted message.
func New(kind Kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a Fault wrapping an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Input creates a caller-input fault.
func Input(format string, args ...any) *Fault {
	return New(KindInput, format, args...)
}

// KindOf reports the Kind of err, or KindUnknown if err is not a Fault.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
