package sfr

import (
	"errors"
	"fmt"
)

// ErrorKind categorises a failed calculation.
type ErrorKind string

const (
	KindInvalidInput        ErrorKind = "invalid_input"
	KindDegenerateEdge      ErrorKind = "degenerate_edge"
	KindThresholdNotReached ErrorKind = "threshold_not_reached"
)

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrDegenerateEdge      = errors.New("degenerate edge")
	ErrThresholdNotReached = errors.New("threshold not reached")
)

// Error is a structured calculation failure.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindInvalidInput:
		return target == ErrInvalidInput
	case KindDegenerateEdge:
		return target == ErrDegenerateEdge
	case KindThresholdNotReached:
		return target == ErrThresholdNotReached
	}
	return false
}

func invalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func degenerateEdge(msg string) *Error {
	return &Error{Kind: KindDegenerateEdge, Message: msg}
}

func thresholdNotReached(msg string) *Error {
	return &Error{Kind: KindThresholdNotReached, Message: msg}
}

// KindOf returns the ErrorKind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
