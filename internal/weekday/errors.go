package weekday

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a conversion failed.
type ErrorKind int

const (
	// MalformedInput means the input is not shaped like YYYY-MM-DD.
	MalformedInput ErrorKind = iota + 1
	// InvalidCalendarDate means the input is well-shaped but names no real date.
	InvalidCalendarDate
	// UnexpectedFailure covers any other fault during conversion.
	UnexpectedFailure
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedInput:
		return "MalformedInput"
	case InvalidCalendarDate:
		return "InvalidCalendarDate"
	case UnexpectedFailure:
		return "UnexpectedFailure"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

var (
	ErrMalformedInput      = errors.New("malformed date input")
	ErrInvalidCalendarDate = errors.New("invalid calendar date")
	ErrUnexpectedFailure   = errors.New("unexpected conversion failure")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case MalformedInput:
		return ErrMalformedInput
	case InvalidCalendarDate:
		return ErrInvalidCalendarDate
	default:
		return ErrUnexpectedFailure
	}
}

// ConversionError is returned by Parse and Convert. It matches the
// sentinel for its Kind under errors.Is.
type ConversionError struct {
	Kind  ErrorKind
	Input string

	// Field and Value identify the offending component for
	// InvalidCalendarDate ("year", "month" or "day").
	Field string
	Value int

	Err error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("%v: %q", e.Kind.sentinel(), e.Input)
	if e.Field != "" {
		msg += fmt.Sprintf(": %s %d", e.Field, e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func (e *ConversionError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// KindOf reports the ErrorKind carried by err, or 0 if err is not a
// *ConversionError.
func KindOf(err error) ErrorKind {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}
