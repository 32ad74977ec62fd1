package tasks

import (
	"errors"
	"strings"
)

// Kind tags the failures the Service reports to its callers.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_failed"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a tagged Service failure. Messages keeps every violation of a
// validation failure in order.
type Error struct {
	Kind     Kind
	Messages []string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + strings.Join(e.Messages, "; ")
}

// Is matches on Kind so errors.Is(err, ErrNotFound) works for any not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

const msgTaskNotFound = "Task not found"

// ErrNotFound matches, via errors.Is, every error returned for an absent task.
// The Service returns fresh values from notFound, so callers may keep or
// modify the Messages they receive.
var ErrNotFound = notFound()

func notFound() *Error {
	return &Error{Kind: KindNotFound, Messages: notFoundMessages()}
}

func notFoundMessages() []string {
	return []string{msgTaskNotFound}
}

func validationFailed(violations []string) *Error {
	return &Error{Kind: KindValidation, Messages: violations}
}

// KindOf reports the Kind of err, or KindUnknown for store and other errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Violations returns the messages carried by a validation failure.
func Violations(err error) []string {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindValidation {
		return e.Messages
	}
	return nil
}
