package gateway

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrNetwork    = errors.New("network error")
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

// Error describes a failed gateway call.
type Error struct {
	Op     string // e.g. "update post"
	Status int    // HTTP status, 0 when the request never completed
	Kind   error  // one of ErrNetwork, ErrValidation, ErrNotFound
	Err    error  // underlying cause (optional)
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// kindForStatus maps a non-2xx response status onto an error kind.
func kindForStatus(status int) error {
	switch {
	case status == 404:
		return ErrNotFound
	case status >= 400 && status < 500:
		return ErrValidation
	default:
		return ErrNetwork
	}
}
