package domain

import (
	"errors"
	"fmt"
)

// Failure kinds. Every domain error wraps exactly one of these so callers can
// classify with errors.Is without parsing messages.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrAuthorization  = errors.New("authorization error")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)

// Error is a domain failure with a client-facing message.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func Validationf(format string, args ...any) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func Authenticationf(format string, args ...any) error {
	return &Error{kind: ErrAuthentication, msg: fmt.Sprintf(format, args...)}
}

func Authorizationf(format string, args ...any) error {
	return &Error{kind: ErrAuthorization, msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &Error{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &Error{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}
