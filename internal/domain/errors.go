package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures returned by the service layer.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error carries a user facing message. Err holds the underlying cause and is
// never shown to clients.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func ValidationError(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }

func AuthError(msg string) error { return &Error{Kind: KindAuth, Msg: msg} }

func NotFoundError(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

func ConflictError(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

// InternalError wraps an unexpected failure. The message shown to clients is
// always the generic one.
func InternalError(err error) error {
	return &Error{Kind: KindInternal, Msg: MsgInternal, Err: err}
}

// KindOf reports the kind of err; errors outside the taxonomy are internal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the client facing message for err.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Kind != KindInternal {
		return de.Msg
	}
	return MsgInternal
}
