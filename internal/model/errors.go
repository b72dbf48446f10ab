package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so any interface (HTTP, CLI) can render them.
// Keep these values stable; they are the API error codes.
type ErrorKind string

const (
	KindIO           ErrorKind = "IO_ERROR"
	KindNoData       ErrorKind = "NO_DATA"
	KindInvalidRange ErrorKind = "INVALID_RANGE"
	KindInvalidInput ErrorKind = "INVALID_INPUT"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindInternal     ErrorKind = "INTERNAL_ERROR"
)

// Error is a user-presentable failure with an optional cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func NewError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
