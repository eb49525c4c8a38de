package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure so the HTTP boundary can map it to a
// response without string matching.
type Kind string

const (
	KindValidation         Kind = "VALIDATION"
	KindNotFound           Kind = "NOT_FOUND"
	KindInvalidTransition  Kind = "INVALID_TRANSITION"
	KindAlreadyTerminal    Kind = "ALREADY_TERMINAL"
	KindAlreadyCheckedIn   Kind = "ALREADY_CHECKED_IN"
	KindWrongDay           Kind = "WRONG_DAY"
	KindReschedulingWindow Kind = "RESCHEDULING_WINDOW"
	KindConflict           Kind = "CONFLICT"
	KindNoOp               Kind = "NO_OP"
	KindTransaction        Kind = "TRANSACTION"
	KindUnauthorized       Kind = "UNAUTHORIZED"
)

// AppError carries a kind plus a user-facing message. Err, when set, holds
// the underlying cause for logging.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *AppError {
	return newError(KindValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *AppError {
	return newError(KindNotFound, format, args...)
}

func InvalidTransition(format string, args ...interface{}) *AppError {
	return newError(KindInvalidTransition, format, args...)
}

func AlreadyTerminal(format string, args ...interface{}) *AppError {
	return newError(KindAlreadyTerminal, format, args...)
}

func AlreadyCheckedIn(format string, args ...interface{}) *AppError {
	return newError(KindAlreadyCheckedIn, format, args...)
}

func WrongDay(format string, args ...interface{}) *AppError {
	return newError(KindWrongDay, format, args...)
}

func ReschedulingWindow(format string, args ...interface{}) *AppError {
	return newError(KindReschedulingWindow, format, args...)
}

func Conflict(format string, args ...interface{}) *AppError {
	return newError(KindConflict, format, args...)
}

func NoOp(format string, args ...interface{}) *AppError {
	return newError(KindNoOp, format, args...)
}

func Unauthorized(format string, args ...interface{}) *AppError {
	return newError(KindUnauthorized, format, args...)
}

// Transaction wraps a persistence failure. The transaction guarantees no
// partial write survived, so callers may retry.
func Transaction(err error, format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindTransaction, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from an error chain, or "" for non-app errors.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
