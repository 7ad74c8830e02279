// Package apperr holds the error kinds returned by the tournament engine.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by code so sentinels like ErrNotFound work with errors.Is.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

var (
	ErrInvalidArgument        = New(CodeInvalidArgument, "invalid argument")
	ErrDuplicatePlayer        = New(CodeDuplicatePlayer, "duplicate player")
	ErrNotFound               = New(CodeNotFound, "not found")
	ErrInvalidStateTransition = New(CodeInvalidStateTransition, "invalid state transition")
	ErrNotEnoughPlayers       = New(CodeNotEnoughPlayers, "not enough players")
	ErrStorageUnavailable     = New(CodeStorageUnavailable, "storage unavailable")
	ErrStorageConflict        = New(CodeStorageConflict, "storage conflict")
)

// CodeOf extracts the code of err, or "" when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func Retryable(err error) bool {
	return CodeOf(err).Retryable()
}

// FromStorage classifies an error coming back from a storage adapter. Errors that
// already carry a code pass through; deadline and cancellation become unavailable.
func FromStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if CodeOf(err) != "" {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Wrap(CodeStorageUnavailable, op+" timed out", err)
	}
	return Wrap(CodeStorageUnavailable, op+" failed", err)
}
