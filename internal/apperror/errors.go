// Package apperror defines the error kinds surfaced to callers. Every
// failure leaving a usecase is one of these kinds, so transports can map
// them to a status without inspecting driver or SDK errors.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrGeneration   = errors.New("generation failed")
	ErrPersistence  = errors.New("persistence failed")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
)

// Error pairs a kind with a caller-safe message and the underlying cause.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Is reports a match against the kind so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func Unauthorized(message string) *Error {
	return Wrap(ErrUnauthorized, message, nil)
}

func NotFound(message string) *Error {
	return Wrap(ErrNotFound, message, nil)
}

func Validation(message string, cause error) *Error {
	return Wrap(ErrValidation, message, cause)
}

func Generation(message string, cause error) *Error {
	return Wrap(ErrGeneration, message, cause)
}

func Persistence(message string, cause error) *Error {
	return Wrap(ErrPersistence, message, cause)
}

func Conflict(message string, cause error) *Error {
	return Wrap(ErrConflict, message, cause)
}

// PublicMessage returns the message meant for callers, hiding causes.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal Server Error"
}
