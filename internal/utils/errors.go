package utils

import (
	"errors"
	"fmt"
)

// Fault kinds surfaced by the request pipeline. Handlers translate these into
// HTTP status codes; anything else is treated as an upstream failure.
var (
	// ErrBadRequest marks client input that fails validation, such as a
	// non-integer page number.
	ErrBadRequest = errors.New("bad request")
	// ErrNotFound marks a product/version combination that is not registered.
	ErrNotFound = errors.New("not found")
	// ErrEmptyResult marks a report query that returned zero rows where the
	// report cannot be rendered without data.
	ErrEmptyResult = errors.New("empty result")
)

// AppError wraps an operation, human-facing message, and underlying error.
type AppError struct {
	Op  string
	Msg string
	Err error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(op, msg string, err error) error {
	return &AppError{Op: op, Msg: msg, Err: err}
}

// BadRequest returns an ErrBadRequest fault carrying the offending detail.
func BadRequest(detail string) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, detail)
}

// NotFound returns an ErrNotFound fault carrying the offending detail.
func NotFound(detail string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, detail)
}
