// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound reports a missing row, including rows owned by another user.
	ErrNotFound = errors.New("not found")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError reports a draft that is missing or has malformed required fields.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// UnsupportedInputKindError rejects an upload whose content type is not ingestible.
type UnsupportedInputKindError struct {
	ContentType string
}

func (e *UnsupportedInputKindError) Error() string {
	return fmt.Sprintf("unsupported input kind %q: only CSV, OFX or image uploads are accepted", e.ContentType)
}

// ParseError reports a malformed numeric or date token in an input.
// Row is 1-based and counts data rows only; zero means not row-oriented.
type ParseError struct {
	Err   error
	Field string
	Value string
	Row   int
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: cannot parse %s %q: %v", e.Row, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("cannot parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExtractionError wraps a failure while turning a receipt image into a draft.
type ExtractionError struct {
	Err   error
	Path  string
	Stage string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to process image %s (%s): %v", e.Path, e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage returns a short description of err suitable for the terminal.
func UserMessage(err error) string {
	var (
		userErr        *UserError
		validationErr  *ValidationError
		unsupportedErr *UnsupportedInputKindError
		parseErr       *ParseError
		extractionErr  *ExtractionError
	)
	switch {
	case errors.As(err, &userErr):
		return userErr.UserMessage
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &unsupportedErr):
		return unsupportedErr.Error()
	case errors.As(err, &parseErr):
		return parseErr.Error()
	case errors.As(err, &extractionErr):
		return extractionErr.Error()
	case errors.Is(err, ErrNotFound):
		return "transaction not found"
	default:
		return err.Error()
	}
}
