package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")

	// Pipeline outcomes. These are recorded on the inbox entry rather than
	// returned to the caller of capture/confirm/retry.
	ErrParseFailed     = errors.New("intent parse failed")
	ErrMatchAmbiguous  = errors.New("entity match ambiguous")
	ErrExecutionFailed = errors.New("execution failed")
)

// Error codes exposed to clients.
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeValidation      = "VALIDATION"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeParseFailed     = "PARSE_FAILED"
	CodeMatchAmbiguous  = "MATCH_AMBIGUOUS"
	CodeExecutionFailed = "EXECUTION_FAILED"
	CodeInternal        = "INTERNAL"
)

// ErrorCode maps err to its client-facing code. Unknown errors are INTERNAL.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrAlreadyExists):
		return CodeConflict
	case errors.Is(err, ErrParseFailed):
		return CodeParseFailed
	case errors.Is(err, ErrMatchAmbiguous):
		return CodeMatchAmbiguous
	case errors.Is(err, ErrExecutionFailed):
		return CodeExecutionFailed
	default:
		return CodeInternal
	}
}

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// ParseError reports that free text could not be turned into a usable intent.
// Message is safe to show to the user.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse intent: %s: %v", e.Message, e.Err)
	}
	return "parse intent: " + e.Message
}

// Is makes errors.Is(err, ErrParseFailed) hold for every ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParseFailed }

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError creates a ParseError with a user-facing message and an optional cause.
func NewParseError(message string, cause error) *ParseError {
	return &ParseError{Message: message, Err: cause}
}
