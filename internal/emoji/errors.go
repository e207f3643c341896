package emoji

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes failures surfaced by the resolution engine.
type ErrorCode string

const (
	// ErrCodeDataUnavailable indicates the bundled catalog could not be read.
	// Fatal to standard entities only; custom entities remain usable.
	ErrCodeDataUnavailable ErrorCode = "DATA_UNAVAILABLE"

	// ErrCodeSourceReadFailure indicates a single custom item could not be read.
	// Never propagated past the synchronizer's per-item boundary.
	ErrCodeSourceReadFailure ErrorCode = "SOURCE_READ_FAILURE"

	// ErrCodeNotFound indicates a shortcode that does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidInput indicates a rejected argument or configuration value.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Error is the structured error type used across packages.
type Error struct {
	Code      ErrorCode
	Message   string
	Shortcode string // affected shortcode, if any
	Path      string // affected source path, if any
	Err       error  // underlying cause
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Shortcode != "" {
		msg += fmt.Sprintf(" (shortcode=%s)", e.Shortcode)
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewDataUnavailableError wraps a catalog read or decode failure.
func NewDataUnavailableError(err error) *Error {
	return &Error{
		Code:    ErrCodeDataUnavailable,
		Message: "failed to load emoji data",
		Err:     err,
	}
}

// NewSourceReadError wraps a failure reading one custom item.
func NewSourceReadError(path string, err error) *Error {
	return &Error{
		Code:    ErrCodeSourceReadFailure,
		Message: "failed to read custom emoji source",
		Path:    path,
		Err:     err,
	}
}

// NewNotFoundError reports a missing shortcode.
func NewNotFoundError(shortcode string) *Error {
	return &Error{
		Code:      ErrCodeNotFound,
		Message:   "emoji not found",
		Shortcode: shortcode,
	}
}

// NewInvalidInputError reports a rejected argument.
func NewInvalidInputError(message string) *Error {
	return &Error{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsDataUnavailable reports whether err is a DATA_UNAVAILABLE error.
func IsDataUnavailable(err error) bool { return hasCode(err, ErrCodeDataUnavailable) }

// IsSourceReadFailure reports whether err is a SOURCE_READ_FAILURE error.
func IsSourceReadFailure(err error) bool { return hasCode(err, ErrCodeSourceReadFailure) }

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsInvalidInput reports whether err is an INVALID_INPUT error.
func IsInvalidInput(err error) bool { return hasCode(err, ErrCodeInvalidInput) }
