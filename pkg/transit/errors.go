package transit

import (
	"errors"
	"fmt"
)

// ErrorCategory is the stable machine-checkable classification attached to
// every user-visible failure.
type ErrorCategory string

const (
	CategoryUpstreamUnavailable ErrorCategory = "UPSTREAM_UNAVAILABLE"
	CategoryUpstreamDataShape   ErrorCategory = "UPSTREAM_DATA_SHAPE"
	CategoryValidation          ErrorCategory = "VALIDATION"
	CategoryNotFound            ErrorCategory = "NOT_FOUND"
	CategoryRateLimited         ErrorCategory = "RATE_LIMITED"
)

type Error struct {
	Category ErrorCategory
	Message  string

	// UpstreamStatus is the HTTP status returned by the upstream API when
	// the category is UPSTREAM_UNAVAILABLE and a response was received.
	UpstreamStatus int

	wrapped error
}

func (e *Error) Error() string {
	if e.UpstreamStatus != 0 {
		return fmt.Sprintf("%s (upstream status %d): %s", e.Category, e.UpstreamStatus, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

func NewError(category ErrorCategory, message string) *Error {
	return &Error{Category: category, Message: message}
}

func WrapError(category ErrorCategory, message string, err error) *Error {
	return &Error{Category: category, Message: message, wrapped: err}
}

func UpstreamUnavailable(status int, err error) *Error {
	return &Error{
		Category:       CategoryUpstreamUnavailable,
		Message:        "upstream transit API unavailable",
		UpstreamStatus: status,
		wrapped:        err,
	}
}

// CategoryOf extracts the category from err, defaulting anything
// unclassified to UPSTREAM_UNAVAILABLE.
func CategoryOf(err error) ErrorCategory {
	var transitError *Error
	if errors.As(err, &transitError) {
		return transitError.Category
	}

	return CategoryUpstreamUnavailable
}
