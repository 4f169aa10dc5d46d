package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies recoverable domain errors so handlers can map them
// to HTTP status codes and callers know whether to retry or correct input
type ErrorKind string

const (
	ErrInvalidTransition     ErrorKind = "INVALID_TRANSITION"
	ErrDanglingReference     ErrorKind = "DANGLING_REFERENCE"
	ErrCycleDetected         ErrorKind = "CYCLE_DETECTED"
	ErrTypeMismatch          ErrorKind = "TYPE_MISMATCH"
	ErrPublishOrderViolation ErrorKind = "PUBLISH_ORDER_VIOLATION"
	ErrConflict              ErrorKind = "CONFLICT"
	ErrValidation            ErrorKind = "VALIDATION"
	ErrNotFound              ErrorKind = "NOT_FOUND"
	ErrDuplicateSlug         ErrorKind = "DUPLICATE_SLUG"
)

// Error is a recoverable domain error. It carries enough context (offending
// field or slug) for the caller to correct the request and retry. None of
// these should ever crash the process.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Slug    string    `json:"slug,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// IsKind reports whether err is a domain Error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// NewInvalidTransitionError rejects a state machine edge that does not exist
// or whose guard failed
func NewInvalidTransitionError(from, to QueueStatus, reason string) *Error {
	msg := fmt.Sprintf("cannot transition from %s to %s", from, to)
	if reason != "" {
		msg += ": " + reason
	}
	return &Error{Kind: ErrInvalidTransition, Message: msg}
}

// NewDanglingReferenceError reports a cluster reference that resolves to nothing
func NewDanglingReferenceError(field, slug string) *Error {
	return &Error{
		Kind:    ErrDanglingReference,
		Message: fmt.Sprintf("%s %q does not resolve to any queue item or post", field, slug),
		Field:   field,
		Slug:    slug,
	}
}

// NewCycleDetectedError reports a parent chain that revisits an item
func NewCycleDetectedError(slug string) *Error {
	return &Error{
		Kind:    ErrCycleDetected,
		Message: fmt.Sprintf("parent chain starting at %q revisits itself", slug),
		Slug:    slug,
	}
}

// NewTypeMismatchError reports a cluster reference of the wrong article type
func NewTypeMismatchError(slug, reason string) *Error {
	return &Error{
		Kind:    ErrTypeMismatch,
		Message: reason,
		Slug:    slug,
	}
}

// NewPublishOrderViolationError blocks a descendant from publishing before its hub
func NewPublishOrderViolationError(slug, hubSlug string) *Error {
	return &Error{
		Kind:    ErrPublishOrderViolation,
		Message: fmt.Sprintf("%q is scheduled before its hub %q", slug, hubSlug),
		Slug:    slug,
	}
}

// NewConflictError reports a lost optimistic-concurrency race; the caller
// should refetch and retry
func NewConflictError(id string) *Error {
	return &Error{
		Kind:    ErrConflict,
		Message: fmt.Sprintf("queue item %s was modified concurrently, refetch and retry", id),
	}
}

// NewValidationError reports a field constraint failure
func NewValidationError(field, message string) *Error {
	return &Error{
		Kind:    ErrValidation,
		Message: message,
		Field:   field,
	}
}

// NewNotFoundError reports a reference resolution miss
func NewNotFoundError(what, id string) *Error {
	return &Error{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, id),
	}
}

// NewDuplicateSlugError reports a uniqueness violation on slug
func NewDuplicateSlugError(slug string) *Error {
	return &Error{
		Kind:    ErrDuplicateSlug,
		Message: fmt.Sprintf("slug %q is already in use", slug),
		Field:   "slug",
		Slug:    slug,
	}
}
