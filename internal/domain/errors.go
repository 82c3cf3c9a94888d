package domain

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, start time after end time).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrDuplicate is returned when a candidate segment is the same real-world
// booking as an existing one per the dedup heuristics. It is a distinct
// error class from ErrValidation so callers can suggest "update instead of
// add". Handlers should map this to HTTP 409 Conflict.
var ErrDuplicate = errors.New("duplicate segment")

// ErrVersionConflict is returned by the repo when a compare-and-swap save
// finds the itinerary at a different version than expected, meaning another
// writer got there first. Handlers should map this to HTTP 409 Conflict.
var ErrVersionConflict = errors.New("version conflict")

// ConflictError reports a duplicate segment. It wraps ErrDuplicate so
// errors.Is(err, ErrDuplicate) works, while carrying the conflicting
// segment's identity and a suggested-action message for the caller.
type ConflictError struct {
	ExistingSegmentID uuid.UUID
	Message           string
}

func (e *ConflictError) Error() string { return e.Message }
func (e *ConflictError) Unwrap() error { return ErrDuplicate }

// RuleViolationError reports a failed error-severity rule. It wraps
// ErrValidation and carries the rule's identity, message, suggestion, and
// related segment IDs.
type RuleViolationError struct {
	RuleID            string
	Message           string
	Suggestion        string
	RelatedSegmentIDs []uuid.UUID
}

func (e *RuleViolationError) Error() string {
	return e.RuleID + ": " + e.Message
}

func (e *RuleViolationError) Unwrap() error { return ErrValidation }
