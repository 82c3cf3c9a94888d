package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tripweaver/backend/internal/domain"
)

// ErrorResponse is the uniform error body: {"error":{...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code plus the human-readable
// message, and — for rule violations and duplicates — the suggestion and
// related segment IDs callers surface as actionable hints.
type ErrorDetail struct {
	Code              string      `json:"code"`
	Message           string      `json:"message"`
	Suggestion        string      `json:"suggestion,omitempty"`
	RelatedSegmentIDs []uuid.UUID `json:"related_segment_ids,omitempty"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string, related []uuid.UUID) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{
		Code:              code,
		Message:           message,
		RelatedSegmentIDs: related,
	}})
}

// writeServiceError maps service-layer errors onto HTTP responses:
// duplicate → 409, rule violation / validation → 422, version conflict →
// 409, not found → 404, anything else → 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorDetail{
			Code:              "duplicate_segment",
			Message:           conflict.Message,
			Suggestion:        "update the existing segment instead of adding a new one",
			RelatedSegmentIDs: []uuid.UUID{conflict.ExistingSegmentID},
		}})
		return
	}

	var violation *domain.RuleViolationError
	if errors.As(err, &violation) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code:              "validation_error",
			Message:           violation.Message,
			Suggestion:        violation.Suggestion,
			RelatedSegmentIDs: violation.RelatedSegmentIDs,
		}})
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err), nil)
	case errors.Is(err, domain.ErrVersionConflict):
		writeError(w, http.StatusConflict, "version_conflict",
			"the itinerary was modified concurrently; reload and retry", nil)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found", nil)
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal server error", nil)
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "service.ItineraryService.Create: validation error: title is
// required" → "title is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, "validation error: "); i >= 0 {
		return msg[i+len("validation error: "):]
	}
	return msg
}
