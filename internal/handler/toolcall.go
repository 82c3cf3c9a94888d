package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tripweaver/backend/internal/toolcall"
)

// ExecuteToolCall handles POST /itineraries/{itineraryID}/tool-calls.
// Tool-level failures (duplicates, rule violations, unknown tools) come back
// as HTTP 200 with a structured error in the body — the agent layer relays
// them to the user rather than treating them as transport failures.
func (s *Server) ExecuteToolCall(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "itineraryID")
	if !ok {
		return
	}
	var call toolcall.Call
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "invalid request body: "+err.Error(), nil)
		return
	}
	if call.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "tool name is required", nil)
		return
	}

	writeJSON(w, http.StatusOK, s.tools.Execute(r.Context(), id, call))
}

// GetTripContext handles GET /itineraries/{itineraryID}/context: the compact
// snapshot the assistant receives before each turn.
func (s *Server) GetTripContext(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "itineraryID")
	if !ok {
		return
	}
	it, err := s.itineraries.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toolcall.BuildContext(it))
}
