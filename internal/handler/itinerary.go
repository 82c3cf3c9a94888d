package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tripweaver/backend/internal/domain"
)

// itineraryRequest is the request body for creating or updating an
// itinerary. Dates are calendar days ("2006-01-02"); nil means undated.
type itineraryRequest struct {
	Title        string            `json:"title"`
	StartDate    *string           `json:"start_date,omitempty"`
	EndDate      *string           `json:"end_date,omitempty"`
	Destinations []string          `json:"destinations,omitempty"`
	Travelers    []string          `json:"travelers,omitempty"`
	Tags         map[string]string `json:"tags,omitempty"`
}

type paginatedItineraries struct {
	Data       []domain.Itinerary `json:"data"`
	Pagination pagination         `json:"pagination"`
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// CreateItinerary handles POST /itineraries.
func (s *Server) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	it, err := itineraryFromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error(), nil)
		return
	}

	created, err := s.itineraries.Create(r.Context(), it)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListItineraries handles GET /itineraries.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListItineraries(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	items, total, err := s.itineraries.ListPaged(r.Context(), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paginatedItineraries{
		Data:       items,
		Pagination: pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// GetItinerary handles GET /itineraries/{itineraryID}.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "itineraryID")
	if !ok {
		return
	}
	it, err := s.itineraries.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// UpdateItinerary handles PUT /itineraries/{itineraryID}. Only trip-level
// metadata is writable here; segments are managed under /segments.
func (s *Server) UpdateItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "itineraryID")
	if !ok {
		return
	}
	it, err := itineraryFromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error(), nil)
		return
	}
	it.ID = id

	updated, err := s.itineraries.UpdateMeta(r.Context(), it)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteItinerary handles DELETE /itineraries/{itineraryID}.
func (s *Server) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "itineraryID")
	if !ok {
		return
	}
	if err := s.itineraries.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// itineraryFromRequest decodes and converts the request body.
func itineraryFromRequest(r *http.Request) (domain.Itinerary, error) {
	var req itineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return domain.Itinerary{}, fmt.Errorf("invalid request body: %w", err)
	}

	it := domain.Itinerary{
		Title:        req.Title,
		Destinations: req.Destinations,
		Travelers:    req.Travelers,
		Tags:         req.Tags,
	}

	var err error
	if it.StartDate, err = parseDate(req.StartDate); err != nil {
		return domain.Itinerary{}, fmt.Errorf("start_date: %w", err)
	}
	if it.EndDate, err = parseDate(req.EndDate); err != nil {
		return domain.Itinerary{}, fmt.Errorf("end_date: %w", err)
	}
	return it, nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD, got %q", *s)
	}
	return &t, nil
}

// queryInt parses an optional integer query parameter; nil when absent or
// malformed (pagination falls back to defaults).
func queryInt(r *http.Request, key string) *int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return nil
	}
	return &n
}
