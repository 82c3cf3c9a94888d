package handler

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/rules"
)

// segmentMutationResponse is the success envelope for segment add/update:
// the full updated itinerary plus the mutated segment's own ID, so clients
// never have to search the segment list (and can never confuse it with the
// itinerary ID).
type segmentMutationResponse struct {
	Itinerary domain.Itinerary `json:"itinerary"`
	SegmentID string           `json:"segment_id"`
	Warnings  []rules.Note     `json:"warnings,omitempty"`
	Infos     []rules.Note     `json:"infos,omitempty"`
}

// validatePreviewResponse is the dry-run result: nothing was mutated.
type validatePreviewResponse struct {
	Valid     bool                  `json:"valid"`
	Duplicate *duplicateInfo        `json:"duplicate,omitempty"`
	Violation *rules.Note           `json:"violation,omitempty"`
	Warnings  []rules.Note          `json:"warnings,omitempty"`
	Infos     []rules.Note          `json:"infos,omitempty"`
	TimeOfDay *rules.TimeAssessment `json:"time_of_day,omitempty"`
}

type duplicateInfo struct {
	SegmentID string `json:"segment_id"`
	Message   string `json:"message"`
}

// ListSegments handles GET /itineraries/{itineraryID}/segments.
// Segments are returned in start-time order; stored order carries no meaning.
func (s *Server) ListSegments(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "itineraryID")
	if !ok {
		return
	}
	it, err := s.itineraries.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	segs := make([]domain.Segment, len(it.Segments))
	copy(segs, it.Segments)
	sort.Slice(segs, func(i, j int) bool { return segs[i].Start.Before(segs[j].Start) })
	writeJSON(w, http.StatusOK, segs)
}

// AddSegment handles POST /itineraries/{itineraryID}/segments.
func (s *Server) AddSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "itineraryID")
	if !ok {
		return
	}
	var seg domain.Segment
	if err := json.NewDecoder(r.Body).Decode(&seg); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "invalid request body: "+err.Error(), nil)
		return
	}

	res, err := s.segments.Add(r.Context(), id, seg)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, segmentMutationResponse{
		Itinerary: res.Itinerary,
		SegmentID: res.AddedSegmentID.String(),
		Warnings:  res.Warnings,
		Infos:     res.Infos,
	})
}

// UpdateSegment handles PUT /itineraries/{itineraryID}/segments/{segmentID}.
func (s *Server) UpdateSegment(w http.ResponseWriter, r *http.Request) {
	itineraryID, ok := urlUUID(w, r, "itineraryID")
	if !ok {
		return
	}
	segmentID, ok := urlUUID(w, r, "segmentID")
	if !ok {
		return
	}
	var seg domain.Segment
	if err := json.NewDecoder(r.Body).Decode(&seg); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "invalid request body: "+err.Error(), nil)
		return
	}

	res, err := s.segments.Update(r.Context(), itineraryID, segmentID, seg)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, segmentMutationResponse{
		Itinerary: res.Itinerary,
		SegmentID: res.SegmentID.String(),
		Warnings:  res.Warnings,
		Infos:     res.Infos,
	})
}

// DeleteSegment handles DELETE /itineraries/{itineraryID}/segments/{segmentID}.
// The updated itinerary is returned so clients see the new version counter.
func (s *Server) DeleteSegment(w http.ResponseWriter, r *http.Request) {
	itineraryID, ok := urlUUID(w, r, "itineraryID")
	if !ok {
		return
	}
	segmentID, ok := urlUUID(w, r, "segmentID")
	if !ok {
		return
	}

	it, err := s.segments.Remove(r.Context(), itineraryID, segmentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// ValidateSegment handles POST /itineraries/{itineraryID}/segments/validate —
// a dry run of the full dedup + rules + time-of-day pipeline with no mutation.
func (s *Server) ValidateSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "itineraryID")
	if !ok {
		return
	}
	var seg domain.Segment
	if err := json.NewDecoder(r.Body).Decode(&seg); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "invalid request body: "+err.Error(), nil)
		return
	}

	preview, err := s.segments.Validate(r.Context(), id, seg)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := validatePreviewResponse{
		Valid:     preview.Result.Valid && preview.Duplicate == nil,
		Violation: preview.Result.Violation,
		Warnings:  preview.Result.Warnings,
		Infos:     preview.Result.Infos,
		TimeOfDay: preview.TimeOfDay,
	}
	if preview.Duplicate != nil {
		resp.Duplicate = &duplicateInfo{
			SegmentID: preview.Duplicate.Existing.ID.String(),
			Message:   preview.Duplicate.Message,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
