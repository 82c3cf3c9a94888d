// Package domain contains the core data types for the TripWeaver backend.
// This package has zero dependencies on other internal packages and is
// imported by every other internal package (repo, rules, dedup, service,
// handler, toolcall).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Itinerary is the aggregate root: one trip's segments, travelers, and
// metadata. Version increases by exactly 1 on every accepted mutation and is
// owned by the service layer; repos persist it verbatim.
//
// Segment order in Segments is insertion order and carries no meaning —
// callers sort by Start for display.
type Itinerary struct {
	ID           uuid.UUID         `json:"id"`
	Version      int64             `json:"version"`
	Title        string            `json:"title"`
	StartDate    *time.Time        `json:"start_date,omitempty"` // nil when the trip is undated
	EndDate      *time.Time        `json:"end_date,omitempty"`
	Destinations []string          `json:"destinations,omitempty"`
	Travelers    []string          `json:"travelers,omitempty"`
	Segments     []Segment         `json:"segments"`
	Tags         map[string]string `json:"tags,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// SegmentByID returns the segment with the given ID and whether it exists.
func (it Itinerary) SegmentByID(id uuid.UUID) (Segment, bool) {
	for _, s := range it.Segments {
		if s.ID == id {
			return s, true
		}
	}
	return Segment{}, false
}

// WithSegment returns a copy of the itinerary with seg appended.
// The receiver is not modified; the segment slice is reallocated so the copy
// shares no backing array with the original.
func (it Itinerary) WithSegment(seg Segment) Itinerary {
	out := it
	out.Segments = make([]Segment, 0, len(it.Segments)+1)
	out.Segments = append(out.Segments, it.Segments...)
	out.Segments = append(out.Segments, seg)
	return out
}

// WithSegmentReplaced returns a copy with the segment matching seg.ID
// replaced in place (same position). If no segment matches, the copy is
// unchanged apart from the reallocated slice.
func (it Itinerary) WithSegmentReplaced(seg Segment) Itinerary {
	out := it
	out.Segments = make([]Segment, len(it.Segments))
	copy(out.Segments, it.Segments)
	for i, s := range out.Segments {
		if s.ID == seg.ID {
			out.Segments[i] = seg
			break
		}
	}
	return out
}

// WithSegmentRemoved returns a copy with the segment matching id removed.
func (it Itinerary) WithSegmentRemoved(id uuid.UUID) Itinerary {
	out := it
	out.Segments = make([]Segment, 0, len(it.Segments))
	for _, s := range it.Segments {
		if s.ID != id {
			out.Segments = append(out.Segments, s)
		}
	}
	return out
}
