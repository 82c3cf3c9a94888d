// Package dedup decides whether a candidate segment is "the same real-world
// booking" as one already on the itinerary. It runs before rule validation;
// a match is reported as its own conflict class, distinct from rule
// violations, with a message suggesting an update instead of an add.
package dedup

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/normalize"
	"github.com/tripweaver/backend/internal/timeutil"
)

// Match describes a detected duplicate: the existing segment the candidate
// collides with and a human-readable message for the caller to surface.
type Match struct {
	Existing domain.Segment
	Message  string
}

// FindDuplicate returns the first existing segment the candidate duplicates,
// or nil when the candidate is new. Identity is type-specific:
//
//	FLIGHT    same flight number on the same departure day
//	HOTEL     same normalized property name with overlapping stay dates
//	ACTIVITY  same normalized name on the same day
//	TRANSFER  same type, pickup, and dropoff on the same day
//	MEETING/CUSTOM  same title within one minute of the same start
//
// Back-to-back hotel stays (checkout day N, check-in day N) are adjacent,
// not overlapping, and are never duplicates.
func FindDuplicate(existing []domain.Segment, candidate domain.Segment) *Match {
	return FindDuplicateExcluding(existing, candidate, uuid.Nil)
}

// FindDuplicateExcluding is FindDuplicate with one segment ID exempted,
// used on updates so a segment never matches itself.
func FindDuplicateExcluding(existing []domain.Segment, candidate domain.Segment, excludeID uuid.UUID) *Match {
	for _, s := range existing {
		if excludeID != uuid.Nil && s.ID == excludeID {
			continue
		}
		if s.Type != candidate.Type {
			continue
		}
		if isDuplicate(s, candidate) {
			return &Match{
				Existing: s,
				Message: fmt.Sprintf("Duplicate detected: %q is already on your itinerary for %s. Would you like to update it instead?",
					s.DisplayName(), s.Start.Format("2006-01-02")),
			}
		}
	}
	return nil
}

// isDuplicate applies the type-specific identity heuristic. Both segments
// are known to have the same type.
func isDuplicate(existing, candidate domain.Segment) bool {
	switch candidate.Type {
	case domain.SegmentFlight:
		if existing.Flight == nil || candidate.Flight == nil {
			return false
		}
		return existing.Flight.FlightNumber == candidate.Flight.FlightNumber &&
			timeutil.SameCalendarDay(existing.Start, candidate.Start)

	case domain.SegmentHotel:
		if existing.Hotel == nil || candidate.Hotel == nil {
			return false
		}
		return normalize.Equal(existing.Hotel.PropertyName, candidate.Hotel.PropertyName) &&
			timeutil.RangesOverlap(existing.Start, existing.End, candidate.Start, candidate.End)

	case domain.SegmentActivity:
		if existing.Activity == nil || candidate.Activity == nil {
			return false
		}
		return normalize.Equal(existing.Activity.Name, candidate.Activity.Name) &&
			timeutil.SameCalendarDay(existing.Start, candidate.Start)

	case domain.SegmentTransfer:
		if existing.Transfer == nil || candidate.Transfer == nil {
			return false
		}
		return existing.Transfer.TransferType == candidate.Transfer.TransferType &&
			existing.Transfer.Pickup == candidate.Transfer.Pickup &&
			existing.Transfer.Dropoff == candidate.Transfer.Dropoff &&
			timeutil.SameCalendarDay(existing.Start, candidate.Start)

	case domain.SegmentMeeting, domain.SegmentCustom:
		if existing.Meeting == nil || candidate.Meeting == nil {
			return false
		}
		return existing.Meeting.Title == candidate.Meeting.Title &&
			timeutil.SameInstant(existing.Start, candidate.Start, timeutil.DefaultInstantTolerance)
	}
	return false
}
