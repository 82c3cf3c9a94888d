package rules

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/normalize"
	"github.com/tripweaver/backend/internal/timeutil"
)

// builtinRules returns the standard rule set in fundamental-first order.
// Chronology comes first because every later rule assumes a well-formed
// range; the overlap rules come before the advisory ones so the blocking
// constraint is what gets reported.
func builtinRules() []Rule {
	return []Rule{
		chronologicalOrder{},
		withinTripDates{},
		flightOverlap{},
		hotelOverlap{},
		reasonableDuration{},
		activityRequiresTransfer{},
		geographicContinuity{},
		hotelActivityOverlap{},
	}
}

// ---- chronological-order ----------------------------------------------------

type chronologicalOrder struct{}

func (chronologicalOrder) ID() string         { return "chronological-order" }
func (chronologicalOrder) Name() string       { return "Start must be before end" }
func (chronologicalOrder) Severity() Severity { return SeverityError }
func (chronologicalOrder) Enabled() bool      { return true }

func (chronologicalOrder) Evaluate(_ domain.Itinerary, c domain.Segment) Outcome {
	if c.Start.Before(c.End) {
		return Pass()
	}
	return Outcome{
		Message:    fmt.Sprintf("%q starts at or after it ends", c.DisplayName()),
		Suggestion: "swap or correct the start and end times",
	}
}

// ---- segment-within-trip-dates ----------------------------------------------

type withinTripDates struct{}

func (withinTripDates) ID() string         { return "segment-within-trip-dates" }
func (withinTripDates) Name() string       { return "Segment must fall within the trip dates" }
func (withinTripDates) Severity() Severity { return SeverityError }
func (withinTripDates) Enabled() bool      { return true }

func (withinTripDates) Evaluate(it domain.Itinerary, c domain.Segment) Outcome {
	// Vacuously satisfied when the itinerary is undated.
	if it.StartDate == nil || it.EndDate == nil {
		return Pass()
	}
	first := startOfDay(*it.StartDate)
	last := startOfDay(*it.EndDate).Add(24 * time.Hour)
	if !c.Start.Before(first) && !c.End.After(last) {
		return Pass()
	}
	return Outcome{
		Message: fmt.Sprintf("%q (%s – %s) falls outside the trip dates %s – %s",
			c.DisplayName(),
			c.Start.Format("2006-01-02 15:04"), c.End.Format("2006-01-02 15:04"),
			it.StartDate.Format("2006-01-02"), it.EndDate.Format("2006-01-02")),
		Suggestion: "move the segment inside the trip dates or extend the trip",
	}
}

// ---- no-flight-overlap --------------------------------------------------------

type flightOverlap struct{}

func (flightOverlap) ID() string         { return "no-flight-overlap" }
func (flightOverlap) Name() string       { return "Flights must not overlap other flights or hotel stays" }
func (flightOverlap) Severity() Severity { return SeverityError }
func (flightOverlap) Enabled() bool      { return true }

func (flightOverlap) Evaluate(it domain.Itinerary, c domain.Segment) Outcome {
	if c.Type != domain.SegmentFlight {
		return Pass()
	}
	for _, s := range it.Segments {
		if !c.SharesTraveler(s) {
			continue
		}
		switch s.Type {
		case domain.SegmentFlight:
			// Exact time-range intersection for flight-vs-flight.
			if c.Start.Before(s.End) && s.Start.Before(c.End) {
				return Outcome{
					Message:           fmt.Sprintf("flight %q overlaps flight %q", c.DisplayName(), s.DisplayName()),
					Suggestion:        "change the departure time or remove the conflicting flight",
					RelatedSegmentIDs: []uuid.UUID{s.ID},
				}
			}
		case domain.SegmentHotel:
			// Day-granularity overlap for flight-vs-hotel.
			if timeutil.RangesOverlap(c.Start, c.End, s.Start, s.End) {
				return Outcome{
					Message:           fmt.Sprintf("flight %q overlaps the stay at %q", c.DisplayName(), s.DisplayName()),
					Suggestion:        "move the flight outside the hotel stay or adjust the booking",
					RelatedSegmentIDs: []uuid.UUID{s.ID},
				}
			}
		}
	}
	return Pass()
}

// ---- no-hotel-overlap ---------------------------------------------------------

type hotelOverlap struct{}

func (hotelOverlap) ID() string         { return "no-hotel-overlap" }
func (hotelOverlap) Name() string       { return "Stays at the same property must not overlap" }
func (hotelOverlap) Severity() Severity { return SeverityError }
func (hotelOverlap) Enabled() bool      { return true }

func (hotelOverlap) Evaluate(it domain.Itinerary, c domain.Segment) Outcome {
	if c.Type != domain.SegmentHotel || c.Hotel == nil {
		return Pass()
	}
	for _, s := range it.Segments {
		if s.Type != domain.SegmentHotel || s.Hotel == nil {
			continue
		}
		if !normalize.Equal(c.Hotel.PropertyName, s.Hotel.PropertyName) {
			continue
		}
		// Checkout on day N and check-in on day N are adjacent, not overlapping.
		if timeutil.RangesOverlap(c.Start, c.End, s.Start, s.End) {
			return Outcome{
				Message: fmt.Sprintf("the stay at %q overlaps an existing booking (%s – %s)",
					c.Hotel.PropertyName, s.Start.Format("2006-01-02"), s.End.Format("2006-01-02")),
				Suggestion:        "update the existing booking instead of adding a second one",
				RelatedSegmentIDs: []uuid.UUID{s.ID},
			}
		}
	}
	return Pass()
}

// ---- reasonable-duration (warning) --------------------------------------------

type reasonableDuration struct{}

func (reasonableDuration) ID() string         { return "reasonable-duration" }
func (reasonableDuration) Name() string       { return "Segment duration should be plausible for its type" }
func (reasonableDuration) Severity() Severity { return SeverityWarning }
func (reasonableDuration) Enabled() bool      { return true }

func (reasonableDuration) Evaluate(_ domain.Itinerary, c domain.Segment) Outcome {
	mins := timeutil.DurationMinutes(c.Start, c.End)
	switch c.Type {
	case domain.SegmentFlight:
		if mins < 30 {
			return Outcome{
				Message:    fmt.Sprintf("flight %q lasts only %d minutes", c.DisplayName(), mins),
				Suggestion: "check the arrival time; flights under 30 minutes are unusual",
			}
		}
	case domain.SegmentActivity:
		if c.Activity != nil && normalize.Equal(c.Activity.Category, "dining") && mins > 10*60 {
			return Outcome{
				Message:    fmt.Sprintf("%q is a dining activity lasting over 10 hours", c.DisplayName()),
				Suggestion: "check the end time",
			}
		}
	case domain.SegmentTransfer:
		if mins > 8*60 {
			return Outcome{
				Message:    fmt.Sprintf("transfer %q lasts over 8 hours", c.DisplayName()),
				Suggestion: "check the dropoff time; long transfers are usually flights or trains",
			}
		}
	}
	return Pass()
}

// ---- activity-requires-transfer (warning) --------------------------------------

type activityRequiresTransfer struct{}

func (activityRequiresTransfer) ID() string   { return "activity-requires-transfer" }
func (activityRequiresTransfer) Name() string { return "Activities in a new location should have a transfer" }
func (activityRequiresTransfer) Severity() Severity { return SeverityWarning }
func (activityRequiresTransfer) Enabled() bool      { return true }

func (activityRequiresTransfer) Evaluate(it domain.Itinerary, c domain.Segment) Outcome {
	if c.Type != domain.SegmentActivity || c.Location() == "" {
		return Pass()
	}
	prev, ok := precedingSegment(it, c)
	if !ok || prev.Location() == "" || normalize.Equal(prev.Location(), c.Location()) {
		return Pass()
	}
	if hasBridgingTransfer(it, prev, c) {
		return Pass()
	}
	return Outcome{
		Message: fmt.Sprintf("%q is in %s but the previous segment ends in %s with no transfer in between",
			c.DisplayName(), c.Location(), prev.Location()),
		Suggestion:        fmt.Sprintf("add a transfer from %s to %s", prev.Location(), c.Location()),
		RelatedSegmentIDs: []uuid.UUID{prev.ID},
	}
}

// ---- geographic-continuity (info) -----------------------------------------------

type geographicContinuity struct{}

func (geographicContinuity) ID() string         { return "geographic-continuity" }
func (geographicContinuity) Name() string       { return "Consecutive segments changing location" }
func (geographicContinuity) Severity() Severity { return SeverityInfo }
func (geographicContinuity) Enabled() bool      { return true }

func (geographicContinuity) Evaluate(it domain.Itinerary, c domain.Segment) Outcome {
	if c.Location() == "" {
		return Pass()
	}
	prev, ok := precedingSegment(it, c)
	if !ok || prev.Location() == "" {
		return Pass()
	}
	if normalize.Equal(prev.Location(), c.Location()) {
		return Pass()
	}
	if hasBridgingTransfer(it, prev, c) {
		return Pass()
	}
	msg := fmt.Sprintf("location changes from %s to %s", prev.Location(), c.Location())
	if timeutil.HasOvernightGap(prev.End, c.Start) {
		msg += " across an overnight gap"
	}
	return Outcome{
		Passed:            true,
		Message:           msg,
		Suggestion:        fmt.Sprintf("consider inserting a transfer from %s to %s", prev.Location(), c.Location()),
		RelatedSegmentIDs: []uuid.UUID{prev.ID},
	}
}

// ---- hotel-activity-overlap-allowed (info) --------------------------------------

// hotelActivityOverlap exists to document that an activity overlapping a
// hotel stay is expected, not a conflict; it always passes and emits an
// advisory note when the overlap is present.
type hotelActivityOverlap struct{}

func (hotelActivityOverlap) ID() string         { return "hotel-activity-overlap-allowed" }
func (hotelActivityOverlap) Name() string       { return "Activities may overlap hotel stays" }
func (hotelActivityOverlap) Severity() Severity { return SeverityInfo }
func (hotelActivityOverlap) Enabled() bool      { return true }

func (hotelActivityOverlap) Evaluate(it domain.Itinerary, c domain.Segment) Outcome {
	if c.Type != domain.SegmentActivity {
		return Pass()
	}
	for _, s := range it.Segments {
		if s.Type != domain.SegmentHotel {
			continue
		}
		if timeutil.RangesOverlap(c.Start, c.End, s.Start, s.End) {
			return Outcome{
				Passed:            true,
				Message:           fmt.Sprintf("%q falls within the stay at %q, which is expected", c.DisplayName(), s.DisplayName()),
				RelatedSegmentIDs: []uuid.UUID{s.ID},
			}
		}
	}
	return Pass()
}

// ---- shared helpers --------------------------------------------------------------

// precedingSegment returns the existing segment that ends latest at or
// before the candidate starts.
func precedingSegment(it domain.Itinerary, c domain.Segment) (domain.Segment, bool) {
	var prev domain.Segment
	found := false
	for _, s := range it.Segments {
		if s.End.After(c.Start) {
			continue
		}
		if !found || s.End.After(prev.End) {
			prev = s
			found = true
		}
	}
	return prev, found
}

// hasBridgingTransfer reports whether any transfer segment sits between the
// end of prev and the start of next.
func hasBridgingTransfer(it domain.Itinerary, prev, next domain.Segment) bool {
	for _, s := range it.Segments {
		if s.Type != domain.SegmentTransfer {
			continue
		}
		if !s.Start.Before(prev.End) && !s.End.After(next.Start) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
