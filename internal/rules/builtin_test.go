package rules_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/rules"
)

// ---- fixtures ----------------------------------------------------------------

// june returns a timestamp on the given June 2026 day.
func june(day, hour, min int) time.Time {
	return time.Date(2026, 6, day, hour, min, 0, 0, time.UTC)
}

// datedTrip returns an itinerary spanning June 1–10, 2026.
func datedTrip(segments ...domain.Segment) domain.Itinerary {
	start := june(1, 0, 0)
	end := june(10, 0, 0)
	return domain.Itinerary{
		ID:        uuid.New(),
		Version:   1,
		Title:     "Summer Trip",
		StartDate: &start,
		EndDate:   &end,
		Segments:  segments,
	}
}

func flight(number string, origin, dest string, start, end time.Time) domain.Segment {
	return domain.Segment{
		ID: uuid.New(), Type: domain.SegmentFlight, Status: domain.StatusConfirmed,
		Start: start, End: end,
		Flight: &domain.FlightDetails{FlightNumber: number, Origin: origin, Destination: dest},
	}
}

func hotel(name, location string, start, end time.Time) domain.Segment {
	return domain.Segment{
		ID: uuid.New(), Type: domain.SegmentHotel, Status: domain.StatusConfirmed,
		Start: start, End: end,
		Hotel: &domain.HotelDetails{PropertyName: name, Location: location},
	}
}

func activity(name, category, location string, start, end time.Time) domain.Segment {
	return domain.Segment{
		ID: uuid.New(), Type: domain.SegmentActivity, Status: domain.StatusConfirmed,
		Start: start, End: end,
		Activity: &domain.ActivityDetails{Name: name, Category: category, Location: location},
	}
}

func transfer(kind, pickup, dropoff string, start, end time.Time) domain.Segment {
	return domain.Segment{
		ID: uuid.New(), Type: domain.SegmentTransfer, Status: domain.StatusConfirmed,
		Start: start, End: end,
		Transfer: &domain.TransferDetails{TransferType: kind, Pickup: pickup, Dropoff: dropoff},
	}
}

func meetingAt(title string, start time.Time) domain.Segment {
	return domain.Segment{
		ID: uuid.New(), Type: domain.SegmentMeeting, Status: domain.StatusConfirmed,
		Start: start, End: start.Add(time.Hour),
		Meeting: &domain.MeetingDetails{Title: title},
	}
}

// violationID asserts the result is invalid and returns the violated rule ID.
func violationID(t *testing.T, res rules.Result) string {
	t.Helper()
	require.False(t, res.Valid)
	require.NotNil(t, res.Violation)
	return res.Violation.RuleID
}

// warningIDs collects the rule IDs of all warnings on a result.
func warningIDs(res rules.Result) []string {
	ids := make([]string, 0, len(res.Warnings))
	for _, n := range res.Warnings {
		ids = append(ids, n.RuleID)
	}
	return ids
}

func infoIDs(res rules.Result) []string {
	ids := make([]string, 0, len(res.Infos))
	for _, n := range res.Infos {
		ids = append(ids, n.RuleID)
	}
	return ids
}

// ---- chronological-order -----------------------------------------------------

func TestRule_ChronologicalOrder(t *testing.T) {
	e := rules.NewEngine(rules.DefaultConfig())
	it := datedTrip()

	bad := flight("UA1", "SFO", "JFK", june(2, 14, 0), june(2, 9, 0))
	assert.Equal(t, "chronological-order", violationID(t, e.ValidateAdd(it, bad)))

	zero := flight("UA1", "SFO", "JFK", june(2, 9, 0), june(2, 9, 0))
	assert.Equal(t, "chronological-order", violationID(t, e.ValidateAdd(it, zero)))

	good := flight("UA1", "SFO", "JFK", june(2, 9, 0), june(2, 14, 0))
	assert.True(t, e.ValidateAdd(it, good).Valid)
}

// ---- segment-within-trip-dates -------------------------------------------------

func TestRule_WithinTripDates(t *testing.T) {
	e := rules.NewEngine(rules.DefaultConfig())
	it := datedTrip()

	early := flight("UA1", "SFO", "JFK", june(1, 0, 0).Add(-2*time.Hour), june(1, 4, 0))
	assert.Equal(t, "segment-within-trip-dates", violationID(t, e.ValidateAdd(it, early)))

	late := flight("UA1", "SFO", "JFK", june(10, 20, 0), june(11, 2, 0))
	assert.Equal(t, "segment-within-trip-dates", violationID(t, e.ValidateAdd(it, late)))

	// The end date is a calendar day: anything up to its midnight fits.
	lastEvening := flight("UA1", "SFO", "JFK", june(10, 18, 0), june(10, 23, 30))
	assert.True(t, e.ValidateAdd(it, lastEvening).Valid)
}

func TestRule_WithinTripDates_UndatedTrip(t *testing.T) {
	e := rules.NewEngine(rules.DefaultConfig())
	it := domain.Itinerary{ID: uuid.New(), Title: "Someday"}

	seg := flight("UA1", "SFO", "JFK", june(20, 9, 0), june(20, 14, 0))
	assert.True(t, e.ValidateAdd(it, seg).Valid)
}

// ---- no-flight-overlap ----------------------------------------------------------

func TestRule_FlightOverlap_FlightVsFlight(t *testing.T) {
	e := rules.NewEngine(rules.DefaultConfig())
	existing := flight("UA1", "SFO", "JFK", june(2, 9, 0), june(2, 17, 0))
	it := datedTrip(existing)

	overlapping := flight("DL2", "SFO", "BOS", june(2, 12, 0), june(2, 20, 0))
	res := e.ValidateAdd(it, overlapping)
	assert.Equal(t, "no-flight-overlap", violationID(t, res))
	assert.Equal(t, []uuid.UUID{existing.ID}, res.Violation.RelatedSegmentIDs)

	// Same-day but disjoint times are fine.
	later := flight("DL2", "JFK", "BOS", june(2, 18, 0), june(2, 19, 30))
	assert.True(t, e.ValidateAdd(it, later).Valid)
}

func TestRule_FlightOverlap_DisjointTravelers(t *testing.T) {
	e := rules.NewEngine(rules.DefaultConfig())
	existing := flight("UA1", "SFO", "JFK", june(2, 9, 0), june(2, 17, 0))
	existing.Travelers = []string{"alice"}
	it := datedTrip(existing)

	candidate := flight("DL2", "LAX", "BOS", june(2, 12, 0), june(2, 20, 0))
	candidate.Travelers = []string{"bob"}
	assert.True(t, e.ValidateAdd(it, candidate).Valid)
}

func TestRule_FlightOverlap_FlightVsHotel(t *testing.T) {
	e := rules.NewEngine(rules.DefaultConfig())
	stay := hotel("Grand Hotel", "New York", june(2, 15, 0), june(5, 11, 0))
	it := datedTrip(stay)

	// Flight on a stay day conflicts at day granularity.
	mid := flight("UA1", "JFK", "BOS", june(3, 9, 0), june(3, 11, 0))
	assert.Equal(t, "no-flight-overlap", violationID(t, e.ValidateAdd(it, mid)))

	// Flight on the checkout day after day-normalization does not.
	checkout := flight("UA1", "JFK", "SFO", june(5, 15, 0), june(5, 21, 0))
	assert.True(t, e.ValidateAdd(it, checkout).Valid)
}

// ---- no-hotel-overlap -------------------------------------------------------------

func TestRule_HotelOverlap(t *testing.T) {
	e := rules.NewEngine(rules.DefaultConfig())
	existing := hotel("La Villa", "Rome", june(2, 15, 0), june(5, 11, 0))
	it := datedTrip(existing)

	// Same property, overlapping dates, different punctuation: conflict.
	dup := hotel("LA-VILLA!", "Rome", june(4, 15, 0), june(7, 11, 0))
	res := e.ValidateAdd(it, dup)
	assert.Equal(t, "no-hotel-overlap", violationID(t, res))
	assert.Equal(t, []uuid.UUID{existing.ID}, res.Violation.RelatedSegmentIDs)

	// Different property overlapping is allowed (split parties happen).
	other := hotel("Hotel Roma", "Rome", june(4, 15, 0), june(7, 11, 0))
	assert.True(t, e.ValidateAdd(it, other).Valid)

	// Back-to-back at the same property: checkout day == check-in day.
	backToBack := hotel("La Villa", "Rome", june(5, 15, 0), june(8, 11, 0))
	assert.True(t, e.ValidateAdd(it, backToBack).Valid)
}

// ---- reasonable-duration (warning) ---------------------------------------------------

func TestRule_ReasonableDuration(t *testing.T) {
	e := rules.NewEngine(rules.DefaultConfig())
	it := datedTrip()

	short := flight("UA1", "SFO", "OAK", june(2, 9, 0), june(2, 9, 20))
	res := e.ValidateAdd(it, short)
	require.True(t, res.Valid)
	assert.Contains(t, warningIDs(res), "reasonable-duration")

	marathon := activity("Dinner at Luigi's", "dining", "Rome", june(2, 18, 0), june(3, 6, 0))
	res = e.ValidateAdd(it, marathon)
	require.True(t, res.Valid)
	assert.Contains(t, warningIDs(res), "reasonable-duration")

	longHaul := transfer("taxi", "Airport", "Hotel", june(2, 9, 0), june(2, 18, 30))
	res = e.ValidateAdd(it, longHaul)
	require.True(t, res.Valid)
	assert.Contains(t, warningIDs(res), "reasonable-duration")

	normal := flight("UA1", "SFO", "JFK", june(2, 9, 0), june(2, 17, 0))
	assert.NotContains(t, warningIDs(e.ValidateAdd(it, normal)), "reasonable-duration")
}

// ---- activity-requires-transfer (warning) --------------------------------------------

func TestRule_ActivityRequiresTransfer(t *testing.T) {
	e := rules.NewEngine(rules.DefaultConfig())
	arrival := flight("UA1", "SFO", "Rome", june(2, 8, 0), june(2, 16, 0))

	// Activity in a different city than where the previous segment ends,
	// no transfer in between: warn.
	it := datedTrip(arrival)
	tour := activity("Colosseum Tour", "sightseeing", "Florence", june(3, 10, 0), june(3, 12, 0))
	res := e.ValidateAdd(it, tour)
	require.True(t, res.Valid)
	assert.Contains(t, warningIDs(res), "activity-requires-transfer")

	// A bridging transfer silences the warning.
	train := transfer("train", "Rome", "Florence", june(3, 7, 0), june(3, 9, 0))
	it = datedTrip(arrival, train)
	res = e.ValidateAdd(it, tour)
	assert.NotContains(t, warningIDs(res), "activity-requires-transfer")

	// Same location as the previous segment: no warning.
	local := activity("Colosseum Tour", "sightseeing", "Rome", june(3, 10, 0), june(3, 12, 0))
	res = e.ValidateAdd(datedTrip(arrival), local)
	assert.NotContains(t, warningIDs(res), "activity-requires-transfer")
}

// ---- geographic-continuity (info) ----------------------------------------------------

func TestRule_GeographicContinuity(t *testing.T) {
	e := rules.NewEngine(rules.DefaultConfig())
	arrival := flight("UA1", "SFO", "Rome", june(2, 8, 0), june(2, 16, 0))
	it := datedTrip(arrival)

	meeting := domain.Segment{
		ID: uuid.New(), Type: domain.SegmentMeeting, Status: domain.StatusConfirmed,
		Start: june(3, 10, 0), End: june(3, 11, 0),
		Meeting: &domain.MeetingDetails{Title: "Standup", Location: "Milan"},
	}
	res := e.ValidateAdd(it, meeting)
	require.True(t, res.Valid)
	require.Contains(t, infoIDs(res), "geographic-continuity")

	for _, n := range res.Infos {
		if n.RuleID == "geographic-continuity" {
			assert.Contains(t, n.Message, "Rome")
			assert.Contains(t, n.Message, "Milan")
			assert.Contains(t, n.Message, "overnight")
		}
	}
}

func TestRule_GeographicContinuity_SameLocationSilent(t *testing.T) {
	e := rules.NewEngine(rules.DefaultConfig())
	arrival := flight("UA1", "SFO", "Rome", june(2, 8, 0), june(2, 16, 0))
	it := datedTrip(arrival)

	local := activity("Trevi Fountain", "sightseeing", "Rome", june(3, 10, 0), june(3, 11, 0))
	res := e.ValidateAdd(it, local)
	assert.NotContains(t, infoIDs(res), "geographic-continuity")
}

// ---- hotel-activity-overlap-allowed (info) -------------------------------------------

func TestRule_HotelActivityOverlap(t *testing.T) {
	e := rules.NewEngine(rules.DefaultConfig())
	stay := hotel("La Villa", "Rome", june(2, 15, 0), june(6, 11, 0))
	it := datedTrip(stay)

	tour := activity("Colosseum Tour", "sightseeing", "Rome", june(3, 10, 0), june(3, 12, 0))
	res := e.ValidateAdd(it, tour)

	// An activity during a hotel stay is valid and noted, never blocked.
	require.True(t, res.Valid)
	assert.Contains(t, infoIDs(res), "hotel-activity-overlap-allowed")
}
