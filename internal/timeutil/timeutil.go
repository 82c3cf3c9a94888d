// Package timeutil provides the pure date/interval arithmetic shared by the
// rules engine and the dedup resolver. All functions are stateless and
// compare timestamps in the reference frame they are stored in — no timezone
// conversion happens here.
package timeutil

import "time"

// DefaultInstantTolerance is the tolerance used for meeting/custom segment
// identity when the caller does not supply one.
const DefaultInstantTolerance = time.Minute

// overnightGapThreshold is the minimum gap between consecutive segments that
// counts as an overnight break (in combination with a day boundary).
const overnightGapThreshold = 4 * time.Hour

// SameCalendarDay reports whether both timestamps fall on the same
// year/month/day, ignoring time of day.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameInstant reports whether two timestamps are within tolerance of each
// other. A non-positive tolerance falls back to DefaultInstantTolerance.
func SameInstant(a, b time.Time, tolerance time.Duration) bool {
	if tolerance <= 0 {
		tolerance = DefaultInstantTolerance
	}
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

// RangesOverlap reports whether two ranges intersect after both are
// normalized to whole-day boundaries. Normalization makes a checkout on day
// N and a check-in on day N adjacent, not overlapping: [d1,d2) vs [d2,d3)
// is false.
func RangesOverlap(startA, endA, startB, endB time.Time) bool {
	sa, ea := truncateToDay(startA), truncateToDay(endA)
	sb, eb := truncateToDay(startB), truncateToDay(endB)
	return sa.Before(eb) && sb.Before(ea)
}

// DurationMinutes returns the segment length in whole minutes. Any valid
// segment has a positive duration; the chronological-order rule enforces it.
func DurationMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// HasOvernightGap reports whether the gap between the end of one segment and
// the start of the next exceeds four hours and crosses at least one day
// boundary. Used only for advisory continuity notes, never to block.
func HasOvernightGap(endA, startB time.Time) bool {
	if !startB.After(endA) {
		return false
	}
	if startB.Sub(endA) <= overnightGapThreshold {
		return false
	}
	return !SameCalendarDay(endA, startB)
}

// truncateToDay drops the time-of-day component, keeping the location.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
