package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/normalize"
)

// TimeAssessment is the advisory result of checking a segment's start hour
// against the expected window for its name/category. It never gates mutation
// acceptance; the tool dispatcher and the dry-run endpoint surface it as a
// note.
type TimeAssessment struct {
	Severity       Severity   `json:"severity"`
	Message        string     `json:"message"`
	SuggestedStart *time.Time `json:"suggested_start,omitempty"`
}

// hourWindow is an expected start window in local hours. Start > End means
// the window wraps around midnight (e.g. 22:00–03:00).
type hourWindow struct {
	keyword string
	start   int
	end     int
}

// keywordWindows maps name keywords to expected start windows. Matching is
// case-insensitive and the longest matching keyword takes priority, so
// "late night" wins over "night".
var keywordWindows = []hourWindow{
	{"late night", 22, 3},
	{"breakfast", 6, 11},
	{"brunch", 10, 14},
	{"dinner", 17, 23},
	{"lunch", 11, 15},
	{"morning", 5, 12},
	{"night", 18, 23},
}

// diningWindow is the fallback window for dining-category activities whose
// name matches no keyword.
var diningWindow = hourWindow{keyword: "meal", start: 7, end: 22}

// ClassifyStart checks a segment's start hour against the window derived
// from its name keywords (or dining category). Returns nil when the start
// time fits or no window applies.
func ClassifyStart(seg domain.Segment) *TimeAssessment {
	win, ok := windowFor(seg)
	if !ok {
		return nil
	}
	hour := seg.Start.Hour()
	if win.contains(hour) {
		return nil
	}

	suggested := suggestedStart(seg.Start, win)
	sev := SeverityWarning
	if win.distance(hour) > 4 {
		sev = SeverityError
	}
	return &TimeAssessment{
		Severity: sev,
		Message: fmt.Sprintf("%q starts at %02d:%02d, outside the usual %s window (%02d:00–%02d:00)",
			seg.DisplayName(), seg.Start.Hour(), seg.Start.Minute(), win.keyword, win.start, win.end),
		SuggestedStart: &suggested,
	}
}

// windowFor picks the start window for a segment: the longest keyword match
// in its name wins; dining-category activities with no keyword fall back to
// the generic meal window.
func windowFor(seg domain.Segment) (hourWindow, bool) {
	name := strings.ToLower(seg.DisplayName())
	if seg.Type == domain.SegmentActivity && seg.Activity != nil && seg.Activity.Description != "" {
		name += " " + strings.ToLower(seg.Activity.Description)
	}

	best := hourWindow{}
	found := false
	for _, w := range keywordWindows {
		if !strings.Contains(name, w.keyword) {
			continue
		}
		if !found || len(w.keyword) > len(best.keyword) {
			best = w
			found = true
		}
	}
	if found {
		return best, true
	}

	if seg.Type == domain.SegmentActivity && seg.Activity != nil &&
		normalize.Equal(seg.Activity.Category, "dining") {
		return diningWindow, true
	}
	return hourWindow{}, false
}

// contains reports whether the hour falls inside the window, handling
// wraparound windows that span midnight.
func (w hourWindow) contains(hour int) bool {
	if w.start <= w.end {
		return hour >= w.start && hour <= w.end
	}
	return hour >= w.start || hour <= w.end
}

// distance returns how many hours outside the window an hour is, in the
// shorter direction around the clock.
func (w hourWindow) distance(hour int) int {
	best := 24
	for _, edge := range []int{w.start, w.end} {
		d := hour - edge
		if d < 0 {
			d = -d
		}
		if 24-d < d {
			d = 24 - d
		}
		if d < best {
			best = d
		}
	}
	return best
}

// suggestedStart keeps the segment's date and minute but moves the hour to
// the start of the expected window.
func suggestedStart(t time.Time, w hourWindow) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, w.start, t.Minute(), 0, 0, t.Location())
}
