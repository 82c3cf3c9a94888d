package toolcall

import (
	"sort"
	"time"

	"github.com/tripweaver/backend/internal/domain"
)

// TripContext is the compact, serializable snapshot of an itinerary handed
// to the assistant before each turn. It is a flat, denormalized view:
// segments are grouped by kind and ordered by start time, with dates
// pre-formatted so the prompt layer never does time arithmetic.
type TripContext struct {
	Trip         tripInfo         `json:"trip"`
	Destinations []string         `json:"destinations,omitempty"`
	Travelers    []string         `json:"travelers,omitempty"`
	Flights      []segmentSummary `json:"flights,omitempty"`
	Lodgings     []segmentSummary `json:"lodgings,omitempty"`
	Activities   []segmentSummary `json:"activities,omitempty"`
	Transfers    []segmentSummary `json:"transfers,omitempty"`
	Meetings     []segmentSummary `json:"meetings,omitempty"`
	GeneratedAt  string           `json:"generated_at"`
}

type tripInfo struct {
	ID        string `json:"id"`
	Version   int64  `json:"version"`
	Title     string `json:"title"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type segmentSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Location string `json:"location,omitempty"`
}

// BuildContext assembles a TripContext from an itinerary. Segment order
// within each group is by start time; stored order carries no meaning.
func BuildContext(it domain.Itinerary) TripContext {
	segs := make([]domain.Segment, len(it.Segments))
	copy(segs, it.Segments)
	sort.Slice(segs, func(i, j int) bool { return segs[i].Start.Before(segs[j].Start) })

	ctx := TripContext{
		Trip: tripInfo{
			ID:      it.ID.String(),
			Version: it.Version,
			Title:   it.Title,
		},
		Destinations: it.Destinations,
		Travelers:    it.Travelers,
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if it.StartDate != nil {
		ctx.Trip.StartDate = it.StartDate.Format("2006-01-02")
	}
	if it.EndDate != nil {
		ctx.Trip.EndDate = it.EndDate.Format("2006-01-02")
	}

	for _, s := range segs {
		sum := segmentSummary{
			ID:       s.ID.String(),
			Name:     s.DisplayName(),
			Status:   string(s.Status),
			Start:    s.Start.Format(time.RFC3339),
			End:      s.End.Format(time.RFC3339),
			Location: s.Location(),
		}
		switch s.Type {
		case domain.SegmentFlight:
			ctx.Flights = append(ctx.Flights, sum)
		case domain.SegmentHotel:
			ctx.Lodgings = append(ctx.Lodgings, sum)
		case domain.SegmentActivity:
			ctx.Activities = append(ctx.Activities, sum)
		case domain.SegmentTransfer:
			ctx.Transfers = append(ctx.Transfers, sum)
		case domain.SegmentMeeting, domain.SegmentCustom:
			ctx.Meetings = append(ctx.Meetings, sum)
		}
	}
	return ctx
}
