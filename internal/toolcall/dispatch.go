// Package toolcall executes the conversational agent's itinerary tools
// (add_flight, add_hotel, add_activity, add_transfer, add_meeting,
// update_segment, remove_segment) against the segment mutation service and
// reconciles the results: every successful result carries the itinerary
// version it produced and the mutated segment's own ID — never the itinerary
// ID — so downstream refresh tracking can rely on it.
//
// The package is deliberately LLM-free: it is the deterministic execution
// half of the assistant. Prompting and orchestration live elsewhere.
package toolcall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/rules"
	"github.com/tripweaver/backend/internal/service"
)

// Call is one tool invocation as emitted by the agent.
type Call struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ErrorDetail is a structured, relayable failure. Tool failures are results,
// not Go errors: the agent needs the code and suggestion to phrase a useful
// reply.
type ErrorDetail struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Error codes carried by ErrorDetail.
const (
	CodeDuplicateSegment    = "duplicate_segment"
	CodeConstraintViolation = "constraint_violation"
	CodeNotFound            = "not_found"
	CodeVersionConflict     = "version_conflict"
	CodeBadArguments        = "bad_arguments"
	CodeUnknownTool         = "unknown_tool"
	CodeInternal            = "internal"
)

// Result is the reconciled outcome of one tool call.
type Result struct {
	Tool             string       `json:"tool"`
	OK               bool         `json:"ok"`
	Message          string       `json:"message,omitempty"`
	ItineraryVersion int64        `json:"itinerary_version,omitempty"`
	SegmentID        *uuid.UUID   `json:"segment_id,omitempty"`
	Warnings         []string     `json:"warnings,omitempty"`
	Err              *ErrorDetail `json:"error,omitempty"`
}

// SegmentMutator is the slice of service.SegmentService the dispatcher
// depends on. Defined here, in the consumer package, so tests can inject a
// mock.
type SegmentMutator interface {
	Add(ctx context.Context, itineraryID uuid.UUID, seg domain.Segment) (service.AddResult, error)
	Update(ctx context.Context, itineraryID, segmentID uuid.UUID, seg domain.Segment) (service.UpdateResult, error)
	Remove(ctx context.Context, itineraryID, segmentID uuid.UUID) (domain.Itinerary, error)
}

// Dispatcher routes tool calls to the segment service.
type Dispatcher struct {
	segments SegmentMutator
}

// NewDispatcher constructs a Dispatcher backed by the provided mutator.
func NewDispatcher(segments SegmentMutator) *Dispatcher {
	return &Dispatcher{segments: segments}
}

// Execute runs one tool call against an itinerary. It never returns a Go
// error for tool-level failures — those become structured Results so the
// caller can relay them verbatim.
func (d *Dispatcher) Execute(ctx context.Context, itineraryID uuid.UUID, call Call) Result {
	switch call.Name {
	case "add_flight", "add_hotel", "add_activity", "add_transfer", "add_meeting":
		seg, err := segmentFromArguments(call.Name, call.Arguments)
		if err != nil {
			return failed(call.Name, CodeBadArguments, err.Error(), "")
		}
		seg.Origin = domain.OriginAgent
		res, err := d.segments.Add(ctx, itineraryID, seg)
		if err != nil {
			return failure(call.Name, err)
		}
		added, _ := res.Itinerary.SegmentByID(res.AddedSegmentID)
		return Result{
			Tool:             call.Name,
			OK:               true,
			Message:          fmt.Sprintf("Added %s to the itinerary.", added.DisplayName()),
			ItineraryVersion: res.Itinerary.Version,
			SegmentID:        &res.AddedSegmentID,
			Warnings:         collectWarnings(res.Warnings, res.Infos, added),
		}

	case "update_segment":
		var args updateSegmentArgs
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return failed(call.Name, CodeBadArguments, "invalid update_segment arguments: "+err.Error(), "")
		}
		if args.SegmentID == uuid.Nil {
			return failed(call.Name, CodeBadArguments, "segment_id is required", "")
		}
		res, err := d.segments.Update(ctx, itineraryID, args.SegmentID, args.Segment)
		if err != nil {
			return failure(call.Name, err)
		}
		updated, _ := res.Itinerary.SegmentByID(res.SegmentID)
		return Result{
			Tool:             call.Name,
			OK:               true,
			Message:          fmt.Sprintf("Updated %s.", updated.DisplayName()),
			ItineraryVersion: res.Itinerary.Version,
			SegmentID:        &res.SegmentID,
			Warnings:         collectWarnings(res.Warnings, res.Infos, updated),
		}

	case "remove_segment":
		var args removeSegmentArgs
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return failed(call.Name, CodeBadArguments, "invalid remove_segment arguments: "+err.Error(), "")
		}
		if args.SegmentID == uuid.Nil {
			return failed(call.Name, CodeBadArguments, "segment_id is required", "")
		}
		it, err := d.segments.Remove(ctx, itineraryID, args.SegmentID)
		if err != nil {
			return failure(call.Name, err)
		}
		return Result{
			Tool:             call.Name,
			OK:               true,
			Message:          "Removed the segment from the itinerary.",
			ItineraryVersion: it.Version,
			SegmentID:        &args.SegmentID,
		}

	default:
		return failed(call.Name, CodeUnknownTool, fmt.Sprintf("unknown tool %q", call.Name), "")
	}
}

type updateSegmentArgs struct {
	SegmentID uuid.UUID      `json:"segment_id"`
	Segment   domain.Segment `json:"segment"`
}

type removeSegmentArgs struct {
	SegmentID uuid.UUID `json:"segment_id"`
}

// failure maps a service error to a structured tool result.
func failure(tool string, err error) Result {
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		return failed(tool, CodeDuplicateSegment, conflict.Message,
			"update the existing segment instead of adding a new one")
	}
	var violation *domain.RuleViolationError
	if errors.As(err, &violation) {
		return failed(tool, CodeConstraintViolation, violation.Message, violation.Suggestion)
	}
	switch {
	case errors.Is(err, domain.ErrValidation):
		return failed(tool, CodeConstraintViolation, err.Error(), "")
	case errors.Is(err, domain.ErrNotFound):
		return failed(tool, CodeNotFound, "itinerary or segment not found", "")
	case errors.Is(err, domain.ErrVersionConflict):
		return failed(tool, CodeVersionConflict, "the itinerary changed while this tool ran; retry with the latest state", "")
	}
	return failed(tool, CodeInternal, err.Error(), "")
}

func failed(tool, code, message, suggestion string) Result {
	return Result{
		Tool: tool,
		Err:  &ErrorDetail{Code: code, Message: message, Suggestion: suggestion},
	}
}

// collectWarnings flattens rule notes into relayable strings and appends the
// advisory time-of-day note when one applies.
func collectWarnings(warnings, infos []rules.Note, seg domain.Segment) []string {
	var out []string
	for _, n := range warnings {
		out = append(out, n.Message)
	}
	for _, n := range infos {
		out = append(out, n.Message)
	}
	if a := rules.ClassifyStart(seg); a != nil {
		msg := a.Message
		if a.SuggestedStart != nil {
			msg += fmt.Sprintf(" (suggested start: %s)", a.SuggestedStart.Format("15:04"))
		}
		out = append(out, msg)
	}
	return out
}

// segmentFromArguments decodes tool-specific argument payloads into a
// domain.Segment. Timestamps accept RFC 3339 or a handful of laxer layouts
// the agent tends to emit.
func segmentFromArguments(tool string, raw json.RawMessage) (domain.Segment, error) {
	switch tool {
	case "add_flight":
		var a struct {
			Airline      string   `json:"airline"`
			FlightNumber string   `json:"flight_number"`
			Origin       string   `json:"origin"`
			Destination  string   `json:"destination"`
			Departure    string   `json:"departure"`
			Arrival      string   `json:"arrival"`
			Travelers    []string `json:"travelers"`
		}
		if err := json.Unmarshal(raw, &a); err != nil {
			return domain.Segment{}, fmt.Errorf("invalid add_flight arguments: %w", err)
		}
		start, err := parseTime(a.Departure)
		if err != nil {
			return domain.Segment{}, fmt.Errorf("departure: %w", err)
		}
		end, err := parseTime(a.Arrival)
		if err != nil {
			return domain.Segment{}, fmt.Errorf("arrival: %w", err)
		}
		return domain.Segment{
			Type: domain.SegmentFlight, Start: start, End: end, Travelers: a.Travelers,
			Flight: &domain.FlightDetails{
				Airline: a.Airline, FlightNumber: a.FlightNumber,
				Origin: a.Origin, Destination: a.Destination,
			},
		}, nil

	case "add_hotel":
		var a struct {
			PropertyName string   `json:"property_name"`
			Location     string   `json:"location"`
			CheckIn      string   `json:"check_in"`
			CheckOut     string   `json:"check_out"`
			RoomCount    int      `json:"room_count"`
			Travelers    []string `json:"travelers"`
		}
		if err := json.Unmarshal(raw, &a); err != nil {
			return domain.Segment{}, fmt.Errorf("invalid add_hotel arguments: %w", err)
		}
		start, err := parseTime(a.CheckIn)
		if err != nil {
			return domain.Segment{}, fmt.Errorf("check_in: %w", err)
		}
		end, err := parseTime(a.CheckOut)
		if err != nil {
			return domain.Segment{}, fmt.Errorf("check_out: %w", err)
		}
		return domain.Segment{
			Type: domain.SegmentHotel, Start: start, End: end, Travelers: a.Travelers,
			Hotel: &domain.HotelDetails{
				PropertyName: a.PropertyName, Location: a.Location, RoomCount: a.RoomCount,
			},
		}, nil

	case "add_activity":
		var a struct {
			Name        string   `json:"name"`
			Description string   `json:"description"`
			Location    string   `json:"location"`
			Category    string   `json:"category"`
			Start       string   `json:"start"`
			End         string   `json:"end"`
			Travelers   []string `json:"travelers"`
		}
		if err := json.Unmarshal(raw, &a); err != nil {
			return domain.Segment{}, fmt.Errorf("invalid add_activity arguments: %w", err)
		}
		start, err := parseTime(a.Start)
		if err != nil {
			return domain.Segment{}, fmt.Errorf("start: %w", err)
		}
		end, err := parseTime(a.End)
		if err != nil {
			return domain.Segment{}, fmt.Errorf("end: %w", err)
		}
		return domain.Segment{
			Type: domain.SegmentActivity, Start: start, End: end, Travelers: a.Travelers,
			Activity: &domain.ActivityDetails{
				Name: a.Name, Description: a.Description,
				Location: a.Location, Category: a.Category,
			},
		}, nil

	case "add_transfer":
		var a struct {
			TransferType string   `json:"transfer_type"`
			Pickup       string   `json:"pickup"`
			Dropoff      string   `json:"dropoff"`
			Start        string   `json:"start"`
			End          string   `json:"end"`
			Travelers    []string `json:"travelers"`
		}
		if err := json.Unmarshal(raw, &a); err != nil {
			return domain.Segment{}, fmt.Errorf("invalid add_transfer arguments: %w", err)
		}
		start, err := parseTime(a.Start)
		if err != nil {
			return domain.Segment{}, fmt.Errorf("start: %w", err)
		}
		end, err := parseTime(a.End)
		if err != nil {
			return domain.Segment{}, fmt.Errorf("end: %w", err)
		}
		return domain.Segment{
			Type: domain.SegmentTransfer, Start: start, End: end, Travelers: a.Travelers,
			Transfer: &domain.TransferDetails{
				TransferType: a.TransferType, Pickup: a.Pickup, Dropoff: a.Dropoff,
			},
		}, nil

	case "add_meeting":
		var a struct {
			Title     string   `json:"title"`
			Location  string   `json:"location"`
			Start     string   `json:"start"`
			End       string   `json:"end"`
			Travelers []string `json:"travelers"`
		}
		if err := json.Unmarshal(raw, &a); err != nil {
			return domain.Segment{}, fmt.Errorf("invalid add_meeting arguments: %w", err)
		}
		start, err := parseTime(a.Start)
		if err != nil {
			return domain.Segment{}, fmt.Errorf("start: %w", err)
		}
		end, err := parseTime(a.End)
		if err != nil {
			return domain.Segment{}, fmt.Errorf("end: %w", err)
		}
		return domain.Segment{
			Type: domain.SegmentMeeting, Start: start, End: end, Travelers: a.Travelers,
			Meeting: &domain.MeetingDetails{Title: a.Title, Location: a.Location},
		}, nil
	}
	return domain.Segment{}, fmt.Errorf("unknown add tool %q", tool)
}

// timeLayouts are tried in order. Agents frequently drop the timezone or the
// seconds, so the strict RFC 3339 layout comes first and laxer ones follow.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
