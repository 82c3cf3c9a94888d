package domain

import (
	"time"

	"github.com/google/uuid"
)

// SegmentType discriminates the Segment union. Every rule and dedup
// comparator switches exhaustively on this tag.
type SegmentType string

const (
	SegmentFlight   SegmentType = "FLIGHT"
	SegmentHotel    SegmentType = "HOTEL"
	SegmentActivity SegmentType = "ACTIVITY"
	SegmentTransfer SegmentType = "TRANSFER"
	SegmentMeeting  SegmentType = "MEETING"
	SegmentCustom   SegmentType = "CUSTOM"
)

// SegmentStatus tracks the booking state of a segment.
type SegmentStatus string

const (
	StatusConfirmed SegmentStatus = "CONFIRMED"
	StatusTentative SegmentStatus = "TENTATIVE"
	StatusCompleted SegmentStatus = "COMPLETED"
)

// Origin records who created a segment.
type Origin string

const (
	OriginUser   Origin = "user"
	OriginAgent  Origin = "agent"
	OriginImport Origin = "import"
)

// Segment is one bookable unit of a trip: a flight, hotel stay, activity,
// transfer, meeting, or custom entry. Exactly one of the detail pointers
// must be non-nil, and it must match Type (CUSTOM reuses MeetingDetails).
// Timestamps are timezone-naive instants stored as UTC.
type Segment struct {
	ID        uuid.UUID         `json:"id"`
	Type      SegmentType       `json:"type"`
	Status    SegmentStatus     `json:"status"`
	Start     time.Time         `json:"start"`
	End       time.Time         `json:"end"`
	Travelers []string          `json:"travelers,omitempty"`
	Origin    Origin            `json:"origin,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`

	Flight   *FlightDetails   `json:"flight,omitempty"`
	Hotel    *HotelDetails    `json:"hotel,omitempty"`
	Activity *ActivityDetails `json:"activity,omitempty"`
	Transfer *TransferDetails `json:"transfer,omitempty"`
	Meeting  *MeetingDetails  `json:"meeting,omitempty"` // also used by CUSTOM
}

// FlightDetails carries flight-specific fields.
type FlightDetails struct {
	Airline      string `json:"airline,omitempty"`
	FlightNumber string `json:"flight_number"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
}

// HotelDetails carries hotel-stay fields. Check-in and check-out are the
// segment's Start and End; only the stay-specific fields live here.
type HotelDetails struct {
	PropertyName string `json:"property_name"`
	Location     string `json:"location,omitempty"`
	RoomCount    int    `json:"room_count,omitempty"`
}

// ActivityDetails carries activity fields. Category is free-form; "dining"
// and similar values feed the time-of-day semantics.
type ActivityDetails struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Category    string `json:"category,omitempty"`
}

// TransferDetails carries ground-transfer fields.
type TransferDetails struct {
	TransferType string `json:"transfer_type"` // e.g. "taxi", "shuttle", "train"
	Pickup       string `json:"pickup"`
	Dropoff      string `json:"dropoff"`
}

// MeetingDetails carries meeting and custom-segment fields.
type MeetingDetails struct {
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
}

// DisplayName returns the human-facing name of a segment, used in duplicate
// and rule-violation messages.
func (s Segment) DisplayName() string {
	switch s.Type {
	case SegmentFlight:
		if s.Flight != nil {
			if s.Flight.Airline != "" {
				return s.Flight.Airline + " " + s.Flight.FlightNumber
			}
			return s.Flight.FlightNumber
		}
	case SegmentHotel:
		if s.Hotel != nil {
			return s.Hotel.PropertyName
		}
	case SegmentActivity:
		if s.Activity != nil {
			return s.Activity.Name
		}
	case SegmentTransfer:
		if s.Transfer != nil {
			return s.Transfer.Pickup + " → " + s.Transfer.Dropoff
		}
	case SegmentMeeting, SegmentCustom:
		if s.Meeting != nil {
			return s.Meeting.Title
		}
	}
	return string(s.Type)
}

// Location returns the place a segment ends up at, used by the continuity
// rules to detect location changes between consecutive segments.
// Empty string means "unknown" and continuity checks skip the segment.
func (s Segment) Location() string {
	switch s.Type {
	case SegmentFlight:
		if s.Flight != nil {
			return s.Flight.Destination
		}
	case SegmentHotel:
		if s.Hotel != nil {
			return s.Hotel.Location
		}
	case SegmentActivity:
		if s.Activity != nil {
			return s.Activity.Location
		}
	case SegmentTransfer:
		if s.Transfer != nil {
			return s.Transfer.Dropoff
		}
	case SegmentMeeting, SegmentCustom:
		if s.Meeting != nil {
			return s.Meeting.Location
		}
	}
	return ""
}

// SharesTraveler reports whether two segments have at least one traveler in
// common. Segments with no traveler list apply to the whole party, so an
// empty list on either side counts as shared.
func (s Segment) SharesTraveler(other Segment) bool {
	if len(s.Travelers) == 0 || len(other.Travelers) == 0 {
		return true
	}
	for _, a := range s.Travelers {
		for _, b := range other.Travelers {
			if a == b {
				return true
			}
		}
	}
	return false
}

// DetailsMatchType reports whether exactly one detail struct is set and it
// corresponds to the segment's Type.
func (s Segment) DetailsMatchType() bool {
	n := 0
	if s.Flight != nil {
		n++
	}
	if s.Hotel != nil {
		n++
	}
	if s.Activity != nil {
		n++
	}
	if s.Transfer != nil {
		n++
	}
	if s.Meeting != nil {
		n++
	}
	if n != 1 {
		return false
	}
	switch s.Type {
	case SegmentFlight:
		return s.Flight != nil
	case SegmentHotel:
		return s.Hotel != nil
	case SegmentActivity:
		return s.Activity != nil
	case SegmentTransfer:
		return s.Transfer != nil
	case SegmentMeeting, SegmentCustom:
		return s.Meeting != nil
	}
	return false
}
