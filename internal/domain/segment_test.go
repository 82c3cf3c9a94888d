package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripweaver/backend/internal/domain"
)

func TestSegment_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		seg  domain.Segment
		want string
	}{
		{
			name: "flight with airline",
			seg: domain.Segment{Type: domain.SegmentFlight,
				Flight: &domain.FlightDetails{Airline: "United", FlightNumber: "UA123"}},
			want: "United UA123",
		},
		{
			name: "flight without airline",
			seg: domain.Segment{Type: domain.SegmentFlight,
				Flight: &domain.FlightDetails{FlightNumber: "UA123"}},
			want: "UA123",
		},
		{
			name: "hotel",
			seg: domain.Segment{Type: domain.SegmentHotel,
				Hotel: &domain.HotelDetails{PropertyName: "Grand Hotel"}},
			want: "Grand Hotel",
		},
		{
			name: "transfer",
			seg: domain.Segment{Type: domain.SegmentTransfer,
				Transfer: &domain.TransferDetails{Pickup: "SFO", Dropoff: "Downtown"}},
			want: "SFO → Downtown",
		},
		{
			name: "custom uses meeting details",
			seg: domain.Segment{Type: domain.SegmentCustom,
				Meeting: &domain.MeetingDetails{Title: "Packing"}},
			want: "Packing",
		},
		{
			name: "missing details falls back to the type",
			seg:  domain.Segment{Type: domain.SegmentHotel},
			want: "HOTEL",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.seg.DisplayName())
		})
	}
}

func TestSegment_Location(t *testing.T) {
	flight := domain.Segment{Type: domain.SegmentFlight,
		Flight: &domain.FlightDetails{Origin: "SFO", Destination: "JFK"}}
	assert.Equal(t, "JFK", flight.Location())

	transfer := domain.Segment{Type: domain.SegmentTransfer,
		Transfer: &domain.TransferDetails{Pickup: "JFK", Dropoff: "Manhattan"}}
	assert.Equal(t, "Manhattan", transfer.Location())

	unknown := domain.Segment{Type: domain.SegmentActivity,
		Activity: &domain.ActivityDetails{Name: "Museum"}}
	assert.Equal(t, "", unknown.Location())
}

func TestSegment_SharesTraveler(t *testing.T) {
	alice := domain.Segment{Travelers: []string{"alice"}}
	bob := domain.Segment{Travelers: []string{"bob"}}
	both := domain.Segment{Travelers: []string{"alice", "bob"}}
	party := domain.Segment{} // no list means the whole party

	assert.False(t, alice.SharesTraveler(bob))
	assert.True(t, alice.SharesTraveler(both))
	assert.True(t, alice.SharesTraveler(party))
	assert.True(t, party.SharesTraveler(bob))
	assert.True(t, party.SharesTraveler(party))
}

func TestSegment_DetailsMatchType(t *testing.T) {
	ok := domain.Segment{Type: domain.SegmentFlight,
		Flight: &domain.FlightDetails{FlightNumber: "UA1"}}
	assert.True(t, ok.DetailsMatchType())

	custom := domain.Segment{Type: domain.SegmentCustom,
		Meeting: &domain.MeetingDetails{Title: "Packing"}}
	assert.True(t, custom.DetailsMatchType())

	wrongDetail := domain.Segment{Type: domain.SegmentFlight,
		Hotel: &domain.HotelDetails{PropertyName: "Grand"}}
	assert.False(t, wrongDetail.DetailsMatchType())

	none := domain.Segment{Type: domain.SegmentFlight}
	assert.False(t, none.DetailsMatchType())

	two := domain.Segment{Type: domain.SegmentFlight,
		Flight: &domain.FlightDetails{FlightNumber: "UA1"},
		Hotel:  &domain.HotelDetails{PropertyName: "Grand"}}
	assert.False(t, two.DetailsMatchType())
}
