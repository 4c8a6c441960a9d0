package occupancy

import (
	"time"

	"hostcal/internal/domain/shared/daterange"
)

// Channel identifies where an occupancy interval originated.
type Channel string

const (
	ChannelDirectConfirmed Channel = "DIRECT_CONFIRMED"
	ChannelDirectPending   Channel = "DIRECT_PENDING"
	ChannelManual          Channel = "MANUAL"
	ChannelAirbnb          Channel = "AIRBNB"
	ChannelVrbo            Channel = "VRBO"
	ChannelBookingCom      Channel = "BOOKING_COM"
	ChannelExpedia         Channel = "EXPEDIA"
	ChannelOther           Channel = "OTHER"
)

// Meta is opaque display payload carried through layout and selection
// untouched.
type Meta struct {
	GuestName  string
	PriceTotal int64
	Currency   string
	Notes      string
	Nights     int
}

// Interval is a span during which a resource is unavailable. End is
// exclusive; DisplayEnd derives the inclusive last occupied day for labels.
type Interval struct {
	ID         string
	ResourceID string
	Range      daterange.DateRange
	Channel    Channel
	Mutable    bool
	Label      string
	Color      string
	Meta       Meta
}

func (iv Interval) Start() time.Time { return iv.Range.Start }
func (iv Interval) End() time.Time   { return iv.Range.End }

// DisplayEnd is the inclusive end used for rendering labels only. All
// interval math stays exclusive.
func (iv Interval) DisplayEnd(step time.Duration) time.Time {
	if iv.Range.IsZeroWidth() {
		return iv.Range.Start
	}
	return iv.Range.End.Add(-step)
}

// CoversDay reports occupancy of the calendar day starting at dayStart.
func (iv Interval) CoversDay(dayStart time.Time) bool {
	return iv.Range.CoversDay(dayStart)
}
