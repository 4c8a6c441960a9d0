package occupancy

import (
	"testing"
	"time"

	"hostcal/internal/domain/shared/daterange"
)

func utcDay(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeConfirmedBooking(t *testing.T) {
	res := Normalize([]BookingRow{{
		ID:         "bk-1",
		ResourceID: "listing-1",
		CheckIn:    utcDay(1),
		CheckOut:   utcDay(4),
		Status:     "confirmed",
		GuestName:  "Ada",
		PriceTotal: 42000,
		Currency:   "EUR",
	}}, nil)

	if res.Dropped != 0 {
		t.Fatalf("dropped = %d", res.Dropped)
	}
	if len(res.Intervals) != 1 {
		t.Fatalf("intervals = %d, want 1", len(res.Intervals))
	}
	iv := res.Intervals[0]
	if iv.Channel != ChannelDirectConfirmed {
		t.Errorf("channel = %s", iv.Channel)
	}
	if iv.Mutable {
		t.Error("bookings are never mutable from the calendar")
	}
	if iv.Meta.Nights != 3 {
		t.Errorf("nights = %d, want 3", iv.Meta.Nights)
	}
	if !iv.Range.CoversDay(utcDay(3)) || iv.Range.CoversDay(utcDay(4)) {
		t.Error("checkout day must stay free")
	}
	if iv.Meta.GuestName != "Ada" || iv.Meta.PriceTotal != 42000 {
		t.Errorf("meta = %+v", iv.Meta)
	}
}

func TestNormalizeBookingStatuses(t *testing.T) {
	tests := []struct {
		status  string
		channel Channel
		keep    bool
	}{
		{"paid", ChannelDirectConfirmed, true},
		{"confirmed", ChannelDirectConfirmed, true},
		{"CONFIRMED", ChannelDirectConfirmed, true},
		{"pending", ChannelDirectPending, true},
		{"awaiting-payment", ChannelDirectPending, true},
		{"awaiting_payment", ChannelDirectPending, true},
		{"cancelled", "", false},
		{"declined", "", false},
		{"payment-failed", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run("status "+tc.status, func(t *testing.T) {
			res := Normalize([]BookingRow{{
				ID:         "bk",
				ResourceID: "r",
				CheckIn:    utcDay(1),
				CheckOut:   utcDay(2),
				Status:     tc.status,
			}}, nil)
			if res.Dropped != 0 {
				t.Fatalf("excluded status counted as dropped")
			}
			if tc.keep {
				if len(res.Intervals) != 1 || res.Intervals[0].Channel != tc.channel {
					t.Errorf("intervals = %+v", res.Intervals)
				}
			} else if len(res.Intervals) != 0 {
				t.Errorf("status %q should be excluded", tc.status)
			}
		})
	}
}

func TestNormalizeDropsMalformedRows(t *testing.T) {
	res := Normalize(
		[]BookingRow{
			{ID: "", ResourceID: "r", CheckIn: utcDay(1), CheckOut: utcDay(2), Status: "paid"},
			{ID: "bk", ResourceID: "", CheckIn: utcDay(1), CheckOut: utcDay(2), Status: "paid"},
			{ID: "bk2", ResourceID: "r", Status: "paid"},
		},
		[]BlockRow{
			{ID: "", ResourceID: "r", Start: utcDay(1), End: utcDay(2)},
			{ID: "bl", ResourceID: "r", Start: utcDay(5), End: utcDay(6), Source: "manual"},
		},
	)
	if res.Dropped != 4 {
		t.Errorf("dropped = %d, want 4", res.Dropped)
	}
	if len(res.Intervals) != 1 {
		t.Errorf("intervals = %d, want the one valid block", len(res.Intervals))
	}
}

func TestNormalizeInvertedBookingBecomesZeroWidth(t *testing.T) {
	res := Normalize([]BookingRow{{
		ID:         "bk",
		ResourceID: "r",
		CheckIn:    utcDay(4),
		CheckOut:   utcDay(1),
		Status:     "paid",
	}}, nil)
	if len(res.Intervals) != 1 {
		t.Fatalf("intervals = %d", len(res.Intervals))
	}
	iv := res.Intervals[0]
	if !iv.Range.IsZeroWidth() {
		t.Errorf("range = %+v, want zero width", iv.Range)
	}
	if iv.Meta.Nights != 0 {
		t.Errorf("nights = %d", iv.Meta.Nights)
	}
}

func TestNormalizeBlockMutability(t *testing.T) {
	res := Normalize(nil, []BlockRow{
		{ID: "m", ResourceID: "r", Start: utcDay(1), End: utcDay(2), Source: "manual", Notes: "painters"},
		{ID: "a", ResourceID: "r", Start: utcDay(3), End: utcDay(4), Source: "airbnb"},
	})
	if len(res.Intervals) != 2 {
		t.Fatalf("intervals = %d", len(res.Intervals))
	}
	manual, synced := res.Intervals[0], res.Intervals[1]
	if !manual.Mutable || manual.Channel != ChannelManual {
		t.Errorf("manual block = %+v", manual)
	}
	if manual.Meta.Notes != "painters" {
		t.Errorf("notes = %q", manual.Meta.Notes)
	}
	if synced.Mutable || synced.Channel != ChannelAirbnb {
		t.Errorf("synced block = %+v", synced)
	}
}

func TestCoveredAt(t *testing.T) {
	set := Normalize(nil, []BlockRow{
		{ID: "b", ResourceID: "r1", Start: utcDay(5), End: utcDay(8), Source: "manual"},
	}).Intervals

	if !CoveredAt(set, "r1", utcDay(6)) {
		t.Error("day inside the block should be covered")
	}
	if CoveredAt(set, "r1", utcDay(8)) {
		t.Error("exclusive end day should be free")
	}
	if CoveredAt(set, "r2", utcDay(6)) {
		t.Error("other resource should be free")
	}
}

func TestIntervalDisplayEnd(t *testing.T) {
	iv := Interval{Range: daterange.DateRange{Start: utcDay(1), End: utcDay(4)}}
	if got := iv.DisplayEnd(24 * time.Hour); !got.Equal(utcDay(3)) {
		t.Errorf("DisplayEnd = %v, want Mar 3", got)
	}
	zero := Interval{Range: daterange.DateRange{Start: utcDay(2), End: utcDay(2)}}
	if got := zero.DisplayEnd(24 * time.Hour); !got.Equal(utcDay(2)) {
		t.Errorf("zero-width DisplayEnd = %v", got)
	}
}
