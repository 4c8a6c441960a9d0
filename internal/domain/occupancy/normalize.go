package occupancy

import (
	"strings"
	"time"

	"hostcal/internal/domain/shared/daterange"
)

// Booking statuses that keep a row on the timeline. Anything else
// (cancelled, declined, payment-failed) is excluded entirely.
var bookingStatusChannels = map[string]Channel{
	"paid":             ChannelDirectConfirmed,
	"confirmed":        ChannelDirectConfirmed,
	"pending":          ChannelDirectPending,
	"awaiting-payment": ChannelDirectPending,
	"awaiting_payment": ChannelDirectPending,
}

// Result carries the normalized interval set plus a dropped-row count for
// diagnostics.
type Result struct {
	Intervals []Interval
	Dropped   int
}

// Normalize folds raw booking and block rows into the uniform interval set
// the layout and selection layers reason about. Malformed rows are dropped,
// never fatal.
func Normalize(bookings []BookingRow, blocks []BlockRow) Result {
	res := Result{Intervals: make([]Interval, 0, len(bookings)+len(blocks))}
	for _, row := range bookings {
		iv, ok := normalizeBooking(row)
		if !ok {
			res.Dropped++
			continue
		}
		if iv.Channel == "" {
			// excluded status, not a data defect
			continue
		}
		res.Intervals = append(res.Intervals, iv)
	}
	for _, row := range blocks {
		iv, ok := normalizeBlock(row)
		if !ok {
			res.Dropped++
			continue
		}
		res.Intervals = append(res.Intervals, iv)
	}
	return res
}

func normalizeBooking(row BookingRow) (Interval, bool) {
	if row.ID == "" || row.ResourceID == "" || row.CheckIn.IsZero() || row.CheckOut.IsZero() {
		return Interval{}, false
	}
	channel, ok := bookingStatusChannels[strings.ToLower(strings.TrimSpace(row.Status))]
	if !ok {
		return Interval{Channel: ""}, true
	}
	start := row.CheckIn.UTC()
	end := row.CheckOut.UTC()
	if !end.After(start) {
		// zero-width rather than inverted; layout must survive it
		end = start
	}
	nights := 0
	if end.After(start) {
		nights = daterange.DateRange{Start: start, End: end}.Nights()
	}
	return Interval{
		ID:         row.ID,
		ResourceID: row.ResourceID,
		Range:      daterange.DateRange{Start: start, End: end},
		Channel:    channel,
		Mutable:    false,
		Label:      row.GuestName,
		Meta: Meta{
			GuestName:  row.GuestName,
			PriceTotal: row.PriceTotal,
			Currency:   row.Currency,
			Nights:     nights,
		},
	}, true
}

func normalizeBlock(row BlockRow) (Interval, bool) {
	if row.ID == "" || row.ResourceID == "" || row.Start.IsZero() || row.End.IsZero() {
		return Interval{}, false
	}
	start := row.Start.UTC()
	end := row.End.UTC()
	if !end.After(start) {
		end = start
	}
	channel := ClassifyBlock(row.Source, row.Label)
	return Interval{
		ID:         row.ID,
		ResourceID: row.ResourceID,
		Range:      daterange.DateRange{Start: start, End: end},
		Channel:    channel,
		Mutable:    channel == ChannelManual,
		Label:      row.Label,
		Color:      row.Color,
		Meta:       Meta{Notes: row.Notes},
	}, true
}

// CoveredAt reports whether any interval in set occupies the calendar day
// starting at dayStart for the given resource.
func CoveredAt(set []Interval, resourceID string, dayStart time.Time) bool {
	for _, iv := range set {
		if iv.ResourceID == resourceID && iv.CoversDay(dayStart) {
			return true
		}
	}
	return false
}
