package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"hostcal/internal/domain/occupancy"
)

func TestIsMissingNotesField(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"schema cache message", errors.New(`could not find the 'notes' column of 'calendar_blocks' in the schema cache`), true},
		{"unknown field message", errors.New("unknown field notes in projection"), true},
		{"command error naming notes", mongo.CommandError{Message: "Unsupported projection option: notes"}, true},
		{"notes without schema hint", errors.New("notes validation failed"), false},
		{"unrelated column error", errors.New("column status not found"), false},
		{"network timeout", errors.New("connection reset by peer"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isMissingNotesField(tc.err); got != tc.want {
				t.Errorf("isMissingNotesField(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestBlockDocumentRoundTrip(t *testing.T) {
	row := occupancy.BlockRow{
		ID:         "blk-1",
		ResourceID: "listing-1",
		Start:      time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		Source:     "manual",
		Label:      "Maintenance",
		Notes:      "painters booked",
	}
	got := newBlockDocument(row).toRow()
	if got != row {
		t.Errorf("round trip changed row:\n got %+v\nwant %+v", got, row)
	}
}

func TestBookingDocumentToRow(t *testing.T) {
	checkIn := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	doc := bookingDocument{
		ID:        "bk-1",
		ListingID: "listing-1",
		CheckIn:   checkIn.UnixMilli(),
		CheckOut:  checkIn.AddDate(0, 0, 3).UnixMilli(),
		Status:    "confirmed",
		GuestName: "Ada",
	}
	row := doc.toRow()
	if row.ResourceID != "listing-1" || !row.CheckIn.Equal(checkIn) {
		t.Errorf("row = %+v", row)
	}
	if row.CheckIn.Location() != time.UTC {
		t.Error("timestamps must come back in UTC")
	}
}

func TestUnsetTimestampStaysZero(t *testing.T) {
	doc := bookingDocument{
		ID:        "bk-1",
		ListingID: "listing-1",
		CheckOut:  time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC).UnixMilli(),
		Status:    "confirmed",
	}
	row := doc.toRow()
	if !row.CheckIn.IsZero() {
		t.Fatalf("unset check_in decoded as %v, want zero time", row.CheckIn)
	}
	// normalization must drop the row instead of rendering a 1970 stay
	if res := occupancy.Normalize([]occupancy.BookingRow{row}, nil); len(res.Intervals) != 0 {
		t.Errorf("intervals = %+v, want none", res.Intervals)
	} else if res.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", res.Dropped)
	}
}
