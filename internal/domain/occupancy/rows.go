package occupancy

import (
	"context"
	"time"
)

// BookingRow is the raw shape bookings arrive in from the store.
type BookingRow struct {
	ID         string
	ResourceID string
	CheckIn    time.Time
	CheckOut   time.Time
	Status     string
	GuestName  string
	PriceTotal int64
	Currency   string
}

// BlockRow is the raw shape manual and synced blocks arrive in. Source and
// Notes may be absent on older deployments.
type BlockRow struct {
	ID         string
	ResourceID string
	Start      time.Time
	End        time.Time
	Source     string
	Label      string
	Color      string
	Notes      string
}

// Snapshot is one fetch of raw occupancy rows. FailedSources names the
// fetches that failed while the rest of the snapshot is still usable.
type Snapshot struct {
	Bookings      []BookingRow
	Blocks        []BlockRow
	FailedSources []string
}

// Partial reports whether some source failed to load.
func (s Snapshot) Partial() bool { return len(s.FailedSources) > 0 }

// Reader is the read side of the store boundary.
type Reader interface {
	FetchOccupancy(ctx context.Context, resourceIDs []string) (Snapshot, error)
}

// Writer is the write side of the store boundary. The engine never calls it
// directly; commit callbacks own these calls.
type Writer interface {
	InsertBlock(ctx context.Context, row BlockRow) (BlockRow, error)
	DeleteBlock(ctx context.Context, blockID string) error
	UpdateBlockNotes(ctx context.Context, blockID, notes string) error
	UpdateBookingStatus(ctx context.Context, bookingID, status string) error
}
