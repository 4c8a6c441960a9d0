package memory

import (
	"context"
	"errors"
	"sync"

	"hostcal/internal/domain/occupancy"
)

var (
	// ErrBlockNotFound is returned when a block does not exist in memory.
	ErrBlockNotFound = errors.New("memory: block not found")
	// ErrBookingNotFound is returned when a booking does not exist.
	ErrBookingNotFound = errors.New("memory: booking not found")
)

// OccupancyStore is an in-memory implementation of the occupancy read and
// write boundaries, used by tests and the no-Mongo dev mode.
type OccupancyStore struct {
	mu       sync.RWMutex
	bookings map[string]occupancy.BookingRow
	blocks   map[string]occupancy.BlockRow

	// FailBookings/FailBlocks simulate a partial load.
	FailBookings bool
	FailBlocks   bool
	// FailInsert simulates a rejected write.
	FailInsert error
}

func NewOccupancyStore() *OccupancyStore {
	return &OccupancyStore{
		bookings: make(map[string]occupancy.BookingRow),
		blocks:   make(map[string]occupancy.BlockRow),
	}
}

// SeedBooking and SeedBlock load fixture rows.
func (s *OccupancyStore) SeedBooking(row occupancy.BookingRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[row.ID] = row
}

func (s *OccupancyStore) SeedBlock(row occupancy.BlockRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[row.ID] = row
}

func (s *OccupancyStore) FetchOccupancy(ctx context.Context, resourceIDs []string) (occupancy.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(resourceIDs))
	for _, id := range resourceIDs {
		wanted[id] = true
	}

	snapshot := occupancy.Snapshot{}
	if s.FailBookings {
		snapshot.FailedSources = append(snapshot.FailedSources, "bookings")
	} else {
		for _, row := range s.bookings {
			if wanted[row.ResourceID] {
				snapshot.Bookings = append(snapshot.Bookings, row)
			}
		}
	}
	if s.FailBlocks {
		snapshot.FailedSources = append(snapshot.FailedSources, "blocks")
	} else {
		for _, row := range s.blocks {
			if wanted[row.ResourceID] {
				snapshot.Blocks = append(snapshot.Blocks, row)
			}
		}
	}
	if len(snapshot.FailedSources) == 2 {
		return snapshot, errors.New("memory: occupancy fetch failed for all sources")
	}
	return snapshot, nil
}

func (s *OccupancyStore) InsertBlock(ctx context.Context, row occupancy.BlockRow) (occupancy.BlockRow, error) {
	if s.FailInsert != nil {
		return occupancy.BlockRow{}, s.FailInsert
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[row.ID] = row
	return row, nil
}

func (s *OccupancyStore) DeleteBlock(ctx context.Context, blockID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blocks[blockID]; !ok {
		return ErrBlockNotFound
	}
	delete(s.blocks, blockID)
	return nil
}

func (s *OccupancyStore) UpdateBlockNotes(ctx context.Context, blockID, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.blocks[blockID]
	if !ok {
		return ErrBlockNotFound
	}
	row.Notes = notes
	s.blocks[blockID] = row
	return nil
}

func (s *OccupancyStore) UpdateBookingStatus(ctx context.Context, bookingID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.bookings[bookingID]
	if !ok {
		return ErrBookingNotFound
	}
	row.Status = status
	s.bookings[bookingID] = row
	return nil
}

var (
	_ occupancy.Reader = (*OccupancyStore)(nil)
	_ occupancy.Writer = (*OccupancyStore)(nil)
)
