package occupancy

import (
	"time"

	"hostcal/internal/domain/shared/daterange"
)

type BlockCreated struct {
	BlockID    string              `json:"block_id"`
	ResourceID string              `json:"resource_id"`
	Range      daterange.DateRange `json:"range"`
	Channel    Channel             `json:"channel"`
	At         time.Time           `json:"at"`
}

func (e BlockCreated) EventName() string     { return "calendar.block_created" }
func (e BlockCreated) AggregateID() string   { return e.ResourceID }
func (e BlockCreated) OccurredAt() time.Time { return e.At }

type BlockRemoved struct {
	BlockID    string    `json:"block_id"`
	ResourceID string    `json:"resource_id"`
	At         time.Time `json:"at"`
}

func (e BlockRemoved) EventName() string     { return "calendar.block_removed" }
func (e BlockRemoved) AggregateID() string   { return e.ResourceID }
func (e BlockRemoved) OccurredAt() time.Time { return e.At }

type BlockNotesUpdated struct {
	BlockID    string    `json:"block_id"`
	ResourceID string    `json:"resource_id"`
	At         time.Time `json:"at"`
}

func (e BlockNotesUpdated) EventName() string     { return "calendar.block_notes_updated" }
func (e BlockNotesUpdated) AggregateID() string   { return e.ResourceID }
func (e BlockNotesUpdated) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID  string    `json:"booking_id"`
	ResourceID string    `json:"resource_id"`
	At         time.Time `json:"at"`
}

func (e BookingCancelled) EventName() string     { return "calendar.booking_cancelled" }
func (e BookingCancelled) AggregateID() string   { return e.ResourceID }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type FeedSynced struct {
	FeedID     string    `json:"feed_id"`
	ResourceID string    `json:"resource_id"`
	Imported   int       `json:"imported"`
	At         time.Time `json:"at"`
}

func (e FeedSynced) EventName() string     { return "calendar.feed_synced" }
func (e FeedSynced) AggregateID() string   { return e.ResourceID }
func (e FeedSynced) OccurredAt() time.Time { return e.At }
