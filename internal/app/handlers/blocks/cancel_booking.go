package blocks

import (
	"context"
	"errors"
	"time"

	"hostcal/internal/app/commands"
	"hostcal/internal/app/outbox"
	"hostcal/internal/app/uow"
	"hostcal/internal/domain/occupancy"
	"hostcal/internal/domain/shared/events"
)

const cancelBookingKey = "bookings.cancel"

var ErrBookingIDRequired = errors.New("blocks: booking id required")

// CancelBookingCommand flips a booking to cancelled. Bookings are otherwise
// read-only to the calendar: they leave the timeline through their own
// lifecycle, never by range edits.
type CancelBookingCommand struct {
	BookingID  string
	ResourceID string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type CancelBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (struct{}, error) {
	var zero struct{}
	ctx, unit, managed, err := resolveUnit(ctx, h.UoWFactory)
	if err != nil {
		return zero, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	if cmd.BookingID == "" {
		return zero, ErrBookingIDRequired
	}
	if err := unit.Blocks().UpdateBookingStatus(ctx, cmd.BookingID, "cancelled"); err != nil {
		return zero, err
	}

	var recorder events.EventRecorder
	recorder.Record(occupancy.BookingCancelled{BookingID: cmd.BookingID, ResourceID: cmd.ResourceID, At: h.now()})
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, recorder.PendingEvents()); err != nil {
		return zero, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return zero, err
		}
		committed = true
	}
	return zero, nil
}

func (h *CancelBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CancelBookingCommand, struct{}] = (*CancelBookingHandler)(nil)
