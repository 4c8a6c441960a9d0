package blocks

import (
	"context"
	"time"

	"hostcal/internal/app/commands"
	"hostcal/internal/app/outbox"
	"hostcal/internal/app/uow"
	"hostcal/internal/domain/occupancy"
	"hostcal/internal/domain/shared/events"
)

const updateNotesKey = "blocks.update_notes"

type UpdateNotesCommand struct {
	BlockID    string
	ResourceID string
	Notes      string
}

func (c UpdateNotesCommand) Key() string { return updateNotesKey }

// UpdateNotesHandler patches the one field manual blocks allow editing
// in place. Everything else on a block is immutable once written.
type UpdateNotesHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *UpdateNotesHandler) Handle(ctx context.Context, cmd UpdateNotesCommand) (struct{}, error) {
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

	if cmd.BlockID == "" {
		return zero, ErrBlockIDRequired
	}
	if err := unit.Blocks().UpdateBlockNotes(ctx, cmd.BlockID, cmd.Notes); err != nil {
		return zero, err
	}

	var recorder events.EventRecorder
	recorder.Record(occupancy.BlockNotesUpdated{BlockID: cmd.BlockID, ResourceID: cmd.ResourceID, At: h.now()})
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

func (h *UpdateNotesHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[UpdateNotesCommand, struct{}] = (*UpdateNotesHandler)(nil)
