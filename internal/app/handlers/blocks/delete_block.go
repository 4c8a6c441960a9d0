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

const deleteBlockKey = "blocks.delete"

var ErrBlockIDRequired = errors.New("blocks: block id required")

type DeleteBlockCommand struct {
	BlockID    string
	ResourceID string
}

func (c DeleteBlockCommand) Key() string { return deleteBlockKey }

type DeleteBlockHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *DeleteBlockHandler) Handle(ctx context.Context, cmd DeleteBlockCommand) (struct{}, error) {
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
	if err := unit.Blocks().DeleteBlock(ctx, cmd.BlockID); err != nil {
		return zero, err
	}

	var recorder events.EventRecorder
	recorder.Record(occupancy.BlockRemoved{BlockID: cmd.BlockID, ResourceID: cmd.ResourceID, At: h.now()})
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

func (h *DeleteBlockHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[DeleteBlockCommand, struct{}] = (*DeleteBlockHandler)(nil)
