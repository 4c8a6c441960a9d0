package blocks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hostcal/internal/app/commands"
	"hostcal/internal/app/dto"
	"hostcal/internal/app/outbox"
	"hostcal/internal/app/uow"
	"hostcal/internal/domain/occupancy"
	"hostcal/internal/domain/shared/daterange"
	"hostcal/internal/domain/shared/events"
)

const createBlockKey = "blocks.create"

var (
	ErrUnitOfWorkRequired  = errors.New("blocks: unit of work required")
	ErrResourceRequired    = errors.New("blocks: resource id required")
	ErrOverlappingBlock    = errors.New("blocks: range overlaps an existing manual block")
	ErrAvailabilityUnknown = errors.New("blocks: availability could not be verified")
)

type CreateBlockCommand struct {
	CommandID       string
	ResourceID      string
	Start           time.Time
	End             time.Time
	Label           string
	Notes           string
	Color           string
	IdempotencyKeyV string
}

func (c CreateBlockCommand) Key() string { return createBlockKey }

func (c CreateBlockCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBlockCommand) ResultPrototype() any { return &CreateBlockResult{} }

type CreateBlockResult struct {
	Block dto.BlockRowDTO `json:"block"`
}

type CreateBlockHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *CreateBlockHandler) Handle(ctx context.Context, cmd CreateBlockCommand) (*CreateBlockResult, error) {
	ctx, unit, managed, err := resolveUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	if cmd.ResourceID == "" {
		return nil, ErrResourceRequired
	}
	dr, err := daterange.New(cmd.Start, cmd.End)
	if err != nil {
		return nil, err
	}

	// Manual blocks may not overlap each other. Overlap with bookings or
	// synced blocks is surfaced as a conflict downstream, not refused here.
	// The guard only runs against a complete snapshot: a failed or partial
	// fetch refuses the write rather than risking a double block.
	snapshot, err := unit.Occupancy().FetchOccupancy(ctx, []string{cmd.ResourceID})
	if err != nil {
		return nil, err
	}
	if snapshot.Partial() {
		return nil, ErrAvailabilityUnknown
	}
	for _, iv := range occupancy.Normalize(nil, snapshot.Blocks).Intervals {
		if iv.Mutable && iv.Range.Overlaps(dr) {
			return nil, ErrOverlappingBlock
		}
	}

	id := cmd.CommandID
	if id == "" {
		id = uuid.NewString()
	}
	row := occupancy.BlockRow{
		ID:         id,
		ResourceID: cmd.ResourceID,
		Start:      dr.Start,
		End:        dr.End,
		Source:     "manual",
		Label:      cmd.Label,
		Notes:      cmd.Notes,
		Color:      cmd.Color,
	}
	inserted, err := unit.Blocks().InsertBlock(ctx, row)
	if err != nil {
		return nil, err
	}

	var recorder events.EventRecorder
	recorder.Record(occupancy.BlockCreated{
		BlockID:    inserted.ID,
		ResourceID: inserted.ResourceID,
		Range:      dr,
		Channel:    occupancy.ChannelManual,
		At:         h.now(),
	})
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, recorder.PendingEvents()); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &CreateBlockResult{Block: dto.MapBlockRow(inserted)}, nil
}

func (h *CreateBlockHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CreateBlockCommand, *CreateBlockResult] = (*CreateBlockHandler)(nil)

// resolveUnit pulls the unit of work injected by the transaction middleware,
// or begins one when the handler runs outside the pipeline. The returned
// context carries the unit and any driver session it binds.
func resolveUnit(ctx context.Context, factory uow.UoWFactory) (context.Context, uow.UnitOfWork, bool, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return ctx, unit, false, nil
	}
	if factory == nil {
		return ctx, nil, false, ErrUnitOfWorkRequired
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return ctx, nil, false, err
	}
	return uow.BindContext(ctx, unit), unit, true, nil
}
