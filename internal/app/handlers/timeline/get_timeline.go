package timeline

import (
	"context"
	"time"

	"hostcal/internal/app/dto"
	"hostcal/internal/app/queries"
	"hostcal/internal/app/uow"
	"hostcal/internal/domain/occupancy"
	domaintimeline "hostcal/internal/domain/timeline"
)

const getTimelineKey = "timeline.get"

type GetTimelineQuery struct {
	ResourceIDs []string
	WindowStart time.Time
	WindowDays  int
}

func (q GetTimelineQuery) Key() string { return getTimelineKey }

// GetTimelineHandler runs one fetch → normalize → layout pass. A partial
// fetch still renders whatever loaded; the failed sources travel on the DTO.
type GetTimelineHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetTimelineHandler) Handle(ctx context.Context, q GetTimelineQuery) (dto.Timeline, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.Timeline{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.Timeline{}, err
		}
		ctx = uow.BindContext(ctx, unit)
		defer unit.Rollback(ctx)
	}

	days := q.WindowDays
	if days <= 0 {
		days = 31
	}

	snapshot, err := unit.Occupancy().FetchOccupancy(ctx, q.ResourceIDs)
	if err != nil {
		return dto.Timeline{}, err
	}

	normalized := occupancy.Normalize(snapshot.Bookings, snapshot.Blocks)
	layout := domaintimeline.Compute(q.ResourceIDs, normalized.Intervals, q.WindowStart, days)
	return dto.MapTimeline(q.ResourceIDs, layout, normalized.Dropped, snapshot.FailedSources), nil
}

var _ queries.Handler[GetTimelineQuery, dto.Timeline] = (*GetTimelineHandler)(nil)
