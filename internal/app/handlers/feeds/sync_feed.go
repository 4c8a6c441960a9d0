package feeds

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"hostcal/internal/app/commands"
	"hostcal/internal/app/outbox"
	"hostcal/internal/app/uow"
	"hostcal/internal/domain/occupancy"
	domainevents "hostcal/internal/domain/shared/events"
)

const syncFeedKey = "feeds.sync"

var (
	ErrSyncInProgress = errors.New("feeds: sync already running for this feed")
	ErrFeedRequired   = errors.New("feeds: feed id and url required")
	ErrImportFailed   = errors.New("feeds: unable to sync, verify the URL")
)

// Event is one busy span pulled from an external calendar feed.
type Event struct {
	Start   time.Time
	End     time.Time
	Summary string
}

// Importer fetches and parses a feed URL. A feed with zero events is a
// successful no-op.
type Importer interface {
	Import(ctx context.Context, url string) ([]Event, error)
}

// Guard serializes syncs per feed. Different feeds may sync concurrently,
// even against the same resource.
type Guard struct {
	mu     sync.Mutex
	active map[string]bool
}

func NewGuard() *Guard {
	return &Guard{active: make(map[string]bool)}
}

func (g *Guard) acquire(feedID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active[feedID] {
		return false
	}
	g.active[feedID] = true
	return true
}

func (g *Guard) release(feedID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, feedID)
}

type SyncFeedCommand struct {
	FeedID     string
	ResourceID string
	URL        string
	// Source tags the imported blocks' channel, e.g. "airbnb".
	Source string
}

func (c SyncFeedCommand) Key() string { return syncFeedKey }

type SyncFeedResult struct {
	Imported int `json:"imported"`
}

type SyncFeedHandler struct {
	UoWFactory uow.UoWFactory
	Importer   Importer
	Guard      *Guard
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

// Handle imports the feed all-or-nothing: a failed fetch or parse writes
// nothing, and the transaction boundary covers every inserted block.
func (h *SyncFeedHandler) Handle(ctx context.Context, cmd SyncFeedCommand) (*SyncFeedResult, error) {
	if cmd.FeedID == "" || cmd.URL == "" {
		return nil, ErrFeedRequired
	}
	if h.Guard != nil {
		if !h.Guard.acquire(cmd.FeedID) {
			return nil, ErrSyncInProgress
		}
		defer h.Guard.release(cmd.FeedID)
	}

	events, err := h.Importer.Import(ctx, cmd.URL)
	if err != nil {
		return nil, errors.Join(ErrImportFailed, err)
	}
	if len(events) == 0 {
		return &SyncFeedResult{Imported: 0}, nil
	}

	unit, ok := uow.FromContext(ctx)
	managed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, uow.ErrUnitOfWorkMissing
		}
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.BindContext(ctx, unit)
		managed = true
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	source := cmd.Source
	if source == "" {
		source = "other"
	}
	imported := 0
	for _, ev := range events {
		if !ev.End.After(ev.Start) {
			continue
		}
		row := occupancy.BlockRow{
			ID:         uuid.NewString(),
			ResourceID: cmd.ResourceID,
			Start:      ev.Start.UTC(),
			End:        ev.End.UTC(),
			Source:     source,
			Label:      ev.Summary,
		}
		if _, err := unit.Blocks().InsertBlock(ctx, row); err != nil {
			return nil, err
		}
		imported++
	}

	var recorder domainevents.EventRecorder
	recorder.Record(occupancy.FeedSynced{FeedID: cmd.FeedID, ResourceID: cmd.ResourceID, Imported: imported, At: h.now()})
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, recorder.PendingEvents()); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &SyncFeedResult{Imported: imported}, nil
}

func (h *SyncFeedHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[SyncFeedCommand, *SyncFeedResult] = (*SyncFeedHandler)(nil)
