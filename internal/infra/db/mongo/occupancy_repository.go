package mongo

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hostcal/internal/domain/occupancy"
)

var (
	ErrBlockNotFound   = errors.New("mongo: block not found")
	ErrBookingNotFound = errors.New("mongo: booking not found")
)

// OccupancyRepository reads booking and block rows and writes manual blocks.
// Reads degrade instead of failing: a missing-notes schema error retries the
// block query without that projection, and one failed source still returns
// the other (flagged on the snapshot).
type OccupancyRepository struct {
	bookings *mongo.Collection
	blocks   *mongo.Collection
	log      *slog.Logger
}

func NewOccupancyRepository(db *mongo.Database, log *slog.Logger) *OccupancyRepository {
	return &OccupancyRepository{
		bookings: db.Collection("bookings"),
		blocks:   db.Collection("calendar_blocks"),
		log:      log,
	}
}

func (r *OccupancyRepository) FetchOccupancy(ctx context.Context, resourceIDs []string) (occupancy.Snapshot, error) {
	snapshot := occupancy.Snapshot{}

	bookings, err := r.fetchBookings(ctx, resourceIDs)
	if err != nil {
		snapshot.FailedSources = append(snapshot.FailedSources, "bookings")
		if r.log != nil {
			r.log.Warn("bookings fetch failed", "error", err)
		}
	} else {
		snapshot.Bookings = bookings
	}

	blocks, err := r.fetchBlocks(ctx, resourceIDs, true)
	if err != nil && isMissingNotesField(err) {
		// older deployments predate the notes column; the reduced query is
		// a safe, idempotent degradation
		if r.log != nil {
			r.log.Warn("notes field missing, retrying reduced block query", "error", err)
		}
		blocks, err = r.fetchBlocks(ctx, resourceIDs, false)
	}
	if err != nil {
		snapshot.FailedSources = append(snapshot.FailedSources, "blocks")
		if r.log != nil {
			r.log.Warn("blocks fetch failed", "error", err)
		}
	} else {
		snapshot.Blocks = blocks
	}

	if len(snapshot.FailedSources) == 2 {
		return snapshot, errors.New("mongo: occupancy fetch failed for all sources")
	}
	return snapshot, nil
}

func (r *OccupancyRepository) fetchBookings(ctx context.Context, resourceIDs []string) ([]occupancy.BookingRow, error) {
	cur, err := r.bookings.Find(ctx, bson.M{"listing_id": bson.M{"$in": resourceIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []occupancy.BookingRow
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		rows = append(rows, doc.toRow())
	}
	return rows, cur.Err()
}

func (r *OccupancyRepository) fetchBlocks(ctx context.Context, resourceIDs []string, withNotes bool) ([]occupancy.BlockRow, error) {
	opts := options.Find()
	if !withNotes {
		opts.SetProjection(bson.M{"notes": 0})
	}
	cur, err := r.blocks.Find(ctx, bson.M{"listing_id": bson.M{"$in": resourceIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []occupancy.BlockRow
	for cur.Next(ctx) {
		var doc blockDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		rows = append(rows, doc.toRow())
	}
	return rows, cur.Err()
}

func (r *OccupancyRepository) InsertBlock(ctx context.Context, row occupancy.BlockRow) (occupancy.BlockRow, error) {
	doc := newBlockDocument(row)
	if _, err := r.blocks.InsertOne(ctx, doc); err != nil {
		return occupancy.BlockRow{}, err
	}
	return doc.toRow(), nil
}

func (r *OccupancyRepository) DeleteBlock(ctx context.Context, blockID string) error {
	res, err := r.blocks.DeleteOne(ctx, bson.M{"_id": blockID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrBlockNotFound
	}
	return nil
}

func (r *OccupancyRepository) UpdateBlockNotes(ctx context.Context, blockID, notes string) error {
	res, err := r.blocks.UpdateByID(ctx, blockID, bson.M{"$set": bson.M{"notes": notes}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrBlockNotFound
	}
	return nil
}

func (r *OccupancyRepository) UpdateBookingStatus(ctx context.Context, bookingID, status string) error {
	res, err := r.bookings.UpdateByID(ctx, bookingID, bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC().UnixMilli()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// isMissingNotesField matches the store's missing-column signature: a
// command error naming the notes field, or a schema-cache message carrying
// it. Anything else is treated as a transient fault and not retried.
func isMissingNotesField(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "notes") {
		return false
	}
	if strings.Contains(msg, "schema cache") || strings.Contains(msg, "column") || strings.Contains(msg, "unknown field") {
		return true
	}
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr)
}

type bookingDocument struct {
	ID         string `bson:"_id"`
	ListingID  string `bson:"listing_id"`
	CheckIn    int64  `bson:"check_in"`
	CheckOut   int64  `bson:"check_out"`
	Status     string `bson:"status"`
	GuestName  string `bson:"guest_name,omitempty"`
	PriceTotal int64  `bson:"price_total,omitempty"`
	Currency   string `bson:"currency,omitempty"`
}

func (d bookingDocument) toRow() occupancy.BookingRow {
	return occupancy.BookingRow{
		ID:         d.ID,
		ResourceID: d.ListingID,
		CheckIn:    timestampToTime(d.CheckIn),
		CheckOut:   timestampToTime(d.CheckOut),
		Status:     d.Status,
		GuestName:  d.GuestName,
		PriceTotal: d.PriceTotal,
		Currency:   d.Currency,
	}
}

type blockDocument struct {
	ID        string `bson:"_id"`
	ListingID string `bson:"listing_id"`
	Start     int64  `bson:"start"`
	End       int64  `bson:"end"`
	Source    string `bson:"source,omitempty"`
	Label     string `bson:"label,omitempty"`
	Color     string `bson:"color,omitempty"`
	Notes     string `bson:"notes,omitempty"`
}

func newBlockDocument(row occupancy.BlockRow) blockDocument {
	return blockDocument{
		ID:        row.ID,
		ListingID: row.ResourceID,
		Start:     row.Start.UTC().UnixMilli(),
		End:       row.End.UTC().UnixMilli(),
		Source:    row.Source,
		Label:     row.Label,
		Color:     row.Color,
		Notes:     row.Notes,
	}
}

func (d blockDocument) toRow() occupancy.BlockRow {
	return occupancy.BlockRow{
		ID:         d.ID,
		ResourceID: d.ListingID,
		Start:      timestampToTime(d.Start),
		End:        timestampToTime(d.End),
		Source:     d.Source,
		Label:      d.Label,
		Color:      d.Color,
		Notes:      d.Notes,
	}
}

// timestampToTime keeps an unset millisecond field as the zero time so the
// normalization pass can tell "missing" apart from the epoch.
func timestampToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
