package dto

import (
	"sort"
	"time"

	"hostcal/internal/domain/occupancy"
	"hostcal/internal/domain/timeline"
)

type TimelineInterval struct {
	ID              string    `json:"id"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DisplayEnd      time.Time `json:"display_end"`
	Channel         string    `json:"channel"`
	Label           string    `json:"label,omitempty"`
	Color           string    `json:"color,omitempty"`
	Mutable         bool      `json:"mutable"`
	Lane            int       `json:"lane"`
	ClippedStart    time.Time `json:"clipped_start"`
	ClippedEnd      time.Time `json:"clipped_end"`
	ContinuesBefore bool      `json:"continues_before"`
	ContinuesAfter  bool      `json:"continues_after"`
	ConflictDays    []string  `json:"conflict_days,omitempty"`
	GuestName       string    `json:"guest_name,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	Nights          int       `json:"nights,omitempty"`
	PriceTotal      int64     `json:"price_total,omitempty"`
	Currency        string    `json:"currency,omitempty"`
}

type TimelineResource struct {
	ResourceID string             `json:"resource_id"`
	LaneCount  int                `json:"lane_count"`
	Intervals  []TimelineInterval `json:"intervals"`
}

type Timeline struct {
	WindowStart   time.Time          `json:"window_start"`
	WindowDays    int                `json:"window_days"`
	Resources     []TimelineResource `json:"resources"`
	DroppedRows   int                `json:"dropped_rows,omitempty"`
	FailedSources []string           `json:"failed_sources,omitempty"`
}

// MapTimeline flattens one layout pass into the wire shape. Resource order
// follows the requested ids.
func MapTimeline(resourceIDs []string, layout timeline.Layout, dropped int, failedSources []string) Timeline {
	out := Timeline{
		WindowStart:   layout.Window.Start,
		WindowDays:    layout.Window.Nights(),
		Resources:     make([]TimelineResource, 0, len(layout.Lanes)),
		DroppedRows:   dropped,
		FailedSources: failedSources,
	}
	seen := make(map[string]bool, len(resourceIDs))
	ordered := make([]string, 0, len(layout.Lanes))
	for _, id := range resourceIDs {
		if _, ok := layout.Lanes[id]; ok && !seen[id] {
			seen[id] = true
			ordered = append(ordered, id)
		}
	}
	var extras []string
	for id := range layout.Lanes {
		if !seen[id] {
			extras = append(extras, id)
		}
	}
	sort.Strings(extras)
	ordered = append(ordered, extras...)
	for _, id := range ordered {
		res := TimelineResource{
			ResourceID: id,
			LaneCount:  layout.LaneCount[id],
			Intervals:  make([]TimelineInterval, 0, len(layout.Lanes[id])),
		}
		for _, p := range layout.Lanes[id] {
			res.Intervals = append(res.Intervals, mapPlaced(p))
		}
		out.Resources = append(out.Resources, res)
	}
	return out
}

func mapPlaced(p timeline.Placed) TimelineInterval {
	iv := p.Interval
	days := make([]string, 0, len(p.ConflictDays))
	for _, d := range p.ConflictDays {
		days = append(days, d.Format("2006-01-02"))
	}
	return TimelineInterval{
		ID:              iv.ID,
		Start:           iv.Range.Start,
		End:             iv.Range.End,
		DisplayEnd:      iv.DisplayEnd(24 * time.Hour),
		Channel:         string(iv.Channel),
		Label:           iv.Label,
		Color:           iv.Color,
		Mutable:         iv.Mutable,
		Lane:            p.Lane,
		ClippedStart:    p.Clipped.Start,
		ClippedEnd:      p.Clipped.End,
		ContinuesBefore: p.ContinuesBefore,
		ContinuesAfter:  p.ContinuesAfter,
		ConflictDays:    days,
		GuestName:       iv.Meta.GuestName,
		Notes:           iv.Meta.Notes,
		Nights:          iv.Meta.Nights,
		PriceTotal:      iv.Meta.PriceTotal,
		Currency:        iv.Meta.Currency,
	}
}

// BlockRowDTO is the wire shape of a stored block, returned from writes.
type BlockRowDTO struct {
	ID         string    `json:"id"`
	ResourceID string    `json:"resource_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Source     string    `json:"source,omitempty"`
	Label      string    `json:"label,omitempty"`
	Color      string    `json:"color,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

func MapBlockRow(row occupancy.BlockRow) BlockRowDTO {
	return BlockRowDTO{
		ID:         row.ID,
		ResourceID: row.ResourceID,
		Start:      row.Start,
		End:        row.End,
		Source:     row.Source,
		Label:      row.Label,
		Color:      row.Color,
		Notes:      row.Notes,
	}
}
