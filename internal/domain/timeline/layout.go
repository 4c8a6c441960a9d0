package timeline

import (
	"sort"
	"time"

	"hostcal/internal/domain/occupancy"
	"hostcal/internal/domain/shared/dates"
	"hostcal/internal/domain/shared/daterange"
)

// Placed is one interval positioned on the visible timeline. Clipped is the
// rendered span; the underlying interval keeps its true bounds.
type Placed struct {
	Interval        occupancy.Interval
	Lane            int
	Clipped         daterange.DateRange
	ContinuesBefore bool
	ContinuesAfter  bool
	// ConflictDays are the UTC day starts on which this interval shares the
	// resource with at least one other interval.
	ConflictDays []time.Time
}

// Layout is the result of one layout pass over a visible window. Derived
// state only: recomputed every pass, never persisted.
type Layout struct {
	Window    daterange.DateRange
	Lanes     map[string][]Placed
	LaneCount map[string]int
}

// Compute lays the interval set out for the window starting at windowStart
// and spanning windowDays. Resources listed in resourceIDs are always
// present in the result (an empty resource still reserves one lane);
// resources only seen on intervals are added as encountered.
func Compute(resourceIDs []string, intervals []occupancy.Interval, windowStart time.Time, windowDays int) Layout {
	winStart := dates.StartOfDay(windowStart, time.UTC)
	winEnd := dates.AddDays(winStart, windowDays)
	window := daterange.DateRange{Start: winStart, End: winEnd}

	byResource := make(map[string][]occupancy.Interval)
	order := make([]string, 0, len(resourceIDs))
	seen := make(map[string]bool, len(resourceIDs))
	for _, id := range resourceIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		order = append(order, id)
		byResource[id] = nil
	}
	for _, iv := range intervals {
		if iv.ResourceID == "" {
			continue
		}
		if !seen[iv.ResourceID] {
			seen[iv.ResourceID] = true
			order = append(order, iv.ResourceID)
		}
		byResource[iv.ResourceID] = append(byResource[iv.ResourceID], iv)
	}

	out := Layout{
		Window:    window,
		Lanes:     make(map[string][]Placed, len(order)),
		LaneCount: make(map[string]int, len(order)),
	}
	for _, id := range order {
		placed, lanes := layoutResource(byResource[id], window)
		out.Lanes[id] = placed
		out.LaneCount[id] = lanes
	}
	return out
}

func layoutResource(intervals []occupancy.Interval, window daterange.DateRange) ([]Placed, int) {
	visible := make([]occupancy.Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Range.IsZeroWidth() {
			continue
		}
		if iv.Range.Overlaps(window) {
			visible = append(visible, iv)
		}
	}
	// Stable sort keeps insertion order on equal starts, so repeated layout
	// passes are deterministic.
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Range.Start.Before(visible[j].Range.Start)
	})

	placed := make([]Placed, 0, len(visible))
	var laneEnds []time.Time
	for _, iv := range visible {
		lane := -1
		for l, end := range laneEnds {
			if !end.After(iv.Range.Start) {
				lane = l
				break
			}
		}
		if lane == -1 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, time.Time{})
		}
		laneEnds[lane] = iv.Range.End

		clipped, before, after := iv.Range.Clamp(window.Start, window.End)
		placed = append(placed, Placed{
			Interval:        iv,
			Lane:            lane,
			Clipped:         clipped,
			ContinuesBefore: before,
			ContinuesAfter:  after,
		})
	}

	markConflicts(placed, window)

	lanes := len(laneEnds)
	if lanes == 0 {
		// an empty resource row still renders at fixed height
		lanes = 1
	}
	return placed, lanes
}

// markConflicts flags, per calendar day in the window, every interval that
// shares that day with another interval of the same resource. Symmetric:
// either all covering intervals are flagged for a day or none are.
func markConflicts(placed []Placed, window daterange.DateRange) {
	if len(placed) < 2 {
		return
	}
	for day := range dates.Days(window.Start, dates.AddDays(window.End, -1), time.UTC) {
		var covering []int
		for i := range placed {
			if placed[i].Interval.CoversDay(day) {
				covering = append(covering, i)
			}
		}
		if len(covering) < 2 {
			continue
		}
		for _, i := range covering {
			placed[i].ConflictDays = append(placed[i].ConflictDays, day)
		}
	}
}
