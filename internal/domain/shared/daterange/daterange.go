package daterange

import (
	"errors"
	"iter"
	"time"

	"hostcal/internal/domain/shared/dates"
)

var (
	ErrInvalidRange = errors.New("daterange: end must be after start")
)

// DateRange represents a half-open interval [Start, End).
type DateRange struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: start.UTC(), End: end.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ErrInvalidRange
	}
	if !dr.End.After(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

func (dr DateRange) IsZeroWidth() bool {
	return !dr.End.After(dr.Start)
}

func (dr DateRange) Nights() int {
	return dates.DiffInDays(dr.Start, dr.End, time.UTC)
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.Start.Before(other.End) && other.Start.Before(dr.End)
}

func (dr DateRange) Contains(other DateRange) bool {
	return !dr.Start.After(other.Start) && !dr.End.Before(other.End)
}

func (dr DateRange) ContainsInstant(t time.Time) bool {
	t = t.UTC()
	return !t.Before(dr.Start) && t.Before(dr.End)
}

// CoversDay reports whether any part of the range falls on the calendar day
// starting at dayStart.
func (dr DateRange) CoversDay(dayStart time.Time) bool {
	dayEnd := dates.AddDays(dayStart, 1)
	return dr.Start.Before(dayEnd) && dayStart.Before(dr.End)
}

func (dr DateRange) Adjacent(other DateRange) bool {
	return dr.End.Equal(other.Start) || dr.Start.Equal(other.End)
}

func (dr DateRange) Merge(other DateRange) (DateRange, bool) {
	if !(dr.Overlaps(other) || dr.Adjacent(other)) {
		return DateRange{}, false
	}
	start := dr.Start
	if other.Start.Before(start) {
		start = other.Start
	}
	end := dr.End
	if other.End.After(end) {
		end = other.End
	}
	return DateRange{Start: start, End: end}, true
}

// Clamp restricts the range to the window [winStart, winEnd), reporting
// whether the original extends past either bound.
func (dr DateRange) Clamp(winStart, winEnd time.Time) (clipped DateRange, before, after bool) {
	clipped = dr
	if clipped.Start.Before(winStart) {
		clipped.Start = winStart
		before = true
	}
	if clipped.End.After(winEnd) {
		clipped.End = winEnd
		after = true
	}
	return clipped, before, after
}

// DayStarts yields the UTC day starts of every calendar day the range
// touches. A zero-width range yields nothing.
func (dr DateRange) DayStarts() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if dr.IsZeroWidth() {
			return
		}
		// End is exclusive: a range ending exactly at midnight does not
		// occupy that day.
		last := dates.StartOfDay(dr.End.Add(-time.Nanosecond), time.UTC)
		for day := dates.StartOfDay(dr.Start, time.UTC); !day.After(last); day = dates.AddDays(day, 1) {
			if !yield(day) {
				return
			}
		}
	}
}
