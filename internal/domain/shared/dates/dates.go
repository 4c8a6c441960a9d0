package dates

import (
	"iter"
	"math"
	"time"
)

const isoDate = "2006-01-02"

// StartOfDay returns midnight of the calendar day containing t in loc.
// A nil loc keeps t's own location.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// AddDays shifts t by n calendar days, preserving wall-clock time across DST.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddMonths shifts t by n calendar months.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// DiffInDays returns the signed number of whole calendar days between the
// day starts of a and b in loc. Rounding absorbs DST-shortened days.
func DiffInDays(a, b time.Time, loc *time.Location) int {
	delta := StartOfDay(b, loc).Sub(StartOfDay(a, loc))
	return int(math.Round(delta.Hours() / 24))
}

// Days yields the day-start instants from start to end inclusive. The
// sequence is finite and may be ranged over more than once.
func Days(start, end time.Time, loc *time.Location) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		last := StartOfDay(end, loc)
		for day := StartOfDay(start, loc); !day.After(last); day = AddDays(day, 1) {
			if !yield(day) {
				return
			}
		}
	}
}

// FormatISO renders the calendar date of t in loc as YYYY-MM-DD.
func FormatISO(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = t.Location()
	}
	return t.In(loc).Format(isoDate)
}

// ParseISO parses a YYYY-MM-DD string as midnight in loc, so that
// ParseISO(FormatISO(t)) equals StartOfDay(t) for any t.
func ParseISO(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(isoDate, s, loc)
}
