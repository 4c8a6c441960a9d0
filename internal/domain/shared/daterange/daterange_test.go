package daterange

import (
	"errors"
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) DateRange {
	t.Helper()
	dr, err := New(start, end)
	if err != nil {
		t.Fatalf("New(%v, %v): %v", start, end, err)
	}
	return dr
}

func TestNewRejectsInvalid(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"zero start", time.Time{}, day(2)},
		{"zero end", day(1), time.Time{}},
		{"equal bounds", day(1), day(1)},
		{"inverted", day(4), day(1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.start, tc.end); !errors.Is(err, ErrInvalidRange) {
				t.Errorf("New error = %v, want ErrInvalidRange", err)
			}
		})
	}
}

func TestNights(t *testing.T) {
	dr := mustRange(t, day(1), day(4))
	if got := dr.Nights(); got != 3 {
		t.Errorf("Nights = %d, want 3", got)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b DateRange
		want bool
	}{
		{"disjoint", DateRange{day(1), day(3)}, DateRange{day(5), day(7)}, false},
		{"touching ends do not overlap", DateRange{day(1), day(3)}, DateRange{day(3), day(5)}, false},
		{"partial", DateRange{day(1), day(4)}, DateRange{day(3), day(6)}, true},
		{"contained", DateRange{day(1), day(10)}, DateRange{day(4), day(5)}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Errorf("Overlaps = %v, want %v", got, tc.want)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Errorf("Overlaps not symmetric")
			}
		})
	}
}

func TestContainsInstant(t *testing.T) {
	dr := DateRange{day(1), day(4)}
	if !dr.ContainsInstant(day(1)) {
		t.Error("start is inclusive")
	}
	if dr.ContainsInstant(day(4)) {
		t.Error("end is exclusive")
	}
}

func TestCoversDay(t *testing.T) {
	dr := DateRange{day(5), day(8)}
	for d := 5; d < 8; d++ {
		if !dr.CoversDay(day(d)) {
			t.Errorf("should cover day %d", d)
		}
	}
	if dr.CoversDay(day(8)) {
		t.Error("checkout day is not occupied")
	}
	if dr.CoversDay(day(4)) {
		t.Error("day before start is not occupied")
	}
}

func TestMerge(t *testing.T) {
	a := DateRange{day(1), day(4)}
	b := DateRange{day(4), day(6)}
	merged, ok := a.Merge(b)
	if !ok {
		t.Fatal("adjacent ranges should merge")
	}
	if !merged.Start.Equal(day(1)) || !merged.End.Equal(day(6)) {
		t.Errorf("merged = %+v", merged)
	}

	if _, ok := a.Merge(DateRange{day(7), day(9)}); ok {
		t.Error("disjoint ranges must not merge")
	}
}

func TestClamp(t *testing.T) {
	winStart, winEnd := day(3), day(11)
	tests := []struct {
		name          string
		in            DateRange
		wantStart     time.Time
		wantEnd       time.Time
		before, after bool
	}{
		{"inside", DateRange{day(4), day(6)}, day(4), day(6), false, false},
		{"spills before", DateRange{day(1), day(5)}, day(3), day(5), true, false},
		{"spills after", DateRange{day(9), day(14)}, day(9), day(11), false, true},
		{"spans window", DateRange{day(1), day(20)}, day(3), day(11), true, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clipped, before, after := tc.in.Clamp(winStart, winEnd)
			if !clipped.Start.Equal(tc.wantStart) || !clipped.End.Equal(tc.wantEnd) {
				t.Errorf("clipped = %+v", clipped)
			}
			if before != tc.before || after != tc.after {
				t.Errorf("flags = %v/%v, want %v/%v", before, after, tc.before, tc.after)
			}
		})
	}
}

func TestDayStarts(t *testing.T) {
	var got []time.Time
	for d := range (DateRange{day(1), day(4)}).DayStarts() {
		got = append(got, d)
	}
	if len(got) != 3 {
		t.Fatalf("yielded %d days, want 3", len(got))
	}
	if !got[2].Equal(day(3)) {
		t.Errorf("last day = %v, exclusive end must not appear", got[2])
	}

	// a range ending at midnight does not occupy that day; a zero-width
	// range occupies nothing
	count := 0
	for range (DateRange{day(2), day(2)}).DayStarts() {
		count++
	}
	if count != 0 {
		t.Errorf("zero-width range yielded %d days", count)
	}
}
