package dates

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 02:30 UTC on Mar 2 is still Mar 1 in New York.
	in := time.Date(2026, 3, 2, 2, 30, 0, 0, time.UTC)
	got := StartOfDay(in, ny)
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, ny)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}

	utc := StartOfDay(in, time.UTC)
	if utc.Day() != 2 || utc.Hour() != 0 {
		t.Errorf("StartOfDay UTC = %v", utc)
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// US DST starts 2026-03-08; the wall clock must not drift.
	day := time.Date(2026, 3, 7, 0, 0, 0, 0, ny)
	next := AddDays(day, 1)
	if next.Hour() != 0 || next.Day() != 8 {
		t.Errorf("AddDays across DST = %v, want midnight Mar 8", next)
	}
	if got := next.Sub(day); got != 23*time.Hour {
		t.Errorf("elapsed = %v, want 23h on the short day", got)
	}
}

func TestDiffInDays(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	tests := []struct {
		name string
		a, b time.Time
		loc  *time.Location
		want int
	}{
		{
			name: "same day",
			a:    time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: 0,
		},
		{
			name: "forward three days",
			a:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: 3,
		},
		{
			name: "backward is negative",
			a:    time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: -3,
		},
		{
			name: "dst short day still counts as one",
			a:    time.Date(2026, 3, 7, 12, 0, 0, 0, ny),
			b:    time.Date(2026, 3, 9, 12, 0, 0, 0, ny),
			loc:  ny,
			want: 2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DiffInDays(tc.a, tc.b, tc.loc); got != tc.want {
				t.Errorf("DiffInDays = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDays(t *testing.T) {
	start := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 6, 1, 0, 0, 0, time.UTC)

	var got []time.Time
	for day := range Days(start, end, time.UTC) {
		got = append(got, day)
	}
	if len(got) != 4 {
		t.Fatalf("yielded %d days, want 4", len(got))
	}
	if got[0].Day() != 3 || got[3].Day() != 6 {
		t.Errorf("bounds = %v .. %v", got[0], got[3])
	}
	for _, day := range got {
		if day.Hour() != 0 {
			t.Errorf("day %v is not a day start", day)
		}
	}

	// ranging a second time yields the same sequence
	count := 0
	for range Days(start, end, time.UTC) {
		count++
	}
	if count != 4 {
		t.Errorf("second pass yielded %d days", count)
	}
}

func TestISORoundTrip(t *testing.T) {
	in := time.Date(2026, 8, 25, 17, 45, 3, 0, time.UTC)
	s := FormatISO(in, time.UTC)
	if s != "2026-08-25" {
		t.Fatalf("FormatISO = %q", s)
	}
	back, err := ParseISO(s, time.UTC)
	if err != nil {
		t.Fatalf("ParseISO: %v", err)
	}
	if !back.Equal(StartOfDay(in, time.UTC)) {
		t.Errorf("round trip = %v, want %v", back, StartOfDay(in, time.UTC))
	}
}

func TestParseISOInvalid(t *testing.T) {
	if _, err := ParseISO("03/01/2026", time.UTC); err == nil {
		t.Error("expected error for non-ISO input")
	}
}
