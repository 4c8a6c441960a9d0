package feeds

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleCalendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Test//Feed//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:ev-1\r\n" +
	"DTSTAMP:20260301T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20260310\r\n" +
	"DTEND;VALUE=DATE:20260313\r\n" +
	"SUMMARY:Airbnb (Not available)\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:ev-2\r\n" +
	"DTSTAMP:20260301T000000Z\r\n" +
	"DTSTART:20260320T150000Z\r\n" +
	"DTEND:20260322T110000Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestICalImporterParsesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write([]byte(sampleCalendar))
	}))
	defer srv.Close()

	events, err := NewICalImporter(5*time.Second).Import(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}

	allDay := events[0]
	if !allDay.Start.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("all-day start = %v", allDay.Start)
	}
	if !allDay.End.Equal(time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("all-day end = %v, DTEND stays exclusive", allDay.End)
	}
	if allDay.Summary != "Airbnb (Not available)" {
		t.Errorf("summary = %q", allDay.Summary)
	}

	timed := events[1]
	if !timed.Start.Equal(time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC)) {
		t.Errorf("timed start = %v", timed.Start)
	}
	if timed.Summary != "" {
		t.Errorf("missing summary should be empty, got %q", timed.Summary)
	}
}

func TestICalImporterBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := NewICalImporter(5*time.Second).Import(context.Background(), srv.URL); !errors.Is(err, ErrBadStatus) {
		t.Errorf("err = %v, want ErrBadStatus", err)
	}
}

func TestICalImporterMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not a calendar</html>"))
	}))
	defer srv.Close()

	if _, err := NewICalImporter(5*time.Second).Import(context.Background(), srv.URL); err == nil {
		t.Error("malformed feed must error, not import partially")
	}
}

func TestICalImporterUnreachableHost(t *testing.T) {
	imp := NewICalImporter(200 * time.Millisecond)
	if _, err := imp.Import(context.Background(), "http://127.0.0.1:1/cal.ics"); err == nil {
		t.Error("connection failure must surface")
	}
}
