package feeds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"

	appfeeds "hostcal/internal/app/handlers/feeds"
)

// ErrBadStatus is returned when the feed host answers with a non-2xx code.
var ErrBadStatus = errors.New("feeds: feed host returned an error status")

// ICalImporter fetches an iCalendar feed over HTTP and extracts its busy
// spans. External hosts publish bookings as VEVENTs, usually as all-day
// DATE values with an exclusive DTEND.
type ICalImporter struct {
	Client  *http.Client
	Timeout time.Duration
}

func NewICalImporter(timeout time.Duration) *ICalImporter {
	return &ICalImporter{Timeout: timeout}
}

func (i *ICalImporter) Import(ctx context.Context, url string) ([]appfeeds.Event, error) {
	if i.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/calendar")

	client := i.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	cal, err := ics.ParseCalendar(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feeds: parse calendar: %w", err)
	}

	var events []appfeeds.Event
	for _, ev := range cal.Events() {
		start, end, ok := eventSpan(ev)
		if !ok {
			continue
		}
		events = append(events, appfeeds.Event{
			Start:   start,
			End:     end,
			Summary: eventSummary(ev),
		})
	}
	return events, nil
}

// eventSpan resolves DTSTART/DTEND for both timed and all-day events.
// Events without a usable DTSTART are skipped rather than failing the feed.
func eventSpan(ev *ics.VEvent) (time.Time, time.Time, bool) {
	start, err := ev.GetStartAt()
	if err != nil {
		start, err = ev.GetAllDayStartAt()
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
	}
	end, err := ev.GetEndAt()
	if err != nil {
		end, err = ev.GetAllDayEndAt()
	}
	if err != nil || !end.After(start) {
		// DTEND is optional; treat the event as a single day.
		end = start.Add(24 * time.Hour)
	}
	return start.UTC(), end.UTC(), true
}

func eventSummary(ev *ics.VEvent) string {
	prop := ev.GetProperty(ics.ComponentPropertySummary)
	if prop == nil {
		return ""
	}
	return prop.Value
}

var _ appfeeds.Importer = (*ICalImporter)(nil)
