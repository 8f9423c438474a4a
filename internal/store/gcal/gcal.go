// =============================================================================
// Travel Desk Sync - Google Calendar Store
// =============================================================================
//
// This module implements store.Store on top of the Google Calendar v3 API.
//
// COLOR MAPPING:
//   Google Calendar colors are numeric IDs. The IDs below are the ones the
//   travel desk calendar has always used:
//     Blue   -> "9"
//     Orange -> "6"
//     Green  -> "10"
//
// UPDATES:
//   Updates use PATCH so fields this tool does not own (attendees, reminders,
//   attachments added by hand) survive a reconciliation.
//
// =============================================================================

package gcal

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/ginjaninja78/travel-desk/internal/types"
)

// colorIDs maps event colors to Google Calendar color IDs.
var colorIDs = map[types.Color]string{
	types.ColorBlue:   "9",
	types.ColorOrange: "6",
	types.ColorGreen:  "10",
}

// Store is a Google Calendar backed event store.
type Store struct {
	svc        *calendar.Service
	calendarID string
	timeZone   string
}

// New creates a Store for calendarID. opts are passed to the API client, e.g.
// option.WithCredentialsFile.
//
// PARAMETERS:
//   - ctx: Context used to build the HTTP client.
//   - calendarID: The calendar to manage ("primary" or an address).
//   - loc: Time zone events are written in. Nil means UTC.
//   - opts: Client options.
func New(ctx context.Context, calendarID string, loc *time.Location, opts ...option.ClientOption) (*Store, error) {
	if calendarID == "" {
		return nil, fmt.Errorf("calendar ID is required")
	}
	if loc == nil {
		loc = time.UTC
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	// "Local" is not an IANA name; the offset in each date-time is enough.
	timeZone := loc.String()
	if loc == time.Local {
		timeZone = ""
	}

	return &Store{svc: svc, calendarID: calendarID, timeZone: timeZone}, nil
}

// Search lists every event overlapping [start, end), expanding recurring
// events, ordered by start time.
func (s *Store) Search(ctx context.Context, start, end time.Time) ([]types.Event, error) {
	var events []types.Event

	call := s.svc.Events.List(s.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			ev, err := fromAPI(item)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return events, nil
}

// Create inserts ev into the calendar.
func (s *Store) Create(ctx context.Context, ev types.Event) (types.Event, error) {
	created, err := s.svc.Events.Insert(s.calendarID, s.toAPI(ev)).Context(ctx).Do()
	if err != nil {
		return types.Event{}, fmt.Errorf("failed to insert event: %w", err)
	}

	ev.ID = created.Id
	return ev, nil
}

// Update patches the owned fields of the event with ev.ID.
func (s *Store) Update(ctx context.Context, ev types.Event) error {
	if _, err := s.svc.Events.Patch(s.calendarID, ev.ID, s.toAPI(ev)).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to patch event %s: %w", ev.ID, err)
	}
	return nil
}

// Delete removes the event with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.svc.Events.Delete(s.calendarID, id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	return nil
}

// =============================================================================
// CONVERSION
// =============================================================================

// toAPI converts an event to its API representation.
func (s *Store) toAPI(ev types.Event) *calendar.Event {
	return &calendar.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		ColorId:     colorIDs[ev.Color],
		Start: &calendar.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: s.timeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: s.timeZone,
		},
	}
}

// fromAPI converts an API event. All-day events carry a date instead of a
// date-time.
func fromAPI(item *calendar.Event) (types.Event, error) {
	start, err := parseEventTime(item.Start)
	if err != nil {
		return types.Event{}, fmt.Errorf("event %s start: %w", item.Id, err)
	}
	end, err := parseEventTime(item.End)
	if err != nil {
		return types.Event{}, fmt.Errorf("event %s end: %w", item.Id, err)
	}

	return types.Event{
		ID:          item.Id,
		Title:       item.Summary,
		Start:       start,
		End:         end,
		Description: item.Description,
		Location:    item.Location,
		Color:       colorFromID(item.ColorId),
	}, nil
}

func parseEventTime(t *calendar.EventDateTime) (time.Time, error) {
	switch {
	case t == nil:
		return time.Time{}, fmt.Errorf("missing time")
	case t.DateTime != "":
		return time.Parse(time.RFC3339, t.DateTime)
	default:
		return time.Parse("2006-01-02", t.Date)
	}
}

// colorFromID maps a Google color ID back to an event color. Unknown IDs,
// including the calendar default, yield an empty color.
func colorFromID(id string) types.Color {
	for color, cid := range colorIDs {
		if cid == id {
			return color
		}
	}
	return ""
}
