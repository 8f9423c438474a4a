// =============================================================================
// Travel Desk Sync - Event Store Interface
// =============================================================================
//
// An event store is the calendar the arrival events live in. The reconciler
// only ever searches a time range and then creates, updates or deletes by the
// store-assigned ID; it never looks events up by key.
//
// IMPLEMENTATIONS:
//   - memory : in-process store used for dry runs and tests
//   - sqlite : local calendar database file
//   - gcal   : Google Calendar
//
// =============================================================================

package store

import (
	"context"
	"time"

	"github.com/ginjaninja78/travel-desk/internal/types"
)

// Store is the contract every event store implements.
type Store interface {
	// Search returns all events overlapping [start, end) in store order.
	Search(ctx context.Context, start, end time.Time) ([]types.Event, error)

	// Create inserts ev and returns it with its store-assigned ID.
	Create(ctx context.Context, ev types.Event) (types.Event, error)

	// Update overwrites title, time range, description, location and color
	// of the event identified by ev.ID.
	Update(ctx context.Context, ev types.Event) error

	// Delete removes the event with the given ID.
	Delete(ctx context.Context, id string) error
}
