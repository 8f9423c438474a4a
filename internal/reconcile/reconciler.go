// =============================================================================
// Travel Desk Sync - Event Reconciler
// =============================================================================
//
// This module keeps exactly one calendar event per travel group.
//
// MATCHING PROTOCOL:
//   1. Search the store for events overlapping [start-24h, start+24h]
//   2. Keep the events whose description carries "Idempotence Key: <key>"
//   3. Pick one with the conflict policy (first match in store order)
//   4. Found: update it in place (store ID is kept)
//      Not found: create a new event
//
// The search is a linear scan of a 48 hour window, never a key lookup, so
// cost grows with how busy the calendar is around the arrival, not with the
// size of the calendar.
//
// CONCURRENCY:
//   Nothing here locks the store. Two runs over overlapping windows at the
//   same time can both miss each other's writes and create duplicates; runs
//   must be serialized by whoever triggers them.
//
// =============================================================================

package reconcile

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/travel-desk/internal/store"
	"github.com/ginjaninja78/travel-desk/internal/types"
)

const (
	// EventDuration is the fixed length of every arrival event.
	EventDuration = 15 * time.Minute

	// SearchWindow is searched on each side of a group's start time.
	SearchWindow = 24 * time.Hour
)

// =============================================================================
// EVENT RENDERING
// =============================================================================

// Title renders the event title of a group.
func Title(g types.TravelGroup) string {
	return g.TransportDetails + " :: Arrival :: " + g.Destination
}

// Description renders the event description of a group: the key marker on
// the first line, the travelers on the second.
func Description(g types.TravelGroup) string {
	return KeyMarker(g.Key) + "\nTravelers: " + strings.Join(g.Travelers, ", ")
}

// BuildEvent renders the desired state of the event for a group.
func BuildEvent(g types.TravelGroup, color types.Color) types.Event {
	return types.Event{
		Title:       Title(g),
		Start:       g.Start,
		End:         g.Start.Add(EventDuration),
		Description: Description(g),
		Location:    g.Destination,
		Color:       color,
	}
}

// =============================================================================
// RECONCILER
// =============================================================================

// Reconciler upserts group events into a store.
type Reconciler struct {
	store   store.Store
	matcher Matcher
	resolve ConflictPolicy
	logger  zerolog.Logger
	dryRun  bool
}

// Option is a function that configures a Reconciler.
type Option func(*Reconciler)

// WithMatcher replaces the EmbeddedKeyMatcher.
func WithMatcher(m Matcher) Option {
	return func(r *Reconciler) {
		if m != nil {
			r.matcher = m
		}
	}
}

// WithConflictPolicy replaces FirstMatchWins.
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(r *Reconciler) {
		if p != nil {
			r.resolve = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = l
	}
}

// WithDryRun makes the reconciler search and decide without writing.
func WithDryRun(dryRun bool) Option {
	return func(r *Reconciler) {
		r.dryRun = dryRun
	}
}

// New creates a Reconciler over s.
func New(s store.Store, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:   s,
		matcher: EmbeddedKeyMatcher{},
		resolve: FirstMatchWins,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Outcome is the result of reconciling one group.
type Outcome struct {
	Action types.Action

	// Event is the event as written (or as it would be written in a dry
	// run). Its ID is empty for a dry-run create.
	Event types.Event
}

// Reconcile creates or updates the event of group g with color.
//
// RETURNS:
//   - The action taken and the resulting event.
//   - A *types.StoreError if any store call fails. The caller must stop.
func (r *Reconciler) Reconcile(ctx context.Context, g types.TravelGroup, color types.Color) (Outcome, error) {
	desired := BuildEvent(g, color)

	candidates, err := r.store.Search(ctx, g.Start.Add(-SearchWindow), g.Start.Add(SearchWindow))
	if err != nil {
		return Outcome{}, types.NewStoreError("search", err)
	}

	existing, found := r.resolve(r.matcher.Match(candidates, g.Key))
	if found {
		desired.ID = existing.ID
		if !r.dryRun {
			if err := r.store.Update(ctx, desired); err != nil {
				return Outcome{}, types.NewStoreError("update", err)
			}
		}
		r.logger.Info().Str("title", desired.Title).Str("event_id", desired.ID).Bool("dry_run", r.dryRun).Msg("event updated")
		return Outcome{Action: types.ActionUpdate, Event: desired}, nil
	}

	if !r.dryRun {
		created, err := r.store.Create(ctx, desired)
		if err != nil {
			return Outcome{}, types.NewStoreError("create", err)
		}
		desired = created
	}
	r.logger.Info().Str("title", desired.Title).Str("event_id", desired.ID).Bool("dry_run", r.dryRun).Msg("event created")
	return Outcome{Action: types.ActionCreate, Event: desired}, nil
}
