// Package purge deletes every event in a span of an event store.
package purge

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/travel-desk/internal/metrics"
	"github.com/ginjaninja78/travel-desk/internal/store"
	"github.com/ginjaninja78/travel-desk/internal/types"
)

// DefaultStart and DefaultEnd bound the span purged when none is given.
var (
	DefaultStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	DefaultEnd   = time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// Options configures a purge.
type Options struct {
	// Start and End bound the span; zero values take the defaults.
	Start time.Time
	End   time.Time

	Logger zerolog.Logger

	// Metrics is optional.
	Metrics *metrics.Recorder
}

// Purge deletes every event overlapping [Start, End) from s, whoever
// created it. The span is listed once up front and deleted one event at a
// time; the first error aborts and the events deleted so far stay deleted.
//
// RETURNS:
//   - The number of events deleted.
//   - A *types.StoreError on failure.
func Purge(ctx context.Context, s store.Store, opts Options) (int, error) {
	start, end := opts.Start, opts.End
	if start.IsZero() {
		start = DefaultStart
	}
	if end.IsZero() {
		end = DefaultEnd
	}

	events, err := s.Search(ctx, start, end)
	if err != nil {
		return 0, types.NewStoreError("search", err)
	}

	deleted := 0
	for _, ev := range events {
		if err := s.Delete(ctx, ev.ID); err != nil {
			opts.Logger.Error().Err(err).Str("event_id", ev.ID).Int("deleted", deleted).Msg("purge aborted")
			return deleted, types.NewStoreError("delete", err)
		}
		deleted++
		if opts.Metrics != nil {
			opts.Metrics.EventsPurged.Inc()
		}
	}

	opts.Logger.Info().Int("deleted", deleted).Msg("Deleted all events.")
	return deleted, nil
}
