// =============================================================================
// Travel Desk Sync - Reconciliation Run
// =============================================================================
//
// A run takes the whole feed from the data source to the event store:
//
//   1. Read all rows from the source
//   2. Validate each row; flag invalid rows in the source and keep going
//   3. Group valid rows by (start instant, destination)
//   4. For each group, in order of first occurrence:
//      a. classify the transport text into a color
//      b. upsert the group's event
//
// ERROR HANDLING:
//   - Invalid rows never stop the run
//   - The first source or store error stops the run; groups reconciled
//     before it stay written, later groups are not attempted
//   - There are no retries
//
// =============================================================================

package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/travel-desk/internal/classify"
	"github.com/ginjaninja78/travel-desk/internal/grouping"
	"github.com/ginjaninja78/travel-desk/internal/metrics"
	"github.com/ginjaninja78/travel-desk/internal/source"
	"github.com/ginjaninja78/travel-desk/internal/store"
	"github.com/ginjaninja78/travel-desk/internal/types"
	"github.com/ginjaninja78/travel-desk/internal/validation"
)

// Env carries everything a run talks to. Nothing is held in package state.
type Env struct {
	Source source.Source
	Store  store.Store
	Logger zerolog.Logger

	// Metrics is optional.
	Metrics *metrics.Recorder

	// Location is the time zone dates and times are read in. Nil means
	// time.Local.
	Location *time.Location

	// DryRun reads and searches but writes neither events nor flags.
	DryRun bool

	// Matcher and ConflictPolicy override the reconciler defaults.
	Matcher        Matcher
	ConflictPolicy ConflictPolicy
}

// GroupResult describes what happened to one group.
type GroupResult struct {
	Key       string
	Title     string
	Action    types.Action
	EventID   string
	Travelers int
}

// Result summarizes a run. It is returned even when the run fails, holding
// whatever was done before the failure.
type Result struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	DryRun   bool

	RowsRead int
	Flagged  []*types.RowValidationError
	Groups   []GroupResult
	Created  int
	Updated  int
}

// Run reconciles the feed of env.Source into env.Store.
func Run(ctx context.Context, env Env) (*Result, error) {
	rec := env.Metrics
	if rec == nil {
		rec = metrics.New()
	}

	result := &Result{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		DryRun:  env.DryRun,
	}
	logger := env.Logger.With().Str("run_id", result.RunID).Logger()
	defer func() {
		result.Duration = time.Since(result.Started)
		rec.ObserveRun(result.Started)
	}()

	// =========================================================================
	// STEP 1: READ ROWS
	// =========================================================================

	records, err := env.Source.Rows(ctx)
	if err != nil {
		rec.RunsFailed.Inc()
		return result, types.NewStoreError("read rows", err)
	}
	result.RowsRead = len(records)
	rec.RowsRead.Add(float64(len(records)))
	logger.Debug().Int("rows", len(records)).Msg("rows read")

	// =========================================================================
	// STEP 2: VALIDATE AND FLAG
	// =========================================================================

	validator := validation.NewValidator(env.Location)
	agg := grouping.NewAggregator(grouping.FirstSeenWins)

	for _, record := range records {
		outcome := validator.Validate(record)
		if !outcome.Valid {
			rowErr := outcome.Err()
			result.Flagged = append(result.Flagged, rowErr)
			rec.RowsFlagged.Inc()
			logger.Warn().Int("row", record.RowIndex+1).Str("reason", rowErr.Reason).Msg("row flagged")

			if !env.DryRun {
				if err := env.Source.Flag(ctx, record.RowIndex, rowErr.Reason); err != nil {
					rec.RunsFailed.Inc()
					return result, types.NewStoreError("flag row", err)
				}
			}
			continue
		}

		// =====================================================================
		// STEP 3: GROUP
		// =====================================================================

		agg.Add(grouping.NewEntry(record, outcome.Start))
	}

	// =========================================================================
	// STEP 4: CLASSIFY AND UPSERT
	// =========================================================================

	reconciler := New(env.Store,
		WithLogger(logger),
		WithDryRun(env.DryRun),
		WithMatcher(env.Matcher),
		WithConflictPolicy(env.ConflictPolicy),
	)

	for _, group := range agg.Groups() {
		outcome, err := reconciler.Reconcile(ctx, group, classify.Transport(group.TransportDetails))
		if err != nil {
			rec.RunsFailed.Inc()
			logger.Error().Err(err).Str("key", group.Key).Msg("run failed")
			return result, err
		}

		rec.Groups.Inc()
		switch outcome.Action {
		case types.ActionCreate:
			result.Created++
			rec.EventsCreated.Inc()
		case types.ActionUpdate:
			result.Updated++
			rec.EventsUpdated.Inc()
		}

		result.Groups = append(result.Groups, GroupResult{
			Key:       group.Key,
			Title:     outcome.Event.Title,
			Action:    outcome.Action,
			EventID:   outcome.Event.ID,
			Travelers: len(group.Travelers),
		})
	}

	logger.Info().
		Int("rows", result.RowsRead).
		Int("flagged", len(result.Flagged)).
		Int("groups", len(result.Groups)).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Msg("run complete")

	return result, nil
}
