// =============================================================================
// Travel Desk Sync - Reconcile Command
// =============================================================================
//
// This file defines the 'reconcile' command, the main command of the tool.
//
// COMMAND USAGE:
//   travel-desk reconcile [flags]
//
// FLAGS:
//   --dry-run : Read, validate and search without writing events or flags
//
// PIPELINE:
//   1. Load configuration
//   2. Open the data source and the event store
//   3. Run the reconciliation (validate, flag, group, classify, upsert)
//   4. Save flags back to the source
//   5. Write the flagged-row log and the run summary
//   6. Remove reports older than report_retention
//   7. Push metrics if a Pushgateway is configured
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/travel-desk/internal/reconcile"
	"github.com/ginjaninja78/travel-desk/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun reads and decides without writing.
var dryRun bool

// =============================================================================
// RECONCILE COMMAND DEFINITION
// =============================================================================

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Sync the arrival sheet into the calendar",
	Long: `The reconcile command reads every row of the arrival sheet, flags rows
with a missing or unreadable date or time, groups the remaining rows by
arrival instant and destination, and creates or updates one calendar event
per group.

Invalid rows never stop the run. The first data source or calendar error
does; events written before it stay written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		result, err := runReconcile(cmd.Context(), a, dryRun)
		printResult(result)
		return err
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Read and search without writing events or flags",
	)
}

// =============================================================================
// MAIN RECONCILE FUNCTION
// =============================================================================

// runReconcile runs one reconciliation and writes its reports. The result is
// returned even on failure.
func runReconcile(ctx context.Context, a *app, dry bool) (*reconcile.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	src, err := a.openSource(ctx)
	if err != nil {
		a.metrics.RunsFailed.Inc()
		return nil, err
	}

	st, stClose, err := a.openStore(ctx)
	if err != nil {
		src.Close()
		a.metrics.RunsFailed.Inc()
		return nil, err
	}
	defer stClose.Close()

	result, runErr := reconcile.Run(ctx, reconcile.Env{
		Source:   src,
		Store:    st,
		Logger:   a.logger,
		Metrics:  a.metrics,
		Location: a.location,
		DryRun:   dry,
	})

	// Flags are saved even when the run failed part way.
	if err := src.Close(); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("failed to save source: %w", err))
	}

	if err := writeReports(a, result, runErr); err != nil {
		a.logger.Warn().Err(err).Msg("failed to write reports")
	}

	return result, runErr
}

// writeReports writes the flagged-row log and run summary of result, then
// applies the report retention.
func writeReports(a *app, result *reconcile.Result, runErr error) error {
	if result == nil {
		return nil
	}
	fm := utils.NewFileManager(a.cfg.ReportDir)
	fm.UseTimestampSubdirs = a.cfg.ReportSubdirs

	flagged := make([]utils.FlaggedRowEntry, 0, len(result.Flagged))
	for _, f := range result.Flagged {
		flagged = append(flagged, utils.FlaggedRowEntry{RowNumber: f.RowIndex + 1, Reason: f.Reason})
	}
	path, err := fm.WriteFlaggedLog(result.RunID, a.sourceName(), flagged)
	if err != nil {
		return err
	}
	if path != "" {
		a.logger.Info().Str("path", path).Msg("flagged row log written")
	}

	summary := utils.RunSummary{
		RunID:       result.RunID,
		Source:      a.sourceName(),
		Store:       a.storeName(),
		StartTime:   result.Started,
		EndTime:     result.Started.Add(result.Duration),
		DryRun:      result.DryRun,
		TotalRows:   result.RowsRead,
		FlaggedRows: len(result.Flagged),
		Created:     result.Created,
		Updated:     result.Updated,
	}
	for _, g := range result.Groups {
		summary.Groups = append(summary.Groups, utils.GroupSummary{
			Title:     g.Title,
			Action:    string(g.Action),
			EventID:   g.EventID,
			Travelers: g.Travelers,
		})
	}
	if runErr != nil {
		summary.Error = runErr.Error()
	}

	path, err = fm.WriteSummaryLog(summary)
	if err != nil {
		return err
	}
	a.logger.Debug().Str("path", path).Msg("run summary written")

	if a.cfg.ReportRetention <= 0 {
		return nil
	}
	removed, err := utils.CleanOldReports(a.cfg.ReportDir, a.cfg.ReportRetention)
	if err != nil {
		return err
	}
	if removed > 0 {
		a.logger.Info().Int("removed", removed).Msg("old reports removed")
	}
	return nil
}

// printResult prints the counts of a run to stdout.
func printResult(result *reconcile.Result) {
	if result == nil {
		return
	}
	mode := ""
	if result.DryRun {
		mode = " (dry run)"
	}
	fmt.Printf("=== Travel Desk Sync%s ===\n", mode)
	fmt.Printf("Rows read:    %d\n", result.RowsRead)
	fmt.Printf("Rows flagged: %d\n", len(result.Flagged))
	fmt.Printf("Groups:       %d\n", len(result.Groups))
	fmt.Printf("Created:      %d\n", result.Created)
	fmt.Printf("Updated:      %d\n", result.Updated)
}
