// =============================================================================
// Travel Desk Sync - Purge Command
// =============================================================================
//
// This file defines the 'purge' command, which deletes EVERY event in the
// configured span of the calendar, including events the travel desk did
// not create. It runs unconditionally: there is no confirmation prompt and
// no dry-run.
//
// COMMAND USAGE:
//   travel-desk purge [--start 2000-01-01] [--end 2100-01-01]
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/travel-desk/internal/purge"
)

var (
	purgeStart string
	purgeEnd   string
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every event in the purge span of the calendar",
	Long: `The purge command deletes every event overlapping the purge span
(default 2000-01-01 to 2100-01-01), whoever created it. It does not touch
the arrival sheet, asks for no confirmation and cannot be undone.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		deleted, err := runPurge(cmd.Context(), a, purgeStart, purgeEnd)
		fmt.Printf("Deleted: %d\n", deleted)
		return err
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)

	purgeCmd.Flags().StringVar(&purgeStart, "start", "", "Span start date (YYYY-MM-DD), overrides purge.start")
	purgeCmd.Flags().StringVar(&purgeEnd, "end", "", "Span end date (YYYY-MM-DD), overrides purge.end")
}

// runPurge deletes every event in the configured span. Non-empty start and
// end override the configured dates.
func runPurge(ctx context.Context, a *app, start, end string) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if start != "" {
		a.cfg.Purge.Start = start
	}
	if end != "" {
		a.cfg.Purge.End = end
	}
	from, to, err := a.cfg.PurgeSpan()
	if err != nil {
		return 0, err
	}

	st, stClose, err := a.openStore(ctx)
	if err != nil {
		return 0, err
	}
	defer stClose.Close()

	deleted, err := purge.Purge(ctx, st, purge.Options{
		Start:   from,
		End:     to,
		Logger:  a.logger,
		Metrics: a.metrics,
	})
	if err != nil {
		a.metrics.RunsFailed.Inc()
	}
	return deleted, err
}
