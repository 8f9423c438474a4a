// =============================================================================
// Travel Desk Sync - Watch Command
// =============================================================================
//
// This file defines the 'watch' command, which re-runs reconciliation every
// time the local arrival sheet file changes.
//
// COMMAND USAGE:
//   travel-desk watch [--debounce 2s]
//
// BEHAVIOR:
//   - One run at startup, then one run per burst of file changes
//   - Runs never overlap; changes during a run schedule one more run
//   - The directory is watched, not the file, so editors that save by
//     rename are picked up
//   - A failed run is logged and the watch continues
//
// Only xlsx and csv sources can be watched.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/travel-desk/internal/config"
)

var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-sync whenever the arrival sheet file changes",
	Long: `The watch command runs reconcile once, then again every time the local
arrival sheet file (xlsx or csv source) is written. Stop it with Ctrl-C.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		if a.cfg.Source.Type == config.SourceGSheets {
			return errors.New("watch needs a local xlsx or csv source")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return watchSource(ctx, a, a.cfg.Source.Path, debounce)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&debounce, "debounce", 2*time.Second, "Quiet period after a change before running")
}

// watchSource runs reconciliation on start and after each burst of writes
// to path until ctx is done.
func watchSource(ctx context.Context, a *app, path string, quiet time.Duration) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	run := func() {
		if _, err := runReconcile(ctx, a, false); err != nil {
			a.logger.Error().Err(err).Msg("reconcile failed, waiting for next change")
		}
	}

	a.logger.Info().Str("path", abs).Dur("debounce", quiet).Msg("watching source")
	run()

	// pending fires once the source has been quiet for the debounce period.
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			a.logger.Info().Msg("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			a.logger.Debug().Str("op", event.Op.String()).Msg("source changed")
			pending = time.After(quiet)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn().Err(err).Msg("watcher error")

		case <-pending:
			pending = nil
			run()
		}
	}
}
