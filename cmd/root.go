// =============================================================================
// Travel Desk Sync - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (travel-desk)
//   ├── reconcileCmd (travel-desk reconcile)
//   ├── validateCmd  (travel-desk validate)
//   ├── purgeCmd     (travel-desk purge)
//   ├── watchCmd     (travel-desk watch)
//   └── versionCmd   (travel-desk version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose). Each
//   command loads the configuration and builds its logger through setup().
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/travel-desk/internal/config"
	"github.com/ginjaninja78/travel-desk/internal/logging"
	"github.com/ginjaninja78/travel-desk/internal/metrics"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "travel-desk",
	Short: "Travel Desk Sync - keep one calendar event per arriving travel group",

	Long: `Travel Desk Sync reads the travel desk arrival sheet, rejects rows with
a missing or unreadable date or time, groups travelers arriving at the same
moment at the same destination, and keeps exactly one calendar event per
group.

Runs are idempotent: each event carries its group key in its description
and is updated in place on later runs.

Example Usage:
  travel-desk reconcile                    # Sync the sheet into the calendar
  travel-desk reconcile --dry-run          # Show what would change
  travel-desk validate                     # Only check the rows
  travel-desk purge --yes                  # Delete every event in the purge span
  travel-desk watch                        # Re-sync whenever the sheet file changes`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// =============================================================================
// COMMAND SETUP
// =============================================================================

// app is what every command needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	metrics  *metrics.Recorder
	location *time.Location
	logClose io.Closer
}

// setup loads the configuration and builds the logger and metrics.
func setup() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	logger, closer := logging.New(cfg.Log)
	logger.Debug().Str("config", cfgFile).Str("source", cfg.Source.Type).Str("store", cfg.Store.Type).Msg("configuration loaded")

	return &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics.New(),
		location: loc,
		logClose: closer,
	}, nil
}

// close pushes metrics if configured and releases the log output.
func (a *app) close() {
	if url := a.cfg.Metrics.PushgatewayURL; url != "" {
		if err := a.metrics.Push(url, a.cfg.Metrics.Job); err != nil {
			a.logger.Warn().Err(err).Str("url", url).Msg("failed to push metrics")
		}
	}
	a.logClose.Close()
}
