// =============================================================================
// Travel Desk Sync - Configuration Module
// =============================================================================
//
// This module loads the single configuration file of the travel desk and
// resolves everything a command needs from it: where the feed comes from,
// where events go, and how the process logs and reports.
//
// LOADING ORDER:
//   1. .env file (if present) is loaded into the process environment
//   2. config.yaml is read and parsed
//   3. Environment overrides are applied
//   4. Defaults fill whatever is still unset
//   5. The result is validated
//
// ENVIRONMENT OVERRIDES:
//   TRAVELDESK_CREDENTIALS_FILE  -> credentials_file
//   TRAVELDESK_CALENDAR_ID       -> store.calendar_id
//   TRAVELDESK_SPREADSHEET_ID    -> source.spreadsheet_id
//   LOG_LEVEL                    -> log.level
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/travel-desk/internal/logging"
	"github.com/ginjaninja78/travel-desk/internal/source"
)

// Source types.
const (
	SourceXLSX    = "xlsx"
	SourceCSV     = "csv"
	SourceGSheets = "gsheets"
)

// Store types.
const (
	StoreSQLite = "sqlite"
	StoreGCal   = "gcal"
	StoreMemory = "memory"
)

const dateLayout = "2006-01-02"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// Source is the spreadsheet feed.
	Source SourceConfig `yaml:"source"`

	// Store is the calendar events are written to.
	Store StoreConfig `yaml:"store"`

	// CredentialsFile is a Google service account JSON key, used by the
	// gsheets source and the gcal store.
	CredentialsFile string `yaml:"credentials_file"`

	// Timezone is the IANA zone dates and times are read in.
	// Default: "Local"
	Timezone string `yaml:"timezone"`

	Purge PurgeConfig `yaml:"purge"`

	// ReportDir is where flagged-row logs and run summaries are written.
	// Default: "./reports"
	ReportDir string `yaml:"report_dir"`

	// ReportRetention removes reports older than this after each run.
	// Zero keeps every report.
	ReportRetention time.Duration `yaml:"report_retention"`

	// ReportSubdirs writes reports into date-based subdirectories.
	// Example: reports/2024/06/01/run_summary_....txt
	ReportSubdirs bool `yaml:"report_subdirs"`

	Log     logging.Config `yaml:"log"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

// SourceConfig selects and locates the feed.
type SourceConfig struct {
	// Type is one of "xlsx", "csv" or "gsheets".
	// Default: "xlsx"
	Type string `yaml:"type"`

	// Path is the feed file for xlsx and csv.
	Path string `yaml:"path"`

	// Sheet is the worksheet name for xlsx and gsheets.
	// Default: "Travel Desk (Incoming)"
	Sheet string `yaml:"sheet"`

	// SpreadsheetID is the Google spreadsheet for gsheets.
	SpreadsheetID string `yaml:"spreadsheet_id"`

	// HeaderRows is the number of rows skipped above the data.
	// Default: 1
	HeaderRows *int `yaml:"header_rows"`

	// CSVDelimiter is the csv field separator.
	// Default: ","
	CSVDelimiter string `yaml:"csv_delimiter"`
}

// StoreConfig selects and locates the event store.
type StoreConfig struct {
	// Type is one of "sqlite", "gcal" or "memory".
	// Default: "sqlite"
	Type string `yaml:"type"`

	// Path is the sqlite database file.
	// Default: "./travel_desk.db"
	Path string `yaml:"path"`

	// CalendarID is the Google calendar for gcal.
	// Default: "primary"
	CalendarID string `yaml:"calendar_id"`
}

// PurgeConfig bounds the purge span, as YYYY-MM-DD dates.
type PurgeConfig struct {
	// Default: "2000-01-01"
	Start string `yaml:"start"`

	// Default: "2100-01-01"
	End string `yaml:"end"`
}

// MetricsConfig controls pushing run metrics.
type MetricsConfig struct {
	// PushgatewayURL enables pushing when set.
	PushgatewayURL string `yaml:"pushgateway_url"`

	// Job is the Pushgateway job name.
	// Default: "travel_desk_sync"
	Job string `yaml:"job"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. A missing file is not
//     an error; defaults and environment overrides still apply.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*Config, error) {
	// Load .env if present. A missing file is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var config Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnvOverrides(&config)
	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides copies set environment variables over the file values.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("TRAVELDESK_CREDENTIALS_FILE"); v != "" {
		config.CredentialsFile = v
	}
	if v := os.Getenv("TRAVELDESK_CALENDAR_ID"); v != "" {
		config.Store.CalendarID = v
	}
	if v := os.Getenv("TRAVELDESK_SPREADSHEET_ID"); v != "" {
		config.Source.SpreadsheetID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.Source.Type == "" {
		config.Source.Type = SourceXLSX
	}
	if config.Source.Sheet == "" {
		config.Source.Sheet = source.DefaultSheetName
	}
	if config.Source.HeaderRows == nil {
		one := 1
		config.Source.HeaderRows = &one
	}
	if config.Source.CSVDelimiter == "" {
		config.Source.CSVDelimiter = ","
	}

	if config.Store.Type == "" {
		config.Store.Type = StoreSQLite
	}
	if config.Store.Path == "" {
		config.Store.Path = "./travel_desk.db"
	}
	if config.Store.CalendarID == "" {
		config.Store.CalendarID = "primary"
	}

	if config.Timezone == "" {
		config.Timezone = "Local"
	}
	if config.Purge.Start == "" {
		config.Purge.Start = "2000-01-01"
	}
	if config.Purge.End == "" {
		config.Purge.End = "2100-01-01"
	}
	if config.ReportDir == "" {
		config.ReportDir = "./reports"
	}

	defaults := logging.DefaultConfig()
	if config.Log.Level == "" {
		config.Log.Level = defaults.Level
	}
	if config.Log.Format == "" {
		config.Log.Format = defaults.Format
	}
	if config.Log.Output == "" {
		config.Log.Output = defaults.Output
	}

	if config.Metrics.Job == "" {
		config.Metrics.Job = "travel_desk_sync"
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Source.Type {
	case SourceXLSX, SourceCSV:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for %s sources", c.Source.Type)
		}
	case SourceGSheets:
		if c.Source.SpreadsheetID == "" {
			return errors.New("source.spreadsheet_id is required for gsheets sources")
		}
	default:
		return fmt.Errorf("unknown source.type %q", c.Source.Type)
	}
	if *c.Source.HeaderRows < 0 {
		return fmt.Errorf("source.header_rows must not be negative, got %d", *c.Source.HeaderRows)
	}

	switch c.Store.Type {
	case StoreSQLite, StoreGCal, StoreMemory:
	default:
		return fmt.Errorf("unknown store.type %q", c.Store.Type)
	}

	if c.ReportRetention < 0 {
		return fmt.Errorf("report_retention must not be negative, got %s", c.ReportRetention)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	start, end, err := c.PurgeSpan()
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return fmt.Errorf("purge.start %s must be before purge.end %s", c.Purge.Start, c.Purge.End)
	}

	return nil
}

// =============================================================================
// RESOLVED VALUES
// =============================================================================

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// PurgeSpan resolves the purge dates as UTC midnights.
func (c *Config) PurgeSpan() (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, c.Purge.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid purge.start: %w", err)
	}
	end, err := time.Parse(dateLayout, c.Purge.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid purge.end: %w", err)
	}
	return start, end, nil
}
