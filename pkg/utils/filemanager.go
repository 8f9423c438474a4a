// =============================================================================
// Travel Desk Sync - Report File Manager
// =============================================================================
//
// This module writes the plain-text reports left behind by each run:
//   - A flagged-row log listing every row rejected by validation
//   - A run summary with the counts and per-group actions of the run
//
// Reports are timestamped so repeated runs never overwrite each other.
// Reports older than the configured retention are removed after each run
// with CleanOldReports.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	reportTimeFormat = "2006-01-02 15:04:05"
	ruler            = "================================================================================\n"
	thinRuler        = "--------------------------------------------------------------------------------\n"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager writes run reports.
type FileManager struct {
	// ReportDir is the directory reports are written to.
	ReportDir string

	// UseTimestampSubdirs writes reports into date-based subdirectories.
	// Example: reports/2024/01/15/run_summary_....txt
	UseTimestampSubdirs bool

	// now is replaced in tests.
	now func() time.Time
}

// NewFileManager creates a new FileManager writing into reportDir.
func NewFileManager(reportDir string) *FileManager {
	return &FileManager{
		ReportDir: reportDir,
		now:       time.Now,
	}
}

// EnsureDirectories creates the report directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.dir(), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.dir(), err)
	}
	return nil
}

// dir returns the directory the next report goes into.
func (fm *FileManager) dir() string {
	if !fm.UseTimestampSubdirs {
		return fm.ReportDir
	}
	now := fm.now()
	return filepath.Join(
		fm.ReportDir,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fmt.Sprintf("%02d", now.Day()),
	)
}

// reportPath builds a timestamped file name for prefix with the run ID.
func (fm *FileManager) reportPath(prefix, runID string) string {
	name := fmt.Sprintf("%s_%s", prefix, fm.now().Format("20060102_150405"))
	if runID != "" {
		name += "_" + runID
	}
	return filepath.Join(fm.dir(), name+".txt")
}

// =============================================================================
// FLAGGED ROW LOG
// =============================================================================

// FlaggedRowEntry is one row rejected by validation.
type FlaggedRowEntry struct {
	// RowNumber is the 1-based sheet row.
	RowNumber int
	Reason    string
}

// WriteFlaggedLog writes the flagged rows of a run to a log file.
//
// PARAMETERS:
//   - runID: The run the rows were flagged in.
//   - source: A description of the feed, e.g. its path.
//   - entries: The flagged rows.
//
// RETURNS:
//   - The path to the log file, or "" when there was nothing to write.
//   - An error if writing fails.
func (fm *FileManager) WriteFlaggedLog(runID, source string, entries []FlaggedRowEntry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	logPath := fm.reportPath("flagged_rows", runID)
	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create flagged row log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Travel Desk Sync - Flagged Rows\n"+
		"Generated: %s\n"+
		"Run ID:    %s\n"+
		"Source:    %s\n"+
		"Total:     %d\n"+
		ruler+"\n",
		fm.now().Format(reportTimeFormat),
		runID,
		source,
		len(entries))

	for _, entry := range entries {
		fmt.Fprintf(writer, "  Row %-6d %s\n", entry.RowNumber, entry.Reason)
	}

	writer.WriteString("\n" + ruler + "End of Flagged Rows\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush flagged row log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about a reconciliation run.
type RunSummary struct {
	RunID     string
	Source    string
	Store     string
	StartTime time.Time
	EndTime   time.Time
	DryRun    bool

	TotalRows   int
	FlaggedRows int
	Groups      []GroupSummary
	Created     int
	Updated     int

	// Error is the message of the error that aborted the run, if any.
	Error string
}

// GroupSummary describes the action taken for one travel group.
type GroupSummary struct {
	Title     string
	Action    string
	EventID   string
	Travelers int
}

// WriteSummaryLog writes a run summary to a log file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func (fm *FileManager) WriteSummaryLog(summary RunSummary) (string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	summaryPath := fm.reportPath("run_summary", summary.RunID)
	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	status := "completed"
	if summary.Error != "" {
		status = "aborted"
	}

	fmt.Fprintf(writer, "Travel Desk Sync - Run Summary\n"+
		ruler+"\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Source:         %s\n"+
		"  Store:          %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Dry Run:        %t\n"+
		"  Status:         %s\n\n"+
		"Statistics:\n"+
		"  Rows Read:      %d\n"+
		"  Rows Flagged:   %d\n"+
		"  Groups:         %d\n"+
		"  Created:        %d\n"+
		"  Updated:        %d\n\n",
		summary.RunID,
		summary.Source,
		summary.Store,
		summary.StartTime.Format(reportTimeFormat),
		summary.EndTime.Format(reportTimeFormat),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.DryRun,
		status,
		summary.TotalRows,
		summary.FlaggedRows,
		len(summary.Groups),
		summary.Created,
		summary.Updated)

	if len(summary.Groups) > 0 {
		writer.WriteString("Groups:\n" + thinRuler)
		for _, g := range summary.Groups {
			fmt.Fprintf(writer, "  %-7s %s (%d travelers)", g.Action, g.Title, g.Travelers)
			if g.EventID != "" {
				fmt.Fprintf(writer, " [%s]", g.EventID)
			}
			writer.WriteString("\n")
		}
		writer.WriteString("\n")
	}

	if summary.Error != "" {
		writer.WriteString("Error:\n" + thinRuler)
		fmt.Fprintf(writer, "  %s\n\n", summary.Error)
	}

	writer.WriteString(ruler + "End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// CleanOldReports removes report files older than maxAge, in reportDir and
// its date subdirectories. A missing reportDir has nothing to clean.
//
// RETURNS:
//   - The number of files removed.
//   - An error if cleaning fails.
func CleanOldReports(reportDir string, maxAge time.Duration) (int, error) {
	if !FileExists(reportDir) {
		return 0, nil
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.Walk(reportDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})

	if err != nil {
		return removed, fmt.Errorf("failed to clean reports: %w", err)
	}

	return removed, nil
}
