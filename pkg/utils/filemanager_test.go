package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 15, 4, 5, 0, time.UTC)

func newTestManager(t *testing.T) *FileManager {
	t.Helper()
	fm := NewFileManager(filepath.Join(t.TempDir(), "reports"))
	fm.now = func() time.Time { return fixedNow }
	return fm
}

func TestWriteFlaggedLog(t *testing.T) {
	fm := newTestManager(t)

	path, err := fm.WriteFlaggedLog("run-1", "xlsx:incoming.xlsx", []FlaggedRowEntry{
		{RowNumber: 3, Reason: "Invalid Date or Time"},
		{RowNumber: 7, Reason: "Invalid Date or Time"},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.ReportDir, "flagged_rows_20240601_150405_run-1.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Run ID:    run-1")
	assert.Contains(t, content, "Total:     2")
	assert.Contains(t, content, "Row 3      Invalid Date or Time")
	assert.Contains(t, content, "Row 7      Invalid Date or Time")
}

func TestWriteFlaggedLogEmpty(t *testing.T) {
	fm := newTestManager(t)

	path, err := fm.WriteFlaggedLog("run-1", "src", nil)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.False(t, FileExists(fm.ReportDir))
}

func TestWriteSummaryLog(t *testing.T) {
	fm := newTestManager(t)

	path, err := fm.WriteSummaryLog(RunSummary{
		RunID:       "run-2",
		Source:      "csv:incoming.csv",
		Store:       "sqlite:travel_desk.db",
		StartTime:   fixedNow,
		EndTime:     fixedNow.Add(2 * time.Second),
		TotalRows:   4,
		FlaggedRows: 1,
		Groups: []GroupSummary{
			{Title: "Flight AI202 :: Arrival :: Mumbai", Action: "create", EventID: "ev-1", Travelers: 2},
		},
		Created: 1,
		Error:   "create: backend unavailable",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Duration:       2s")
	assert.Contains(t, content, "Status:         aborted")
	assert.Contains(t, content, "Rows Read:      4")
	assert.Contains(t, content, "create  Flight AI202 :: Arrival :: Mumbai (2 travelers) [ev-1]")
	assert.Contains(t, content, "create: backend unavailable")
}

func TestTimestampSubdirs(t *testing.T) {
	fm := newTestManager(t)
	fm.UseTimestampSubdirs = true

	path, err := fm.WriteSummaryLog(RunSummary{RunID: "run-3", StartTime: fixedNow, EndTime: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.ReportDir, "2024", "06", "01"), filepath.Dir(path))
}

func TestCleanOldReports(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.txt")
	fresh := filepath.Join(dir, "fresh.txt")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	removed, err := CleanOldReports(dir, 24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, removed)
	assert.False(t, FileExists(old))
	assert.True(t, FileExists(fresh))
}

func TestCleanOldReportsMissingDir(t *testing.T) {
	removed, err := CleanOldReports(filepath.Join(t.TempDir(), "never-written"), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
