package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/travel-desk/internal/store/sqlite"
	"github.com/ginjaninja78/travel-desk/internal/types"
)

func seedEvents(t *testing.T, path string, starts ...time.Time) {
	t.Helper()
	st, err := sqlite.New(path)
	require.NoError(t, err)
	defer st.Close()

	for _, start := range starts {
		_, err := st.Create(context.Background(), types.Event{
			Title: "Flight AI202 :: Arrival :: Mumbai",
			Start: start,
			End:   start.Add(15 * time.Minute),
		})
		require.NoError(t, err)
	}
}

func countEvents(t *testing.T, path string) int {
	t.Helper()
	st, err := sqlite.New(path)
	require.NoError(t, err)
	defer st.Close()

	events, err := st.Search(context.Background(),
		time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return len(events)
}

func TestRunPurgeDeletesWithoutConfirmation(t *testing.T) {
	a := testApp(t, feed)
	a.cfg.Purge.Start = "2000-01-01"
	a.cfg.Purge.End = "2100-01-01"
	seedEvents(t, a.cfg.Store.Path,
		time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
		time.Date(2031, 3, 9, 8, 30, 0, 0, time.UTC),
	)

	deleted, err := runPurge(context.Background(), a, "", "")
	require.NoError(t, err)

	assert.Equal(t, 2, deleted)
	assert.Zero(t, countEvents(t, a.cfg.Store.Path))
	assert.Equal(t, 2.0, testutil.ToFloat64(a.metrics.EventsPurged))
}

func TestRunPurgeSpanOverride(t *testing.T) {
	a := testApp(t, feed)
	a.cfg.Purge.Start = "2000-01-01"
	a.cfg.Purge.End = "2100-01-01"
	seedEvents(t, a.cfg.Store.Path,
		time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
		time.Date(2031, 3, 9, 8, 30, 0, 0, time.UTC),
	)

	deleted, err := runPurge(context.Background(), a, "2024-01-01", "2025-01-01")
	require.NoError(t, err)

	assert.Equal(t, 1, deleted)
	assert.Equal(t, 1, countEvents(t, a.cfg.Store.Path))
}

func TestRunPurgeBadSpan(t *testing.T) {
	a := testApp(t, feed)

	_, err := runPurge(context.Background(), a, "yesterday", "2100-01-01")
	assert.Error(t, err)
}
