package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()
	r.RowsRead.Add(3)
	r.EventsCreated.Inc()
	r.ObserveRun(time.Now().Add(-time.Second))

	assert.Equal(t, 3.0, testutil.ToFloat64(r.RowsRead))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.EventsCreated))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.EventsUpdated))

	count, err := testutil.GatherAndCount(r.Registry, "travel_desk_run_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.RowsFlagged.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.RowsFlagged))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RowsFlagged))
}

func TestPush(t *testing.T) {
	var path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path = req.URL.Path
		buf := new(strings.Builder)
		_, _ = io.Copy(buf, req.Body)
		body = buf.String()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := New()
	r.EventsCreated.Inc()
	require.NoError(t, r.Push(srv.URL, "travel_desk_sync"))

	assert.Equal(t, "/metrics/job/travel_desk_sync", path)
	assert.NotEmpty(t, body)
}
