package purge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/travel-desk/internal/metrics"
	"github.com/ginjaninja78/travel-desk/internal/store/memory"
	"github.com/ginjaninja78/travel-desk/internal/types"
)

func at(year int) types.Event {
	start := time.Date(year, 6, 1, 14, 0, 0, 0, time.UTC)
	return types.Event{Title: "e", Start: start, End: start.Add(15 * time.Minute)}
}

func TestPurgeDefaultSpan(t *testing.T) {
	st := memory.New(at(1999), at(2010), at(2024), at(2099), at(2150))
	rec := metrics.New()

	deleted, err := Purge(context.Background(), st, Options{Logger: zerolog.Nop(), Metrics: rec})
	require.NoError(t, err)

	assert.Equal(t, 3, deleted)
	assert.Equal(t, 2, st.Len())
	assert.Equal(t, 3.0, testutil.ToFloat64(rec.EventsPurged))
}

func TestPurgeCustomSpan(t *testing.T) {
	st := memory.New(at(2023), at(2024), at(2025))

	deleted, err := Purge(context.Background(), st, Options{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, deleted)
	assert.Equal(t, 2, st.Len())
}

func TestPurgeEmpty(t *testing.T) {
	deleted, err := Purge(context.Background(), memory.New(), Options{})
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

type failingDelete struct {
	*memory.Store
	allow int
}

func (s *failingDelete) Delete(ctx context.Context, id string) error {
	if s.allow == 0 {
		return errors.New("rate limited")
	}
	s.allow--
	return s.Store.Delete(ctx, id)
}

func TestPurgeAbortsOnFirstError(t *testing.T) {
	st := &failingDelete{Store: memory.New(at(2020), at(2021), at(2022)), allow: 1}

	deleted, err := Purge(context.Background(), st, Options{})

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrExternalStore)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, 2, st.Len())
}
