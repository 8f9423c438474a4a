package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/travel-desk/internal/types"
)

var base = time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)

func event(title string, offset time.Duration) types.Event {
	return types.Event{Title: title, Start: base.Add(offset), End: base.Add(offset + 15*time.Minute)}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	a, err := s.Create(ctx, event("a", 0))
	require.NoError(t, err)
	b, err := s.Create(ctx, event("b", 2*time.Hour))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	found, err := s.Search(ctx, base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)

	a.Title = "a2"
	require.NoError(t, s.Update(ctx, a))
	assert.Equal(t, "a2", s.All()[0].Title)

	require.NoError(t, s.Delete(ctx, a.ID))
	assert.Equal(t, 1, s.Len())
	assert.Error(t, s.Delete(ctx, a.ID))
	assert.Error(t, s.Update(ctx, types.Event{ID: "missing"}))
}

func TestSearchHalfOpen(t *testing.T) {
	s := New(event("a", 0))

	// An event ending exactly at the window start does not overlap.
	found, err := s.Search(context.Background(), base.Add(15*time.Minute), base.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, found)

	// Nor one starting exactly at the window end.
	found, err = s.Search(context.Background(), base.Add(-time.Hour), base)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSeedKeepsOrderAndIDs(t *testing.T) {
	s := New(types.Event{ID: "fixed", Start: base, End: base.Add(time.Minute)}, event("x", 0))

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "fixed", all[0].ID)
	assert.NotEmpty(t, all[1].ID)
}
