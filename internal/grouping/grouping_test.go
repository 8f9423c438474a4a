package grouping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/travel-desk/internal/types"
)

var arrival = time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)

func TestMergeStart(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := time.Date(0, 1, 1, 14, 5, 30, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 6, 1, 14, 5, 30, 0, time.UTC), MergeStart(date, clock, time.UTC))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "1717250400000-Mumbai", Key(arrival, "Mumbai"))
	assert.NotEqual(t, Key(arrival, "Mumbai"), Key(arrival.Add(time.Millisecond), "Mumbai"))
	assert.NotEqual(t, Key(arrival, "Mumbai"), Key(arrival, "Pune"))

	// Same instant in another zone is the same key.
	ist := time.FixedZone("IST", 5*3600+1800)
	assert.Equal(t, Key(arrival, "Mumbai"), Key(arrival.In(ist), "Mumbai"))
}

func TestTravelerDisplay(t *testing.T) {
	assert.Equal(t, "Alice (1)", TravelerDisplay("Alice", "", "1"))
	assert.Equal(t, "Bob, Carol (2)", TravelerDisplay("Bob", "Carol", "2"))
}

func entry(start time.Time, dest, transport, primary, guests string) Entry {
	return NewEntry(types.RawRecord{
		PrimaryName:      primary,
		GuestCount:       guests,
		TransportDetails: transport,
		Destination:      dest,
	}, start)
}

func aggregate(entries ...Entry) []types.TravelGroup {
	agg := NewAggregator(FirstSeenWins)
	for _, e := range entries {
		agg.Add(e)
	}
	return agg.Groups()
}

func TestAggregateSameKey(t *testing.T) {
	groups := aggregate(
		entry(arrival, "Mumbai", "Flight AI202", "Alice", "1"),
		entry(arrival, "Mumbai", "Flight AI202", "Bob", "2"),
	)

	require.Len(t, groups, 1)
	assert.Equal(t, Key(arrival, "Mumbai"), groups[0].Key)
	assert.Equal(t, []string{"Alice (1)", "Bob (2)"}, groups[0].Travelers)
	assert.Equal(t, "Flight AI202", groups[0].TransportDetails)
}

func TestAggregateSplitsOnMillisecond(t *testing.T) {
	groups := aggregate(
		entry(arrival, "Mumbai", "Flight AI202", "Alice", "1"),
		entry(arrival.Add(time.Millisecond), "Mumbai", "Flight AI202", "Bob", "2"),
	)

	assert.Len(t, groups, 2)
}

func TestAggregateFirstOccurrenceOrder(t *testing.T) {
	later := arrival.Add(time.Hour)
	groups := aggregate(
		entry(later, "Pune", "Car", "Carol", "1"),
		entry(arrival, "Mumbai", "Flight", "Alice", "1"),
		entry(later, "Pune", "Car", "Dan", "3"),
	)

	require.Len(t, groups, 2)
	assert.Equal(t, "Pune", groups[0].Destination)
	assert.Equal(t, []string{"Carol (1)", "Dan (3)"}, groups[0].Travelers)
	assert.Equal(t, "Mumbai", groups[1].Destination)
}

func TestAggregateFirstSeenTransportWins(t *testing.T) {
	groups := aggregate(
		entry(arrival, "Mumbai", "Flight AI202", "Alice", "1"),
		entry(arrival, "Mumbai", "Car pickup", "Bob", "2"),
	)

	require.Len(t, groups, 1)
	assert.Equal(t, "Flight AI202", groups[0].TransportDetails)
	assert.Len(t, groups[0].Travelers, 2)
}

func TestAggregatorCustomPolicy(t *testing.T) {
	lastSeen := func(_, incoming string) string { return incoming }
	agg := NewAggregator(lastSeen)
	agg.Add(entry(arrival, "Mumbai", "Flight AI202", "Alice", "1"))
	agg.Add(entry(arrival, "Mumbai", "Car pickup", "Bob", "2"))

	assert.Equal(t, 1, agg.Len())
	assert.Equal(t, "Car pickup", agg.Groups()[0].TransportDetails)
}

func TestGroupsReturnsCopies(t *testing.T) {
	agg := NewAggregator(nil)
	agg.Add(entry(arrival, "Mumbai", "Flight", "Alice", "1"))

	groups := agg.Groups()
	groups[0].Travelers[0] = "changed"

	assert.Equal(t, "Alice (1)", agg.Groups()[0].Travelers[0])
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, aggregate())
}
