// =============================================================================
// Travel Desk Sync - Group Aggregator
// =============================================================================
//
// This module folds validated rows into travel groups. All rows with the same
// group key (arrival instant + destination) belong to one group, and each row
// contributes one traveler display string.
//
// GROUPING LOGIC:
//   - Groups are emitted in order of first occurrence in the feed
//   - Travelers keep source row order inside a group
//   - Transport text comes from the first row of the group; later rows with
//     different transport text are resolved by a TransportPolicy
//
// =============================================================================

package grouping

import (
	"time"

	"github.com/ginjaninja78/travel-desk/internal/types"
)

// Entry is the per-row input of the aggregator.
type Entry struct {
	Key              string
	Start            time.Time
	Destination      string
	TransportDetails string
	Traveler         string
}

// NewEntry derives the aggregator entry of a validated record whose merged
// start timestamp is start.
func NewEntry(rec types.RawRecord, start time.Time) Entry {
	return Entry{
		Key:              Key(start, rec.Destination),
		Start:            start,
		Destination:      rec.Destination,
		TransportDetails: rec.TransportDetails,
		Traveler:         TravelerDisplay(rec.PrimaryName, rec.SecondaryName, rec.GuestCount),
	}
}

// TransportPolicy decides the transport text of a group when a later row
// disagrees with the value already held by the group.
type TransportPolicy func(current, incoming string) string

// FirstSeenWins keeps the transport text of the first row of the group.
func FirstSeenWins(current, _ string) string {
	return current
}

// Aggregator accumulates entries into groups.
type Aggregator struct {
	groups map[string]*types.TravelGroup
	order  []string // keys in order of first occurrence
	policy TransportPolicy
}

// NewAggregator creates an empty aggregator. A nil policy means FirstSeenWins.
func NewAggregator(policy TransportPolicy) *Aggregator {
	if policy == nil {
		policy = FirstSeenWins
	}
	return &Aggregator{
		groups: make(map[string]*types.TravelGroup),
		policy: policy,
	}
}

// Add folds one entry into its group, creating the group on first sight.
func (a *Aggregator) Add(e Entry) {
	group, exists := a.groups[e.Key]
	if !exists {
		group = &types.TravelGroup{
			Key:              e.Key,
			Start:            e.Start,
			Destination:      e.Destination,
			TransportDetails: e.TransportDetails,
		}
		a.groups[e.Key] = group
		a.order = append(a.order, e.Key)
	} else if e.TransportDetails != group.TransportDetails {
		group.TransportDetails = a.policy(group.TransportDetails, e.TransportDetails)
	}

	group.Travelers = append(group.Travelers, e.Traveler)
}

// Len returns the number of groups seen so far.
func (a *Aggregator) Len() int {
	return len(a.order)
}

// Groups returns copies of all groups in order of first occurrence.
func (a *Aggregator) Groups() []types.TravelGroup {
	groups := make([]types.TravelGroup, len(a.order))
	for i, key := range a.order {
		g := *a.groups[key]
		g.Travelers = append([]string(nil), g.Travelers...)
		groups[i] = g
	}
	return groups
}
