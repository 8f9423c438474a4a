package reconcile

import (
	"strings"

	"github.com/ginjaninja78/travel-desk/internal/types"
)

// keyPrefix introduces the idempotence key on the first description line.
const keyPrefix = "Idempotence Key: "

// KeyMarker returns the description substring that identifies the event of
// the group with the given key.
func KeyMarker(key string) string {
	return keyPrefix + key
}

// Matcher finds the events that represent a group among the events returned
// by a window search.
type Matcher interface {
	// Match returns the candidates for key in the order they were given.
	Match(events []types.Event, key string) []types.Event
}

// EmbeddedKeyMatcher matches events whose description contains the key
// marker anywhere. This is the wire format shared with every calendar the
// travel desk has written to.
type EmbeddedKeyMatcher struct{}

// Match implements Matcher.
func (EmbeddedKeyMatcher) Match(events []types.Event, key string) []types.Event {
	marker := KeyMarker(key)

	var matches []types.Event
	for _, ev := range events {
		if strings.Contains(ev.Description, marker) {
			matches = append(matches, ev)
		}
	}
	return matches
}

// ConflictPolicy picks the event to update among the matches for one key.
// ok is false when there is nothing to update.
type ConflictPolicy func(matches []types.Event) (ev types.Event, ok bool)

// FirstMatchWins picks the first match in store order. Any further matches
// are left untouched and not reported.
func FirstMatchWins(matches []types.Event) (types.Event, bool) {
	if len(matches) == 0 {
		return types.Event{}, false
	}
	return matches[0], true
}
