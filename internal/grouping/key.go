package grouping

import (
	"strconv"
	"time"
)

// KeyDelimiter separates the timestamp from the destination in a group key.
// Destinations are not sanitized against it.
const KeyDelimiter = "-"

// MergeStart combines the calendar day of date with the clock of clock in
// loc. The time-of-day carried by date and the day carried by clock are
// ignored.
func MergeStart(date, clock time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(),
		0, loc,
	)
}

// Key renders the idempotence key of a group: the start instant in epoch
// milliseconds followed by the destination, e.g. "1717230600000-Mumbai".
func Key(start time.Time, destination string) string {
	return strconv.FormatInt(start.UnixMilli(), 10) + KeyDelimiter + destination
}

// TravelerDisplay formats one traveler entry of an event description:
// "primary, secondary (guests)" or "primary (guests)".
func TravelerDisplay(primary, secondary, guests string) string {
	name := primary
	if secondary != "" {
		name = primary + ", " + secondary
	}
	return name + " (" + guests + ")"
}
