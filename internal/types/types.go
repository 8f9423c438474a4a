// =============================================================================
// Travel Desk Sync - Shared Types
// =============================================================================
//
// This package contains the types shared by every stage of a run to avoid
// import cycles. Types defined here are used by:
//   - source      (produces RawRecord)
//   - validation  (RawRecord -> Outcome)
//   - grouping    (RawRecord -> TravelGroup)
//   - reconcile   (TravelGroup -> Event)
//   - store       (persists Event)
//
// =============================================================================

package types

import (
	"time"
)

// =============================================================================
// INPUT ROW
// =============================================================================

// Column positions of the incoming travel desk sheet. The order is fixed.
const (
	ColDate = iota
	ColPrimaryName
	ColSecondaryName
	ColContactNumber
	ColGuestCount
	ColTime
	ColTransportDetails
	ColDestination

	// ColumnCount is the number of columns a data row is expected to carry.
	ColumnCount
)

// RawRecord is one data row of the travel desk feed, exactly as rendered by
// the data source. Values are never modified after the source produces them.
type RawRecord struct {
	// RowIndex is the 0-based position of the row in the sheet, header rows
	// included. Sources use it to address the row when flagging it.
	RowIndex int

	Date             string
	PrimaryName      string
	SecondaryName    string
	ContactNumber    string
	GuestCount       string
	Time             string
	TransportDetails string
	Destination      string
}

// RecordFromCells builds a RawRecord from the cells of one row. Missing
// trailing cells are treated as empty.
func RecordFromCells(rowIndex int, cells []string) RawRecord {
	cell := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}

	return RawRecord{
		RowIndex:         rowIndex,
		Date:             cell(ColDate),
		PrimaryName:      cell(ColPrimaryName),
		SecondaryName:    cell(ColSecondaryName),
		ContactNumber:    cell(ColContactNumber),
		GuestCount:       cell(ColGuestCount),
		Time:             cell(ColTime),
		TransportDetails: cell(ColTransportDetails),
		Destination:      cell(ColDestination),
	}
}

// =============================================================================
// GROUPS
// =============================================================================

// TravelGroup is the set of travelers arriving at one destination at one
// instant. Groups exist only for the duration of a single run.
type TravelGroup struct {
	// Key is the idempotence key of the group, see grouping.Key.
	Key string

	// Start is the merged arrival timestamp.
	Start time.Time

	Destination string

	// TransportDetails is taken from the first row that created the group.
	TransportDetails string

	// Travelers holds display strings in source row order.
	Travelers []string
}

// =============================================================================
// EVENTS
// =============================================================================

// Color is the presentation category of an arrival event.
type Color string

// Colors understood by every event store.
const (
	ColorBlue   Color = "Blue"
	ColorOrange Color = "Orange"
	ColorGreen  Color = "Green"
)

// Event is a calendar entry as seen through an event store.
type Event struct {
	// ID is assigned by the store on create and never changed by updates.
	ID string

	Title       string
	Start       time.Time
	End         time.Time
	Description string
	Location    string
	Color       Color
}

// Overlaps reports whether the event intersects the half-open span [start, end).
func (e Event) Overlaps(start, end time.Time) bool {
	return e.Start.Before(end) && e.End.After(start)
}

// =============================================================================
// ACTIONS
// =============================================================================

// Action is the upsert decision taken for a group.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)
