// =============================================================================
// Travel Desk Sync - Record Validator
// =============================================================================
//
// This module decides, for every raw row of the feed, whether the row carries
// enough information to compute an arrival timestamp. It checks only:
//   - the date cell is present and parses as a calendar date
//   - the time cell is present and parses as a time-of-day value
//
// Names, destination and transport text are free text and are never checked.
//
// ERROR HANDLING:
//   - Invalid rows are collected, never raised
//   - Every invalid row carries the same fixed reason string
//   - The caller flags invalid rows in the data source and moves on
//
// =============================================================================

package validation

import (
	"strings"
	"time"

	"github.com/ginjaninja78/travel-desk/internal/grouping"
	"github.com/ginjaninja78/travel-desk/internal/types"
)

// =============================================================================
// ACCEPTED LAYOUTS
// =============================================================================

// dateTimeLayouts are accepted in both cells. The date cell keeps only its
// calendar day and the time cell keeps only its clock.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04",
}

// dateLayouts are tried in order for the date cell.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"1/2/2006",
	"01-02-06",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// timeLayouts are tried in order for the time cell. A bare number such as
// "1400" matches none of them.
var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"3:04:05PM",
	"3:04PM",
}

// =============================================================================
// OUTCOME
// =============================================================================

// Outcome is the validation verdict for one record.
type Outcome struct {
	Record types.RawRecord

	// Valid is true when Start holds the merged arrival timestamp.
	Valid bool

	// Start is the merged arrival timestamp. Zero for invalid rows.
	Start time.Time

	// Reason explains an invalid row. Empty for valid rows.
	Reason string
}

// Err returns the row error of an invalid outcome, or nil.
func (o Outcome) Err() *types.RowValidationError {
	if o.Valid {
		return nil
	}
	return &types.RowValidationError{RowIndex: o.Record.RowIndex, Reason: o.Reason}
}

// ValidationResult contains the results of validating a whole feed.
type ValidationResult struct {
	// Valid holds the outcomes of valid rows in source order.
	Valid []Outcome

	// Invalid holds one error per rejected row in source order.
	Invalid []*types.RowValidationError
}

// IsValid is true if no row was rejected.
func (r *ValidationResult) IsValid() bool {
	return len(r.Invalid) == 0
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator turns raw records into outcomes.
type Validator struct {
	loc *time.Location
}

// NewValidator creates a Validator that interprets dates and times in loc.
// A nil loc means time.Local.
func NewValidator(loc *time.Location) *Validator {
	if loc == nil {
		loc = time.Local
	}
	return &Validator{loc: loc}
}

// Validate classifies a single record.
//
// PARAMETERS:
//   - rec: The raw record.
//
// RETURNS:
//   - A valid Outcome carrying the merged start timestamp, or an invalid
//     Outcome with reason types.ReasonInvalidDateOrTime.
func (v *Validator) Validate(rec types.RawRecord) Outcome {
	invalid := Outcome{Record: rec, Reason: types.ReasonInvalidDateOrTime}

	date, ok := v.parseDate(rec.Date)
	if !ok {
		return invalid
	}

	clock, ok := v.parseClock(rec.Time)
	if !ok {
		return invalid
	}

	return Outcome{
		Record: rec,
		Valid:  true,
		Start:  grouping.MergeStart(date, clock, v.loc),
	}
}

// ValidateAll validates every record and splits them into valid outcomes and
// row errors. Row order is preserved in both lists.
func (v *Validator) ValidateAll(records []types.RawRecord) *ValidationResult {
	result := &ValidationResult{
		Valid:   make([]Outcome, 0, len(records)),
		Invalid: make([]*types.RowValidationError, 0),
	}

	for _, rec := range records {
		outcome := v.Validate(rec)
		if outcome.Valid {
			result.Valid = append(result.Valid, outcome)
			continue
		}
		result.Invalid = append(result.Invalid, outcome.Err())
	}

	return result
}

// =============================================================================
// PARSERS
// =============================================================================

// parseDate parses the date cell. Empty cells are rejected.
func (v *Validator) parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if t, ok := parseAny(value, dateLayouts, v.loc); ok {
		return t, true
	}
	return parseAny(value, dateTimeLayouts, v.loc)
}

// parseClock parses the time cell. Empty cells and values that carry no
// clock (plain numbers, dates alone) are rejected.
func (v *Validator) parseClock(value string) (time.Time, bool) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return time.Time{}, false
	}

	if t, ok := parseAny(value, timeLayouts, v.loc); ok {
		return t, true
	}
	return parseAny(value, dateTimeLayouts, v.loc)
}

// parseAny returns the first successful parse of value against layouts.
func parseAny(value string, layouts []string, loc *time.Location) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
