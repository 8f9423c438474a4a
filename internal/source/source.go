// =============================================================================
// Travel Desk Sync - Data Source Interface
// =============================================================================
//
// A data source is the travel desk sheet: it yields the raw rows of the feed
// and lets the run mark rows that could not be processed.
//
// IMPLEMENTATIONS:
//   - XLSX    : a local workbook (excelize)
//   - CSV     : a local CSV export
//   - gsheets : a Google Sheets spreadsheet
//
// FLAGGING:
//   A flagged row gets a visible marker (a red fill where the format allows
//   it) and the reason text in the column right after the data columns.
//   Flagging a row that already carries the same reason is a no-op, so
//   re-running over the same feed leaves the file untouched.
//
// =============================================================================

package source

import (
	"context"
	"strings"

	"github.com/ginjaninja78/travel-desk/internal/types"
)

// Source is the contract every data source implements.
type Source interface {
	// Rows returns every data row, header rows and blank rows excluded, in
	// sheet order.
	Rows(ctx context.Context) ([]types.RawRecord, error)

	// Flag marks the row at rowIndex as invalid and records reason next to it.
	Flag(ctx context.Context, rowIndex int, reason string) error

	// Close persists pending flags and releases the source.
	Close() error
}

// ReasonColumn is the 0-based column index flag reasons are written to.
const ReasonColumn = types.ColumnCount

// DefaultSheetName is the sheet the travel desk has always used.
const DefaultSheetName = "Travel Desk (Incoming)"

// recordsFromRows converts sheet rows to records, skipping headerRows leading
// rows and rows without any non-blank data cell.
func recordsFromRows(rows [][]string, headerRows int) []types.RawRecord {
	records := make([]types.RawRecord, 0, len(rows))

	for i := headerRows; i < len(rows); i++ {
		if IsRowEmpty(rows[i]) {
			continue
		}
		records = append(records, types.RecordFromCells(i, rows[i]))
	}

	return records
}

// IsRowEmpty checks if the data cells of a row are all blank. The reason
// column is ignored.
func IsRowEmpty(row []string) bool {
	for i, cell := range row {
		if i >= types.ColumnCount {
			break
		}
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
