// =============================================================================
// Travel Desk Sync - XLSX Data Source
// =============================================================================
//
// This module reads the travel desk feed from a local workbook.
//
// SHEET STRUCTURE (fixed column order):
//
//   | A    | B        | C           | D       | E      | F    | G         | H           | I           |
//   |------|----------|-------------|---------|--------|------|-----------|-------------|-------------|
//   | Date | Name     | Second Name | Contact | Guests | Time | Transport | Destination | (reason)    |
//   | 6/1  | Alice    |             | 555     | 1      | 14:00| Flight X  | Mumbai      |             |
//
// CELL VALUES:
//   Text cells are read as displayed. Numeric date and time cells are read by
//   type: when the cell carries a date or time number format, its serial is
//   converted and rendered as "2006-01-02" (date column) or "15:04:05" (time
//   column), whatever the display format. A plain number such as 1400 keeps
//   its display text.
//
// FLAGGING:
//   Columns A-H of a flagged row get a red fill and column I gets the reason.
//   Each cell keeps the rest of its style, number format included.
//   The workbook is saved once on Close, only if something changed.
//
// =============================================================================

package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/travel-desk/internal/types"
)

// flagFillColor is the fill of a flagged row.
const flagFillColor = "FF0000"

var flagFill = excelize.Fill{Type: "pattern", Color: []string{flagFillColor}, Pattern: 1}

// XLSX is a Source backed by an Excel workbook.
type XLSX struct {
	path       string
	sheet      string
	headerRows int
	date1904   bool

	f *excelize.File

	// dateStyles caches whether a style ID carries a date or time format.
	dateStyles map[int]bool

	// flagStyles maps an original style ID to its red-filled copy.
	flagStyles map[int]int

	dirty bool
}

// OpenXLSX opens the workbook at path and selects sheet. An empty sheet name
// selects DefaultSheetName if present, otherwise the first sheet.
func OpenXLSX(path, sheet string, headerRows int) (*XLSX, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheet, err = resolveSheet(f, sheet)
	if err != nil {
		f.Close()
		return nil, err
	}

	props, err := f.GetWorkbookProps()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read workbook properties: %w", err)
	}

	return &XLSX{
		path:       path,
		sheet:      sheet,
		headerRows: headerRows,
		date1904:   props.Date1904 != nil && *props.Date1904,
		f:          f,
		dateStyles: make(map[int]bool),
		flagStyles: make(map[int]int),
	}, nil
}

// resolveSheet checks the requested sheet exists.
func resolveSheet(f *excelize.File, sheet string) (string, error) {
	names := f.GetSheetList()
	if len(names) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}

	want := sheet
	if want == "" {
		want = DefaultSheetName
	}
	for _, name := range names {
		if name == want {
			return name, nil
		}
	}

	if sheet == "" {
		return names[0], nil
	}
	return "", fmt.Errorf("sheet %q not found", sheet)
}

// Rows returns the data rows of the sheet.
func (x *XLSX) Rows(_ context.Context) ([]types.RawRecord, error) {
	rows, err := x.f.GetRows(x.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	for i := x.headerRows; i < len(rows); i++ {
		for _, col := range []int{types.ColDate, types.ColTime} {
			if col >= len(rows[i]) || rows[i][col] == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				return nil, err
			}
			value, ok, err := x.dateCellValue(cell, col == types.ColDate)
			if err != nil {
				return nil, err
			}
			if ok {
				rows[i][col] = value
			}
		}
	}

	return recordsFromRows(rows, x.headerRows), nil
}

// dateCellValue renders a numeric cell with a date or time number format.
//
// PARAMETERS:
//   - cell: The cell reference, e.g. "A2".
//   - asDate: Render the calendar day instead of the clock.
//
// RETURNS:
//   - The rendered value and true, or false when the cell is not a
//     date-formatted number and its display text should be kept.
//   - An error if the cell cannot be read.
func (x *XLSX) dateCellValue(cell string, asDate bool) (string, bool, error) {
	cellType, err := x.f.GetCellType(x.sheet, cell)
	if err != nil {
		return "", false, fmt.Errorf("failed to read type of %s: %w", cell, err)
	}
	if cellType != excelize.CellTypeUnset && cellType != excelize.CellTypeNumber {
		return "", false, nil
	}

	raw, err := x.f.GetCellValue(x.sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", cell, err)
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", false, nil
	}

	isDate, err := x.isDateStyle(cell)
	if err != nil || !isDate {
		return "", false, err
	}

	t, err := excelize.ExcelDateToTime(serial, x.date1904)
	if err != nil {
		return "", false, nil
	}
	t = t.Round(time.Second)

	if asDate {
		return t.Format("2006-01-02"), true, nil
	}
	return t.Format("15:04:05"), true, nil
}

// isDateStyle reports whether the style of cell has a date or time number
// format.
func (x *XLSX) isDateStyle(cell string) (bool, error) {
	id, err := x.f.GetCellStyle(x.sheet, cell)
	if err != nil {
		return false, fmt.Errorf("failed to read style of %s: %w", cell, err)
	}
	if isDate, ok := x.dateStyles[id]; ok {
		return isDate, nil
	}

	isDate := false
	if style, err := x.f.GetStyle(id); err == nil {
		isDate = isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	x.dateStyles[id] = isDate
	return isDate, nil
}

// isDateNumFmt reports whether a number format renders dates or times.
// Built-in IDs 14-22 and 45-47 are the date and time formats of every
// locale; 27-36 and 50-58 are the East Asian date formats.
func isDateNumFmt(id int, custom *string) bool {
	if custom != nil {
		return isDateFormatCode(*custom)
	}
	switch {
	case 14 <= id && id <= 22, 45 <= id && id <= 47:
		return true
	case 27 <= id && id <= 36, 50 <= id && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code has a date or time
// token outside quoted text, escapes and bracketed sections. Elapsed time
// sections such as [h] count as time.
func isDateFormatCode(code string) bool {
	code = strings.ToLower(code)
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '"':
			end := strings.IndexByte(code[i+1:], '"')
			if end < 0 {
				return false
			}
			i += end + 1
		case '\\', '_', '*':
			i++
		case '[':
			end := strings.IndexByte(code[i+1:], ']')
			if end < 0 {
				return false
			}
			section := code[i+1 : i+1+end]
			if section != "" && strings.Trim(section, "hms") == "" {
				return true
			}
			i += end + 1
		case 'y', 'd', 'h', 's', 'm':
			return true
		}
	}
	return false
}

// Flag paints the data cells of the row red and writes reason into the
// reason column.
func (x *XLSX) Flag(_ context.Context, rowIndex int, reason string) error {
	row := rowIndex + 1

	reasonCell, err := excelize.CoordinatesToCellName(ReasonColumn+1, row)
	if err != nil {
		return err
	}

	current, err := x.f.GetCellValue(x.sheet, reasonCell)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", reasonCell, err)
	}
	if current == reason {
		return nil
	}

	for col := 1; col <= types.ColumnCount; col++ {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		style, err := x.flagStyle(cell)
		if err != nil {
			return fmt.Errorf("failed to style row %d: %w", row, err)
		}
		if err := x.f.SetCellStyle(x.sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style row %d: %w", row, err)
		}
	}
	if err := x.f.SetCellValue(x.sheet, reasonCell, reason); err != nil {
		return fmt.Errorf("failed to write %s: %w", reasonCell, err)
	}

	x.dirty = true
	return nil
}

// flagStyle returns the ID of a copy of the style of cell with the flag fill.
func (x *XLSX) flagStyle(cell string) (int, error) {
	id, err := x.f.GetCellStyle(x.sheet, cell)
	if err != nil {
		return 0, err
	}
	if flagged, ok := x.flagStyles[id]; ok {
		return flagged, nil
	}

	style, err := x.f.GetStyle(id)
	if err != nil {
		// No style table entry to keep.
		style = &excelize.Style{}
	}
	style.Fill = flagFill

	flagged, err := x.f.NewStyle(style)
	if err != nil {
		return 0, err
	}
	x.flagStyles[id] = flagged
	return flagged, nil
}

// Close saves the workbook if rows were flagged, then closes it.
func (x *XLSX) Close() error {
	var saveErr error
	if x.dirty {
		saveErr = x.f.Save()
		x.dirty = false
	}

	if err := x.f.Close(); err != nil && saveErr == nil {
		return fmt.Errorf("failed to close workbook: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("failed to save workbook: %w", saveErr)
	}
	return nil
}
