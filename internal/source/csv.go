// =============================================================================
// Travel Desk Sync - CSV Data Source
// =============================================================================
//
// This module reads the travel desk feed from a CSV export.
//
// FLAGGING:
//   CSV has no cell formatting, so the reason text in the reason column is
//   the flag. Flags are buffered and the file is rewritten once on Close,
//   through a temporary file and a rename.
//
// =============================================================================

package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ginjaninja78/travel-desk/internal/types"
)

// CSV is a Source backed by a CSV file.
type CSV struct {
	path       string
	delimiter  rune
	headerRows int

	rows  [][]string
	dirty bool
}

// OpenCSV reads the whole CSV file at path.
//
// PARAMETERS:
//   - path: The CSV file.
//   - delimiter: Field delimiter; "" means comma. "tab"/"\t" and "pipe"
//     are accepted aliases.
//   - headerRows: Number of leading rows to skip.
func OpenCSV(path, delimiter string, headerRows int) (*CSV, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	c := &CSV{
		path:       path,
		delimiter:  parseDelimiter(delimiter),
		headerRows: headerRows,
	}

	reader := csv.NewReader(bufio.NewReader(file))
	reader.Comma = c.delimiter
	// rows may already carry a reason column from an earlier run
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	c.rows, err = reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return c, nil
}

// parseDelimiter handles the common delimiter aliases.
func parseDelimiter(delimiter string) rune {
	switch delimiter {
	case "\\t", "\t", "tab", "TAB":
		return '\t'
	case "pipe", "PIPE":
		return '|'
	case "semicolon":
		return ';'
	case "":
		return ','
	default:
		return []rune(delimiter)[0]
	}
}

// Rows returns the data rows of the file.
func (c *CSV) Rows(_ context.Context) ([]types.RawRecord, error) {
	return recordsFromRows(c.rows, c.headerRows), nil
}

// Flag records reason in the reason column of the row.
func (c *CSV) Flag(_ context.Context, rowIndex int, reason string) error {
	if rowIndex < 0 || rowIndex >= len(c.rows) {
		return fmt.Errorf("row %d out of range", rowIndex+1)
	}

	row := c.rows[rowIndex]
	if len(row) > ReasonColumn && row[ReasonColumn] == reason {
		return nil
	}

	for len(row) <= ReasonColumn {
		row = append(row, "")
	}
	row[ReasonColumn] = reason
	c.rows[rowIndex] = row
	c.dirty = true

	return nil
}

// Close rewrites the file when flags were added.
func (c *CSV) Close() error {
	if !c.dirty {
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".travel-desk-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	writer.Comma = c.delimiter
	if err := writer.WriteAll(c.rows); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", c.path, err)
	}

	c.dirty = false
	return nil
}
