// Package gsheets reads the travel desk feed from a Google Sheets
// spreadsheet and flags rows in place through the Sheets v4 API.
//
// Values are fetched as FORMATTED_VALUE, i.e. the text shown in the sheet,
// which keeps date and time cells distinguishable from plain numbers.
package gsheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/ginjaninja78/travel-desk/internal/source"
	"github.com/ginjaninja78/travel-desk/internal/types"
)

// Source is a source.Source backed by one sheet of a spreadsheet.
type Source struct {
	svc           *sheets.Service
	spreadsheetID string
	sheet         string
	sheetID       int64
	headerRows    int

	// reasons caches the reason column read by Rows, keyed by row index
	reasons map[int]string
}

// New connects to the spreadsheet and resolves the numeric ID of sheet.
// An empty sheet name means source.DefaultSheetName.
func New(ctx context.Context, spreadsheetID, sheet string, headerRows int, opts ...option.ClientOption) (*Source, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}
	if sheet == "" {
		sheet = source.DefaultSheetName
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	ss, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == sheet {
			return &Source{
				svc:           svc,
				spreadsheetID: spreadsheetID,
				sheet:         sheet,
				sheetID:       sh.Properties.SheetId,
				headerRows:    headerRows,
				reasons:       make(map[int]string),
			}, nil
		}
	}

	return nil, fmt.Errorf("sheet %q not found in spreadsheet %s", sheet, spreadsheetID)
}

// Rows fetches every row of the sheet.
func (s *Source) Rows(ctx context.Context) ([]types.RawRecord, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, quoteSheet(s.sheet)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}

	records := make([]types.RawRecord, 0, len(resp.Values))
	for i, raw := range resp.Values {
		cells := make([]string, len(raw))
		for j, v := range raw {
			cells[j] = fmt.Sprint(v)
		}
		if len(cells) > source.ReasonColumn {
			s.reasons[i] = cells[source.ReasonColumn]
		}

		if i < s.headerRows || source.IsRowEmpty(cells) {
			continue
		}
		records = append(records, types.RecordFromCells(i, cells))
	}

	return records, nil
}

// Flag paints the data cells of the row red and writes reason in the reason
// column, in one batch update.
func (s *Source) Flag(ctx context.Context, rowIndex int, reason string) error {
	if s.reasons[rowIndex] == reason {
		return nil
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:          s.sheetID,
						StartRowIndex:    int64(rowIndex),
						EndRowIndex:      int64(rowIndex + 1),
						StartColumnIndex: 0,
						EndColumnIndex:   types.ColumnCount,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							BackgroundColor: &sheets.Color{Red: 1},
						},
					},
					Fields: "userEnteredFormat.backgroundColor",
				},
			},
			{
				UpdateCells: &sheets.UpdateCellsRequest{
					Start: &sheets.GridCoordinate{
						SheetId:     s.sheetID,
						RowIndex:    int64(rowIndex),
						ColumnIndex: source.ReasonColumn,
					},
					Rows: []*sheets.RowData{{
						Values: []*sheets.CellData{{
							UserEnteredValue: &sheets.ExtendedValue{StringValue: &reason},
						}},
					}},
					Fields: "userEnteredValue",
				},
			},
		},
	}

	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to flag row %d: %w", rowIndex+1, err)
	}

	s.reasons[rowIndex] = reason
	return nil
}

// Close is a no-op; flags are written as they happen.
func (s *Source) Close() error {
	return nil
}

// quoteSheet renders a sheet name as an A1 range covering the whole sheet.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
