// ABOUTME: Google Sheets API service for spreadsheet access
// ABOUTME: Handles value reads, appends, range updates, and tab metadata

package sheets

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Values are written so the API parses them as if typed by a user
// (formulas evaluated, numbers and dates recognized).
const valueInputOption = "USER_ENTERED"

// Tab describes one sheet (tab) of a spreadsheet.
type Tab struct {
	Title       string
	RowCount    int64
	ColumnCount int64
}

// UpdateSummary reports the extent of a write operation.
type UpdateSummary struct {
	UpdatedRange   string
	UpdatedRows    int64
	UpdatedColumns int64
	UpdatedCells   int64
}

// Service wraps Google Sheets API operations
type Service struct {
	svc *sheets.Service
}

// NewService creates a new Sheets service. Extra client options are for
// tests that point the service at a fake backend.
func NewService(ctx context.Context, client *http.Client, extraOpts ...option.ClientOption) (*Service, error) {
	opts := []option.ClientOption{}
	if client != nil {
		opts = append(opts, option.WithHTTPClient(client))
	}
	opts = append(opts, extraOpts...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	return &Service{svc: svc}, nil
}

// Read fetches cell values for the given A1-notation range. When the range
// is empty, the title of the spreadsheet's first tab is looked up first and
// that whole tab is read (two API calls instead of one).
func (s *Service) Read(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	if readRange == "" {
		title, err := s.firstTabTitle(ctx, spreadsheetID)
		if err != nil {
			return nil, err
		}
		readRange = title
	}

	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet: %w", err)
	}

	return stringifyRows(resp.Values), nil
}

// ListSheets fetches the spreadsheet's tabs with their grid extents.
func (s *Service) ListSheets(ctx context.Context, spreadsheetID string) ([]Tab, error) {
	meta, err := s.svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to get spreadsheet metadata: %w", err)
	}

	tabs := make([]Tab, 0, len(meta.Sheets))
	for _, sheet := range meta.Sheets {
		if sheet.Properties == nil {
			continue
		}
		tab := Tab{Title: sheet.Properties.Title}
		if grid := sheet.Properties.GridProperties; grid != nil {
			tab.RowCount = grid.RowCount
			tab.ColumnCount = grid.ColumnCount
		}
		tabs = append(tabs, tab)
	}

	return tabs, nil
}

// Append adds rows after the last populated row of the table anchored at
// the given range.
func (s *Service) Append(ctx context.Context, spreadsheetID, anchorRange string, values [][]string) (*UpdateSummary, error) {
	body := &sheets.ValueRange{Values: toCellValues(values)}

	resp, err := s.svc.Spreadsheets.Values.Append(spreadsheetID, anchorRange, body).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to append to sheet: %w", err)
	}

	summary := &UpdateSummary{}
	if resp.Updates != nil {
		summary.UpdatedRange = resp.Updates.UpdatedRange
		summary.UpdatedRows = resp.Updates.UpdatedRows
		summary.UpdatedColumns = resp.Updates.UpdatedColumns
		summary.UpdatedCells = resp.Updates.UpdatedCells
	}
	return summary, nil
}

// Update overwrites the given range with the given matrix.
func (s *Service) Update(ctx context.Context, spreadsheetID, writeRange string, values [][]string) (*UpdateSummary, error) {
	body := &sheets.ValueRange{Values: toCellValues(values)}

	resp, err := s.svc.Spreadsheets.Values.Update(spreadsheetID, writeRange, body).
		ValueInputOption(valueInputOption).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to update sheet: %w", err)
	}

	return &UpdateSummary{
		UpdatedRange:   resp.UpdatedRange,
		UpdatedRows:    resp.UpdatedRows,
		UpdatedColumns: resp.UpdatedColumns,
		UpdatedCells:   resp.UpdatedCells,
	}, nil
}

// firstTabTitle returns the title of the spreadsheet's first tab.
func (s *Service) firstTabTitle(ctx context.Context, spreadsheetID string) (string, error) {
	meta, err := s.svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to get spreadsheet metadata: %w", err)
	}

	if len(meta.Sheets) == 0 || meta.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %s has no sheets", spreadsheetID)
	}

	return meta.Sheets[0].Properties.Title, nil
}

// stringifyRows flattens the API's untyped cell values into strings.
func stringifyRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprintf("%v", cell)
		}
		rows[i] = cells
	}
	return rows
}

// toCellValues converts a string matrix into the API's untyped cell values.
func toCellValues(values [][]string) [][]interface{} {
	rows := make([][]interface{}, len(values))
	for i, row := range values {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		rows[i] = cells
	}
	return rows
}
