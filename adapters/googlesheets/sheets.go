package googlesheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sheetsync "github.com/sheetsync/go-sheetsync"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Store implements the sheetsync.Store interface on one Google spreadsheet.
// Each table is a sheet (tab) inside the spreadsheet, with the header in
// row 1 and data from row 2.
type Store struct {
	service       *sheets.Service
	spreadsheetID string
}

// New creates a Google Sheets store with the provided client options.
func New(ctx context.Context, config Config, opts ...option.ClientOption) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Store{
		service:       service,
		spreadsheetID: config.SpreadsheetID,
	}, nil
}

// Fetch retrieves a table's header and all data rows.
func (s *Store) Fetch(ctx context.Context, table string) ([]string, []sheetsync.Row, error) {
	readRange := rangeName(table, "A:ZZ")
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get data for %q: %w", table, mapError(err))
	}

	if len(resp.Values) == 0 {
		return []string{}, nil, nil
	}

	header := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		if col := cellString(cell); col != "" {
			header = append(header, col)
		}
	}

	rows := make([]sheetsync.Row, 0, len(resp.Values)-1)
	for i := 1; i < len(resp.Values); i++ {
		cells := resp.Values[i]
		row := make(sheetsync.Row, len(header))
		for j, col := range header {
			if j < len(cells) {
				row[col] = cellString(cells[j])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

// Replace clears the table's sheet and writes header plus rows in full.
func (s *Store) Replace(ctx context.Context, table string, header []string, rows []sheetsync.Row) error {
	clearRange := rangeName(table, "A:ZZ")
	_, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear %q: %w", table, mapError(err))
	}

	vr := &sheets.ValueRange{Values: buildValues(header, rows)}
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, rangeName(table, "A1"), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", table, mapError(err))
	}

	return nil
}

// AppendLog appends change records to the named log sheet, creating it with
// the fixed history header when missing.
func (s *Store) AppendLog(ctx context.Context, logTable string, records []sheetsync.ChangeRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := s.ensureLogSheet(ctx, logTable); err != nil {
		return fmt.Errorf("%w: %v", sheetsync.ErrLogUnavailable, err)
	}

	values := make([][]interface{}, 0, len(records))
	for _, record := range records {
		cells := record.Cells()
		row := make([]interface{}, len(cells))
		for i, cell := range cells {
			row[i] = cell
		}
		values = append(values, row)
	}

	vr := &sheets.ValueRange{Values: values}
	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, rangeName(logTable, "A:G"), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: failed to append to %q: %v", sheetsync.ErrLogUnavailable, logTable, err)
	}

	return nil
}

// ensureLogSheet creates the log sheet with the history header if the
// spreadsheet does not have it yet.
func (s *Store) ensureLogSheet(ctx context.Context, logTable string) error {
	meta, err := s.service.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to list sheets: %w", mapError(err))
	}

	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == logTable {
			return nil
		}
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: logTable},
			},
		}},
	}
	if _, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", logTable, mapError(err))
	}

	header := make([]interface{}, len(sheetsync.LogHeader))
	for i, col := range sheetsync.LogHeader {
		header[i] = col
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{header}}
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, rangeName(logTable, "A1"), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write header for %q: %w", logTable, mapError(err))
	}

	return nil
}

// buildValues renders header plus rows as a sheet value matrix, padding
// every row to the full header width.
func buildValues(header []string, rows []sheetsync.Row) [][]interface{} {
	values := make([][]interface{}, 0, len(rows)+1)

	headerRow := make([]interface{}, len(header))
	for i, col := range header {
		headerRow[i] = col
	}
	values = append(values, headerRow)

	for _, row := range rows {
		cells := make([]interface{}, len(header))
		for i, col := range header {
			cells[i] = row.Get(col)
		}
		values = append(values, cells)
	}

	return values
}

// rangeName builds an A1-notation range for a sheet title, quoting the
// title so names with spaces or unicode work.
func rangeName(table, ref string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(table, "'", "''"), ref)
}

// cellString renders an API cell value as a string.
func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// mapError translates Sheets API failures to the sheetsync error taxonomy.
// A missing sheet surfaces as a 400 "Unable to parse range" from the values
// API, or as a 404 for a missing spreadsheet.
func mapError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", sheetsync.ErrStoreUnavailable, err)
	}

	switch {
	case apiErr.Code == http.StatusNotFound:
		return fmt.Errorf("%w: %v", sheetsync.ErrTableNotFound, err)
	case apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range"):
		return fmt.Errorf("%w: %v", sheetsync.ErrTableNotFound, err)
	case apiErr.Code == http.StatusUnauthorized,
		apiErr.Code == http.StatusForbidden,
		apiErr.Code == http.StatusTooManyRequests,
		apiErr.Code >= 500:
		return fmt.Errorf("%w: %v", sheetsync.ErrStoreUnavailable, err)
	}

	return err
}
