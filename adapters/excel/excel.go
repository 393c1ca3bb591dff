package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sheetsync "github.com/sheetsync/go-sheetsync"
	"github.com/xuri/excelize/v2"
)

// Store implements the sheetsync.Store interface on one Excel workbook.
// Each table is a sheet inside the workbook, with the header in row 1 and
// data from row 2. A mutex guards same-process concurrent use; the file
// itself is not locked across processes.
type Store struct {
	config *Config
	mu     sync.Mutex
}

// New creates an Excel store with the given configuration.
func New(config *Config) (*Store, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	configCopy := *config
	return &Store{config: &configCopy}, nil
}

// Fetch retrieves a table's header and all data rows. A missing workbook or
// sheet reports the table as not found.
func (s *Store) Fetch(ctx context.Context, table string) ([]string, []sheetsync.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	f, err := excelize.OpenFile(s.config.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: workbook %q does not exist", sheetsync.ErrTableNotFound, s.config.FilePath)
		}
		return nil, nil, fmt.Errorf("%w: failed to open workbook: %v", sheetsync.ErrStoreUnavailable, err)
	}
	defer f.Close()

	index, err := f.GetSheetIndex(table)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sheet index: %w", err)
	}
	if index == -1 {
		return nil, nil, fmt.Errorf("%w: no sheet %q", sheetsync.ErrTableNotFound, table)
	}

	cells, err := f.GetRows(table)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(cells) == 0 {
		return []string{}, nil, nil
	}

	header := make([]string, 0, len(cells[0]))
	for _, col := range cells[0] {
		if col != "" {
			header = append(header, col)
		}
	}

	rows := make([]sheetsync.Row, 0, len(cells)-1)
	for i := 1; i < len(cells); i++ {
		row := make(sheetsync.Row, len(header))
		for j, col := range header {
			if j < len(cells[i]) {
				row[col] = cells[i][j]
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
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	f, created, err := s.openOrCreate()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := s.resetSheet(f, table, created); err != nil {
		return err
	}

	if err := writeRow(f, table, 1, stringCells(header)); err != nil {
		return err
	}
	for i, row := range rows {
		cells := make([]interface{}, len(header))
		for j, col := range header {
			cells[j] = row.Get(col)
		}
		if err := writeRow(f, table, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.SaveAs(s.config.FilePath); err != nil {
		return fmt.Errorf("%w: failed to save workbook: %v", sheetsync.ErrStoreUnavailable, err)
	}

	return nil
}

// AppendLog appends change records to the named log sheet, creating it with
// the fixed history header when missing.
func (s *Store) AppendLog(ctx context.Context, logTable string, records []sheetsync.ChangeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	f, created, err := s.openOrCreate()
	if err != nil {
		return fmt.Errorf("%w: %v", sheetsync.ErrLogUnavailable, err)
	}
	defer f.Close()

	index, err := f.GetSheetIndex(logTable)
	if err != nil {
		return fmt.Errorf("%w: %v", sheetsync.ErrLogUnavailable, err)
	}

	next := 2
	if index == -1 {
		if err := s.resetSheet(f, logTable, created); err != nil {
			return fmt.Errorf("%w: %v", sheetsync.ErrLogUnavailable, err)
		}
		if err := writeRow(f, logTable, 1, stringCells(sheetsync.LogHeader)); err != nil {
			return fmt.Errorf("%w: %v", sheetsync.ErrLogUnavailable, err)
		}
	} else {
		existing, err := f.GetRows(logTable)
		if err != nil {
			return fmt.Errorf("%w: %v", sheetsync.ErrLogUnavailable, err)
		}
		next = len(existing) + 1
	}

	for _, record := range records {
		if err := writeRow(f, logTable, next, stringCells(record.Cells())); err != nil {
			return fmt.Errorf("%w: %v", sheetsync.ErrLogUnavailable, err)
		}
		next++
	}

	if err := f.SaveAs(s.config.FilePath); err != nil {
		return fmt.Errorf("%w: failed to save workbook: %v", sheetsync.ErrLogUnavailable, err)
	}

	return nil
}

// openOrCreate opens the configured workbook, creating an empty one (and
// its parent directory) when it does not exist yet. The second return value
// reports whether the workbook is brand new.
func (s *Store) openOrCreate() (*excelize.File, bool, error) {
	if _, err := os.Stat(s.config.FilePath); err == nil {
		f, err := excelize.OpenFile(s.config.FilePath)
		if err != nil {
			return nil, false, fmt.Errorf("%w: failed to open workbook: %v", sheetsync.ErrStoreUnavailable, err)
		}
		return f, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(s.config.FilePath), 0755); err != nil {
		return nil, false, fmt.Errorf("%w: failed to create directory: %v", sheetsync.ErrStoreUnavailable, err)
	}

	return excelize.NewFile(), true, nil
}

// resetSheet leaves the workbook with an empty sheet named table. The
// default sheet of a brand-new workbook is dropped so it does not linger as
// a phantom table.
func (s *Store) resetSheet(f *excelize.File, table string, created bool) error {
	index, err := f.GetSheetIndex(table)
	if err != nil {
		return fmt.Errorf("failed to get sheet index: %w", err)
	}

	if index != -1 {
		// DeleteSheet refuses to remove the only sheet, so park a
		// placeholder first when needed.
		if len(f.GetSheetList()) == 1 {
			if _, err := f.NewSheet(table + "_tmp"); err != nil {
				return fmt.Errorf("failed to create placeholder sheet: %w", err)
			}
			if err := f.DeleteSheet(table); err != nil {
				return fmt.Errorf("failed to clear sheet: %w", err)
			}
			if _, err := f.NewSheet(table); err != nil {
				return fmt.Errorf("failed to recreate sheet: %w", err)
			}
			if err := f.DeleteSheet(table + "_tmp"); err != nil {
				return fmt.Errorf("failed to drop placeholder sheet: %w", err)
			}
			return nil
		}
		if err := f.DeleteSheet(table); err != nil {
			return fmt.Errorf("failed to clear sheet: %w", err)
		}
	}

	idx, err := f.NewSheet(table)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)

	if created {
		if defaultSheet := f.GetSheetName(0); defaultSheet != table {
			_ = f.DeleteSheet(defaultSheet)
		}
	}

	return nil
}

func writeRow(f *excelize.File, sheet string, rowNumber int, cells []interface{}) error {
	cell := fmt.Sprintf("A%d", rowNumber)
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNumber, err)
	}
	return nil
}

func stringCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
