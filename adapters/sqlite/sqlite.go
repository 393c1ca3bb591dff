// Package sqlite implements the sheetsync.Store interface on a SQLite
// database. Each table is a SQL table of TEXT columns; the header is the
// column order and row order follows rowid, so a fetch after a replace
// returns rows in the order they were written.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sheetsync "github.com/sheetsync/go-sheetsync"
	_ "modernc.org/sqlite"
)

// Store implements the sheetsync.Store interface for SQLite databases.
type Store struct {
	db *sql.DB
}

// New opens a SQLite store with the given configuration.
func New(config *Config) (*Store, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps an
	// in-memory database visible across calls.
	db.SetMaxOpenConns(1)

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Fetch retrieves a table's header and all data rows.
func (s *Store) Fetch(ctx context.Context, table string) ([]string, []sheetsync.Row, error) {
	query := fmt.Sprintf(`SELECT * FROM %s ORDER BY rowid`, quoteIdent(table))
	result, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %q: %w", table, mapError(err))
	}
	defer result.Close()

	header, err := result.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns of %q: %w", table, err)
	}

	var rows []sheetsync.Row
	for result.Next() {
		cells := make([]sql.NullString, len(header))
		dest := make([]interface{}, len(header))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := result.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row of %q: %w", table, err)
		}

		row := make(sheetsync.Row, len(header))
		for i, col := range header {
			row[col] = cells[i].String
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read %q: %w", table, mapError(err))
	}

	return header, rows, nil
}

// Replace drops and recreates the table with header plus rows. SQL cannot
// express a table with zero columns, so an empty header just drops the
// table and a later Fetch reports it as not found.
func (s *Store) Replace(ctx context.Context, table string, header []string, rows []sheetsync.Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", sheetsync.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(table))); err != nil {
		return fmt.Errorf("failed to clear %q: %w", table, mapError(err))
	}

	if len(header) > 0 {
		if _, err := tx.ExecContext(ctx, createStmt(table, header)); err != nil {
			return fmt.Errorf("failed to create %q: %w", table, mapError(err))
		}
		if err := insertRows(ctx, tx, table, header, rows); err != nil {
			return fmt.Errorf("failed to write %q: %w", table, mapError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %q: %w", table, mapError(err))
	}

	return nil
}

// AppendLog appends change records to the named log table, creating it with
// the fixed history header when missing.
func (s *Store) AppendLog(ctx context.Context, logTable string, records []sheetsync.ChangeRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", sheetsync.ErrLogUnavailable, err)
	}
	defer tx.Rollback()

	stmt := strings.Replace(createStmt(logTable, sheetsync.LogHeader), "CREATE TABLE", "CREATE TABLE IF NOT EXISTS", 1)
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("%w: failed to create %q: %v", sheetsync.ErrLogUnavailable, logTable, err)
	}

	rows := make([]sheetsync.Row, len(records))
	for i, record := range records {
		rows[i] = record.LogRow()
	}
	if err := insertRows(ctx, tx, logTable, sheetsync.LogHeader, rows); err != nil {
		return fmt.Errorf("%w: failed to append to %q: %v", sheetsync.ErrLogUnavailable, logTable, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit %q: %v", sheetsync.ErrLogUnavailable, logTable, err)
	}

	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, header []string, rows []sheetsync.Row) error {
	if len(rows) == 0 {
		return nil
	}

	cols := make([]string, len(header))
	marks := make([]string, len(header))
	for i, col := range header {
		cols[i] = quoteIdent(col)
		marks[i] = "?"
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteIdent(table), strings.Join(cols, ", "), strings.Join(marks, ", "))

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		args := make([]interface{}, len(header))
		for i, col := range header {
			args[i] = row.Get(col)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}

	return nil
}

func createStmt(table string, header []string) string {
	cols := make([]string, len(header))
	for i, col := range header {
		cols[i] = quoteIdent(col) + " TEXT"
	}
	return fmt.Sprintf(`CREATE TABLE %s (%s)`, quoteIdent(table), strings.Join(cols, ", "))
}

// quoteIdent quotes a table or column name so arbitrary header strings are
// usable as SQL identifiers.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// mapError translates driver failures to the sheetsync error taxonomy.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w: %v", sheetsync.ErrTableNotFound, err)
	}
	return fmt.Errorf("%w: %v", sheetsync.ErrStoreUnavailable, err)
}
