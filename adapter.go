package sheetsync

import "context"

// LogHeader is the fixed header of every history log table. Existing log
// data depends on this exact column order; never reorder it.
var LogHeader = []string{"timestamp", "actor", "table", "row", "column", "old_value", "new_value"}

// LogTableName returns the name of the history log table for table.
func LogTableName(table string) string {
	return table + "_history"
}

// Store defines the operations a table backend must provide. Implementations
// exist for Google Sheets, Excel workbooks and SQLite databases.
type Store interface {
	// Fetch retrieves a table's header and all data rows. Returns an
	// error wrapping ErrTableNotFound if the table does not exist. An
	// existing but empty table yields the stored header and no rows.
	Fetch(ctx context.Context, table string) ([]string, []Row, error)

	// Replace clears the table and writes header plus rows in full.
	// Destructive: callers must pass a fully reconciled table, never a
	// raw view, or hidden rows and columns are lost.
	Replace(ctx context.Context, table string, header []string, rows []Row) error

	// AppendLog appends change records to the named log table, creating
	// it with LogHeader if it does not exist. Returns an error wrapping
	// ErrLogUnavailable when the log cannot be created or appended.
	AppendLog(ctx context.Context, logTable string, records []ChangeRecord) error
}
