package sheetsync

import (
	"strconv"
	"time"
)

// TimestampFormat is how change timestamps are rendered in the history log,
// in local time. Existing log data uses this format.
const TimestampFormat = "2006-01-02 15:04:05"

// ChangeRecord is one audited cell-level change. Records are append-only:
// once written to a history log they are never edited or deleted.
type ChangeRecord struct {
	Timestamp time.Time
	Actor     string
	Table     string
	Row       int // 1-based spreadsheet row; data rows start at 2
	Column    string
	OldValue  string
	NewValue  string
}

// Cells renders the record as one log row in LogHeader column order.
func (c ChangeRecord) Cells() []string {
	return []string{
		c.Timestamp.Format(TimestampFormat),
		c.Actor,
		c.Table,
		strconv.Itoa(c.Row),
		c.Column,
		c.OldValue,
		c.NewValue,
	}
}

// LogRow renders the record as a Row keyed by LogHeader columns.
func (c ChangeRecord) LogRow() Row {
	cells := c.Cells()
	row := make(Row, len(LogHeader))
	for i, col := range LogHeader {
		row[col] = cells[i]
	}
	return row
}
