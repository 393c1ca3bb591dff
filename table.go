package sheetsync

// Row holds one data row as column name to cell value. A missing column and
// an empty string are equivalent; Get normalizes both to "".
type Row map[string]string

// Get returns the cell value for col, or "" if the column is absent.
func (r Row) Get(col string) string {
	if r == nil {
		return ""
	}
	return r[col]
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of rows over an ordered column header. Every row
// is expected to have a value (possibly empty) for every header column.
type Table struct {
	Header []string
	Rows   []Row
}

// Snapshot is an immutable capture of a table's full contents, taken at the
// start of an edit session and used as the before image for diffing. All
// accessors return copies so a derived View can never mutate it.
type Snapshot struct {
	header []string
	rows   []Row
}

// NewSnapshot captures header and rows by deep copy.
func NewSnapshot(header []string, rows []Row) *Snapshot {
	s := &Snapshot{
		header: make([]string, len(header)),
		rows:   make([]Row, len(rows)),
	}
	copy(s.header, header)
	for i, r := range rows {
		s.rows[i] = r.Clone()
	}
	return s
}

// Header returns a copy of the column header.
func (s *Snapshot) Header() []string {
	header := make([]string, len(s.header))
	copy(header, s.header)
	return header
}

// Rows returns a deep copy of all data rows.
func (s *Snapshot) Rows() []Row {
	rows := make([]Row, len(s.rows))
	for i, r := range s.rows {
		rows[i] = r.Clone()
	}
	return rows
}

// NumRows returns the number of data rows.
func (s *Snapshot) NumRows() int {
	return len(s.rows)
}

// ColumnUnion merges two headers preserving base order first, then appending
// extra-only columns in their own order.
func ColumnUnion(base, extra []string) []string {
	result := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]bool, len(base))

	for _, col := range base {
		if !seen[col] {
			result = append(result, col)
			seen[col] = true
		}
	}
	for _, col := range extra {
		if !seen[col] {
			result = append(result, col)
			seen[col] = true
		}
	}

	return result
}
