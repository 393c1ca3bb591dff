package sheetsync

import "fmt"

// Condition restricts a column to a set of allowed values. A single-element
// Values slice is an equality test.
type Condition struct {
	Column string
	Values []string
}

// Filter is the AND of its conditions. A nil filter or one with no
// conditions matches every row.
type Filter struct {
	Conditions []Condition
}

// Matches reports whether row satisfies all conditions.
func (f *Filter) Matches(row Row) bool {
	if f == nil {
		return true
	}
	for _, cond := range f.Conditions {
		value := row.Get(cond.Column)
		found := false
		for _, allowed := range cond.Values {
			if value == allowed {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ValidateFilter checks filter structure before it is applied.
func ValidateFilter(f *Filter) error {
	if f == nil {
		return nil
	}
	for i, cond := range f.Conditions {
		if cond.Column == "" {
			return fmt.Errorf("%w: empty column name in condition %d", ErrValidation, i)
		}
		if len(cond.Values) == 0 {
			return fmt.Errorf("%w: no values in condition %d", ErrValidation, i)
		}
	}
	return nil
}

// View is a user-facing projection of a Snapshot: a subset of its columns
// and a filtered subset of its rows. Cells may be edited in place and rows
// appended; the source snapshot is never touched.
type View struct {
	Header []string
	Rows   []Row
}

// NewView projects a snapshot onto the selected columns and keeps only the
// rows matching filter. A nil columns slice selects every snapshot column;
// an explicit empty selection is rejected because at least one column must
// remain visible. Selected columns keep snapshot header order.
func NewView(snap *Snapshot, columns []string, filter *Filter) (*View, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrValidation)
	}
	if columns != nil && len(columns) == 0 {
		return nil, fmt.Errorf("%w: at least one column must be selected", ErrValidation)
	}
	if err := ValidateFilter(filter); err != nil {
		return nil, err
	}

	snapHeader := snap.Header()
	var header []string
	if columns == nil {
		header = snapHeader
	} else {
		known := make(map[string]bool, len(snapHeader))
		for _, col := range snapHeader {
			known[col] = true
		}
		selected := make(map[string]bool, len(columns))
		for _, col := range columns {
			if !known[col] {
				return nil, fmt.Errorf("%w: unknown column %q", ErrValidation, col)
			}
			selected[col] = true
		}
		header = make([]string, 0, len(selected))
		for _, col := range snapHeader {
			if selected[col] {
				header = append(header, col)
			}
		}
	}

	var rows []Row
	for _, row := range snap.Rows() {
		if !filter.Matches(row) {
			continue
		}
		projected := make(Row, len(header))
		for _, col := range header {
			projected[col] = row.Get(col)
		}
		rows = append(rows, projected)
	}

	return &View{Header: header, Rows: rows}, nil
}

// Cell returns the value at row index i (0-based) and column col.
func (v *View) Cell(i int, col string) (string, error) {
	if i < 0 || i >= len(v.Rows) {
		return "", fmt.Errorf("%w: row %d out of range", ErrValidation, i)
	}
	return v.Rows[i].Get(col), nil
}

// SetCell edits the value at row index i (0-based) and column col. The
// column must be part of the view's header.
func (v *View) SetCell(i int, col, value string) error {
	if i < 0 || i >= len(v.Rows) {
		return fmt.Errorf("%w: row %d out of range", ErrValidation, i)
	}
	if !v.hasColumn(col) {
		return fmt.Errorf("%w: column %q not in view", ErrValidation, col)
	}
	if v.Rows[i] == nil {
		v.Rows[i] = make(Row)
	}
	v.Rows[i][col] = value
	return nil
}

// AppendRow adds a new row at the end of the view. Columns outside the
// view's header are dropped.
func (v *View) AppendRow(row Row) {
	projected := make(Row, len(v.Header))
	for _, col := range v.Header {
		projected[col] = row.Get(col)
	}
	v.Rows = append(v.Rows, projected)
}

func (v *View) hasColumn(col string) bool {
	for _, c := range v.Header {
		if c == col {
			return true
		}
	}
	return false
}
