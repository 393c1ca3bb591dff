package sheetsync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Options control how view rows are matched to snapshot rows.
type Options struct {
	// KeyColumn, when set, matches rows by equality of this column's value
	// instead of by position. Duplicate key values in the snapshot match
	// their first occurrence, in snapshot order. Editing the key cell
	// itself is unspecified behavior: the edited row no longer matches its
	// snapshot row and is appended as a new one, with the old row carried
	// over unchanged. Callers must not rely on that outcome.
	//
	// When empty, identity is positional: view row N corresponds to
	// snapshot row N. That is only correct while the view's rows remain a
	// prefix-aligned projection of the snapshot; a filter that drops or
	// reorders rows desynchronizes positions and corrupts the merge.
	KeyColumn string
}

// CellChange is one detected cell difference, before actor and timestamp
// attribution.
type CellChange struct {
	Row      int // 1-based spreadsheet row in the reconciled table
	Column   string
	OldValue string
	NewValue string
}

// SaveResult reports the outcome of a reconcile-and-save cycle.
//
// Saved=false means the view held no changes and the store was left
// untouched. Saved=true with Logged=false is partial success: the data
// write went through but the history append failed, with the cause in
// LogErr. Callers must surface that as "saved but not logged", never
// swallow it.
type SaveResult struct {
	Records []ChangeRecord
	Saved   bool
	Logged  bool
	LogErr  error
}

// Engine merges edited views back into their source snapshots and persists
// the result plus a cell-level change history through a Store.
type Engine struct {
	store  Store
	config Config
}

// New creates an engine backed by store. A nil config selects defaults.
func New(store Store, config *Config) *Engine {
	if config == nil {
		config = &Config{}
	}

	cfg := *config
	if cfg.FetchRetries <= 0 {
		cfg.FetchRetries = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.DefaultActor == "" {
		cfg.DefaultActor = DefaultActor
	}

	return &Engine{store: store, config: cfg}
}

// Fetch reads a table and captures it as a Snapshot. Transport failures are
// retried up to Config.FetchRetries times with no backoff; a fetch is
// read-only, so a retry cannot double-apply anything.
func (e *Engine) Fetch(ctx context.Context, table string) (*Snapshot, error) {
	var header []string
	var rows []Row
	var err error

	for attempt := 0; attempt <= e.config.FetchRetries; attempt++ {
		header, rows, err = e.store.Fetch(ctx, table)
		if err == nil {
			return NewSnapshot(header, rows), nil
		}
		if !errors.Is(err, ErrStoreUnavailable) {
			break
		}
	}

	return nil, fmt.Errorf("fetch %q: %w", table, err)
}

// ReconcileAndSave merges view back into snap, writes the reconciled table
// to the store, and appends one ChangeRecord per changed cell to the
// table's history log.
//
// A view identical to its snapshot performs no store write at all. Replace
// and AppendLog are never retried here: a retried partial write could
// double-apply. A failed history append does not undo the data write; see
// SaveResult.
func (e *Engine) ReconcileAndSave(ctx context.Context, table string, snap *Snapshot, view *View, actor string, opts *Options) (*SaveResult, error) {
	reconciled, changes, err := Reconcile(snap, view, opts)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return &SaveResult{}, nil
	}

	if err := e.store.Replace(ctx, table, reconciled.Header, reconciled.Rows); err != nil {
		return nil, fmt.Errorf("replace %q: %w", table, err)
	}

	if strings.TrimSpace(actor) == "" {
		actor = e.config.DefaultActor
	}
	now := e.config.Now()

	records := make([]ChangeRecord, len(changes))
	for i, ch := range changes {
		records[i] = ChangeRecord{
			Timestamp: now,
			Actor:     actor,
			Table:     table,
			Row:       ch.Row,
			Column:    ch.Column,
			OldValue:  ch.OldValue,
			NewValue:  ch.NewValue,
		}
	}

	result := &SaveResult{Records: records, Saved: true}
	if err := e.store.AppendLog(ctx, LogTableName(table), records); err != nil {
		result.LogErr = fmt.Errorf("append history for %q: %w", table, err)
		return result, nil
	}
	result.Logged = true

	return result, nil
}

// Reconcile computes the merge of an edited view into its source snapshot
// without touching any store. The returned table preserves every row and
// column the view did not include; the change list covers exactly the
// compared cells that differ, in row order then reconciled column order.
// Old and new values are compared as strings, with absent cells equal to
// the empty string.
func Reconcile(snap *Snapshot, view *View, opts *Options) (*Table, []CellChange, error) {
	if snap == nil {
		return nil, nil, fmt.Errorf("%w: nil snapshot", ErrValidation)
	}
	if view == nil || len(view.Header) == 0 {
		return nil, nil, fmt.Errorf("%w: view has no columns", ErrValidation)
	}

	keyColumn := ""
	if opts != nil {
		keyColumn = opts.KeyColumn
	}

	snapHeader := snap.Header()
	union := ColumnUnion(snapHeader, view.Header)

	inView := make(map[string]bool, len(view.Header))
	for _, col := range view.Header {
		inView[col] = true
	}

	if keyColumn != "" {
		if !inView[keyColumn] {
			return nil, nil, fmt.Errorf("%w: key column %q not in view", ErrValidation, keyColumn)
		}
		if len(snapHeader) > 0 && !contains(snapHeader, keyColumn) {
			return nil, nil, fmt.Errorf("%w: key column %q not in snapshot", ErrValidation, keyColumn)
		}
		return reconcileByKey(snap, view, union, inView, keyColumn)
	}

	return reconcileByPosition(snap, view, union, inView)
}

// reconcileByPosition walks both row sequences in display order. Rows only
// in the view are new and get appended; rows only in the snapshot were
// filtered out of the view, not deleted, and are copied unchanged.
func reconcileByPosition(snap *Snapshot, view *View, union []string, inView map[string]bool) (*Table, []CellChange, error) {
	snapRows := snap.Rows()
	var rows []Row
	var changes []CellChange

	n := len(snapRows)
	if len(view.Rows) > n {
		n = len(view.Rows)
	}

	for i := 0; i < n; i++ {
		switch {
		case i < len(snapRows) && i < len(view.Rows):
			merged := snapRows[i]
			changes = mergeRow(merged, view.Rows[i], union, inView, dataRowNumber(i), changes)
			rows = append(rows, merged)
		case i < len(view.Rows):
			merged := make(Row, len(union))
			changes = mergeRow(merged, view.Rows[i], union, inView, dataRowNumber(i), changes)
			rows = append(rows, merged)
		default:
			rows = append(rows, snapRows[i])
		}
	}

	return &Table{Header: union, Rows: rows}, changes, nil
}

// reconcileByKey matches each view row to the first snapshot row with the
// same key value. Matched rows merge only the view's columns; unmatched
// view rows append at the end.
func reconcileByKey(snap *Snapshot, view *View, union []string, inView map[string]bool, keyColumn string) (*Table, []CellChange, error) {
	rows := snap.Rows()
	index := make(map[string]int, len(rows))
	for i, row := range rows {
		key := row.Get(keyColumn)
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}

	var changes []CellChange
	for _, viewRow := range view.Rows {
		key := viewRow.Get(keyColumn)
		if i, ok := index[key]; ok {
			changes = mergeRow(rows[i], viewRow, union, inView, dataRowNumber(i), changes)
			continue
		}
		merged := make(Row, len(union))
		changes = mergeRow(merged, viewRow, union, inView, dataRowNumber(len(rows)), changes)
		index[key] = len(rows)
		rows = append(rows, merged)
	}

	return &Table{Header: union, Rows: rows}, changes, nil
}

// mergeRow applies the view row's values over dst for the view's columns
// only, appending a CellChange per differing cell. Columns outside the view
// are never compared and never change.
func mergeRow(dst, viewRow Row, union []string, inView map[string]bool, rowNumber int, changes []CellChange) []CellChange {
	for _, col := range union {
		if !inView[col] {
			continue
		}
		oldValue := dst.Get(col)
		newValue := viewRow.Get(col)
		if oldValue != newValue {
			changes = append(changes, CellChange{
				Row:      rowNumber,
				Column:   col,
				OldValue: oldValue,
				NewValue: newValue,
			})
		}
		dst[col] = newValue
	}
	return changes
}

// dataRowNumber converts a 0-based data row index to the 1-based
// spreadsheet row number, accounting for the header in row 1.
func dataRowNumber(index int) int {
	return index + 2
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
