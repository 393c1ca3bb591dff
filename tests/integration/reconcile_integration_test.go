package integration

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	sheetsync "github.com/sheetsync/go-sheetsync"
	"github.com/sheetsync/go-sheetsync/adapters/excel"
	"github.com/sheetsync/go-sheetsync/adapters/sqlite"
)

func localStores(t *testing.T) map[string]sheetsync.Store {
	t.Helper()

	excelStore, err := excel.New(&excel.Config{
		FilePath: filepath.Join(t.TempDir(), "integration.xlsx"),
	})
	if err != nil {
		t.Fatalf("Failed to create Excel store: %v", err)
	}

	sqliteStore, err := sqlite.New(&sqlite.Config{DSN: "file::memory:"})
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]sheetsync.Store{
		"Excel":  excelStore,
		"SQLite": sqliteStore,
	}
}

// TestEditSessionCycle drives a whole session against real local backends:
// seed, fetch, project and filter, edit, save, then verify both the merged
// table and the history log.
func TestEditSessionCycle(t *testing.T) {
	for name, store := range localStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clock := time.Date(2026, time.April, 7, 9, 30, 5, 0, time.Local)
			engine := sheetsync.New(store, &sheetsync.Config{
				Now: func() time.Time { return clock },
			})

			header := []string{"facility", "month", "area"}
			seed := []sheetsync.Row{
				{"facility": "A", "month": "4", "area": "Tokyo"},
				{"facility": "B", "month": "5", "area": "Osaka"},
				{"facility": "C", "month": "4", "area": "Osaka"},
			}
			if err := store.Replace(ctx, "medical", header, seed); err != nil {
				t.Fatalf("seed Replace() error = %v", err)
			}

			snap, err := engine.Fetch(ctx, "medical")
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}

			// month column hidden, month=4 rows only
			view, err := sheetsync.NewView(snap, []string{"facility", "area"}, &sheetsync.Filter{
				Conditions: []sheetsync.Condition{{Column: "month", Values: []string{"4"}}},
			})
			if err != nil {
				t.Fatalf("NewView() error = %v", err)
			}
			if len(view.Rows) != 2 {
				t.Fatalf("view has %d rows, want 2", len(view.Rows))
			}

			// edit facility C's area and register a new facility
			if err := view.SetCell(1, "area", "Kyoto"); err != nil {
				t.Fatalf("SetCell() error = %v", err)
			}
			view.AppendRow(sheetsync.Row{"facility": "D", "area": "Nagoya"})

			result, err := engine.ReconcileAndSave(ctx, "medical", snap, view, "tanaka",
				&sheetsync.Options{KeyColumn: "facility"})
			if err != nil {
				t.Fatalf("ReconcileAndSave() error = %v", err)
			}
			if !result.Saved || !result.Logged {
				t.Fatalf("Saved/Logged = %v/%v, want true/true", result.Saved, result.Logged)
			}

			gotHeader, gotRows, err := store.Fetch(ctx, "medical")
			if err != nil {
				t.Fatalf("verify Fetch() error = %v", err)
			}
			if !reflect.DeepEqual(gotHeader, header) {
				t.Errorf("header = %v, want %v", gotHeader, header)
			}
			wantRows := []sheetsync.Row{
				{"facility": "A", "month": "4", "area": "Tokyo"},
				{"facility": "B", "month": "5", "area": "Osaka"}, // filtered out, untouched
				{"facility": "C", "month": "4", "area": "Kyoto"},
				{"facility": "D", "month": "", "area": "Nagoya"},
			}
			if !reflect.DeepEqual(gotRows, wantRows) {
				t.Errorf("rows = %v, want %v", gotRows, wantRows)
			}

			logHeader, logRows, err := store.Fetch(ctx, "medical_history")
			if err != nil {
				t.Fatalf("history Fetch() error = %v", err)
			}
			if !reflect.DeepEqual(logHeader, sheetsync.LogHeader) {
				t.Errorf("log header = %v, want %v", logHeader, sheetsync.LogHeader)
			}
			wantLog := []sheetsync.Row{
				{"timestamp": "2026-04-07 09:30:05", "actor": "tanaka", "table": "medical",
					"row": "4", "column": "area", "old_value": "Osaka", "new_value": "Kyoto"},
				{"timestamp": "2026-04-07 09:30:05", "actor": "tanaka", "table": "medical",
					"row": "5", "column": "facility", "old_value": "", "new_value": "D"},
				{"timestamp": "2026-04-07 09:30:05", "actor": "tanaka", "table": "medical",
					"row": "5", "column": "area", "old_value": "", "new_value": "Nagoya"},
			}
			if !reflect.DeepEqual(logRows, wantLog) {
				t.Errorf("log rows = %v, want %v", logRows, wantLog)
			}

			// a second, unedited pass must be a pure no-op
			snap2, err := engine.Fetch(ctx, "medical")
			if err != nil {
				t.Fatalf("second Fetch() error = %v", err)
			}
			view2, err := sheetsync.NewView(snap2, nil, nil)
			if err != nil {
				t.Fatalf("second NewView() error = %v", err)
			}
			result2, err := engine.ReconcileAndSave(ctx, "medical", snap2, view2, "tanaka", nil)
			if err != nil {
				t.Fatalf("second ReconcileAndSave() error = %v", err)
			}
			if result2.Saved || len(result2.Records) != 0 {
				t.Errorf("unedited pass wrote: Saved=%v Records=%v", result2.Saved, result2.Records)
			}
		})
	}
}
