// Package common holds a conformance suite for sheetsync.Store backends.
// Every backend must pass it; tests/api wires the concrete stores in.
package common

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	sheetsync "github.com/sheetsync/go-sheetsync"
)

// StoreTestCase pairs a backend store with a display name.
type StoreTestCase struct {
	Name        string
	Store       sheetsync.Store
	Description string
}

// RunStoreSuite exercises the Store contract against a backend. The store
// is expected to be empty (no tables) when the suite starts.
func RunStoreSuite(t *testing.T, tc StoreTestCase) {
	ctx := context.Background()

	t.Run("fetch missing table", func(t *testing.T) {
		_, _, err := tc.Store.Fetch(ctx, "suite_missing")
		if !errors.Is(err, sheetsync.ErrTableNotFound) {
			t.Errorf("Fetch() error = %v, want ErrTableNotFound", err)
		}
	})

	t.Run("replace then fetch roundtrip", func(t *testing.T) {
		header := []string{"facility", "month", "area"}
		rows := []sheetsync.Row{
			{"facility": "A", "month": "4", "area": "Tokyo"},
			{"facility": "B", "month": "5", "area": "Osaka"},
		}
		if err := tc.Store.Replace(ctx, "suite_medical", header, rows); err != nil {
			t.Fatalf("Replace() error = %v", err)
		}

		gotHeader, gotRows, err := tc.Store.Fetch(ctx, "suite_medical")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if !reflect.DeepEqual(gotHeader, header) {
			t.Errorf("header = %v, want %v (order must be stable)", gotHeader, header)
		}
		if !reflect.DeepEqual(gotRows, rows) {
			t.Errorf("rows = %v, want %v", gotRows, rows)
		}
	})

	t.Run("replace is a full overwrite", func(t *testing.T) {
		if err := tc.Store.Replace(ctx, "suite_medical", []string{"facility"}, []sheetsync.Row{
			{"facility": "Z"},
		}); err != nil {
			t.Fatalf("Replace() error = %v", err)
		}

		header, rows, err := tc.Store.Fetch(ctx, "suite_medical")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if !reflect.DeepEqual(header, []string{"facility"}) {
			t.Errorf("header = %v, want [facility]", header)
		}
		if len(rows) != 1 || rows[0].Get("facility") != "Z" {
			t.Errorf("rows = %v, want single row Z", rows)
		}
	})

	t.Run("empty string cells survive", func(t *testing.T) {
		header := []string{"facility", "area"}
		rows := []sheetsync.Row{{"facility": "A", "area": ""}}
		if err := tc.Store.Replace(ctx, "suite_blanks", header, rows); err != nil {
			t.Fatalf("Replace() error = %v", err)
		}

		_, gotRows, err := tc.Store.Fetch(ctx, "suite_blanks")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if len(gotRows) != 1 || gotRows[0].Get("area") != "" {
			t.Errorf("rows = %v, want blank area preserved", gotRows)
		}
	})

	t.Run("append log auto-creates with fixed header", func(t *testing.T) {
		record := sheetsync.ChangeRecord{
			Timestamp: time.Date(2026, time.April, 7, 9, 30, 5, 0, time.Local),
			Actor:     "tanaka",
			Table:     "suite_medical",
			Row:       3,
			Column:    "area",
			OldValue:  "Osaka",
			NewValue:  "Kyoto",
		}
		logTable := sheetsync.LogTableName("suite_medical")

		if err := tc.Store.AppendLog(ctx, logTable, []sheetsync.ChangeRecord{record}); err != nil {
			t.Fatalf("AppendLog() error = %v", err)
		}

		header, rows, err := tc.Store.Fetch(ctx, logTable)
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if !reflect.DeepEqual(header, sheetsync.LogHeader) {
			t.Errorf("log header = %v, want %v", header, sheetsync.LogHeader)
		}
		if len(rows) != 1 || !reflect.DeepEqual(rows[0], record.LogRow()) {
			t.Errorf("log rows = %v, want [%v]", rows, record.LogRow())
		}
	})

	t.Run("append log accumulates", func(t *testing.T) {
		logTable := sheetsync.LogTableName("suite_medical")
		record := sheetsync.ChangeRecord{
			Timestamp: time.Date(2026, time.April, 7, 9, 31, 0, 0, time.Local),
			Actor:     "sato",
			Table:     "suite_medical",
			Row:       4,
			Column:    "facility",
			OldValue:  "",
			NewValue:  "D",
		}

		if err := tc.Store.AppendLog(ctx, logTable, []sheetsync.ChangeRecord{record}); err != nil {
			t.Fatalf("AppendLog() error = %v", err)
		}

		_, rows, err := tc.Store.Fetch(ctx, logTable)
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("len(rows) = %d, want 2", len(rows))
		}
		if rows[0].Get("actor") != "tanaka" || rows[1].Get("actor") != "sato" {
			t.Errorf("log rows out of append order: %v", rows)
		}
	})
}
