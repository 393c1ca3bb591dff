package excel_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	sheetsync "github.com/sheetsync/go-sheetsync"
	"github.com/sheetsync/go-sheetsync/adapters/excel"
)

func newTestStore(t *testing.T) *excel.Store {
	t.Helper()
	store, err := excel.New(&excel.Config{
		FilePath: filepath.Join(t.TempDir(), "tables.xlsx"),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return store
}

func TestNew(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		if _, err := excel.New(nil); err == nil {
			t.Errorf("New(nil) should fail")
		}
	})

	t.Run("missing file path", func(t *testing.T) {
		if _, err := excel.New(&excel.Config{}); err != excel.ErrMissingFilePath {
			t.Errorf("New() error = %v, want %v", err, excel.ErrMissingFilePath)
		}
	})
}

func TestStore_Fetch_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("missing workbook", func(t *testing.T) {
		_, _, err := store.Fetch(ctx, "medical")
		if !errors.Is(err, sheetsync.ErrTableNotFound) {
			t.Errorf("Fetch() error = %v, want ErrTableNotFound", err)
		}
	})

	t.Run("missing sheet in existing workbook", func(t *testing.T) {
		if err := store.Replace(ctx, "other", []string{"a"}, nil); err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
		_, _, err := store.Fetch(ctx, "medical")
		if !errors.Is(err, sheetsync.ErrTableNotFound) {
			t.Errorf("Fetch() error = %v, want ErrTableNotFound", err)
		}
	})
}

func TestStore_ReplaceFetchRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	header := []string{"facility", "area"}
	rows := []sheetsync.Row{
		{"facility": "A", "area": "Tokyo"},
		{"facility": "B", "area": "Osaka"},
	}
	if err := store.Replace(ctx, "medical", header, rows); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	gotHeader, gotRows, err := store.Fetch(ctx, "medical")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !reflect.DeepEqual(gotHeader, header) {
		t.Errorf("header = %v, want %v", gotHeader, header)
	}
	if !reflect.DeepEqual(gotRows, rows) {
		t.Errorf("rows = %v, want %v", gotRows, rows)
	}
}

func TestStore_Replace_Overwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Replace(ctx, "medical", []string{"facility", "area"}, []sheetsync.Row{
		{"facility": "A", "area": "Tokyo"},
		{"facility": "B", "area": "Osaka"},
		{"facility": "C", "area": "Osaka"},
	}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	// shrink to one row and one column; the old shape must be gone
	if err := store.Replace(ctx, "medical", []string{"facility"}, []sheetsync.Row{
		{"facility": "Z"},
	}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	header, rows, err := store.Fetch(ctx, "medical")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !reflect.DeepEqual(header, []string{"facility"}) {
		t.Errorf("header = %v, want [facility]", header)
	}
	if len(rows) != 1 || rows[0].Get("facility") != "Z" {
		t.Errorf("rows = %v, want single row Z", rows)
	}
}

func TestStore_MultipleTables(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Replace(ctx, "medical", []string{"facility"}, []sheetsync.Row{{"facility": "A"}}); err != nil {
		t.Fatalf("Replace(medical) error = %v", err)
	}
	if err := store.Replace(ctx, "biological", []string{"specimen"}, []sheetsync.Row{{"specimen": "X"}}); err != nil {
		t.Fatalf("Replace(biological) error = %v", err)
	}

	header, rows, err := store.Fetch(ctx, "medical")
	if err != nil {
		t.Fatalf("Fetch(medical) error = %v", err)
	}
	if !reflect.DeepEqual(header, []string{"facility"}) || len(rows) != 1 {
		t.Errorf("medical = %v %v, want untouched by biological write", header, rows)
	}
}

func TestStore_AppendLog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := sheetsync.ChangeRecord{
		Timestamp: time.Date(2026, time.April, 7, 9, 30, 5, 0, time.Local),
		Actor:     "tanaka",
		Table:     "medical",
		Row:       3,
		Column:    "area",
		OldValue:  "Osaka",
		NewValue:  "Kyoto",
	}

	t.Run("auto-creates log table with fixed header", func(t *testing.T) {
		if err := store.AppendLog(ctx, "medical_history", []sheetsync.ChangeRecord{record}); err != nil {
			t.Fatalf("AppendLog() error = %v", err)
		}

		header, rows, err := store.Fetch(ctx, "medical_history")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if !reflect.DeepEqual(header, sheetsync.LogHeader) {
			t.Errorf("header = %v, want %v", header, sheetsync.LogHeader)
		}
		if len(rows) != 1 {
			t.Fatalf("len(rows) = %d, want 1", len(rows))
		}
		if !reflect.DeepEqual(rows[0], record.LogRow()) {
			t.Errorf("row = %v, want %v", rows[0], record.LogRow())
		}
	})

	t.Run("appends without rewriting prior records", func(t *testing.T) {
		second := record
		second.Row = 4
		second.Column = "facility"
		second.OldValue = "B"
		second.NewValue = "B2"

		if err := store.AppendLog(ctx, "medical_history", []sheetsync.ChangeRecord{second}); err != nil {
			t.Fatalf("AppendLog() error = %v", err)
		}

		_, rows, err := store.Fetch(ctx, "medical_history")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("len(rows) = %d, want 2", len(rows))
		}
		if rows[0].Get("row") != "3" || rows[1].Get("row") != "4" {
			t.Errorf("rows out of append order: %v", rows)
		}
	})

	t.Run("empty record batch is a no-op", func(t *testing.T) {
		if err := store.AppendLog(ctx, "empty_history", nil); err != nil {
			t.Fatalf("AppendLog() error = %v", err)
		}
		if _, _, err := store.Fetch(ctx, "empty_history"); !errors.Is(err, sheetsync.ErrTableNotFound) {
			t.Errorf("empty append created a table: err = %v", err)
		}
	})
}
