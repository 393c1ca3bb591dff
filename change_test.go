package sheetsync_test

import (
	"reflect"
	"testing"
	"time"

	sheetsync "github.com/sheetsync/go-sheetsync"
)

func TestChangeRecord_Cells(t *testing.T) {
	record := sheetsync.ChangeRecord{
		Timestamp: time.Date(2026, time.April, 7, 9, 30, 5, 0, time.Local),
		Actor:     "tanaka",
		Table:     "medical",
		Row:       3,
		Column:    "area",
		OldValue:  "Osaka",
		NewValue:  "Kyoto",
	}

	got := record.Cells()
	want := []string{"2026-04-07 09:30:05", "tanaka", "medical", "3", "area", "Osaka", "Kyoto"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Cells() = %v, want %v", got, want)
	}

	if len(got) != len(sheetsync.LogHeader) {
		t.Errorf("Cells() has %d cells, want %d", len(got), len(sheetsync.LogHeader))
	}
}

func TestChangeRecord_LogRow(t *testing.T) {
	record := sheetsync.ChangeRecord{
		Timestamp: time.Date(2026, time.April, 7, 9, 30, 5, 0, time.Local),
		Actor:     "tanaka",
		Table:     "medical",
		Row:       3,
		Column:    "area",
		OldValue:  "",
		NewValue:  "Kyoto",
	}

	row := record.LogRow()
	if row.Get("row") != "3" {
		t.Errorf("row = %q, want %q", row.Get("row"), "3")
	}
	if row.Get("old_value") != "" || row.Get("new_value") != "Kyoto" {
		t.Errorf("old/new = %q/%q, want \"\"/Kyoto", row.Get("old_value"), row.Get("new_value"))
	}
}

func TestLogHeader(t *testing.T) {
	// persisted log layout; existing history data depends on it
	want := []string{"timestamp", "actor", "table", "row", "column", "old_value", "new_value"}
	if !reflect.DeepEqual(sheetsync.LogHeader, want) {
		t.Errorf("LogHeader = %v, want %v", sheetsync.LogHeader, want)
	}
}

func TestLogTableName(t *testing.T) {
	if got := sheetsync.LogTableName("medical"); got != "medical_history" {
		t.Errorf("LogTableName(medical) = %q, want %q", got, "medical_history")
	}
}
