package main

import (
	"context"
	"fmt"
	"log"

	sheetsync "github.com/sheetsync/go-sheetsync"
	"github.com/sheetsync/go-sheetsync/adapters/googlesheets"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	// Initialize Google Sheets store with a JSON key file
	store, err := googlesheets.NewWithJSONKeyFile(ctx, googlesheets.Config{
		SpreadsheetID: "your-spreadsheet-id",
	}, "./service-account.json")
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	engine := sheetsync.New(store, googlesheets.DefaultEngineConfig())

	// Capture the table at the start of the edit session
	snap, err := engine.Fetch(ctx, "medical")
	if err != nil {
		return fmt.Errorf("failed to fetch table: %w", err)
	}

	// Show facility and area only, restricted to April inspections
	view, err := sheetsync.NewView(snap, []string{"facility", "area"}, &sheetsync.Filter{
		Conditions: []sheetsync.Condition{
			{Column: "month", Values: []string{"4"}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to build view: %w", err)
	}
	if len(view.Rows) == 0 {
		fmt.Println("No rows match the filter.")
		return nil
	}

	// Edit the first visible row
	if err := view.SetCell(0, "area", "Kyoto"); err != nil {
		return fmt.Errorf("failed to edit view: %w", err)
	}

	// Merge the edit back without touching hidden rows or columns, and
	// append the cell-level diff to medical_history
	result, err := engine.ReconcileAndSave(ctx, "medical", snap, view, "tanaka",
		&sheetsync.Options{KeyColumn: "facility"})
	if err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}

	if !result.Saved {
		fmt.Println("No changes to save.")
		return nil
	}
	for _, record := range result.Records {
		fmt.Printf("row %d %s: %q -> %q\n", record.Row, record.Column, record.OldValue, record.NewValue)
	}
	if !result.Logged {
		// data is committed, history is not; surface it, never hide it
		fmt.Printf("warning: saved but not logged: %v\n", result.LogErr)
	}

	return nil
}
