package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	sheetsync "github.com/sheetsync/go-sheetsync"
	"github.com/sheetsync/go-sheetsync/adapters/excel"
	"github.com/sheetsync/go-sheetsync/schedule"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	store, err := excel.New(&excel.Config{FilePath: "./tables.xlsx"})
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	// Seed a table so the example is self-contained
	if err := store.Replace(ctx, "medical", []string{"facility", "month", "area"}, []sheetsync.Row{
		{"facility": "Sakura Clinic", "month": "4", "area": "Tokyo"},
		{"facility": "Minato Hospital", "month": "4", "area": "Osaka"},
		{"facility": "Kita Lab", "month": "5", "area": "Tokyo"},
	}); err != nil {
		return fmt.Errorf("failed to seed table: %w", err)
	}

	engine := sheetsync.New(store, excel.DefaultEngineConfig())

	snap, err := engine.Fetch(ctx, "medical")
	if err != nil {
		return fmt.Errorf("failed to fetch table: %w", err)
	}

	view, err := sheetsync.NewView(snap, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to build view: %w", err)
	}
	if err := view.SetCell(1, "area", "Kyoto"); err != nil {
		return fmt.Errorf("failed to edit view: %w", err)
	}

	result, err := engine.ReconcileAndSave(ctx, "medical", snap, view, "tanaka", nil)
	if err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	fmt.Printf("saved %d change(s), logged=%v\n", len(result.Records), result.Logged)

	// Build an inspection schedule for the April facilities and dump it
	// as CSV
	aprilView, err := sheetsync.NewView(snap, []string{"facility"}, &sheetsync.Filter{
		Conditions: []sheetsync.Condition{{Column: "month", Values: []string{"4"}}},
	})
	if err != nil {
		return fmt.Errorf("failed to build schedule view: %w", err)
	}

	facilities := make([]string, 0, len(aprilView.Rows))
	for _, row := range aprilView.Rows {
		facilities = append(facilities, row.Get("facility"))
	}

	start := time.Date(time.Now().Year(), time.April, 1, 0, 0, 0, 0, time.Local)
	assignments := schedule.Build(facilities, start)
	if err := schedule.WriteCSV(os.Stdout, assignments); err != nil {
		return fmt.Errorf("failed to write schedule: %w", err)
	}

	return nil
}
