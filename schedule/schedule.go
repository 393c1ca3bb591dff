// Package schedule assigns facilities to inspection dates: one facility per
// business day, in input order, skipping Saturdays and Sundays.
package schedule

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// DateFormat is how assignment dates are rendered in CSV exports.
const DateFormat = "2006-01-02"

// Assignment pairs one facility with its inspection date.
type Assignment struct {
	Date     time.Time
	Facility string
}

// Build assigns each facility, in order, to consecutive business days
// starting at the first business day on or after start.
func Build(facilities []string, start time.Time) []Assignment {
	assignments := make([]Assignment, 0, len(facilities))

	day := start
	for _, facility := range facilities {
		for isWeekend(day) {
			day = day.AddDate(0, 0, 1)
		}
		assignments = append(assignments, Assignment{Date: day, Facility: facility})
		day = day.AddDate(0, 0, 1)
	}

	return assignments
}

// WriteCSV writes assignments as a two-column CSV with a header row.
func WriteCSV(w io.Writer, assignments []Assignment) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "facility"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, a := range assignments {
		if err := cw.Write([]string{a.Date.Format(DateFormat), a.Facility}); err != nil {
			return fmt.Errorf("failed to write assignment: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func isWeekend(day time.Time) bool {
	return day.Weekday() == time.Saturday || day.Weekday() == time.Sunday
}
