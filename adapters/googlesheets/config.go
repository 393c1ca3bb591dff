package googlesheets

import (
	"errors"

	sheetsync "github.com/sheetsync/go-sheetsync"
)

// ErrMissingSpreadsheetID is returned when no spreadsheet ID is configured.
var ErrMissingSpreadsheetID = errors.New("spreadsheet ID is required")

// Config represents configuration specific to the Google Sheets store.
type Config struct {
	SpreadsheetID string
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SpreadsheetID == "" {
		return ErrMissingSpreadsheetID
	}
	return nil
}

// DefaultEngineConfig returns the recommended engine configuration for
// Google Sheets backends.
func DefaultEngineConfig() *sheetsync.Config {
	return &sheetsync.Config{
		FetchRetries: 1,
	}
}
