package sqlite

import (
	"errors"

	sheetsync "github.com/sheetsync/go-sheetsync"
)

// ErrMissingDSN is returned when no data source name is configured.
var ErrMissingDSN = errors.New("data source name is required")

// Config holds configuration for the SQLite store.
type Config struct {
	DSN string // Database path or DSN, e.g. "tables.db" or "file::memory:"
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DSN == "" {
		return ErrMissingDSN
	}
	return nil
}

// DefaultEngineConfig returns the recommended engine configuration for
// SQLite backends.
func DefaultEngineConfig() *sheetsync.Config {
	return &sheetsync.Config{
		FetchRetries: 1,
	}
}
