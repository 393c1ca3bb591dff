package excel

import (
	sheetsync "github.com/sheetsync/go-sheetsync"
)

// Config holds configuration for the Excel store.
type Config struct {
	FilePath string // Path to the workbook; each table is a sheet inside it
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return ErrMissingFilePath
	}
	return nil
}

// DefaultEngineConfig returns the recommended engine configuration for
// Excel backends.
func DefaultEngineConfig() *sheetsync.Config {
	return &sheetsync.Config{
		FetchRetries: 1,
	}
}
