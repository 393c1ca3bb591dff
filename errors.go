package sheetsync

import "errors"

var (
	// ErrTableNotFound is returned when a fetch targets a table that does
	// not exist in the store.
	ErrTableNotFound = errors.New("table not found")

	// ErrStoreUnavailable is returned for transport, auth or quota
	// failures talking to the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrLogUnavailable is returned when the history log table could not
	// be created or appended to. A failed log append never rolls back a
	// successful data write.
	ErrLogUnavailable = errors.New("history log unavailable")

	// ErrValidation is returned for bad inputs detected before any store
	// I/O is attempted.
	ErrValidation = errors.New("validation failed")
)
