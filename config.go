package sheetsync

import "time"

// DefaultActor is recorded in change records when the caller supplies a
// blank actor name.
const DefaultActor = "unknown user"

// Config represents configuration for the reconciliation engine.
type Config struct {
	FetchRetries int              // Extra fetch attempts after a transport failure (default: 1)
	Now          func() time.Time // Clock for change timestamps (default: time.Now)
	DefaultActor string           // Actor recorded when none is given (default: DefaultActor)
}
