package service

import (
	"time"

	"github.com/google/uuid"
)

// Clock returns the current time. Services take one so tests can pin time.
type Clock func() time.Time

// SystemClock returns UTC time truncated to microseconds, the precision
// both SQL dialects store, so timestamps round-trip unchanged.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// newID returns a time-ordered (v7) UUID. Lexical order of these IDs
// follows creation order, which the stores use as a tie-breaker.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
