package adapters

import (
	"time"

	"github.com/checks-dashboard/backend/internal/application/adapter"
)

// systemClock reads the wall clock in a fixed location.
type systemClock struct {
	loc *time.Location
}

// NewSystemClock returns a clock reporting times in loc. A nil loc means UTC.
func NewSystemClock(loc *time.Location) adapter.Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

// Now returns the current time in the clock's location.
func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}
