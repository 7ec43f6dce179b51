package domain

import (
	"fmt"
	"time"
)

// Clock answers "what day is it" in the single canonical zone of the
// deployment. Both the create-time "after today" rule and the sweep use it.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a wall clock reading days in loc.
func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// LoadClock resolves an IANA zone name ("UTC", "Europe/Moscow").
func LoadClock(zone string) (*Clock, error) {
	if zone == "" {
		zone = "UTC"
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	return NewClock(loc), nil
}

// FixedClock always reports the given instant.
func FixedClock(at time.Time, loc *time.Location) *Clock {
	c := NewClock(loc)
	c.now = func() time.Time { return at }
	return c
}

// Now returns the current instant in the canonical zone.
func (c *Clock) Now() time.Time { return c.now().In(c.loc) }

// Today returns the current calendar date in the canonical zone.
func (c *Clock) Today() Date { return DateOf(c.Now()) }

func (c *Clock) Location() *time.Location { return c.loc }
