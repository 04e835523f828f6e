// Package freshness implements the daily refresh window: cached data is
// considered fresh until the next cutoff hour in the league's home timezone.
package freshness

import (
	"fmt"
	"time"
)

// Window describes one daily cutoff, e.g. 08:00 in America/Los_Angeles.
type Window struct {
	hour int
	loc  *time.Location
}

func NewWindow(hour int, timezone string) (Window, error) {
	if hour < 0 || hour > 23 {
		return Window{}, fmt.Errorf("cutoff hour must be in [0,23], got %d", hour)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Window{}, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return Window{hour: hour, loc: loc}, nil
}

// Cutoff returns the most recent cutoff at or before now: data fetched after
// it is fresh; anything older needs a refetch.
func (w Window) Cutoff(now time.Time) time.Time {
	local := now.In(w.loc)
	cutoff := time.Date(local.Year(), local.Month(), local.Day(), w.hour, 0, 0, 0, w.loc)
	if local.Before(cutoff) {
		cutoff = cutoff.AddDate(0, 0, -1)
	}
	return cutoff
}

// NextCutoff returns the next cutoff strictly after now; cache entries expire
// there.
func (w Window) NextCutoff(now time.Time) time.Time {
	return w.Cutoff(now).AddDate(0, 0, 1)
}

// UntilNextCutoff returns the duration from now to the next cutoff.
func (w Window) UntilNextCutoff(now time.Time) time.Duration {
	return w.NextCutoff(now).Sub(now)
}

// IsFresh reports whether data fetched at fetchedAt is still inside the
// current window.
func (w Window) IsFresh(fetchedAt, now time.Time) bool {
	return !fetchedAt.Before(w.Cutoff(now))
}

// DateOf returns now's calendar date in the window's timezone as YYYY-MM-DD.
func (w Window) DateOf(now time.Time) string {
	return now.In(w.loc).Format("2006-01-02")
}
