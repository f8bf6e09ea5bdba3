package util

import "time"

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
