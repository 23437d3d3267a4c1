package shared

import "time"

// Clock supplies the current time. Services take a Clock so "today"
// can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC
type SystemClock struct{}

// Now returns the current UTC time
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.At
}

// TruncateToDay drops the time-of-day part of t, keeping its location
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Today returns the calendar day of the clock in UTC
func Today(c Clock) time.Time {
	return TruncateToDay(c.Now().UTC())
}

// DaysBetween returns the whole number of days from a to b (b - a)
func DaysBetween(a, b time.Time) int {
	return int(TruncateToDay(b.UTC()).Sub(TruncateToDay(a.UTC())).Hours() / 24)
}
