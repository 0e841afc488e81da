// Package timeutil provides the clock and calendar-date helpers used for
// score entry dates. Dates are local calendar days formatted as YYYY-MM-DD.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// DateLayout is the ISO calendar date layout (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Clock abstracts "now" so handlers can be tested against a fixed day.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in the process' local timezone.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

// Now returns c.At.
func (c FixedClock) Now() time.Time {
	return c.At
}

// Date creates a local midnight for the given day.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
}

// StartOfDay returns the start of the day (00:00:00) in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in its own location.
func FormatDateStr(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current calendar date of clock. A nil clock means SystemClock.
func Today(clock Clock) string {
	if clock == nil {
		clock = SystemClock{}
	}
	return FormatDateStr(clock.Now())
}

// ParseDate parses a YYYY-MM-DD string as local midnight.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.Local)
}

// IsValidDate reports whether value is a well-formed YYYY-MM-DD date.
func IsValidDate(value string) bool {
	_, err := ParseDate(value)
	return err == nil
}

// IsSameDay checks if two times fall on the same calendar day of t1's location.
func IsSameDay(t1, t2 time.Time) bool {
	t2 = t2.In(t1.Location())
	y1, m1, d1 := t1.Date()
	y2, m2, d2 := t2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
