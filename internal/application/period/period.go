// Package period holds the pure calendar-month helpers used by the
// statistics projections. All computations are UTC at day granularity.
package period

import (
	"errors"
	"regexp"
	"time"
)

// ErrInvalidMonth is returned for a malformed month parameter. Handlers
// treat it as a client error, never a server fault.
var ErrInvalidMonth = errors.New("month must be formatted as YYYY-MM")

// monthPattern is the strict 4-digit-year / 2-digit-month shape.
var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Month identifies one calendar month.
type Month struct {
	Year  int
	Month int
}

// ParseMonth parses an optional "YYYY-MM" parameter. Empty input resolves
// to the current UTC month of now (time.Now if now is zero). Anything
// that is not a strict YYYY-MM with month 01-12 fails with ErrInvalidMonth.
func ParseMonth(input string, now time.Time) (Month, error) {
	if now.IsZero() {
		now = time.Now()
	}
	if input == "" {
		utc := now.UTC()
		return Month{Year: utc.Year(), Month: int(utc.Month())}, nil
	}
	if !monthPattern.MatchString(input) {
		return Month{}, ErrInvalidMonth
	}
	t, err := time.Parse("2006-01", input)
	if err != nil {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: t.Year(), Month: int(t.Month())}, nil
}

// MonthBounds returns the half-open date range [start, next) for a month
// as ISO calendar-date strings. next is the first day of the following
// month, rolling the year at December.
func MonthBounds(year, month int) (start, next string) {
	s := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	n := s.AddDate(0, 1, 0)
	return s.Format("2006-01-02"), n.Format("2006-01-02")
}

// DaysInMonth returns the number of days in a month, computed from the
// calendar roll so leap years fall out naturally.
func DaysInMonth(year, month int) int {
	s := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	n := s.AddDate(0, 1, 0)
	return int(n.Sub(s).Hours() / 24)
}

// DaysRemainingInMonth counts the days from today (UTC, day granularity)
// through the end of the target month. A month entirely in the future
// yields its full length; a month fully elapsed yields 0.
func DaysRemainingInMonth(year, month int, now time.Time) int {
	if now.IsZero() {
		now = time.Now()
	}
	utc := now.UTC()
	today := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := start.AddDate(0, 1, 0)

	if today.Before(start) {
		return DaysInMonth(year, month)
	}
	if !today.Before(next) {
		return 0
	}
	return int(next.Sub(today).Hours() / 24)
}
