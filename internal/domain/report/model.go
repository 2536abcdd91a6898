package report

import (
	"errors"
	"time"
)

// DateLayout is the calendar-date format used throughout the report tables.
// Dates are stored as text and compared lexically.
const DateLayout = "2006-01-02"

// Domain errors
var (
	ErrInvalidDate     = errors.New("date must be formatted as YYYY-MM-DD")
	ErrNegativeMinutes = errors.New("minutes cannot be negative")
	ErrNoItems         = errors.New("report must have at least one item")
)

// DailyReport is one row per user per calendar date holding the day's
// total study time. Items carry the per-category breakdown.
type DailyReport struct {
	ID           string
	AccountID    string
	Date         string // YYYY-MM-DD, unique per account
	TotalMinutes int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DailyReportItem is a per-category slice of a day's study time.
// CategoryID may be empty for uncategorized time; CategoryName is the
// display label captured at write time (falls back to the uncategorized
// label during aggregation).
type DailyReportItem struct {
	ID           string
	ReportID     string
	CategoryID   string
	CategoryName string
	Minutes      int
	Note         string
	Position     int
}

// Validate checks if the DailyReport has valid data.
// PRE: DailyReport struct is populated
// POST: Returns nil if valid, error otherwise
func (r *DailyReport) Validate() error {
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return ErrInvalidDate
	}
	if r.TotalMinutes < 0 {
		return ErrNegativeMinutes
	}
	return nil
}

// Validate checks if the DailyReportItem has valid data.
// POST: Returns nil if valid, error otherwise
func (i *DailyReportItem) Validate() error {
	if i.Minutes < 0 {
		return ErrNegativeMinutes
	}
	return nil
}

// SumMinutes totals the duration of a report's items.
func SumMinutes(items []DailyReportItem) int {
	total := 0
	for _, it := range items {
		total += it.Minutes
	}
	return total
}

// Day returns the day-of-month for the report's date.
// PRE: Date has been validated
func (r *DailyReport) Day() int {
	d, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return 0
	}
	return d.Day()
}
