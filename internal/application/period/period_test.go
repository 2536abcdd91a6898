package period

import (
	"testing"
	"time"
)

// TestParseMonth tests the strict month parameter boundary.
func TestParseMonth(t *testing.T) {
	now := time.Date(2026, 7, 20, 3, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    Month
		wantErr bool
	}{
		{name: "empty input uses current UTC month", input: "", want: Month{Year: 2026, Month: 7}},
		{name: "valid month", input: "2024-02", want: Month{Year: 2024, Month: 2}},
		{name: "valid december", input: "2024-12", want: Month{Year: 2024, Month: 12}},
		{name: "short year", input: "13-1", wantErr: true},
		{name: "month out of range", input: "2024-13", wantErr: true},
		{name: "month zero", input: "2024-00", wantErr: true},
		{name: "single digit month", input: "2024-2", wantErr: true},
		{name: "trailing garbage", input: "2024-02-01", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonth(tt.input, now)
			if tt.wantErr {
				if err != ErrInvalidMonth {
					t.Errorf("ParseMonth(%q) error = %v, want ErrInvalidMonth", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMonth(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMonth(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

// TestParseMonth_LocalMidnightUsesUTCMonth pins the UTC day-boundary behavior.
func TestParseMonth_LocalMidnightUsesUTCMonth(t *testing.T) {
	// 2026-08-01 08:00 JST is still 2026-07-31 in UTC.
	jst := time.FixedZone("JST", 9*3600)
	now := time.Date(2026, 8, 1, 8, 0, 0, 0, jst)

	got, err := ParseMonth("", now)
	if err != nil {
		t.Fatalf("ParseMonth() error = %v", err)
	}
	if got != (Month{Year: 2026, Month: 7}) {
		t.Errorf("ParseMonth() = %+v, want July 2026 (UTC)", got)
	}
}

// TestMonthBounds tests the half-open range including the year roll.
func TestMonthBounds(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantStart string
		wantNext  string
	}{
		{name: "mid-year month", year: 2026, month: 4, wantStart: "2026-04-01", wantNext: "2026-05-01"},
		{name: "december rolls the year", year: 2024, month: 12, wantStart: "2024-12-01", wantNext: "2025-01-01"},
		{name: "january", year: 2025, month: 1, wantStart: "2025-01-01", wantNext: "2025-02-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, next := MonthBounds(tt.year, tt.month)
			if start != tt.wantStart || next != tt.wantNext {
				t.Errorf("MonthBounds(%d, %d) = (%q, %q), want (%q, %q)",
					tt.year, tt.month, start, next, tt.wantStart, tt.wantNext)
			}
		})
	}
}

// TestDaysInMonth tests day counts including leap years.
func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2024, 2, 29},
		{2023, 2, 28},
		{2000, 2, 29},
		{1900, 2, 28},
		{2026, 1, 31},
		{2026, 4, 30},
		{2026, 12, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

// TestDaysRemainingInMonth tests the today-through-month-end count.
func TestDaysRemainingInMonth(t *testing.T) {
	now := time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		year  int
		month int
		want  int
	}{
		{name: "mid current month counts today through end", year: 2026, month: 2, want: 19},
		{name: "future month returns full length", year: 2026, month: 3, want: 31},
		{name: "past month returns zero", year: 2026, month: 1, want: 0},
		{name: "far past returns zero", year: 2020, month: 6, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysRemainingInMonth(tt.year, tt.month, now); got != tt.want {
				t.Errorf("DaysRemainingInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
			}
		})
	}
}

// TestDaysRemainingInMonth_FirstAndLastDay pins the boundary days.
func TestDaysRemainingInMonth_FirstAndLastDay(t *testing.T) {
	first := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if got := DaysRemainingInMonth(2026, 2, first); got != 28 {
		t.Errorf("first day of month = %d, want 28", got)
	}
	last := time.Date(2026, 2, 28, 23, 59, 0, 0, time.UTC)
	if got := DaysRemainingInMonth(2026, 2, last); got != 1 {
		t.Errorf("last day of month = %d, want 1", got)
	}
}
