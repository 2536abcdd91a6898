package projections

import (
	"context"
	"fmt"
	"sort"
	"time"

	"studylog/internal/application/period"
	domainReport "studylog/internal/domain/report"
)

// WeeklyBreakdownReportStore defines the report store interface needed by the weekly breakdown projection.
type WeeklyBreakdownReportStore interface {
	ListByAccountAndDateRange(ctx context.Context, accountID string, startDate string, endDate string) ([]domainReport.DailyReport, error)
}

// GetWeeklyBreakdownQuery carries input for the weekly breakdown projection.
type GetWeeklyBreakdownQuery struct {
	AccountID string
	Month     string    // optional "YYYY-MM"; empty means the current UTC month
	Now       time.Time // optional: if zero, time.Now() is used
}

// WeeklyBucket aggregates the reports of one fixed 7-day window.
type WeeklyBucket struct {
	WeekLabel    string `json:"weekLabel"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	ReportCount  int    `json:"reportCount"`
	TotalMinutes int    `json:"totalMinutes"`
}

// GetWeeklyBreakdownResult carries the output of the weekly breakdown projection.
type GetWeeklyBreakdownResult struct {
	Year  int
	Month int
	Weeks []WeeklyBucket
}

// GetWeeklyBreakdownDeps holds dependencies for the weekly breakdown projection.
type GetWeeklyBreakdownDeps struct {
	ReportStore WeeklyBreakdownReportStore
}

// QueryGetWeeklyBreakdown buckets one month of reports into fixed 7-day
// windows counted from day 1. The windows are not calendar weeks; they
// never align to Mondays.
// PRE: query.AccountID is non-empty
// POST: Weeks holds only non-empty windows in ascending order, the last
// window's end clamped to the month's final day
func QueryGetWeeklyBreakdown(ctx context.Context, query GetWeeklyBreakdownQuery, deps GetWeeklyBreakdownDeps) (GetWeeklyBreakdownResult, error) {
	m, err := period.ParseMonth(query.Month, query.Now)
	if err != nil {
		return GetWeeklyBreakdownResult{}, err
	}
	start, next := period.MonthBounds(m.Year, m.Month)

	reports, err := deps.ReportStore.ListByAccountAndDateRange(ctx, query.AccountID, start, next)
	if err != nil {
		return GetWeeklyBreakdownResult{}, err
	}

	lastDay := period.DaysInMonth(m.Year, m.Month)

	type accum struct {
		reportCount  int
		totalMinutes int
	}
	byWindow := make(map[int]*accum)
	for _, r := range reports {
		day := r.Day()
		if day == 0 {
			// A malformed stored date cannot be bucketed; skip the row.
			continue
		}
		w := (day - 1) / 7
		a, ok := byWindow[w]
		if !ok {
			a = &accum{}
			byWindow[w] = a
		}
		a.reportCount++
		a.totalMinutes += r.TotalMinutes
	}

	windows := make([]int, 0, len(byWindow))
	for w := range byWindow {
		windows = append(windows, w)
	}
	sort.Ints(windows)

	weeks := make([]WeeklyBucket, 0, len(windows))
	for _, w := range windows {
		startDay := w*7 + 1
		endDay := startDay + 6
		if endDay > lastDay {
			endDay = lastDay
		}
		a := byWindow[w]
		weeks = append(weeks, WeeklyBucket{
			WeekLabel:    fmt.Sprintf("%d/%d–%d/%d", m.Month, startDay, m.Month, endDay),
			StartDate:    fmt.Sprintf("%04d-%02d-%02d", m.Year, m.Month, startDay),
			EndDate:      fmt.Sprintf("%04d-%02d-%02d", m.Year, m.Month, endDay),
			ReportCount:  a.reportCount,
			TotalMinutes: a.totalMinutes,
		})
	}

	return GetWeeklyBreakdownResult{Year: m.Year, Month: m.Month, Weeks: weeks}, nil
}
