package projections

import (
	"context"
	"errors"
	"testing"

	"studylog/internal/application/period"
	domainReport "studylog/internal/domain/report"
)

type mockWeeklyBreakdownReportStore struct {
	reports []domainReport.DailyReport
	err     error
}

// ListByAccountAndDateRange returns seeded reports within range.
// POST: Returns matching reports
func (m *mockWeeklyBreakdownReportStore) ListByAccountAndDateRange(_ context.Context, accountID string, startDate string, endDate string) ([]domainReport.DailyReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domainReport.DailyReport
	for _, r := range m.reports {
		if r.AccountID == accountID && r.Date >= startDate && r.Date < endDate {
			out = append(out, r)
		}
	}
	return out, nil
}

// TestQueryGetWeeklyBreakdown_SparseWithClampedLastWindow verifies a 31-day
// month with activity on day 1 and day 31 yields exactly two windows.
func TestQueryGetWeeklyBreakdown_SparseWithClampedLastWindow(t *testing.T) {
	store := &mockWeeklyBreakdownReportStore{
		reports: []domainReport.DailyReport{
			{ID: "r1", AccountID: "a1", Date: "2026-01-01", TotalMinutes: 60},
			{ID: "r2", AccountID: "a1", Date: "2026-01-31", TotalMinutes: 30},
		},
	}

	result, err := QueryGetWeeklyBreakdown(context.Background(),
		GetWeeklyBreakdownQuery{AccountID: "a1", Month: "2026-01"},
		GetWeeklyBreakdownDeps{ReportStore: store})
	if err != nil {
		t.Fatalf("QueryGetWeeklyBreakdown() error = %v", err)
	}

	if len(result.Weeks) != 2 {
		t.Fatalf("got %d windows, want 2 (sparse output)", len(result.Weeks))
	}
	first := result.Weeks[0]
	if first.WeekLabel != "1/1–1/7" {
		t.Errorf("first label = %q, want %q", first.WeekLabel, "1/1–1/7")
	}
	if first.StartDate != "2026-01-01" || first.EndDate != "2026-01-07" {
		t.Errorf("first window = %s..%s, want 2026-01-01..2026-01-07", first.StartDate, first.EndDate)
	}
	if first.ReportCount != 1 || first.TotalMinutes != 60 {
		t.Errorf("first window totals = %d reports / %d min, want 1 / 60", first.ReportCount, first.TotalMinutes)
	}
	last := result.Weeks[1]
	if last.WeekLabel != "1/29–1/31" {
		t.Errorf("last label = %q, want clamped %q", last.WeekLabel, "1/29–1/31")
	}
	if last.EndDate != "2026-01-31" {
		t.Errorf("last EndDate = %q, want 2026-01-31", last.EndDate)
	}
}

// TestQueryGetWeeklyBreakdown_FixedWindowsNotCalendarWeeks verifies windows
// break at day 7/14/21/28 regardless of weekday, with reports merged per window.
func TestQueryGetWeeklyBreakdown_FixedWindowsNotCalendarWeeks(t *testing.T) {
	store := &mockWeeklyBreakdownReportStore{
		reports: []domainReport.DailyReport{
			{ID: "r1", AccountID: "a1", Date: "2026-02-07", TotalMinutes: 10},
			{ID: "r2", AccountID: "a1", Date: "2026-02-08", TotalMinutes: 20},
			{ID: "r3", AccountID: "a1", Date: "2026-02-14", TotalMinutes: 40},
		},
	}

	result, err := QueryGetWeeklyBreakdown(context.Background(),
		GetWeeklyBreakdownQuery{AccountID: "a1", Month: "2026-02"},
		GetWeeklyBreakdownDeps{ReportStore: store})
	if err != nil {
		t.Fatalf("QueryGetWeeklyBreakdown() error = %v", err)
	}

	if len(result.Weeks) != 2 {
		t.Fatalf("got %d windows, want 2", len(result.Weeks))
	}
	if result.Weeks[0].WeekLabel != "2/1–2/7" || result.Weeks[0].TotalMinutes != 10 {
		t.Errorf("window[0] = %+v, want 2/1–2/7 with 10 min", result.Weeks[0])
	}
	if result.Weeks[1].WeekLabel != "2/8–2/14" || result.Weeks[1].ReportCount != 2 || result.Weeks[1].TotalMinutes != 60 {
		t.Errorf("window[1] = %+v, want 2/8–2/14 with 2 reports / 60 min", result.Weeks[1])
	}
}

// TestQueryGetWeeklyBreakdown_EmptyMonth verifies no reports yields no windows.
func TestQueryGetWeeklyBreakdown_EmptyMonth(t *testing.T) {
	result, err := QueryGetWeeklyBreakdown(context.Background(),
		GetWeeklyBreakdownQuery{AccountID: "a1", Month: "2026-04"},
		GetWeeklyBreakdownDeps{ReportStore: &mockWeeklyBreakdownReportStore{}})
	if err != nil {
		t.Fatalf("QueryGetWeeklyBreakdown() error = %v", err)
	}
	if len(result.Weeks) != 0 {
		t.Errorf("got %d windows, want 0", len(result.Weeks))
	}
}

// TestQueryGetWeeklyBreakdown_InvalidMonth verifies validation precedes fetching.
func TestQueryGetWeeklyBreakdown_InvalidMonth(t *testing.T) {
	store := &mockWeeklyBreakdownReportStore{err: errors.New("store should not be reached")}

	_, err := QueryGetWeeklyBreakdown(context.Background(),
		GetWeeklyBreakdownQuery{AccountID: "a1", Month: "13-1"},
		GetWeeklyBreakdownDeps{ReportStore: store})
	if !errors.Is(err, period.ErrInvalidMonth) {
		t.Errorf("error = %v, want ErrInvalidMonth", err)
	}
}
