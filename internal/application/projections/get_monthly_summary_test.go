package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"studylog/internal/application/period"
	domainProgress "studylog/internal/domain/progress"
	domainReport "studylog/internal/domain/report"
)

type mockMonthlySummaryReportStore struct {
	reports []domainReport.DailyReport
	err     error
}

// ListByAccountAndDateRange returns seeded reports within range.
// POST: Returns matching reports
func (m *mockMonthlySummaryReportStore) ListByAccountAndDateRange(_ context.Context, accountID string, startDate string, endDate string) ([]domainReport.DailyReport, error) {
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

type mockMonthlySummaryProgressStore struct {
	counts domainProgress.SummaryCounts
	err    error
}

// GetSummaryCounts returns the seeded aggregate row.
// POST: Returns the counts
func (m *mockMonthlySummaryProgressStore) GetSummaryCounts(_ context.Context, _ string) (domainProgress.SummaryCounts, error) {
	if m.err != nil {
		return domainProgress.SummaryCounts{}, m.err
	}
	return m.counts, nil
}

// TestQueryGetMonthlySummary_CombinesBothFetches verifies the report sum
// and progress counts land in one summary.
func TestQueryGetMonthlySummary_CombinesBothFetches(t *testing.T) {
	reportStore := &mockMonthlySummaryReportStore{
		reports: []domainReport.DailyReport{
			{ID: "r1", AccountID: "a1", Date: "2026-02-03", TotalMinutes: 120},
			{ID: "r2", AccountID: "a1", Date: "2026-02-10", TotalMinutes: 45},
			{ID: "r3", AccountID: "other", Date: "2026-02-10", TotalMinutes: 999},
		},
	}
	progressStore := &mockMonthlySummaryProgressStore{
		counts: domainProgress.SummaryCounts{
			CompletedSections: 3,
			TotalSections:     10,
			PassedQuizzes:     2,
			TotalQuizzes:      4,
		},
	}

	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	result, err := QueryGetMonthlySummary(context.Background(),
		GetMonthlySummaryQuery{AccountID: "a1", Month: "2026-02", Now: now},
		GetMonthlySummaryDeps{ReportStore: reportStore, ProgressStore: progressStore})
	if err != nil {
		t.Fatalf("QueryGetMonthlySummary() error = %v", err)
	}

	if result.ReportCount != 2 {
		t.Errorf("ReportCount = %d, want 2", result.ReportCount)
	}
	if result.TotalMinutes != 165 {
		t.Errorf("TotalMinutes = %d, want 165", result.TotalMinutes)
	}
	if result.DaysRemaining != 19 {
		t.Errorf("DaysRemaining = %d, want 19", result.DaysRemaining)
	}
	if result.CompletedSectionCount != 3 || result.TotalSectionCount != 10 {
		t.Errorf("sections = %d/%d, want 3/10", result.CompletedSectionCount, result.TotalSectionCount)
	}
	if result.PassedTestCount != 2 || result.TotalTestCount != 4 {
		t.Errorf("tests = %d/%d, want 2/4", result.PassedTestCount, result.TotalTestCount)
	}
}

// TestQueryGetMonthlySummary_EitherFailureAborts verifies a failure in
// either concurrent fetch aborts with no partial result.
func TestQueryGetMonthlySummary_EitherFailureAborts(t *testing.T) {
	reportErr := errors.New("report fetch failed")
	progressErr := errors.New("progress fetch failed")

	tests := []struct {
		name          string
		reportStore   *mockMonthlySummaryReportStore
		progressStore *mockMonthlySummaryProgressStore
		wantErr       error
	}{
		{
			name:          "report store fails",
			reportStore:   &mockMonthlySummaryReportStore{err: reportErr},
			progressStore: &mockMonthlySummaryProgressStore{counts: domainProgress.SummaryCounts{TotalSections: 5}},
			wantErr:       reportErr,
		},
		{
			name: "progress store fails",
			reportStore: &mockMonthlySummaryReportStore{
				reports: []domainReport.DailyReport{{ID: "r1", AccountID: "a1", Date: "2026-02-01", TotalMinutes: 60}},
			},
			progressStore: &mockMonthlySummaryProgressStore{err: progressErr},
			wantErr:       progressErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := QueryGetMonthlySummary(context.Background(),
				GetMonthlySummaryQuery{AccountID: "a1", Month: "2026-02"},
				GetMonthlySummaryDeps{ReportStore: tt.reportStore, ProgressStore: tt.progressStore})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if result != (GetMonthlySummaryResult{}) {
				t.Errorf("result = %+v, want zero value on failure", result)
			}
		})
	}
}

// TestQueryGetMonthlySummary_InvalidMonth verifies validation precedes fetching.
func TestQueryGetMonthlySummary_InvalidMonth(t *testing.T) {
	_, err := QueryGetMonthlySummary(context.Background(),
		GetMonthlySummaryQuery{AccountID: "a1", Month: "2026-00"},
		GetMonthlySummaryDeps{
			ReportStore:   &mockMonthlySummaryReportStore{err: errors.New("store should not be reached")},
			ProgressStore: &mockMonthlySummaryProgressStore{err: errors.New("store should not be reached")},
		})
	if !errors.Is(err, period.ErrInvalidMonth) {
		t.Errorf("error = %v, want ErrInvalidMonth", err)
	}
}

// TestQueryGetMonthlySummary_EmptyMonthDefaultsToCurrent verifies an absent
// month parameter resolves to now's UTC month.
func TestQueryGetMonthlySummary_EmptyMonthDefaultsToCurrent(t *testing.T) {
	reportStore := &mockMonthlySummaryReportStore{
		reports: []domainReport.DailyReport{
			{ID: "r1", AccountID: "a1", Date: "2026-03-05", TotalMinutes: 30},
		},
	}
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	result, err := QueryGetMonthlySummary(context.Background(),
		GetMonthlySummaryQuery{AccountID: "a1", Now: now},
		GetMonthlySummaryDeps{ReportStore: reportStore, ProgressStore: &mockMonthlySummaryProgressStore{}})
	if err != nil {
		t.Fatalf("QueryGetMonthlySummary() error = %v", err)
	}
	if result.Year != 2026 || result.Month != 3 {
		t.Errorf("period = %d-%d, want 2026-3", result.Year, result.Month)
	}
	if result.ReportCount != 1 || result.TotalMinutes != 30 {
		t.Errorf("totals = %d reports / %d min, want 1 / 30", result.ReportCount, result.TotalMinutes)
	}
}
