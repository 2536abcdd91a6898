package projections

import (
	"context"
	"sync"
	"time"

	"studylog/internal/application/period"
	domainProgress "studylog/internal/domain/progress"
	domainReport "studylog/internal/domain/report"
)

// MonthlySummaryReportStore defines the report store interface needed by the monthly summary projection.
type MonthlySummaryReportStore interface {
	ListByAccountAndDateRange(ctx context.Context, accountID string, startDate string, endDate string) ([]domainReport.DailyReport, error)
}

// MonthlySummaryProgressStore defines the progress store interface needed by the monthly summary projection.
type MonthlySummaryProgressStore interface {
	GetSummaryCounts(ctx context.Context, accountID string) (domainProgress.SummaryCounts, error)
}

// GetMonthlySummaryQuery carries input for the monthly summary projection.
type GetMonthlySummaryQuery struct {
	AccountID string
	Month     string    // optional "YYYY-MM"; empty means the current UTC month
	Now       time.Time // optional: if zero, time.Now() is used
}

// GetMonthlySummaryResult carries the output of the monthly summary projection.
type GetMonthlySummaryResult struct {
	Year                  int
	Month                 int
	ReportCount           int
	TotalMinutes          int
	DaysRemaining         int
	CompletedSectionCount int
	TotalSectionCount     int
	PassedTestCount       int
	TotalTestCount        int
}

// GetMonthlySummaryDeps holds dependencies for the monthly summary projection.
type GetMonthlySummaryDeps struct {
	ReportStore   MonthlySummaryReportStore
	ProgressStore MonthlySummaryProgressStore
}

// QueryGetMonthlySummary combines one month of report totals with the
// caller's course-progress counts. The two fetches are independent and
// issued concurrently; the combination runs only after both succeed.
// PRE: query.AccountID is non-empty
// POST: Returns the combined summary, or the first fetch error with no partial result
func QueryGetMonthlySummary(ctx context.Context, query GetMonthlySummaryQuery, deps GetMonthlySummaryDeps) (GetMonthlySummaryResult, error) {
	m, err := period.ParseMonth(query.Month, query.Now)
	if err != nil {
		return GetMonthlySummaryResult{}, err
	}
	start, next := period.MonthBounds(m.Year, m.Month)

	var (
		wg          sync.WaitGroup
		reports     []domainReport.DailyReport
		reportsErr  error
		counts      domainProgress.SummaryCounts
		progressErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		reports, reportsErr = deps.ReportStore.ListByAccountAndDateRange(ctx, query.AccountID, start, next)
	}()
	go func() {
		defer wg.Done()
		counts, progressErr = deps.ProgressStore.GetSummaryCounts(ctx, query.AccountID)
	}()
	wg.Wait()

	if reportsErr != nil {
		return GetMonthlySummaryResult{}, reportsErr
	}
	if progressErr != nil {
		return GetMonthlySummaryResult{}, progressErr
	}

	totalMinutes := 0
	for _, r := range reports {
		totalMinutes += r.TotalMinutes
	}

	return GetMonthlySummaryResult{
		Year:                  m.Year,
		Month:                 m.Month,
		ReportCount:           len(reports),
		TotalMinutes:          totalMinutes,
		DaysRemaining:         period.DaysRemainingInMonth(m.Year, m.Month, query.Now),
		CompletedSectionCount: counts.CompletedSections,
		TotalSectionCount:     counts.TotalSections,
		PassedTestCount:       counts.PassedQuizzes,
		TotalTestCount:        counts.TotalQuizzes,
	}, nil
}
