package projections

import (
	"context"
	"sort"
	"time"

	domainCourse "studylog/internal/domain/course"
	domainReport "studylog/internal/domain/report"
)

// DashboardCourseStore defines the course store interface needed by the dashboard projection.
type DashboardCourseStore interface {
	ListCourses(ctx context.Context, publishedOnly bool) ([]domainCourse.Course, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	AccountID string
	Now       time.Time // optional: if zero, time.Now() is used
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	SummaryDeps GetMonthlySummaryDeps
	ReportStore CategoryShareReportStore
	CourseStore DashboardCourseStore
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Summary       GetMonthlySummaryResult
	RecentReports []domainReport.DailyReport
	Courses       []domainCourse.Course
	HasToday      bool // a report exists for today's UTC date
}

// recentReportLimit caps the dashboard's report history.
const recentReportLimit = 7

// QueryGetDashboard aggregates the member dashboard: the current month's
// summary, the latest reports, and the published course list.
// PRE: query.AccountID is non-empty
// POST: RecentReports holds at most recentReportLimit rows, newest first
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}

	summary, err := QueryGetMonthlySummary(ctx,
		GetMonthlySummaryQuery{AccountID: query.AccountID, Now: now},
		deps.SummaryDeps)
	if err != nil {
		return DashboardResult{}, err
	}

	// Pull the current month's reports for the history strip.
	utc := now.UTC()
	start := time.Date(utc.Year(), utc.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := start.AddDate(0, 1, 0)
	reports, err := deps.ReportStore.ListByAccountAndDateRange(ctx, query.AccountID,
		start.Format(domainReport.DateLayout), next.Format(domainReport.DateLayout))
	if err != nil {
		return DashboardResult{}, err
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Date > reports[j].Date })

	today := utc.Format(domainReport.DateLayout)
	hasToday := false
	for _, r := range reports {
		if r.Date == today {
			hasToday = true
			break
		}
	}
	if len(reports) > recentReportLimit {
		reports = reports[:recentReportLimit]
	}

	courses, err := deps.CourseStore.ListCourses(ctx, true)
	if err != nil {
		return DashboardResult{}, err
	}

	return DashboardResult{
		Summary:       summary,
		RecentReports: reports,
		Courses:       courses,
		HasToday:      hasToday,
	}, nil
}
