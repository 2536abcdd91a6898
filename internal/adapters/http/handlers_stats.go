package web

import (
	"net/http"

	"studylog/internal/application/projections"
)

// handleGetCategoryShare handles GET /stats/category-share?month=YYYY-MM
func handleGetCategoryShare(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireAccess(w, r)
	if !ok {
		return
	}

	query := projections.GetCategoryShareQuery{
		AccountID: sess.AccountID,
		Month:     r.URL.Query().Get("month"),
		Now:       timeNow(),
	}
	deps := projections.GetCategoryShareDeps{ReportStore: stores.ReportStore}

	result, err := projections.QueryGetCategoryShare(r.Context(), query, deps)
	if err != nil {
		statsMonthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"categories": result.Categories,
	})
}

// handleGetMonthlySummary handles GET /stats/monthly-summary?month=YYYY-MM
func handleGetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireAccess(w, r)
	if !ok {
		return
	}

	query := projections.GetMonthlySummaryQuery{
		AccountID: sess.AccountID,
		Month:     r.URL.Query().Get("month"),
		Now:       timeNow(),
	}
	deps := projections.GetMonthlySummaryDeps{
		ReportStore:   stores.ReportStore,
		ProgressStore: stores.ProgressStore,
	}

	result, err := projections.QueryGetMonthlySummary(r.Context(), query, deps)
	if err != nil {
		statsMonthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reportCount":           result.ReportCount,
		"totalMinutes":          result.TotalMinutes,
		"completedSectionCount": result.CompletedSectionCount,
		"totalSectionCount":     result.TotalSectionCount,
		"passedTestCount":       result.PassedTestCount,
		"totalTestCount":        result.TotalTestCount,
	})
}

// handleGetWeeklyBreakdown handles GET /stats/weekly?month=YYYY-MM
func handleGetWeeklyBreakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireAccess(w, r)
	if !ok {
		return
	}

	query := projections.GetWeeklyBreakdownQuery{
		AccountID: sess.AccountID,
		Month:     r.URL.Query().Get("month"),
		Now:       timeNow(),
	}
	deps := projections.GetWeeklyBreakdownDeps{ReportStore: stores.ReportStore}

	result, err := projections.QueryGetWeeklyBreakdown(r.Context(), query, deps)
	if err != nil {
		statsMonthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"weeks": result.Weeks,
	})
}

// handleGetDashboard handles GET /dashboard
func handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requirePageAuth(w, r)
	if !ok {
		return
	}

	query := projections.GetDashboardQuery{AccountID: sess.AccountID, Now: timeNow()}
	deps := projections.GetDashboardDeps{
		SummaryDeps: projections.GetMonthlySummaryDeps{
			ReportStore:   stores.ReportStore,
			ProgressStore: stores.ProgressStore,
		},
		ReportStore: stores.ReportStore,
		CourseStore: stores.CourseStore,
	}

	result, err := projections.QueryGetDashboard(r.Context(), query, deps)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
