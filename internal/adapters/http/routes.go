package web

import "net/http"

// registerRoutes attaches all application handlers to the mux. Auth and
// roles are checked inside the handlers so each one can pick the right
// denial response for its surface (redirect for pages, JSON for the API).
func registerRoutes(mux *http.ServeMux) {
	// Session auth
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/password", handleChangePassword)

	// Onboarding (registration wizard, steps 1-5)
	mux.HandleFunc("/register", handleRegisterEmailPage)
	mux.HandleFunc("/register/email", handleRegisterSubmitEmail)
	mux.HandleFunc("/register/resend", handleRegisterResend)
	mux.HandleFunc("/register/verify", handleRegisterVerify)
	mux.HandleFunc("/register/password", handleRegisterPassword)
	mux.HandleFunc("/register/complete", handleRegisterComplete)
	mux.HandleFunc("/register/done", handleRegisterDone)

	// Statistics
	mux.HandleFunc("/stats/category-share", handleGetCategoryShare)
	mux.HandleFunc("/stats/monthly-summary", handleGetMonthlySummary)
	mux.HandleFunc("/stats/weekly", handleGetWeeklyBreakdown)

	// Member surface
	mux.HandleFunc("/dashboard", handleGetDashboard)
	mux.HandleFunc("/courses", handleCourses)
	mux.HandleFunc("/courses/{id}", handleGetCourse)
	mux.HandleFunc("/sections/{id}", handleGetSection)
	mux.HandleFunc("/sections/{id}/complete", handleCompleteSection)
	mux.HandleFunc("/lessons/{id}/quiz", handleLessonQuiz)
	mux.HandleFunc("/reports", handleReports)
	mux.HandleFunc("/categories", handleCategories)

	// Admin / staff surface
	mux.HandleFunc("/admin/accounts", handleAdminAccounts)
	mux.HandleFunc("/admin/accounts/role", handleAdminAccountRole)
	mux.HandleFunc("/admin/accounts/disable", handleAdminAccountDisable)
	mux.HandleFunc("/admin/courses", handleAdminCourses)
	mux.HandleFunc("/admin/lessons", handleAdminLessons)
	mux.HandleFunc("/admin/sections", handleAdminSections)
	mux.HandleFunc("/admin/quizzes", handleAdminQuizzes)
	mux.HandleFunc("/admin/perf", handleAdminPerf)
}
