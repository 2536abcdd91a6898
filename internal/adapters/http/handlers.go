package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"studylog/internal/adapters/http/middleware"
	"studylog/internal/application/period"
	"studylog/internal/domain/account"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts a markdown body to sanitized HTML.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	jsonError(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// jsonError writes the error body shape shared by the whole API.
func jsonError(w http.ResponseWriter, code string, status int) {
	writeJSON(w, status, map[string]string{"error": code})
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

// statsMonthError maps a projection failure on the stats endpoints: a
// malformed month is the caller's fault, everything else is a store failure.
func statsMonthError(w http.ResponseWriter, err error) {
	if err == period.ErrInvalidMonth {
		jsonError(w, "invalid_month", http.StatusBadRequest)
		return
	}
	internalError(w, err)
}

// requireAccess runs the role check and translates a denial into the API's
// 401/403 responses. Returns false if the request should not proceed.
func requireAccess(w http.ResponseWriter, r *http.Request, roles ...string) (middleware.Session, bool) {
	access := middleware.Check(r.Context(), roles...)
	if access.Allowed {
		return access.Session, true
	}
	switch access.Reason {
	case middleware.DenyUnauthenticated:
		slog.Warn("auth_denied", "path", r.URL.Path, "reason", "no session")
		jsonError(w, "not authenticated", http.StatusUnauthorized)
	default:
		slog.Warn("auth_denied", "path", r.URL.Path, "account_id", access.Session.AccountID,
			"role", access.Session.Role, "required", strings.Join(roles, ","))
		jsonError(w, "forbidden", http.StatusForbidden)
	}
	return middleware.Session{}, false
}

// requirePageAuth authenticates a page request. Browsers are redirected to
// the login page; API callers get the usual 401.
func requirePageAuth(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	access := middleware.Check(r.Context())
	if access.Allowed {
		return access.Session, true
	}
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return middleware.Session{}, false
	}
	jsonError(w, "not authenticated", http.StatusUnauthorized)
	return middleware.Session{}, false
}

// requireAdmin checks the session for admin role.
func requireAdmin(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	return requireAccess(w, r, account.RoleAdmin)
}

// requireStaff checks the session for staff or admin role.
func requireStaff(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	return requireAccess(w, r, account.RoleStaff, account.RoleAdmin)
}
