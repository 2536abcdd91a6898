package web

import (
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"studylog/internal/adapters/http/middleware"
	"studylog/internal/application/orchestrators"
	"studylog/internal/domain/account"
)

// postLoginPath picks where a fresh session lands: members with unfinished
// onboarding go to the done page for the durable completion write, staff
// and admins to the admin surface, everyone else to the dashboard.
func postLoginPath(role string, onboardingCompleted bool) string {
	if !onboardingCompleted && role == account.RoleMember {
		return "/register/done"
	}
	if role == account.RoleStaff || role == account.RoleAdmin {
		return "/admin/accounts"
	}
	return "/dashboard"
}

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		// If already logged in, continue to the landing page
		if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
			acct, err := stores.AccountStore.GetByID(r.Context(), sess.AccountID)
			if err != nil {
				internalError(w, err)
				return
			}
			http.Redirect(w, r, postLoginPath(acct.Role, acct.OnboardingCompleted), http.StatusSeeOther)
			return
		}
		renderPage(w, "login", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		input := orchestrators.LoginInput{}
		isForm := strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")

		if isForm {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.Email = r.FormValue("Email")
			input.Password = r.FormValue("Password")
		} else {
			if err := strictDecode(r, &input); err != nil {
				jsonError(w, "invalid JSON", http.StatusBadRequest)
				return
			}
		}

		deps := orchestrators.LoginDeps{AccountStore: stores.AccountStore}

		result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
		if err != nil {
			if isForm || isHTMLRequest(r) {
				renderPage(w, "login", map[string]any{
					"CSRFToken": csrf.Token(r),
					"Error":     err.Error(),
				})
				return
			}
			jsonError(w, err.Error(), http.StatusUnauthorized)
			return
		}

		token, err := sessions.Create(result.AccountID, result.Email, result.Role)
		if err != nil {
			internalError(w, err)
			return
		}
		middleware.SetSessionCookie(w, token)

		if isForm || isHTMLRequest(r) {
			http.Redirect(w, r, postLoginPath(result.Role, result.OnboardingCompleted), http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"accountId":           result.AccountID,
			"email":               result.Email,
			"role":                result.Role,
			"onboardingCompleted": result.OnboardingCompleted,
		})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	cookie, err := r.Cookie("studylog_session")
	if err == nil {
		sessions.Delete(cookie.Value)
	}

	middleware.ClearSessionCookie(w)
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleChangePassword handles POST /password
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireAccess(w, r)
	if !ok {
		return
	}

	var input struct {
		CurrentPassword string `json:"CurrentPassword"`
		NewPassword     string `json:"NewPassword"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.CurrentPassword = r.FormValue("CurrentPassword")
		input.NewPassword = r.FormValue("NewPassword")
	} else {
		if err := strictDecode(r, &input); err != nil {
			jsonError(w, "invalid JSON", http.StatusBadRequest)
			return
		}
	}

	deps := orchestrators.ChangePasswordDeps{AccountStore: stores.AccountStore}
	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	}, deps)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
