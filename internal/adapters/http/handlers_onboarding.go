package web

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"studylog/internal/adapters/http/middleware"
	"studylog/internal/application/orchestrators"
	"studylog/internal/domain/account"
	"studylog/internal/domain/onboarding"
)

// The app ships a handful of server-rendered pages (login and the five
// registration steps); everything else is JSON. The pages are small enough
// to keep as inline templates rather than a template directory.
const pageLayout = `<!DOCTYPE html>
<html lang="ja">
<head><meta charset="utf-8"><title>StudyLog</title></head>
<body>
<main>{{template "content" .}}</main>
</body>
</html>`

var pageBodies = map[string]string{
	"login": `{{define "content"}}
<h1>ログイン</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/login">
<input type="hidden" name="gorilla.csrf.Token" value="{{.CSRFToken}}">
<label>メールアドレス <input type="email" name="Email" required></label>
<label>パスワード <input type="password" name="Password" required></label>
<button type="submit">ログイン</button>
</form>
<p><a href="/register">新規登録</a></p>
{{end}}`,

	"register_email": `{{define "content"}}
<h1>アカウント登録</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/register/email">
<input type="hidden" name="gorilla.csrf.Token" value="{{.CSRFToken}}">
<label>メールアドレス <input type="email" name="Email" value="{{.Email}}" required></label>
<button type="submit">確認メールを送信</button>
</form>
{{end}}`,

	"register_verify": `{{define "content"}}
<h1>メールを確認してください</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<p>{{.Email}} 宛に確認メールを送信しました。メール内のリンクをクリックしてください。</p>
<form method="post" action="/register/resend">
<input type="hidden" name="gorilla.csrf.Token" value="{{.CSRFToken}}">
<button type="submit">確認メールを再送</button>
</form>
{{end}}`,

	"register_password": `{{define "content"}}
<h1>パスワードの設定</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/register/complete">
<input type="hidden" name="gorilla.csrf.Token" value="{{.CSRFToken}}">
<label>表示名 <input type="text" name="DisplayName" required></label>
<label>パスワード <input type="password" name="Password" required minlength="12"></label>
<button type="submit">登録を完了</button>
</form>
{{end}}`,

	"register_done": `{{define "content"}}
<h1>登録が完了しました</h1>
<p>StudyLogへようこそ。<a href="/dashboard">ダッシュボード</a>から学習記録を始められます。</p>
{{end}}`,
}

var pageTemplates = buildPageTemplates()

func buildPageTemplates() map[string]*template.Template {
	pages := make(map[string]*template.Template, len(pageBodies))
	for name, body := range pageBodies {
		pages[name] = template.Must(template.Must(template.New("layout").Parse(pageLayout)).Parse(body))
	}
	return pages
}

// renderPage renders one of the inline pages.
func renderPage(w http.ResponseWriter, name string, data any) {
	tpl, ok := pageTemplates[name]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
	}
}

// guardRegisterPage enforces the step rules before a registration page
// renders. For authenticated visitors the account's durable onboarding
// fields override the cookie: completed users have no business in the
// wizard and land on their usual page, unfinished ones belong on the done
// page. Anonymous visitors follow the cookie state machine.
// Returns the cookie state and whether the page may render.
func guardRegisterPage(w http.ResponseWriter, r *http.Request, page string) (onboarding.State, bool) {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		acct, err := stores.AccountStore.GetByID(r.Context(), sess.AccountID)
		if err != nil {
			internalError(w, err)
			return onboarding.State{}, false
		}
		if acct.OnboardingCompleted {
			http.Redirect(w, r, postLoginPath(acct.Role, true), http.StatusSeeOther)
			return onboarding.State{}, false
		}
		if page != onboarding.PathDone {
			http.Redirect(w, r, onboarding.PathDone, http.StatusSeeOther)
			return onboarding.State{}, false
		}
		return onboardingCookies.Read(r), true
	}

	state := onboardingCookies.Read(r)
	if redirect := onboarding.RedirectFor(state.Step, page); redirect != "" {
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return state, false
	}
	return state, true
}

// handleRegisterEmailPage handles GET /register (step 1)
func handleRegisterEmailPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	state, ok := guardRegisterPage(w, r, onboarding.PathEmail)
	if !ok {
		return
	}
	renderPage(w, "register_email", map[string]any{
		"CSRFToken": csrf.Token(r),
		"Email":     state.Email,
	})
}

// startRegistrationDeps assembles the shared send-mail dependency set.
func startRegistrationDeps() orchestrators.StartRegistrationDeps {
	return orchestrators.StartRegistrationDeps{
		AccountStore: stores.AccountStore,
		EmailLog:     stores.EmailLogStore,
		EmailSender:  emailSender,
		GenerateID:   generateID,
		Now:          timeNow,
		BaseURL:      baseURL,
	}
}

// handleRegisterSubmitEmail handles POST /register/email (step 1 -> 2)
func handleRegisterSubmitEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	state := onboardingCookies.Read(r)
	newState, err := orchestrators.ExecuteStartRegistration(r.Context(), orchestrators.StartRegistrationInput{
		Email: r.FormValue("Email"),
		State: state,
	}, startRegistrationDeps())
	if err != nil {
		if errors.Is(err, orchestrators.ErrResendThrottled) {
			// Already in the sent step; the verify page explains the wait.
			http.Redirect(w, r, onboarding.PathVerify, http.StatusSeeOther)
			return
		}
		renderPage(w, "register_email", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Email":     r.FormValue("Email"),
			"Error":     err.Error(),
		})
		return
	}

	onboardingCookies.Write(w, newState)
	http.Redirect(w, r, onboarding.PathVerify, http.StatusSeeOther)
}

// handleRegisterResend handles POST /register/resend (step 2, throttled)
func handleRegisterResend(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	state := onboardingCookies.Read(r)
	if state.Step < onboarding.StepSent || state.Email == "" {
		http.Redirect(w, r, onboarding.PathEmail, http.StatusSeeOther)
		return
	}

	newState, err := orchestrators.ExecuteStartRegistration(r.Context(), orchestrators.StartRegistrationInput{
		Email: state.Email,
		State: state,
	}, startRegistrationDeps())
	if err != nil {
		if errors.Is(err, orchestrators.ErrResendThrottled) {
			renderPage(w, "register_verify", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Email":     state.Email,
				"Error":     err.Error(),
			})
			return
		}
		internalError(w, err)
		return
	}

	onboardingCookies.Write(w, newState)
	http.Redirect(w, r, onboarding.PathVerify, http.StatusSeeOther)
}

// handleRegisterVerify handles GET /register/verify. Without a token it is
// the "check your inbox" page for steps 2-3; with ?token= it is the mailed
// verification link (step 2 -> 3).
func handleRegisterVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if token := r.URL.Query().Get("token"); token != "" {
		state := onboardingCookies.Read(r)
		newState, err := orchestrators.ExecuteVerifyEmail(r.Context(), orchestrators.VerifyEmailInput{
			Token: token,
			State: state,
		}, orchestrators.VerifyEmailDeps{
			AccountStore: stores.AccountStore,
			Now:          timeNow,
		})
		if err != nil {
			renderPage(w, "register_verify", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Email":     state.Email,
				"Error":     err.Error(),
			})
			return
		}
		onboardingCookies.Write(w, newState)
		http.Redirect(w, r, onboarding.PathPassword, http.StatusSeeOther)
		return
	}

	state, ok := guardRegisterPage(w, r, onboarding.PathVerify)
	if !ok {
		return
	}
	renderPage(w, "register_verify", map[string]any{
		"CSRFToken": csrf.Token(r),
		"Email":     state.Email,
	})
}

// handleRegisterPassword handles GET /register/password (step 4 form)
func handleRegisterPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := guardRegisterPage(w, r, onboarding.PathPassword); !ok {
		return
	}
	renderPage(w, "register_password", map[string]any{
		"CSRFToken": csrf.Token(r),
	})
}

// handleRegisterComplete handles POST /register/complete (step 4 -> 5).
// Creates the account, opens a session and moves to the done page.
func handleRegisterComplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	state := onboardingCookies.Read(r)
	result, err := orchestrators.ExecuteCompleteRegistration(r.Context(), orchestrators.CompleteRegistrationInput{
		State:       state,
		Password:    r.FormValue("Password"),
		DisplayName: strings.TrimSpace(r.FormValue("DisplayName")),
	}, orchestrators.CompleteRegistrationDeps{
		AccountStore: stores.AccountStore,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNotVerified) {
			http.Redirect(w, r, onboarding.PathForStep(state.Step), http.StatusSeeOther)
			return
		}
		renderPage(w, "register_password", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Error":     err.Error(),
		})
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	onboardingCookies.Write(w, result.State)
	http.Redirect(w, r, onboarding.PathDone, http.StatusSeeOther)
}

// handleRegisterDone handles GET /register/done (step 5). The first visit
// performs the durable completion write; the cookie has served its purpose
// and is cleared.
func handleRegisterDone(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		// A done-step cookie without a session means the session expired
		// after registration; the account already exists.
		state := onboardingCookies.Read(r)
		if redirect := onboarding.RedirectFor(state.Step, onboarding.PathDone); redirect != "" {
			http.Redirect(w, r, redirect, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	acct, err := stores.AccountStore.GetByID(r.Context(), sess.AccountID)
	if err != nil {
		internalError(w, err)
		return
	}
	if acct.OnboardingCompleted {
		http.Redirect(w, r, postLoginPath(acct.Role, true), http.StatusSeeOther)
		return
	}
	if acct.Role != account.RoleMember {
		http.Redirect(w, r, postLoginPath(acct.Role, false), http.StatusSeeOther)
		return
	}

	if err := orchestrators.ExecuteFinishOnboarding(r.Context(), sess.AccountID, orchestrators.FinishOnboardingDeps{
		AccountStore: stores.AccountStore,
	}); err != nil {
		internalError(w, err)
		return
	}
	onboardingCookies.Clear(w)

	renderPage(w, "register_done", map[string]any{
		"CSRFToken": csrf.Token(r),
	})
}
