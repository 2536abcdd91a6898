package web

import (
	"net/http"
	"time"

	accountStore "studylog/internal/adapters/storage/account"
	"studylog/internal/application/orchestrators"
	"studylog/internal/domain/account"
	"studylog/internal/domain/course"
)

// safeAccount is the account shape exposed to admins: no password hash,
// no lockout internals.
type safeAccount struct {
	ID                  string `json:"id"`
	Email               string `json:"email"`
	DisplayName         string `json:"displayName"`
	Role                string `json:"role"`
	LoginDisabled       bool   `json:"loginDisabled"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
}

func toSafeAccount(a account.Account) safeAccount {
	return safeAccount{
		ID:                  a.ID,
		Email:               a.Email,
		DisplayName:         a.DisplayName,
		Role:                a.Role,
		LoginDisabled:       a.LoginDisabled,
		OnboardingCompleted: a.OnboardingCompleted,
	}
}

// handleAdminAccounts handles GET (list) and POST (create) for /admin/accounts
func handleAdminAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		filter := accountStore.ListFilter{Limit: 1000}
		if role := r.URL.Query().Get("role"); role != "" {
			filter.Role = role
		}
		accounts, err := stores.AccountStore.List(ctx, filter)
		if err != nil {
			internalError(w, err)
			return
		}
		safe := make([]safeAccount, 0, len(accounts))
		for _, a := range accounts {
			safe = append(safe, toSafeAccount(a))
		}
		writeJSON(w, http.StatusOK, safe)
		return
	}

	if r.Method == "POST" {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var input struct {
			Email       string `json:"Email"`
			Password    string `json:"Password"`
			DisplayName string `json:"DisplayName"`
			Role        string `json:"Role"`
		}
		if err := strictDecode(r, &input); err != nil {
			jsonError(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		id, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
			Email:       input.Email,
			Password:    input.Password,
			DisplayName: input.DisplayName,
			Role:        input.Role,
		}, orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore})
		if err != nil {
			if err == orchestrators.ErrEmailAlreadyExists {
				jsonError(w, err.Error(), http.StatusConflict)
				return
			}
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{
			"id":    id,
			"email": input.Email,
			"role":  input.Role,
		})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleAdminAccountRole handles POST /admin/accounts/role
func handleAdminAccountRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	var input struct {
		AccountID string `json:"AccountID"`
		Role      string `json:"Role"`
	}
	if err := strictDecode(r, &input); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	acct, err := orchestrators.ExecuteUpdateAccount(r.Context(), orchestrators.UpdateAccountInput{
		AccountID: input.AccountID,
		ActorID:   sess.AccountID,
		Role:      input.Role,
	}, orchestrators.UpdateAccountDeps{AccountStore: stores.AccountStore})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, toSafeAccount(acct))
}

// handleAdminAccountDisable handles POST /admin/accounts/disable
func handleAdminAccountDisable(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	var input struct {
		AccountID string `json:"AccountID"`
		Disabled  bool   `json:"Disabled"`
	}
	if err := strictDecode(r, &input); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	acct, err := orchestrators.ExecuteUpdateAccount(r.Context(), orchestrators.UpdateAccountInput{
		AccountID:     input.AccountID,
		ActorID:       sess.AccountID,
		LoginDisabled: &input.Disabled,
	}, orchestrators.UpdateAccountDeps{AccountStore: stores.AccountStore})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, toSafeAccount(acct))
}

// handleAdminCourses handles GET (list all) and POST (create/update) for
// /admin/courses. Staff and admins may author.
func handleAdminCourses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		if _, ok := requireStaff(w, r); !ok {
			return
		}
		courses, err := stores.CourseStore.ListCourses(ctx, false)
		if err != nil {
			internalError(w, err)
			return
		}
		if courses == nil {
			courses = []course.Course{}
		}
		writeJSON(w, http.StatusOK, courses)
		return
	}

	if r.Method == "POST" {
		if _, ok := requireStaff(w, r); !ok {
			return
		}
		var input struct {
			CourseID    string `json:"CourseID"`
			Title       string `json:"Title"`
			Description string `json:"Description"`
			Position    int    `json:"Position"`
			Published   bool   `json:"Published"`
		}
		if err := strictDecode(r, &input); err != nil {
			jsonError(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		c, err := orchestrators.ExecuteAuthorCourse(ctx, orchestrators.AuthorCourseInput{
			CourseID:    input.CourseID,
			Title:       input.Title,
			Description: input.Description,
			Position:    input.Position,
			Published:   input.Published,
		}, authorDeps())
		if err != nil {
			if err == orchestrators.ErrCourseNotFound {
				jsonError(w, err.Error(), http.StatusNotFound)
				return
			}
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, c)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

func authorDeps() orchestrators.AuthorCourseDeps {
	return orchestrators.AuthorCourseDeps{
		CourseStore: stores.CourseStore,
		GenerateID:  generateID,
		Now:         timeNow,
	}
}

// handleAdminLessons handles POST /admin/lessons (create/update a lesson)
func handleAdminLessons(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var input struct {
		LessonID string `json:"LessonID"`
		CourseID string `json:"CourseID"`
		Title    string `json:"Title"`
		Position int    `json:"Position"`
	}
	if err := strictDecode(r, &input); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	lesson, err := orchestrators.ExecuteAuthorLesson(r.Context(), orchestrators.AuthorLessonInput{
		LessonID: input.LessonID,
		CourseID: input.CourseID,
		Title:    input.Title,
		Position: input.Position,
	}, authorDeps())
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, lesson)
}

// handleAdminSections handles POST /admin/sections (create/update a section)
func handleAdminSections(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var input struct {
		SectionID string `json:"SectionID"`
		LessonID  string `json:"LessonID"`
		Title     string `json:"Title"`
		Body      string `json:"Body"`
		Position  int    `json:"Position"`
	}
	if err := strictDecode(r, &input); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	sec, err := orchestrators.ExecuteAuthorSection(r.Context(), orchestrators.AuthorSectionInput{
		SectionID: input.SectionID,
		LessonID:  input.LessonID,
		Title:     input.Title,
		Body:      input.Body,
		Position:  input.Position,
	}, authorDeps())
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, sec)
}

// handleAdminQuizzes handles POST /admin/quizzes (create/replace a lesson's quiz)
func handleAdminQuizzes(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireStaff(w, r)
	if !ok {
		return
	}

	var input struct {
		LessonID    string `json:"LessonID"`
		Title       string `json:"Title"`
		PassPercent int    `json:"PassPercent"`
		Questions   []struct {
			Prompt       string   `json:"Prompt"`
			Choices      []string `json:"Choices"`
			CorrectIndex int      `json:"CorrectIndex"`
		} `json:"Questions"`
	}
	if err := strictDecode(r, &input); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	orchInput := orchestrators.AuthorQuizInput{
		LessonID:    input.LessonID,
		Title:       input.Title,
		PassPercent: input.PassPercent,
		CreatedBy:   sess.AccountID,
	}
	for _, q := range input.Questions {
		orchInput.Questions = append(orchInput.Questions, orchestrators.AuthorQuizQuestionInput{
			Prompt:       q.Prompt,
			Choices:      q.Choices,
			CorrectIndex: q.CorrectIndex,
		})
	}

	z, err := orchestrators.ExecuteAuthorQuiz(r.Context(), orchInput, orchestrators.AuthorQuizDeps{
		QuizStore:    stores.QuizStore,
		LessonLookup: stores.CourseStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, z)
}

// handleAdminPerf handles GET /admin/perf — the recent request/query
// timing snapshot. Admin only.
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	if perfCollector == nil {
		jsonError(w, "perf collection disabled", http.StatusNotFound)
		return
	}

	snapshot := perfCollector.Snapshot(timeNow().Add(-1*time.Hour), 20)
	writeJSON(w, http.StatusOK, snapshot)
}
