package web

import (
	"net/http"

	"studylog/internal/adapters/http/middleware"
	"studylog/internal/application/orchestrators"
	"studylog/internal/application/projections"
	"studylog/internal/domain/course"
	"studylog/internal/domain/quiz"
)

// handleCourses handles GET /courses. Members see published courses only;
// staff and admins see everything.
func handleCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAccess(w, r); !ok {
		return
	}

	publishedOnly := !middleware.IsStaffOrAdmin(r.Context())
	courses, err := stores.CourseStore.ListCourses(r.Context(), publishedOnly)
	if err != nil {
		internalError(w, err)
		return
	}
	if courses == nil {
		courses = []course.Course{}
	}
	writeJSON(w, http.StatusOK, courses)
}

// handleGetCourse handles GET /courses/{id}
func handleGetCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireAccess(w, r)
	if !ok {
		return
	}

	query := projections.GetCourseOverviewQuery{
		CourseID:  r.PathValue("id"),
		AccountID: sess.AccountID,
		Staff:     middleware.IsStaffOrAdmin(r.Context()),
	}
	deps := projections.GetCourseOverviewDeps{
		CourseStore:   stores.CourseStore,
		QuizStore:     stores.QuizStore,
		ProgressStore: stores.ProgressStore,
	}

	result, err := projections.QueryGetCourseOverview(r.Context(), query, deps)
	if err != nil {
		if err == projections.ErrCourseNotVisible {
			jsonError(w, "not found", http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// sectionForViewer loads a section and enforces course visibility for the
// caller. Unpublished content reads as not-found for members.
func sectionForViewer(w http.ResponseWriter, r *http.Request, id string) (course.Section, bool) {
	sec, err := stores.CourseStore.GetSection(r.Context(), id)
	if err != nil {
		jsonError(w, "not found", http.StatusNotFound)
		return course.Section{}, false
	}
	if !middleware.IsStaffOrAdmin(r.Context()) {
		lesson, err := stores.CourseStore.GetLesson(r.Context(), sec.LessonID)
		if err != nil {
			internalError(w, err)
			return course.Section{}, false
		}
		c, err := stores.CourseStore.GetCourse(r.Context(), lesson.CourseID)
		if err != nil {
			internalError(w, err)
			return course.Section{}, false
		}
		if !c.Published {
			jsonError(w, "not found", http.StatusNotFound)
			return course.Section{}, false
		}
	}
	return sec, true
}

// handleGetSection handles GET /sections/{id} with the markdown body
// rendered to HTML.
func handleGetSection(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAccess(w, r); !ok {
		return
	}

	sec, ok := sectionForViewer(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sectionId": sec.ID,
		"lessonId":  sec.LessonID,
		"title":     sec.Title,
		"position":  sec.Position,
		"html":      string(renderMarkdown(sec.Body)),
	})
}

// handleCompleteSection handles POST /sections/{id}/complete
func handleCompleteSection(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireAccess(w, r)
	if !ok {
		return
	}
	if _, ok := sectionForViewer(w, r, r.PathValue("id")); !ok {
		return
	}

	err := orchestrators.ExecuteCompleteSection(r.Context(), orchestrators.CompleteSectionInput{
		SectionID: r.PathValue("id"),
		AccountID: sess.AccountID,
	}, orchestrators.CompleteSectionDeps{
		ProgressStore: stores.ProgressStore,
		CourseStore:   stores.CourseStore,
		GenerateID:    generateID,
		Now:           timeNow,
	})
	if err != nil {
		if err == orchestrators.ErrSectionNotFound {
			jsonError(w, err.Error(), http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleLessonQuiz handles GET (fetch questions) and POST (submit answers)
// for /lessons/{id}/quiz
func handleLessonQuiz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lessonID := r.PathValue("id")

	if r.Method == "GET" {
		if _, ok := requireAccess(w, r); !ok {
			return
		}
		z, err := stores.QuizStore.GetByLessonID(ctx, lessonID)
		if err != nil {
			jsonError(w, "this lesson has no quiz", http.StatusNotFound)
			return
		}
		questions, err := stores.QuizStore.ListQuestions(ctx, z.ID)
		if err != nil {
			internalError(w, err)
			return
		}

		// Correct answers never leave the server on the read path.
		type questionView struct {
			Prompt   string   `json:"prompt"`
			Choices  []string `json:"choices"`
			Position int      `json:"position"`
		}
		views := make([]questionView, 0, len(questions))
		for _, q := range questions {
			views = append(views, questionView{Prompt: q.Prompt, Choices: q.Choices, Position: q.Position})
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"quizId":      z.ID,
			"title":       z.Title,
			"passPercent": z.PassPercent,
			"questions":   views,
		})
		return
	}

	if r.Method == "POST" {
		sess, ok := requireAccess(w, r)
		if !ok {
			return
		}
		var input struct {
			Answers []int `json:"Answers"`
		}
		if err := strictDecode(r, &input); err != nil {
			jsonError(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		attempt, err := orchestrators.ExecuteSubmitAttempt(ctx, orchestrators.SubmitAttemptInput{
			LessonID:  lessonID,
			AccountID: sess.AccountID,
			Answers:   input.Answers,
		}, orchestrators.SubmitAttemptDeps{
			QuizStore:  stores.QuizStore,
			GenerateID: generateID,
			Now:        timeNow,
		})
		if err != nil {
			switch err {
			case orchestrators.ErrQuizNotFound:
				jsonError(w, err.Error(), http.StatusNotFound)
			case quiz.ErrAnswerCountWrong:
				jsonError(w, err.Error(), http.StatusBadRequest)
			default:
				internalError(w, err)
			}
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"score":  attempt.Score,
			"total":  attempt.Total,
			"passed": attempt.Passed,
		})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}
