package projections

import (
	"context"
	"errors"

	domainCourse "studylog/internal/domain/course"
	domainQuiz "studylog/internal/domain/quiz"
)

// CourseOverviewCourseStore defines the course store interface needed by the course overview projection.
type CourseOverviewCourseStore interface {
	GetCourse(ctx context.Context, id string) (domainCourse.Course, error)
	ListLessonsByCourse(ctx context.Context, courseID string) ([]domainCourse.Lesson, error)
	ListSectionsByLesson(ctx context.Context, lessonID string) ([]domainCourse.Section, error)
}

// CourseOverviewQuizStore defines the quiz store interface needed by the course overview projection.
type CourseOverviewQuizStore interface {
	GetByLessonID(ctx context.Context, lessonID string) (domainQuiz.Quiz, error)
	ListAttemptsByAccountAndQuiz(ctx context.Context, accountID, quizID string) ([]domainQuiz.Attempt, error)
}

// CourseOverviewProgressStore defines the progress store interface needed by the course overview projection.
type CourseOverviewProgressStore interface {
	ListCompletedSectionIDs(ctx context.Context, accountID string) ([]string, error)
}

// ErrCourseNotVisible is returned when a member requests an unpublished course.
var ErrCourseNotVisible = errors.New("course is not published")

// GetCourseOverviewQuery carries input for the course overview projection.
type GetCourseOverviewQuery struct {
	CourseID  string
	AccountID string
	Staff     bool // staff and admins see unpublished courses
}

// GetCourseOverviewDeps holds dependencies for the course overview projection.
type GetCourseOverviewDeps struct {
	CourseStore   CourseOverviewCourseStore
	QuizStore     CourseOverviewQuizStore
	ProgressStore CourseOverviewProgressStore
}

// CourseOverviewResult carries the output of the course overview projection.
type CourseOverviewResult struct {
	CourseID    string               `json:"course_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Published   bool                 `json:"published"`
	Lessons     []CourseLessonView   `json:"lessons"`
}

// CourseLessonView represents one lesson with its sections and quiz state.
type CourseLessonView struct {
	LessonID   string              `json:"lesson_id"`
	Title      string              `json:"title"`
	Position   int                 `json:"position"`
	Sections   []CourseSectionView `json:"sections"`
	HasQuiz    bool                `json:"has_quiz"`
	QuizID     string              `json:"quiz_id,omitempty"`
	QuizPassed bool                `json:"quiz_passed"`
}

// CourseSectionView represents one section's completion state for the viewer.
type CourseSectionView struct {
	SectionID string `json:"section_id"`
	Title     string `json:"title"`
	Position  int    `json:"position"`
	Completed bool   `json:"completed"`
}

// QueryGetCourseOverview assembles one course's lesson/section tree with the
// viewer's completion and quiz-pass state.
// PRE: query.CourseID and query.AccountID are non-empty
// POST: Returns the overview, or ErrCourseNotVisible for an unpublished course
// requested by a non-staff viewer
func QueryGetCourseOverview(ctx context.Context, query GetCourseOverviewQuery, deps GetCourseOverviewDeps) (CourseOverviewResult, error) {
	course, err := deps.CourseStore.GetCourse(ctx, query.CourseID)
	if err != nil {
		return CourseOverviewResult{}, err
	}
	if !course.Published && !query.Staff {
		return CourseOverviewResult{}, ErrCourseNotVisible
	}

	completedIDs, err := deps.ProgressStore.ListCompletedSectionIDs(ctx, query.AccountID)
	if err != nil {
		return CourseOverviewResult{}, err
	}
	completed := make(map[string]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	result := CourseOverviewResult{
		CourseID:    course.ID,
		Title:       course.Title,
		Description: course.Description,
		Published:   course.Published,
		Lessons:     []CourseLessonView{},
	}

	lessons, err := deps.CourseStore.ListLessonsByCourse(ctx, course.ID)
	if err != nil {
		return CourseOverviewResult{}, err
	}

	for _, l := range lessons {
		lv := CourseLessonView{
			LessonID: l.ID,
			Title:    l.Title,
			Position: l.Position,
			Sections: []CourseSectionView{},
		}

		sections, err := deps.CourseStore.ListSectionsByLesson(ctx, l.ID)
		if err != nil {
			return CourseOverviewResult{}, err
		}
		for _, s := range sections {
			lv.Sections = append(lv.Sections, CourseSectionView{
				SectionID: s.ID,
				Title:     s.Title,
				Position:  s.Position,
				Completed: completed[s.ID],
			})
		}

		// A lesson has at most one quiz; absence is not an error.
		q, err := deps.QuizStore.GetByLessonID(ctx, l.ID)
		if err == nil {
			lv.HasQuiz = true
			lv.QuizID = q.ID
			attempts, err := deps.QuizStore.ListAttemptsByAccountAndQuiz(ctx, query.AccountID, q.ID)
			if err != nil {
				return CourseOverviewResult{}, err
			}
			for _, a := range attempts {
				if a.Passed {
					lv.QuizPassed = true
					break
				}
			}
		}

		result.Lessons = append(result.Lessons, lv)
	}

	return result, nil
}
