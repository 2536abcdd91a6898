package projections

import (
	"context"
	"errors"
	"testing"

	domainCourse "studylog/internal/domain/course"
	domainQuiz "studylog/internal/domain/quiz"
)

type mockCourseOverviewCourseStore struct {
	course   domainCourse.Course
	lessons  []domainCourse.Lesson
	sections map[string][]domainCourse.Section
}

func (m *mockCourseOverviewCourseStore) GetCourse(_ context.Context, id string) (domainCourse.Course, error) {
	if m.course.ID != id {
		return domainCourse.Course{}, errors.New("course not found")
	}
	return m.course, nil
}

func (m *mockCourseOverviewCourseStore) ListLessonsByCourse(_ context.Context, _ string) ([]domainCourse.Lesson, error) {
	return m.lessons, nil
}

func (m *mockCourseOverviewCourseStore) ListSectionsByLesson(_ context.Context, lessonID string) ([]domainCourse.Section, error) {
	return m.sections[lessonID], nil
}

type mockCourseOverviewQuizStore struct {
	quizzes  map[string]domainQuiz.Quiz // by lesson ID
	attempts []domainQuiz.Attempt
}

func (m *mockCourseOverviewQuizStore) GetByLessonID(_ context.Context, lessonID string) (domainQuiz.Quiz, error) {
	q, ok := m.quizzes[lessonID]
	if !ok {
		return domainQuiz.Quiz{}, errors.New("quiz not found")
	}
	return q, nil
}

func (m *mockCourseOverviewQuizStore) ListAttemptsByAccountAndQuiz(_ context.Context, accountID, quizID string) ([]domainQuiz.Attempt, error) {
	var out []domainQuiz.Attempt
	for _, a := range m.attempts {
		if a.AccountID == accountID && a.QuizID == quizID {
			out = append(out, a)
		}
	}
	return out, nil
}

type mockCourseOverviewProgressStore struct {
	completed []string
}

func (m *mockCourseOverviewProgressStore) ListCompletedSectionIDs(_ context.Context, _ string) ([]string, error) {
	return m.completed, nil
}

// TestQueryGetCourseOverview_CompletionAndQuizState verifies the lesson tree
// carries the viewer's completion flags and quiz pass state.
func TestQueryGetCourseOverview_CompletionAndQuizState(t *testing.T) {
	courseStore := &mockCourseOverviewCourseStore{
		course: domainCourse.Course{ID: "c1", Title: "Go Basics", Published: true},
		lessons: []domainCourse.Lesson{
			{ID: "l1", CourseID: "c1", Title: "Syntax", Position: 0},
			{ID: "l2", CourseID: "c1", Title: "Types", Position: 1},
		},
		sections: map[string][]domainCourse.Section{
			"l1": {{ID: "s1", LessonID: "l1", Title: "Intro", Position: 0}, {ID: "s2", LessonID: "l1", Title: "Vars", Position: 1}},
			"l2": {{ID: "s3", LessonID: "l2", Title: "Structs", Position: 0}},
		},
	}
	quizStore := &mockCourseOverviewQuizStore{
		quizzes: map[string]domainQuiz.Quiz{
			"l1": {ID: "q1", LessonID: "l1"},
		},
		attempts: []domainQuiz.Attempt{
			{ID: "at1", QuizID: "q1", AccountID: "a1", Score: 2, Total: 5, Passed: false},
			{ID: "at2", QuizID: "q1", AccountID: "a1", Score: 5, Total: 5, Passed: true},
		},
	}
	progressStore := &mockCourseOverviewProgressStore{completed: []string{"s1"}}

	result, err := QueryGetCourseOverview(context.Background(),
		GetCourseOverviewQuery{CourseID: "c1", AccountID: "a1"},
		GetCourseOverviewDeps{CourseStore: courseStore, QuizStore: quizStore, ProgressStore: progressStore})
	if err != nil {
		t.Fatalf("QueryGetCourseOverview() error = %v", err)
	}

	if len(result.Lessons) != 2 {
		t.Fatalf("got %d lessons, want 2", len(result.Lessons))
	}
	l1 := result.Lessons[0]
	if !l1.HasQuiz || l1.QuizID != "q1" || !l1.QuizPassed {
		t.Errorf("lesson[0] quiz state = %+v, want passed quiz q1", l1)
	}
	if !l1.Sections[0].Completed || l1.Sections[1].Completed {
		t.Errorf("lesson[0] completions = %+v, want only s1 completed", l1.Sections)
	}
	l2 := result.Lessons[1]
	if l2.HasQuiz || l2.QuizPassed {
		t.Errorf("lesson[1] should have no quiz: %+v", l2)
	}
}

// TestQueryGetCourseOverview_UnpublishedVisibility verifies only staff see
// unpublished courses.
func TestQueryGetCourseOverview_UnpublishedVisibility(t *testing.T) {
	courseStore := &mockCourseOverviewCourseStore{
		course: domainCourse.Course{ID: "c1", Title: "Draft", Published: false},
	}
	deps := GetCourseOverviewDeps{
		CourseStore:   courseStore,
		QuizStore:     &mockCourseOverviewQuizStore{},
		ProgressStore: &mockCourseOverviewProgressStore{},
	}

	_, err := QueryGetCourseOverview(context.Background(),
		GetCourseOverviewQuery{CourseID: "c1", AccountID: "a1"}, deps)
	if !errors.Is(err, ErrCourseNotVisible) {
		t.Errorf("member error = %v, want ErrCourseNotVisible", err)
	}

	result, err := QueryGetCourseOverview(context.Background(),
		GetCourseOverviewQuery{CourseID: "c1", AccountID: "a1", Staff: true}, deps)
	if err != nil {
		t.Fatalf("staff view error = %v", err)
	}
	if result.Title != "Draft" {
		t.Errorf("staff view Title = %q, want Draft", result.Title)
	}
}
