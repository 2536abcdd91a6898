package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	courseDomain "studylog/internal/domain/course"
)

// CourseStoreForAuthor defines the store interface needed by the course authoring orchestrators.
type CourseStoreForAuthor interface {
	GetCourse(ctx context.Context, id string) (courseDomain.Course, error)
	SaveCourse(ctx context.Context, c courseDomain.Course) error
	GetLesson(ctx context.Context, id string) (courseDomain.Lesson, error)
	SaveLesson(ctx context.Context, l courseDomain.Lesson) error
	GetSection(ctx context.Context, id string) (courseDomain.Section, error)
	SaveSection(ctx context.Context, s courseDomain.Section) error
}

// AuthorCourseInput carries input for creating or updating a course.
type AuthorCourseInput struct {
	CourseID    string // empty to create
	Title       string
	Description string
	Position    int
	Published   bool
}

// AuthorCourseDeps holds dependencies for the course authoring orchestrators.
type AuthorCourseDeps struct {
	CourseStore CourseStoreForAuthor
	GenerateID  func() string
	Now         func() time.Time
}

var ErrCourseNotFound = errors.New("course not found")

// ExecuteAuthorCourse creates or updates a course.
// PRE: Title is non-empty; caller's role has been checked by the handler
// POST: Course saved
func ExecuteAuthorCourse(ctx context.Context, input AuthorCourseInput, deps AuthorCourseDeps) (courseDomain.Course, error) {
	c := courseDomain.Course{
		ID:          input.CourseID,
		Title:       input.Title,
		Description: input.Description,
		Position:    input.Position,
		Published:   input.Published,
		CreatedAt:   deps.Now(),
	}
	if c.ID == "" {
		c.ID = deps.GenerateID()
	} else {
		existing, err := deps.CourseStore.GetCourse(ctx, c.ID)
		if err != nil {
			return courseDomain.Course{}, ErrCourseNotFound
		}
		c.CreatedAt = existing.CreatedAt
	}

	if err := c.Validate(); err != nil {
		return courseDomain.Course{}, err
	}
	if err := deps.CourseStore.SaveCourse(ctx, c); err != nil {
		return courseDomain.Course{}, err
	}

	slog.Info("course_event", "event", "course_saved", "course_id", c.ID, "published", c.Published)
	return c, nil
}

// AuthorLessonInput carries input for creating or updating a lesson.
type AuthorLessonInput struct {
	LessonID string // empty to create
	CourseID string
	Title    string
	Position int
}

// ExecuteAuthorLesson creates or updates a lesson within a course.
// PRE: CourseID names an existing course
// POST: Lesson saved
func ExecuteAuthorLesson(ctx context.Context, input AuthorLessonInput, deps AuthorCourseDeps) (courseDomain.Lesson, error) {
	if _, err := deps.CourseStore.GetCourse(ctx, input.CourseID); err != nil {
		return courseDomain.Lesson{}, ErrCourseNotFound
	}

	l := courseDomain.Lesson{
		ID:       input.LessonID,
		CourseID: input.CourseID,
		Title:    input.Title,
		Position: input.Position,
	}
	if l.ID == "" {
		l.ID = deps.GenerateID()
	}

	if err := l.Validate(); err != nil {
		return courseDomain.Lesson{}, err
	}
	if err := deps.CourseStore.SaveLesson(ctx, l); err != nil {
		return courseDomain.Lesson{}, err
	}

	slog.Info("course_event", "event", "lesson_saved", "course_id", input.CourseID, "lesson_id", l.ID)
	return l, nil
}

// AuthorSectionInput carries input for creating or updating a section.
type AuthorSectionInput struct {
	SectionID string // empty to create
	LessonID  string
	Title     string
	Body      string // markdown
	Position  int
}

// ExecuteAuthorSection creates or updates a section within a lesson.
// PRE: LessonID names an existing lesson
// POST: Section saved with its markdown body
func ExecuteAuthorSection(ctx context.Context, input AuthorSectionInput, deps AuthorCourseDeps) (courseDomain.Section, error) {
	if _, err := deps.CourseStore.GetLesson(ctx, input.LessonID); err != nil {
		return courseDomain.Section{}, errors.New("lesson not found")
	}

	s := courseDomain.Section{
		ID:       input.SectionID,
		LessonID: input.LessonID,
		Title:    input.Title,
		Body:     input.Body,
		Position: input.Position,
	}
	if s.ID == "" {
		s.ID = deps.GenerateID()
	}

	if err := s.Validate(); err != nil {
		return courseDomain.Section{}, err
	}
	if err := deps.CourseStore.SaveSection(ctx, s); err != nil {
		return courseDomain.Section{}, err
	}

	slog.Info("course_event", "event", "section_saved", "lesson_id", input.LessonID, "section_id", s.ID)
	return s, nil
}
