package course

import (
	"context"

	domain "studylog/internal/domain/course"
)

// Store persists Course, Lesson and Section state.
type Store interface {
	GetCourse(ctx context.Context, id string) (domain.Course, error)
	ListCourses(ctx context.Context, publishedOnly bool) ([]domain.Course, error)
	SaveCourse(ctx context.Context, value domain.Course) error

	GetLesson(ctx context.Context, id string) (domain.Lesson, error)
	ListLessonsByCourse(ctx context.Context, courseID string) ([]domain.Lesson, error)
	SaveLesson(ctx context.Context, value domain.Lesson) error

	GetSection(ctx context.Context, id string) (domain.Section, error)
	ListSectionsByLesson(ctx context.Context, lessonID string) ([]domain.Section, error)
	SaveSection(ctx context.Context, value domain.Section) error
}
