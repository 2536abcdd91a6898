package quiz

import (
	"context"

	domain "studylog/internal/domain/quiz"
)

// Store persists Quiz state: the staff-authored tests and user attempts.
type Store interface {
	GetByLessonID(ctx context.Context, lessonID string) (domain.Quiz, error)
	ListQuestions(ctx context.Context, quizID string) ([]domain.Question, error)
	SaveWithQuestions(ctx context.Context, value domain.Quiz, questions []domain.Question) error

	SaveAttempt(ctx context.Context, a domain.Attempt) error
	ListAttemptsByAccountAndQuiz(ctx context.Context, accountID, quizID string) ([]domain.Attempt, error)
}
