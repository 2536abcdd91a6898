package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	quizDomain "studylog/internal/domain/quiz"
)

// QuizStoreForAttempt defines the store interface needed by SubmitAttempt.
type QuizStoreForAttempt interface {
	GetByLessonID(ctx context.Context, lessonID string) (quizDomain.Quiz, error)
	ListQuestions(ctx context.Context, quizID string) ([]quizDomain.Question, error)
	SaveAttempt(ctx context.Context, a quizDomain.Attempt) error
}

// SubmitAttemptInput carries input for the quiz submission orchestrator.
type SubmitAttemptInput struct {
	LessonID  string
	AccountID string
	Answers   []int // chosen choice index per question, in question order
}

// SubmitAttemptDeps holds dependencies for SubmitAttempt.
type SubmitAttemptDeps struct {
	QuizStore  QuizStoreForAttempt
	GenerateID func() string
	Now        func() time.Time
}

var ErrQuizNotFound = errors.New("this lesson has no quiz")

// ExecuteSubmitAttempt grades a member's answers and records the attempt.
// PRE: Answers has one entry per question
// POST: Attempt persisted with score and pass state
func ExecuteSubmitAttempt(ctx context.Context, input SubmitAttemptInput, deps SubmitAttemptDeps) (quizDomain.Attempt, error) {
	if input.AccountID == "" {
		return quizDomain.Attempt{}, errors.New("account ID is required")
	}

	z, err := deps.QuizStore.GetByLessonID(ctx, input.LessonID)
	if err != nil {
		return quizDomain.Attempt{}, ErrQuizNotFound
	}
	questions, err := deps.QuizStore.ListQuestions(ctx, z.ID)
	if err != nil {
		return quizDomain.Attempt{}, err
	}

	att, err := quizDomain.Grade(z, questions, input.Answers)
	if err != nil {
		return quizDomain.Attempt{}, err
	}
	att.ID = deps.GenerateID()
	att.AccountID = input.AccountID
	att.TakenAt = deps.Now()

	if err := deps.QuizStore.SaveAttempt(ctx, att); err != nil {
		return quizDomain.Attempt{}, err
	}

	slog.Info("quiz_event", "event", "attempt_submitted", "account_id", input.AccountID,
		"quiz_id", z.ID, "score", att.Score, "total", att.Total, "passed", att.Passed)
	return att, nil
}
