package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	courseDomain "studylog/internal/domain/course"
	quizDomain "studylog/internal/domain/quiz"
)

// QuizStoreForAuthor defines the store interface needed by AuthorQuiz.
type QuizStoreForAuthor interface {
	GetByLessonID(ctx context.Context, lessonID string) (quizDomain.Quiz, error)
	SaveWithQuestions(ctx context.Context, z quizDomain.Quiz, questions []quizDomain.Question) error
}

// LessonLookupForAuthor defines the lesson lookup needed by AuthorQuiz.
type LessonLookupForAuthor interface {
	GetLesson(ctx context.Context, id string) (courseDomain.Lesson, error)
}

// AuthorQuizQuestionInput is one question of a quiz being authored.
type AuthorQuizQuestionInput struct {
	Prompt       string
	Choices      []string
	CorrectIndex int
}

// AuthorQuizInput carries input for creating or replacing a lesson's quiz.
type AuthorQuizInput struct {
	LessonID    string
	Title       string
	PassPercent int // 0 means the default threshold
	CreatedBy   string
	Questions   []AuthorQuizQuestionInput
}

// AuthorQuizDeps holds dependencies for AuthorQuiz.
type AuthorQuizDeps struct {
	QuizStore    QuizStoreForAuthor
	LessonLookup LessonLookupForAuthor
	GenerateID   func() string
	Now          func() time.Time
}

var ErrNoQuestions = errors.New("quiz needs at least one question")

// ExecuteAuthorQuiz creates or replaces the quiz of a lesson. A lesson has
// at most one quiz; authoring again replaces its question set.
// PRE: LessonID names an existing lesson; every question validates
// POST: The lesson's quiz holds exactly input's questions
func ExecuteAuthorQuiz(ctx context.Context, input AuthorQuizInput, deps AuthorQuizDeps) (quizDomain.Quiz, error) {
	if _, err := deps.LessonLookup.GetLesson(ctx, input.LessonID); err != nil {
		return quizDomain.Quiz{}, errors.New("lesson not found")
	}
	if len(input.Questions) == 0 {
		return quizDomain.Quiz{}, ErrNoQuestions
	}

	z := quizDomain.Quiz{
		ID:          deps.GenerateID(),
		LessonID:    input.LessonID,
		Title:       input.Title,
		PassPercent: input.PassPercent,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   deps.Now(),
	}
	if z.PassPercent == 0 {
		z.PassPercent = quizDomain.DefaultPassPercent
	}
	// Lesson upsert: keep the existing quiz's identity.
	if existing, err := deps.QuizStore.GetByLessonID(ctx, input.LessonID); err == nil {
		z.ID = existing.ID
		z.CreatedAt = existing.CreatedAt
	}

	questions := make([]quizDomain.Question, 0, len(input.Questions))
	for i, in := range input.Questions {
		q := quizDomain.Question{
			ID:           deps.GenerateID(),
			QuizID:       z.ID,
			Prompt:       in.Prompt,
			Choices:      in.Choices,
			CorrectIndex: in.CorrectIndex,
			Position:     i,
		}
		if err := q.Validate(); err != nil {
			return quizDomain.Quiz{}, err
		}
		questions = append(questions, q)
	}

	if err := deps.QuizStore.SaveWithQuestions(ctx, z, questions); err != nil {
		return quizDomain.Quiz{}, err
	}

	slog.Info("quiz_event", "event", "quiz_saved", "lesson_id", input.LessonID, "quiz_id", z.ID, "questions", len(questions))
	return z, nil
}
