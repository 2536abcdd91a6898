package quiz

import (
	"errors"
	"strings"
	"time"
)

// DefaultPassPercent is the passing threshold applied when a quiz does not
// override it.
const DefaultPassPercent = 80

// Domain errors
var (
	ErrEmptyPrompt      = errors.New("question prompt cannot be empty")
	ErrTooFewChoices    = errors.New("question needs at least two choices")
	ErrBadCorrectIndex  = errors.New("correct answer index is out of range")
	ErrAnswerCountWrong = errors.New("answer count does not match question count")
)

// Quiz is a staff-authored confirmation test attached to a lesson.
type Quiz struct {
	ID          string
	LessonID    string
	Title       string
	PassPercent int
	CreatedBy   string
	CreatedAt   time.Time
}

// Question is a multiple-choice question within a quiz.
type Question struct {
	ID           string
	QuizID       string
	Prompt       string
	Choices      []string
	CorrectIndex int
	Position     int
}

// Attempt records one user's graded submission.
type Attempt struct {
	ID        string
	QuizID    string
	AccountID string
	Score     int
	Total     int
	Passed    bool
	TakenAt   time.Time
}

// Validate checks if the Question has valid data.
// POST: Returns nil if valid, error otherwise
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return ErrEmptyPrompt
	}
	if len(q.Choices) < 2 {
		return ErrTooFewChoices
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Choices) {
		return ErrBadCorrectIndex
	}
	return nil
}

// EffectivePassPercent returns the quiz's threshold, falling back to the default.
// INVARIANT: Quiz fields are not mutated
func (z *Quiz) EffectivePassPercent() int {
	if z.PassPercent <= 0 || z.PassPercent > 100 {
		return DefaultPassPercent
	}
	return z.PassPercent
}

// Grade scores a set of answers against the questions, in question order.
// answers[i] is the chosen choice index for questions[i]; out-of-range
// values count as wrong.
// PRE: len(answers) == len(questions)
// POST: 0 <= score <= len(questions)
func Grade(z Quiz, questions []Question, answers []int) (Attempt, error) {
	if len(answers) != len(questions) {
		return Attempt{}, ErrAnswerCountWrong
	}
	score := 0
	for i, q := range questions {
		if answers[i] == q.CorrectIndex {
			score++
		}
	}
	att := Attempt{
		QuizID: z.ID,
		Score:  score,
		Total:  len(questions),
	}
	if att.Total > 0 {
		att.Passed = score*100 >= att.Total*z.EffectivePassPercent()
	}
	return att, nil
}
