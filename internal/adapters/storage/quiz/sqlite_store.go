package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"studylog/internal/adapters/storage"
	domain "studylog/internal/domain/quiz"
)

// SQLiteStore implements Store using SQLite. Question choices are stored
// as a JSON array in a single column.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new quiz store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByLessonID retrieves the quiz attached to a lesson.
// PRE: lessonID is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByLessonID(ctx context.Context, lessonID string) (domain.Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, lesson_id, title, pass_percent, created_by, created_at FROM quiz WHERE lesson_id = ?", lessonID)

	var z domain.Quiz
	var createdStr string
	err := row.Scan(&z.ID, &z.LessonID, &z.Title, &z.PassPercent, &z.CreatedBy, &createdStr)
	if err == sql.ErrNoRows {
		return domain.Quiz{}, fmt.Errorf("quiz not found: %w", err)
	}
	if err != nil {
		return domain.Quiz{}, err
	}
	if z.CreatedAt, err = time.Parse(time.RFC3339Nano, createdStr); err != nil {
		return domain.Quiz{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return z, nil
}

// ListQuestions retrieves a quiz's questions in position order.
func (s *SQLiteStore) ListQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, quiz_id, prompt, choices, correct_index, position FROM quiz_question WHERE quiz_id = ? ORDER BY position", quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Question
	for rows.Next() {
		var q domain.Question
		var choicesJSON string
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Prompt, &choicesJSON, &q.CorrectIndex, &q.Position); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(choicesJSON), &q.Choices); err != nil {
			return nil, fmt.Errorf("failed to decode choices for question %s: %w", q.ID, err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// SaveWithQuestions persists a quiz and replaces its questions in one transaction.
// PRE: quiz and questions have been validated
// POST: Quiz upserted, previous questions replaced by the given set
func (s *SQLiteStore) SaveWithQuestions(ctx context.Context, entity domain.Quiz, questions []domain.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO quiz (id, lesson_id, title, pass_percent, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(lesson_id) DO UPDATE SET title=excluded.title, pass_percent=excluded.pass_percent`
	if _, err := tx.ExecContext(ctx, query,
		entity.ID, entity.LessonID, entity.Title, entity.PassPercent, entity.CreatedBy,
		entity.CreatedAt.Format(time.RFC3339Nano)); err != nil {
		return err
	}

	var quizID string
	if err := tx.QueryRowContext(ctx, "SELECT id FROM quiz WHERE lesson_id = ?", entity.LessonID).Scan(&quizID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM quiz_question WHERE quiz_id = ?", quizID); err != nil {
		return err
	}
	for _, q := range questions {
		choicesJSON, err := json.Marshal(q.Choices)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO quiz_question (id, quiz_id, prompt, choices, correct_index, position) VALUES (?, ?, ?, ?, ?, ?)",
			q.ID, quizID, q.Prompt, string(choicesJSON), q.CorrectIndex, q.Position); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveAttempt persists a graded attempt.
// PRE: a has been graded
// POST: Attempt is persisted
func (s *SQLiteStore) SaveAttempt(ctx context.Context, a domain.Attempt) error {
	passed := 0
	if a.Passed {
		passed = 1
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO quiz_attempt (id, quiz_id, account_id, score, total, passed, taken_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.QuizID, a.AccountID, a.Score, a.Total, passed, a.TakenAt.Format(time.RFC3339Nano))
	return err
}

// ListAttemptsByAccountAndQuiz retrieves one user's attempts on a quiz,
// most recent first.
func (s *SQLiteStore) ListAttemptsByAccountAndQuiz(ctx context.Context, accountID, quizID string) ([]domain.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, quiz_id, account_id, score, total, passed, taken_at FROM quiz_attempt WHERE account_id = ? AND quiz_id = ? ORDER BY taken_at DESC",
		accountID, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Attempt
	for rows.Next() {
		var a domain.Attempt
		var passed int
		var takenStr string
		if err := rows.Scan(&a.ID, &a.QuizID, &a.AccountID, &a.Score, &a.Total, &passed, &takenStr); err != nil {
			return nil, err
		}
		a.Passed = passed != 0
		if a.TakenAt, err = time.Parse(time.RFC3339Nano, takenStr); err != nil {
			return nil, fmt.Errorf("failed to parse taken_at: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
