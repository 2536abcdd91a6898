package progress

import (
	"context"
	"time"

	"studylog/internal/adapters/storage"
	domain "studylog/internal/domain/progress"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new progress store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// SaveCompletion persists a section completion. Re-completing a section
// is a no-op that keeps the original timestamp.
// PRE: c.AccountID and c.SectionID are non-empty
// POST: A completion row exists for (account, section)
func (s *SQLiteStore) SaveCompletion(ctx context.Context, c domain.SectionCompletion) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO section_completion (id, account_id, section_id, completed_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(account_id, section_id) DO NOTHING`,
		c.ID, c.AccountID, c.SectionID, c.CompletedAt.Format(time.RFC3339Nano))
	return err
}

// ListCompletedSectionIDs retrieves the IDs of sections a user has finished.
func (s *SQLiteStore) ListCompletedSectionIDs(ctx context.Context, accountID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT section_id FROM section_completion WHERE account_id = ?", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetSummaryCounts returns the precomputed progress aggregate for one
// user as a single row. Only published courses count toward totals.
// POST: Returns zero counts (not an error) for a user with no activity
func (s *SQLiteStore) GetSummaryCounts(ctx context.Context, accountID string) (domain.SummaryCounts, error) {
	var counts domain.SummaryCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM section_completion WHERE account_id = ?),
			(SELECT COUNT(*) FROM section sec
				JOIN lesson l ON l.id = sec.lesson_id
				JOIN course c ON c.id = l.course_id AND c.published = 1),
			(SELECT COUNT(DISTINCT quiz_id) FROM quiz_attempt WHERE account_id = ? AND passed = 1),
			(SELECT COUNT(*) FROM quiz q
				JOIN lesson l ON l.id = q.lesson_id
				JOIN course c ON c.id = l.course_id AND c.published = 1)`,
		accountID, accountID,
	).Scan(&counts.CompletedSections, &counts.TotalSections, &counts.PassedQuizzes, &counts.TotalQuizzes)
	return counts, err
}
