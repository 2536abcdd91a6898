package emaillog

import (
	"context"
	"fmt"
	"time"

	"studylog/internal/adapters/storage"
	domain "studylog/internal/domain/email"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new email log store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists one outbound email record.
// PRE: value has been validated
// POST: Entry is persisted
func (s *SQLiteStore) Save(ctx context.Context, value domain.LogEntry) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO email_log (id, to_address, subject, kind, message_id, sent_at) VALUES (?, ?, ?, ?, ?, ?)",
		value.ID, value.ToAddress, value.Subject, value.Kind, value.MessageID,
		value.SentAt.Format(time.RFC3339Nano))
	return err
}

// ListByAddress retrieves recent outbound mail for one recipient, newest first.
func (s *SQLiteStore) ListByAddress(ctx context.Context, toAddress string, limit int) ([]domain.LogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, to_address, subject, kind, message_id, sent_at FROM email_log WHERE to_address = ? ORDER BY sent_at DESC LIMIT ?",
		toAddress, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.LogEntry
	for rows.Next() {
		var e domain.LogEntry
		var sentStr string
		if err := rows.Scan(&e.ID, &e.ToAddress, &e.Subject, &e.Kind, &e.MessageID, &sentStr); err != nil {
			return nil, err
		}
		if e.SentAt, err = time.Parse(time.RFC3339Nano, sentStr); err != nil {
			return nil, fmt.Errorf("failed to parse sent_at: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
