package emaillog

import (
	"context"

	domain "studylog/internal/domain/email"
)

// Store persists the outbound email audit trail.
type Store interface {
	Save(ctx context.Context, value domain.LogEntry) error
	ListByAddress(ctx context.Context, toAddress string, limit int) ([]domain.LogEntry, error)
}
