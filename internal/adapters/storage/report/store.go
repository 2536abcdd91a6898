package report

import (
	"context"

	domain "studylog/internal/domain/report"
)

// Store persists DailyReport state. Reports and their items are written
// together; the aggregation endpoints only ever read.
type Store interface {
	GetByAccountAndDate(ctx context.Context, accountID, date string) (domain.DailyReport, error)
	ListByAccountAndDateRange(ctx context.Context, accountID, start, end string) ([]domain.DailyReport, error)
	ListItemsByReportIDs(ctx context.Context, reportIDs []string) ([]domain.DailyReportItem, error)
	ListItemsByReportID(ctx context.Context, reportID string) ([]domain.DailyReportItem, error)
	SaveWithItems(ctx context.Context, value domain.DailyReport, items []domain.DailyReportItem) error
	Delete(ctx context.Context, id string) error
}
