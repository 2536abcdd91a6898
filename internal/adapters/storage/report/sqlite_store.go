package report

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"studylog/internal/adapters/storage"
	domain "studylog/internal/domain/report"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new report store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const reportColumns = "id, account_id, report_date, total_minutes, created_at, updated_at"

// GetByAccountAndDate retrieves the report for one account on one date.
// PRE: accountID and date are non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByAccountAndDate(ctx context.Context, accountID, date string) (domain.DailyReport, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+reportColumns+" FROM daily_report WHERE account_id = ? AND report_date = ?",
		accountID, date)
	return scanReport(row)
}

// ListByAccountAndDateRange retrieves an account's reports within the
// half-open range [start, end), ordered by date. Dates compare lexically.
// PRE: start and end are YYYY-MM-DD
func (s *SQLiteStore) ListByAccountAndDateRange(ctx context.Context, accountID, start, end string) ([]domain.DailyReport, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+reportColumns+" FROM daily_report WHERE account_id = ? AND report_date >= ? AND report_date < ? ORDER BY report_date",
		accountID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.DailyReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

// ListItemsByReportIDs retrieves all items belonging to the given reports.
// POST: Returns items in report/position order; empty input yields no rows
func (s *SQLiteStore) ListItemsByReportIDs(ctx context.Context, reportIDs []string) ([]domain.DailyReportItem, error) {
	if len(reportIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?, ", len(reportIDs)-1) + "?"
	args := make([]any, len(reportIDs))
	for i, id := range reportIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, report_id, category_id, category_name, minutes, note, position FROM daily_report_item WHERE report_id IN ("+placeholders+") ORDER BY report_id, position",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.DailyReportItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// ListItemsByReportID retrieves the items of a single report in position order.
func (s *SQLiteStore) ListItemsByReportID(ctx context.Context, reportID string) ([]domain.DailyReportItem, error) {
	return s.ListItemsByReportIDs(ctx, []string{reportID})
}

// SaveWithItems persists a report and replaces its items in one transaction.
// PRE: entity and items have been validated; items belong to entity
// POST: Report upserted, previous items replaced by the given set
func (s *SQLiteStore) SaveWithItems(ctx context.Context, entity domain.DailyReport, items []domain.DailyReportItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var updatedAt any
	if !entity.UpdatedAt.IsZero() {
		updatedAt = entity.UpdatedAt.Format(time.RFC3339Nano)
	}

	query := `INSERT INTO daily_report (` + reportColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id, report_date) DO UPDATE SET
			total_minutes=excluded.total_minutes,
			updated_at=excluded.updated_at`
	if _, err := tx.ExecContext(ctx, query,
		entity.ID,
		entity.AccountID,
		entity.Date,
		entity.TotalMinutes,
		entity.CreatedAt.Format(time.RFC3339Nano),
		updatedAt,
	); err != nil {
		return err
	}

	// The upsert may have kept an existing row ID; resolve it for the items.
	var reportID string
	if err := tx.QueryRowContext(ctx,
		"SELECT id FROM daily_report WHERE account_id = ? AND report_date = ?",
		entity.AccountID, entity.Date).Scan(&reportID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM daily_report_item WHERE report_id = ?", reportID); err != nil {
		return err
	}
	for _, item := range items {
		var categoryID any
		if item.CategoryID != "" {
			categoryID = item.CategoryID
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO daily_report_item (id, report_id, category_id, category_name, minutes, note, position) VALUES (?, ?, ?, ?, ?, ?, ?)",
			item.ID, reportID, categoryID, item.CategoryName, item.Minutes, item.Note, item.Position,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes a report and, via cascade, its items.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM daily_report WHERE id = ?", id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (domain.DailyReport, error) {
	var entity domain.DailyReport
	var createdStr string
	var updatedStr sql.NullString

	err := row.Scan(&entity.ID, &entity.AccountID, &entity.Date, &entity.TotalMinutes, &createdStr, &updatedStr)
	if err == sql.ErrNoRows {
		return domain.DailyReport{}, fmt.Errorf("daily report not found: %w", err)
	}
	if err != nil {
		return domain.DailyReport{}, err
	}
	if entity.CreatedAt, err = time.Parse(time.RFC3339Nano, createdStr); err != nil {
		return domain.DailyReport{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if updatedStr.Valid && updatedStr.String != "" {
		if entity.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedStr.String); err != nil {
			return domain.DailyReport{}, fmt.Errorf("failed to parse updated_at: %w", err)
		}
	}
	return entity, nil
}

func scanItem(row rowScanner) (domain.DailyReportItem, error) {
	var item domain.DailyReportItem
	var categoryID sql.NullString
	err := row.Scan(&item.ID, &item.ReportID, &categoryID, &item.CategoryName, &item.Minutes, &item.Note, &item.Position)
	if err != nil {
		return domain.DailyReportItem{}, err
	}
	if categoryID.Valid {
		item.CategoryID = categoryID.String
	}
	return item, nil
}
