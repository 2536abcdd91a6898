package category

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studylog/internal/adapters/storage"
	domain "studylog/internal/domain/category"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new category store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Category by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, account_id, name, color, created_at FROM category WHERE id = ?", id)
	return scanCategory(row)
}

// GetByAccountAndName retrieves a Category by owner and case-insensitive name.
// PRE: accountID and name are non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByAccountAndName(ctx context.Context, accountID, name string) (domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, account_id, name, color, created_at FROM category WHERE account_id = ? AND name = ? COLLATE NOCASE",
		accountID, name)
	return scanCategory(row)
}

// ListByAccount retrieves all categories owned by an account, by name.
func (s *SQLiteStore) ListByAccount(ctx context.Context, accountID string) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, account_id, name, color, created_at FROM category WHERE account_id = ? ORDER BY name COLLATE NOCASE",
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Save persists a Category to the database.
// PRE: entity has been validated; (account_id, name) is unique
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Category) error {
	query := `INSERT INTO category (id, account_id, name, color, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, color=excluded.color`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.AccountID,
		entity.Name,
		entity.Color,
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// Delete removes a Category by its ID. Report items referencing it keep
// their captured display name.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE daily_report_item SET category_id = NULL WHERE category_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM category WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var entity domain.Category
	var createdStr string
	err := row.Scan(&entity.ID, &entity.AccountID, &entity.Name, &entity.Color, &createdStr)
	if err == sql.ErrNoRows {
		return domain.Category{}, fmt.Errorf("category not found: %w", err)
	}
	if err != nil {
		return domain.Category{}, err
	}
	if entity.CreatedAt, err = time.Parse(time.RFC3339Nano, createdStr); err != nil {
		return domain.Category{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return entity, nil
}
