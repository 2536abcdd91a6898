package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studylog/internal/adapters/storage"
	domain "studylog/internal/domain/account"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const accountColumns = "id, email, password_hash, display_name, role, login_disabled, onboarding_step, onboarding_completed, created_at, failed_logins, locked_until"

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE id = ?", id)
	return scanAccount(row)
}

// GetByEmail retrieves an Account by its email.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE email = ?", email)
	return scanAccount(row)
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	var lockedUntil any
	if !entity.LockedUntil.IsZero() {
		lockedUntil = entity.LockedUntil.Format(time.RFC3339Nano)
	}

	query := `INSERT INTO account (` + accountColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email=excluded.email,
			password_hash=excluded.password_hash,
			display_name=excluded.display_name,
			role=excluded.role,
			login_disabled=excluded.login_disabled,
			onboarding_step=excluded.onboarding_step,
			onboarding_completed=excluded.onboarding_completed,
			failed_logins=excluded.failed_logins,
			locked_until=excluded.locked_until`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Email,
		entity.PasswordHash,
		entity.DisplayName,
		entity.Role,
		boolToInt(entity.LoginDisabled),
		entity.OnboardingStep,
		boolToInt(entity.OnboardingCompleted),
		entity.CreatedAt.Format(time.RFC3339Nano),
		entity.FailedLogins,
		lockedUntil,
	)
	return err
}

// List retrieves accounts with optional role filtering and pagination.
// POST: Returns matching accounts ordered by creation time
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Account, error) {
	query := "SELECT " + accountColumns + " FROM account"
	args := []any{}
	if filter.Role != "" {
		query += " WHERE role = ?"
		args = append(args, filter.Role)
	}
	query += " ORDER BY created_at"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Account
	for rows.Next() {
		entity, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, entity)
	}
	return list, rows.Err()
}

// Count returns the total number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&n)
	return n, err
}

// SaveVerificationToken persists a registration verification token.
// PRE: t.Token is unique
// POST: Token is persisted (insert or update of the used flag)
func (s *SQLiteStore) SaveVerificationToken(ctx context.Context, t domain.VerificationToken) error {
	query := `INSERT INTO verification_token (id, email, token, expires_at, used, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET used=excluded.used`
	_, err := s.db.ExecContext(ctx, query,
		t.ID,
		t.Email,
		t.Token,
		t.ExpiresAt.Format(time.RFC3339Nano),
		boolToInt(t.Used),
		t.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// GetVerificationToken retrieves a token record by its token value.
// PRE: token is non-empty
// POST: Returns the record or an error if not found
func (s *SQLiteStore) GetVerificationToken(ctx context.Context, token string) (domain.VerificationToken, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, token, expires_at, used, created_at FROM verification_token WHERE token = ?", token)

	var t domain.VerificationToken
	var expiresStr, createdStr string
	var used int
	err := row.Scan(&t.ID, &t.Email, &t.Token, &expiresStr, &used, &createdStr)
	if err == sql.ErrNoRows {
		return domain.VerificationToken{}, fmt.Errorf("verification token not found: %w", err)
	}
	if err != nil {
		return domain.VerificationToken{}, err
	}
	t.Used = used != 0
	if t.ExpiresAt, err = parseStoredTime(expiresStr); err != nil {
		return domain.VerificationToken{}, fmt.Errorf("failed to parse expires_at: %w", err)
	}
	if t.CreatedAt, err = parseStoredTime(createdStr); err != nil {
		return domain.VerificationToken{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return t, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanAccount.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var entity domain.Account
	var loginDisabled, onboardingCompleted int
	var createdStr string
	var lockedStr sql.NullString

	err := row.Scan(
		&entity.ID,
		&entity.Email,
		&entity.PasswordHash,
		&entity.DisplayName,
		&entity.Role,
		&loginDisabled,
		&entity.OnboardingStep,
		&onboardingCompleted,
		&createdStr,
		&entity.FailedLogins,
		&lockedStr,
	)
	if err == sql.ErrNoRows {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	if err != nil {
		return domain.Account{}, err
	}

	entity.LoginDisabled = loginDisabled != 0
	entity.OnboardingCompleted = onboardingCompleted != 0
	if entity.CreatedAt, err = parseStoredTime(createdStr); err != nil {
		return domain.Account{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if lockedStr.Valid && lockedStr.String != "" {
		if entity.LockedUntil, err = parseStoredTime(lockedStr.String); err != nil {
			return domain.Account{}, fmt.Errorf("failed to parse locked_until: %w", err)
		}
	}
	return entity, nil
}

func parseStoredTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
