package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migrations holds one schema migration per version, applied in order.
// PRAGMA user_version tracks the last applied version.
var migrations = []string{
	// v1: initial schema
	`
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		display_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		login_disabled INTEGER NOT NULL DEFAULT 0,
		onboarding_step INTEGER NOT NULL DEFAULT 1,
		onboarding_completed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS verification_token (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		used INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS category (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		UNIQUE (account_id, name COLLATE NOCASE),
		FOREIGN KEY (account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS daily_report (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		report_date TEXT NOT NULL,
		total_minutes INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		UNIQUE (account_id, report_date),
		FOREIGN KEY (account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS daily_report_item (
		id TEXT PRIMARY KEY,
		report_id TEXT NOT NULL,
		category_id TEXT,
		category_name TEXT NOT NULL DEFAULT '',
		minutes INTEGER NOT NULL DEFAULT 0,
		note TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (report_id) REFERENCES daily_report(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS course (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		published INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS lesson (
		id TEXT PRIMARY KEY,
		course_id TEXT NOT NULL,
		title TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (course_id) REFERENCES course(id)
	);

	CREATE TABLE IF NOT EXISTS section (
		id TEXT PRIMARY KEY,
		lesson_id TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (lesson_id) REFERENCES lesson(id)
	);

	CREATE TABLE IF NOT EXISTS quiz (
		id TEXT PRIMARY KEY,
		lesson_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		pass_percent INTEGER NOT NULL DEFAULT 80,
		created_by TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (lesson_id) REFERENCES lesson(id)
	);

	CREATE TABLE IF NOT EXISTS quiz_question (
		id TEXT PRIMARY KEY,
		quiz_id TEXT NOT NULL,
		prompt TEXT NOT NULL,
		choices TEXT NOT NULL,
		correct_index INTEGER NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (quiz_id) REFERENCES quiz(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS quiz_attempt (
		id TEXT PRIMARY KEY,
		quiz_id TEXT NOT NULL,
		account_id TEXT NOT NULL,
		score INTEGER NOT NULL,
		total INTEGER NOT NULL,
		passed INTEGER NOT NULL DEFAULT 0,
		taken_at TEXT NOT NULL,
		FOREIGN KEY (quiz_id) REFERENCES quiz(id),
		FOREIGN KEY (account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS section_completion (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		section_id TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		UNIQUE (account_id, section_id),
		FOREIGN KEY (account_id) REFERENCES account(id),
		FOREIGN KEY (section_id) REFERENCES section(id)
	);

	CREATE TABLE IF NOT EXISTS email_log (
		id TEXT PRIMARY KEY,
		to_address TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL DEFAULT '',
		message_id TEXT NOT NULL DEFAULT '',
		sent_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_daily_report_account_date ON daily_report(account_id, report_date);
	CREATE INDEX IF NOT EXISTS idx_daily_report_item_report ON daily_report_item(report_id);
	CREATE INDEX IF NOT EXISTS idx_quiz_attempt_account ON quiz_attempt(account_id, quiz_id);
	`,
}

// LatestSchemaVersion returns the schema version this binary expects.
func LatestSchemaVersion() int {
	return len(migrations)
}

// MigrateDB brings the database schema up to the latest version.
// PRE: db is a valid database connection
// POST: PRAGMA user_version == LatestSchemaVersion()
func MigrateDB(db *sql.DB, dbPath string) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > len(migrations) {
		return fmt.Errorf("database %s is at schema v%d, newer than this binary (v%d)", dbPath, current, len(migrations))
	}

	for v := current; v < len(migrations); v++ {
		if _, err := db.Exec(migrations[v]); err != nil {
			return fmt.Errorf("failed to apply schema v%d: %w", v+1, err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			return fmt.Errorf("failed to record schema v%d: %w", v+1, err)
		}
		slog.Info("schema_migrated", "version", v+1, "db", dbPath)
	}
	return nil
}
