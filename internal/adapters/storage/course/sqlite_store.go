package course

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studylog/internal/adapters/storage"
	domain "studylog/internal/domain/course"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new course store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetCourse retrieves a Course by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetCourse(ctx context.Context, id string) (domain.Course, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, description, position, published, created_at FROM course WHERE id = ?", id)
	return scanCourse(row)
}

// ListCourses retrieves all courses in position order, optionally only
// published ones.
func (s *SQLiteStore) ListCourses(ctx context.Context, publishedOnly bool) ([]domain.Course, error) {
	query := "SELECT id, title, description, position, published, created_at FROM course"
	if publishedOnly {
		query += " WHERE published = 1"
	}
	query += " ORDER BY position, created_at"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// SaveCourse persists a Course to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) SaveCourse(ctx context.Context, entity domain.Course) error {
	query := `INSERT INTO course (id, title, description, position, published, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			description=excluded.description,
			position=excluded.position,
			published=excluded.published`
	published := 0
	if entity.Published {
		published = 1
	}
	_, err := s.db.ExecContext(ctx, query,
		entity.ID, entity.Title, entity.Description, entity.Position, published,
		entity.CreatedAt.Format(time.RFC3339Nano))
	return err
}

// GetLesson retrieves a Lesson by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetLesson(ctx context.Context, id string) (domain.Lesson, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, course_id, title, position FROM lesson WHERE id = ?", id)
	var l domain.Lesson
	err := row.Scan(&l.ID, &l.CourseID, &l.Title, &l.Position)
	if err == sql.ErrNoRows {
		return domain.Lesson{}, fmt.Errorf("lesson not found: %w", err)
	}
	return l, err
}

// ListLessonsByCourse retrieves a course's lessons in position order.
func (s *SQLiteStore) ListLessonsByCourse(ctx context.Context, courseID string) ([]domain.Lesson, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, course_id, title, position FROM lesson WHERE course_id = ? ORDER BY position", courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Lesson
	for rows.Next() {
		var l domain.Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.Position); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// SaveLesson persists a Lesson to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) SaveLesson(ctx context.Context, entity domain.Lesson) error {
	query := `INSERT INTO lesson (id, course_id, title, position)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, position=excluded.position`
	_, err := s.db.ExecContext(ctx, query, entity.ID, entity.CourseID, entity.Title, entity.Position)
	return err
}

// GetSection retrieves a Section by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetSection(ctx context.Context, id string) (domain.Section, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, lesson_id, title, body, position FROM section WHERE id = ?", id)
	var sec domain.Section
	err := row.Scan(&sec.ID, &sec.LessonID, &sec.Title, &sec.Body, &sec.Position)
	if err == sql.ErrNoRows {
		return domain.Section{}, fmt.Errorf("section not found: %w", err)
	}
	return sec, err
}

// ListSectionsByLesson retrieves a lesson's sections in position order.
func (s *SQLiteStore) ListSectionsByLesson(ctx context.Context, lessonID string) ([]domain.Section, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, lesson_id, title, body, position FROM section WHERE lesson_id = ? ORDER BY position", lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Section
	for rows.Next() {
		var sec domain.Section
		if err := rows.Scan(&sec.ID, &sec.LessonID, &sec.Title, &sec.Body, &sec.Position); err != nil {
			return nil, err
		}
		list = append(list, sec)
	}
	return list, rows.Err()
}

// SaveSection persists a Section to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) SaveSection(ctx context.Context, entity domain.Section) error {
	query := `INSERT INTO section (id, lesson_id, title, body, position)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, body=excluded.body, position=excluded.position`
	_, err := s.db.ExecContext(ctx, query, entity.ID, entity.LessonID, entity.Title, entity.Body, entity.Position)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (domain.Course, error) {
	var entity domain.Course
	var published int
	var createdStr string
	err := row.Scan(&entity.ID, &entity.Title, &entity.Description, &entity.Position, &published, &createdStr)
	if err == sql.ErrNoRows {
		return domain.Course{}, fmt.Errorf("course not found: %w", err)
	}
	if err != nil {
		return domain.Course{}, err
	}
	entity.Published = published != 0
	if entity.CreatedAt, err = time.Parse(time.RFC3339Nano, createdStr); err != nil {
		return domain.Course{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return entity, nil
}
