package course

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for staff-editable fields.
const (
	MaxTitleLength = 120
	MaxBodyLength  = 50000
)

// Domain errors
var (
	ErrEmptyTitle   = errors.New("title cannot be empty")
	ErrTitleTooLong = errors.New("title cannot exceed 120 characters")
	ErrBodyTooLong  = errors.New("section body is too large")
)

// Course is a published unit of study containing ordered lessons.
type Course struct {
	ID          string
	Title       string
	Description string
	Position    int
	Published   bool
	CreatedAt   time.Time
}

// Lesson is an ordered chapter within a course.
type Lesson struct {
	ID       string
	CourseID string
	Title    string
	Position int
}

// Section is an ordered page within a lesson. Body is markdown, rendered
// to HTML at read time.
type Section struct {
	ID       string
	LessonID string
	Title    string
	Body     string
	Position int
}

// Validate checks if the Course has valid data.
// POST: Returns nil if valid, error otherwise
func (c *Course) Validate() error {
	return validateTitle(c.Title)
}

// Validate checks if the Lesson has valid data.
// POST: Returns nil if valid, error otherwise
func (l *Lesson) Validate() error {
	if l.CourseID == "" {
		return errors.New("lesson must belong to a course")
	}
	return validateTitle(l.Title)
}

// Validate checks if the Section has valid data.
// POST: Returns nil if valid, error otherwise
func (s *Section) Validate() error {
	if s.LessonID == "" {
		return errors.New("section must belong to a lesson")
	}
	if err := validateTitle(s.Title); err != nil {
		return err
	}
	if len(s.Body) > MaxBodyLength {
		return ErrBodyTooLong
	}
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if len([]rune(title)) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
