package category

import (
	"errors"
	"strings"
	"time"
)

// MaxNameLength caps user-supplied category names.
const MaxNameLength = 50

// DefaultLabel is the display name used for report items without a category.
const DefaultLabel = "未分類"

// ValidColors are the selectable color tags. Empty means no color.
var ValidColors = []string{"", "red", "orange", "yellow", "green", "blue", "purple", "gray"}

// Domain errors
var (
	ErrEmptyName    = errors.New("category name cannot be empty")
	ErrNameTooLong  = errors.New("category name cannot exceed 50 characters")
	ErrInvalidColor = errors.New("unknown category color")
)

// Category is a user-scoped named bucket for study time.
// Names are unique per account, compared case-insensitively.
type Category struct {
	ID        string
	AccountID string
	Name      string
	Color     string
	CreatedAt time.Time
}

// Validate checks if the Category has valid data.
// PRE: Category struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len([]rune(c.Name)) > MaxNameLength {
		return ErrNameTooLong
	}
	for _, v := range ValidColors {
		if c.Color == v {
			return nil
		}
	}
	return ErrInvalidColor
}

// NormalizedName returns the lowercased name used for uniqueness checks
// and aggregation keys.
// INVARIANT: Category fields are not mutated
func (c *Category) NormalizedName() string {
	return strings.ToLower(strings.TrimSpace(c.Name))
}
