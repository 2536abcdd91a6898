package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	categoryDomain "studylog/internal/domain/category"
)

// CategoryStoreForManage defines the store interface needed by the category orchestrators.
type CategoryStoreForManage interface {
	GetByID(ctx context.Context, id string) (categoryDomain.Category, error)
	GetByAccountAndName(ctx context.Context, accountID, name string) (categoryDomain.Category, error)
	Save(ctx context.Context, c categoryDomain.Category) error
	Delete(ctx context.Context, id string) error
}

// SaveCategoryInput carries input for creating or renaming a category.
type SaveCategoryInput struct {
	CategoryID string // empty to create
	AccountID  string
	Name       string
	Color      string
}

// SaveCategoryDeps holds dependencies for SaveCategory.
type SaveCategoryDeps struct {
	CategoryStore CategoryStoreForManage
	GenerateID    func() string
	Now           func() time.Time
}

var (
	ErrCategoryNameTaken = errors.New("a category with this name already exists")
	ErrCategoryNotFound  = errors.New("category not found")
)

// ExecuteSaveCategory creates a category or renames/recolors an existing one.
// PRE: Name is non-empty and within length; Color is a known color
// POST: Category saved; name unique per account ignoring case
func ExecuteSaveCategory(ctx context.Context, input SaveCategoryInput, deps SaveCategoryDeps) (categoryDomain.Category, error) {
	if input.AccountID == "" {
		return categoryDomain.Category{}, errors.New("account ID is required")
	}

	cat := categoryDomain.Category{
		ID:        input.CategoryID,
		AccountID: input.AccountID,
		Name:      input.Name,
		Color:     input.Color,
		CreatedAt: deps.Now(),
	}
	if cat.ID == "" {
		cat.ID = deps.GenerateID()
	} else {
		existing, err := deps.CategoryStore.GetByID(ctx, cat.ID)
		if err != nil || existing.AccountID != input.AccountID {
			return categoryDomain.Category{}, ErrCategoryNotFound
		}
		cat.CreatedAt = existing.CreatedAt
	}

	if err := cat.Validate(); err != nil {
		return categoryDomain.Category{}, err
	}

	// Case-insensitive uniqueness per account.
	if dup, err := deps.CategoryStore.GetByAccountAndName(ctx, input.AccountID, input.Name); err == nil && dup.ID != cat.ID {
		return categoryDomain.Category{}, ErrCategoryNameTaken
	}

	if err := deps.CategoryStore.Save(ctx, cat); err != nil {
		return categoryDomain.Category{}, err
	}

	slog.Info("category_event", "event", "category_saved", "account_id", input.AccountID, "category_id", cat.ID)
	return cat, nil
}

// DeleteCategoryInput carries input for deleting a category.
type DeleteCategoryInput struct {
	CategoryID string
	AccountID  string
}

// ExecuteDeleteCategory removes a category. Report items referencing it
// keep their captured display name and become uncategorized.
// PRE: CategoryID belongs to AccountID
// POST: Category row removed; referencing items have a null category
func ExecuteDeleteCategory(ctx context.Context, input DeleteCategoryInput, deps SaveCategoryDeps) error {
	cat, err := deps.CategoryStore.GetByID(ctx, input.CategoryID)
	if err != nil || cat.AccountID != input.AccountID {
		return ErrCategoryNotFound
	}

	if err := deps.CategoryStore.Delete(ctx, input.CategoryID); err != nil {
		return err
	}

	slog.Info("category_event", "event", "category_deleted", "account_id", input.AccountID, "category_id", input.CategoryID)
	return nil
}
