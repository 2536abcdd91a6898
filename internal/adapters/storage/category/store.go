package category

import (
	"context"

	domain "studylog/internal/domain/category"
)

// Store persists Category state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Category, error)
	GetByAccountAndName(ctx context.Context, accountID, name string) (domain.Category, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.Category, error)
	Save(ctx context.Context, value domain.Category) error
	Delete(ctx context.Context, id string) error
}
