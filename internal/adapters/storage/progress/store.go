package progress

import (
	"context"

	domain "studylog/internal/domain/progress"
)

// Store persists section completions and serves the precomputed progress
// aggregate consumed by the monthly summary.
type Store interface {
	SaveCompletion(ctx context.Context, c domain.SectionCompletion) error
	ListCompletedSectionIDs(ctx context.Context, accountID string) ([]string, error)
	// GetSummaryCounts returns the single aggregate row for one user:
	// completed/total sections and passed/total quizzes.
	GetSummaryCounts(ctx context.Context, accountID string) (domain.SummaryCounts, error)
}
