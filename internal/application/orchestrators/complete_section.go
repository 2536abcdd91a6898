package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	courseDomain "studylog/internal/domain/course"
	progressDomain "studylog/internal/domain/progress"
)

// ProgressStoreForComplete defines the store interface needed by CompleteSection.
type ProgressStoreForComplete interface {
	SaveCompletion(ctx context.Context, c progressDomain.SectionCompletion) error
}

// CourseStoreForComplete defines the section lookup needed by CompleteSection.
type CourseStoreForComplete interface {
	GetSection(ctx context.Context, id string) (courseDomain.Section, error)
}

// CompleteSectionInput carries input for the section completion orchestrator.
type CompleteSectionInput struct {
	SectionID string
	AccountID string
}

// CompleteSectionDeps holds dependencies for CompleteSection.
type CompleteSectionDeps struct {
	ProgressStore ProgressStoreForComplete
	CourseStore   CourseStoreForComplete
	GenerateID    func() string
	Now           func() time.Time
}

var ErrSectionNotFound = errors.New("section not found")

// ExecuteCompleteSection marks a section read by the member. Re-completing
// is a no-op at the store level, keeping the original timestamp.
// PRE: SectionID names an existing section
// POST: A completion row exists for (account, section)
func ExecuteCompleteSection(ctx context.Context, input CompleteSectionInput, deps CompleteSectionDeps) error {
	if input.AccountID == "" {
		return errors.New("account ID is required")
	}
	if _, err := deps.CourseStore.GetSection(ctx, input.SectionID); err != nil {
		return ErrSectionNotFound
	}

	c := progressDomain.SectionCompletion{
		ID:          deps.GenerateID(),
		AccountID:   input.AccountID,
		SectionID:   input.SectionID,
		CompletedAt: deps.Now(),
	}
	if err := deps.ProgressStore.SaveCompletion(ctx, c); err != nil {
		return err
	}

	slog.Info("progress_event", "event", "section_completed", "account_id", input.AccountID, "section_id", input.SectionID)
	return nil
}
