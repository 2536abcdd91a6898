package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	categoryDomain "studylog/internal/domain/category"
	reportDomain "studylog/internal/domain/report"
)

// ReportStoreForSave defines the store interface needed by SaveReport.
type ReportStoreForSave interface {
	GetByAccountAndDate(ctx context.Context, accountID, date string) (reportDomain.DailyReport, error)
	SaveWithItems(ctx context.Context, r reportDomain.DailyReport, items []reportDomain.DailyReportItem) error
}

// CategoryStoreForSave defines the category lookup needed by SaveReport.
type CategoryStoreForSave interface {
	GetByID(ctx context.Context, id string) (categoryDomain.Category, error)
}

// SaveReportItemInput is one category line of a day's report.
type SaveReportItemInput struct {
	CategoryID string // empty for uncategorized
	Minutes    int
	Note       string
}

// SaveReportInput carries input for the save-report orchestrator.
type SaveReportInput struct {
	AccountID string
	Date      string // YYYY-MM-DD
	Items     []SaveReportItemInput
}

// SaveReportDeps holds dependencies for SaveReport.
type SaveReportDeps struct {
	ReportStore   ReportStoreForSave
	CategoryStore CategoryStoreForSave
	GenerateID    func() string
	Now           func() time.Time
}

var ErrCategoryNotOwned = errors.New("category does not belong to this account")

// ExecuteSaveReport creates or replaces the account's report for one date.
// The total is recomputed from the items; an existing report for the date
// keeps its identity and creation time.
// PRE: input.Date is a valid YYYY-MM-DD; all items have non-negative minutes
// POST: Exactly one report exists for (account, date) holding input's items
func ExecuteSaveReport(ctx context.Context, input SaveReportInput, deps SaveReportDeps) (reportDomain.DailyReport, error) {
	if input.AccountID == "" {
		return reportDomain.DailyReport{}, errors.New("account ID is required")
	}
	if len(input.Items) == 0 {
		return reportDomain.DailyReport{}, reportDomain.ErrNoItems
	}

	now := deps.Now()

	rep := reportDomain.DailyReport{
		ID:        deps.GenerateID(),
		AccountID: input.AccountID,
		Date:      input.Date,
		CreatedAt: now,
	}
	// Date upsert: keep the existing row's identity.
	if existing, err := deps.ReportStore.GetByAccountAndDate(ctx, input.AccountID, input.Date); err == nil {
		rep.ID = existing.ID
		rep.CreatedAt = existing.CreatedAt
		rep.UpdatedAt = now
	}

	items := make([]reportDomain.DailyReportItem, 0, len(input.Items))
	for i, in := range input.Items {
		name := ""
		if in.CategoryID != "" {
			cat, err := deps.CategoryStore.GetByID(ctx, in.CategoryID)
			if err != nil {
				return reportDomain.DailyReport{}, err
			}
			if cat.AccountID != input.AccountID {
				return reportDomain.DailyReport{}, ErrCategoryNotOwned
			}
			name = cat.Name
		}

		item := reportDomain.DailyReportItem{
			ID:           deps.GenerateID(),
			ReportID:     rep.ID,
			CategoryID:   in.CategoryID,
			CategoryName: name,
			Minutes:      in.Minutes,
			Note:         in.Note,
			Position:     i,
		}
		if err := item.Validate(); err != nil {
			return reportDomain.DailyReport{}, err
		}
		items = append(items, item)
	}

	rep.TotalMinutes = reportDomain.SumMinutes(items)
	if err := rep.Validate(); err != nil {
		return reportDomain.DailyReport{}, err
	}

	if err := deps.ReportStore.SaveWithItems(ctx, rep, items); err != nil {
		return reportDomain.DailyReport{}, err
	}

	slog.Info("report_event", "event", "report_saved", "account_id", input.AccountID, "date", input.Date, "total_minutes", rep.TotalMinutes)
	return rep, nil
}
