package projections

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"studylog/internal/application/period"
	domainCategory "studylog/internal/domain/category"
	domainReport "studylog/internal/domain/report"
)

// CategoryShareReportStore defines the report store interface needed by the category share projection.
type CategoryShareReportStore interface {
	ListByAccountAndDateRange(ctx context.Context, accountID string, startDate string, endDate string) ([]domainReport.DailyReport, error)
	ListItemsByReportIDs(ctx context.Context, reportIDs []string) ([]domainReport.DailyReportItem, error)
}

// GetCategoryShareQuery carries input for the category share projection.
type GetCategoryShareQuery struct {
	AccountID string
	Month     string    // optional "YYYY-MM"; empty means the current UTC month
	Now       time.Time // optional: if zero, time.Now() is used
}

// CategoryShareBucket is one category's slice of the month's study time.
type CategoryShareBucket struct {
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Minutes      int     `json:"minutes"`
	Ratio        float64 `json:"ratio"`
}

// GetCategoryShareResult carries the output of the category share projection.
type GetCategoryShareResult struct {
	Year       int
	Month      int
	Categories []CategoryShareBucket
}

// GetCategoryShareDeps holds dependencies for the category share projection.
type GetCategoryShareDeps struct {
	ReportStore CategoryShareReportStore
}

// QueryGetCategoryShare folds one month of report items into per-category
// minute totals with normalized ratios.
// PRE: query.AccountID is non-empty
// POST: Ratios sum to exactly 1.0, or Categories is empty when total minutes is zero
func QueryGetCategoryShare(ctx context.Context, query GetCategoryShareQuery, deps GetCategoryShareDeps) (GetCategoryShareResult, error) {
	m, err := period.ParseMonth(query.Month, query.Now)
	if err != nil {
		return GetCategoryShareResult{}, err
	}
	start, next := period.MonthBounds(m.Year, m.Month)

	reports, err := deps.ReportStore.ListByAccountAndDateRange(ctx, query.AccountID, start, next)
	if err != nil {
		return GetCategoryShareResult{}, err
	}

	result := GetCategoryShareResult{
		Year:       m.Year,
		Month:      m.Month,
		Categories: []CategoryShareBucket{},
	}
	if len(reports) == 0 {
		return result, nil
	}

	reportIDs := make([]string, 0, len(reports))
	for _, r := range reports {
		reportIDs = append(reportIDs, r.ID)
	}
	items, err := deps.ReportStore.ListItemsByReportIDs(ctx, reportIDs)
	if err != nil {
		return GetCategoryShareResult{}, err
	}

	// Fold items into buckets. Uncategorized items share one bucket under
	// the default label; the key pairs the ID with the lowercased name so
	// a renamed category does not collide with a deleted one's leftovers.
	buckets := make(map[string]*CategoryShareBucket)
	grandTotal := 0
	for _, item := range items {
		id := item.CategoryID
		name := item.CategoryName
		if name == "" {
			name = domainCategory.DefaultLabel
		}
		keyID := id
		if keyID == "" {
			keyID = "null"
		}
		key := keyID + "::" + strings.ToLower(name)

		b, ok := buckets[key]
		if !ok {
			b = &CategoryShareBucket{CategoryID: id, CategoryName: name}
			buckets[key] = b
		}
		b.Minutes += item.Minutes
		grandTotal += item.Minutes
	}

	// Zero total (no items, or all zero-minute items) is an empty share,
	// never a division error.
	if grandTotal == 0 {
		return result, nil
	}

	ordered := make([]CategoryShareBucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, *b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Minutes != ordered[j].Minutes {
			return ordered[i].Minutes > ordered[j].Minutes
		}
		return ordered[i].CategoryName < ordered[j].CategoryName
	})

	// Round each ratio to 3 decimal places except the last bucket, which
	// takes the residual so the ratios sum to exactly 1.0.
	roundedSum := 0.0
	for i := range ordered {
		if i == len(ordered)-1 {
			ordered[i].Ratio = 1.0 - roundedSum
			break
		}
		r := math.Round(float64(ordered[i].Minutes)/float64(grandTotal)*1000) / 1000
		ordered[i].Ratio = r
		roundedSum += r
	}

	result.Categories = ordered
	return result, nil
}
