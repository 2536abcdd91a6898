package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	categoryDomain "studylog/internal/domain/category"
	reportDomain "studylog/internal/domain/report"
)

type mockReportStore struct {
	byDate map[string]reportDomain.DailyReport // keyed accountID+"|"+date
	saved  []reportDomain.DailyReport
	items  [][]reportDomain.DailyReportItem
}

func newMockReportStore() *mockReportStore {
	return &mockReportStore{byDate: map[string]reportDomain.DailyReport{}}
}

func (m *mockReportStore) GetByAccountAndDate(_ context.Context, accountID, date string) (reportDomain.DailyReport, error) {
	r, ok := m.byDate[accountID+"|"+date]
	if !ok {
		return reportDomain.DailyReport{}, errors.New("report not found")
	}
	return r, nil
}

func (m *mockReportStore) SaveWithItems(_ context.Context, r reportDomain.DailyReport, items []reportDomain.DailyReportItem) error {
	m.byDate[r.AccountID+"|"+r.Date] = r
	m.saved = append(m.saved, r)
	m.items = append(m.items, items)
	return nil
}

type mockCategoryLookup struct {
	categories map[string]categoryDomain.Category
}

func (m *mockCategoryLookup) GetByID(_ context.Context, id string) (categoryDomain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return categoryDomain.Category{}, errors.New("category not found")
	}
	return c, nil
}

func saveReportDeps(store *mockReportStore, cats *mockCategoryLookup) SaveReportDeps {
	return SaveReportDeps{
		ReportStore:   store,
		CategoryStore: cats,
		GenerateID:    sequentialIDs(),
		Now:           func() time.Time { return time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC) },
	}
}

// TestExecuteSaveReport_NewReport verifies totals, item positions and the
// captured category name.
func TestExecuteSaveReport_NewReport(t *testing.T) {
	store := newMockReportStore()
	cats := &mockCategoryLookup{categories: map[string]categoryDomain.Category{
		"c1": {ID: "c1", AccountID: "a1", Name: "数学"},
	}}

	rep, err := ExecuteSaveReport(context.Background(), SaveReportInput{
		AccountID: "a1",
		Date:      "2026-02-10",
		Items: []SaveReportItemInput{
			{CategoryID: "c1", Minutes: 60},
			{Minutes: 30, Note: "復習"},
		},
	}, saveReportDeps(store, cats))
	if err != nil {
		t.Fatalf("ExecuteSaveReport() error = %v", err)
	}

	if rep.TotalMinutes != 90 {
		t.Errorf("TotalMinutes = %d, want 90", rep.TotalMinutes)
	}
	items := store.items[0]
	if len(items) != 2 {
		t.Fatalf("saved %d items, want 2", len(items))
	}
	if items[0].CategoryName != "数学" || items[0].Position != 0 {
		t.Errorf("item[0] = %+v, want captured name and position 0", items[0])
	}
	if items[1].CategoryID != "" || items[1].CategoryName != "" || items[1].Position != 1 {
		t.Errorf("item[1] = %+v, want uncategorized at position 1", items[1])
	}
}

// TestExecuteSaveReport_DateUpsert verifies re-saving a date keeps the
// report's identity and creation time.
func TestExecuteSaveReport_DateUpsert(t *testing.T) {
	store := newMockReportStore()
	created := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	store.byDate["a1|2026-02-10"] = reportDomain.DailyReport{
		ID: "existing", AccountID: "a1", Date: "2026-02-10", TotalMinutes: 60, CreatedAt: created,
	}

	rep, err := ExecuteSaveReport(context.Background(), SaveReportInput{
		AccountID: "a1",
		Date:      "2026-02-10",
		Items:     []SaveReportItemInput{{Minutes: 45}},
	}, saveReportDeps(store, &mockCategoryLookup{}))
	if err != nil {
		t.Fatalf("ExecuteSaveReport() error = %v", err)
	}

	if rep.ID != "existing" {
		t.Errorf("ID = %q, want the existing report's ID", rep.ID)
	}
	if !rep.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want original %v", rep.CreatedAt, created)
	}
	if rep.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set on upsert")
	}
	if rep.TotalMinutes != 45 {
		t.Errorf("TotalMinutes = %d, want 45", rep.TotalMinutes)
	}
}

// TestExecuteSaveReport_Validation verifies the rejection paths.
func TestExecuteSaveReport_Validation(t *testing.T) {
	cats := &mockCategoryLookup{categories: map[string]categoryDomain.Category{
		"theirs": {ID: "theirs", AccountID: "someone-else", Name: "English"},
	}}

	tests := []struct {
		name    string
		input   SaveReportInput
		wantErr error
	}{
		{
			name:    "no items",
			input:   SaveReportInput{AccountID: "a1", Date: "2026-02-10"},
			wantErr: reportDomain.ErrNoItems,
		},
		{
			name: "bad date",
			input: SaveReportInput{AccountID: "a1", Date: "02/10/2026",
				Items: []SaveReportItemInput{{Minutes: 10}}},
			wantErr: reportDomain.ErrInvalidDate,
		},
		{
			name: "negative minutes",
			input: SaveReportInput{AccountID: "a1", Date: "2026-02-10",
				Items: []SaveReportItemInput{{Minutes: -5}}},
			wantErr: reportDomain.ErrNegativeMinutes,
		},
		{
			name: "another user's category",
			input: SaveReportInput{AccountID: "a1", Date: "2026-02-10",
				Items: []SaveReportItemInput{{CategoryID: "theirs", Minutes: 10}}},
			wantErr: ErrCategoryNotOwned,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExecuteSaveReport(context.Background(), tt.input, saveReportDeps(newMockReportStore(), cats))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
