package category_test

import (
	"testing"

	"studylog/internal/domain/category"
)

// TestCategory_Validate tests validation of Category.
func TestCategory_Validate(t *testing.T) {
	tests := []struct {
		name     string
		category category.Category
		wantErr  bool
	}{
		{
			name:     "valid with color",
			category: category.Category{ID: "1", AccountID: "u1", Name: "数学", Color: "blue"},
			wantErr:  false,
		},
		{
			name:     "valid without color",
			category: category.Category{ID: "2", AccountID: "u1", Name: "English"},
			wantErr:  false,
		},
		{
			name:     "empty name",
			category: category.Category{ID: "3", AccountID: "u1", Name: "   "},
			wantErr:  true,
		},
		{
			name:     "name too long",
			category: category.Category{ID: "4", AccountID: "u1", Name: string(make([]rune, 51))},
			wantErr:  true,
		},
		{
			name:     "unknown color",
			category: category.Category{ID: "5", AccountID: "u1", Name: "Science", Color: "magenta"},
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.category.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestCategory_NormalizedName tests case folding for uniqueness.
func TestCategory_NormalizedName(t *testing.T) {
	c := category.Category{Name: "  Math  "}
	if got := c.NormalizedName(); got != "math" {
		t.Errorf("NormalizedName() = %q, want %q", got, "math")
	}
}
