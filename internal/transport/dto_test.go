package transport

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		total int
		pages int
	}{
		{"partial last page", 1, 20, 45, 3},
		{"exact multiple", 2, 10, 100, 10},
		{"empty set", 1, 20, 0, 0},
		{"single item", 1, 20, 1, 1},
		{"total below limit", 1, 100, 7, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			if p.Pages != tt.pages {
				t.Errorf("NewPagination(%d, %d, %d).Pages = %d, want %d", tt.page, tt.limit, tt.total, p.Pages, tt.pages)
			}
			if p.Page != tt.page || p.Limit != tt.limit || p.Total != tt.total {
				t.Errorf("pagination meta should echo its inputs, got %+v", p)
			}
		})
	}
}

func TestProperty_PagesIsCeilingOfTotalOverLimit(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("pages covers the whole set with no empty trailing page", prop.ForAll(
		func(total, limit int) bool {
			p := NewPagination(1, limit, total)

			if total == 0 {
				return p.Pages == 0
			}

			// All items fit in pages pages, and one page fewer would not.
			if p.Pages*limit < total {
				t.Logf("FAIL: %d pages of %d do not cover %d items", p.Pages, limit, total)
				return false
			}
			if (p.Pages-1)*limit >= total {
				t.Logf("FAIL: %d pages of %d is one more than %d items need", p.Pages, limit, total)
				return false
			}
			return true
		},
		gen.IntRange(0, 10000),
		gen.IntRange(1, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
