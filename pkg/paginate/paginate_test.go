package paginate_test

import (
	"math"
	"testing"

	"github.com/shashiranjanraj/tienda/pkg/paginate"
)

func TestNewMeta(t *testing.T) {
	cases := []struct {
		name       string
		total      int64
		limit      int
		page       int
		totalPages int
		hasPrev    bool
		hasNext    bool
	}{
		{"empty collection still has one page", 0, 10, 1, 1, false, false},
		{"exact fit", 20, 10, 1, 2, false, true},
		{"middle page", 25, 10, 2, 3, true, true},
		{"last page", 25, 10, 3, 3, true, false},
		{"past the end", 25, 10, 9, 3, true, false},
		{"single record", 1, 10, 1, 1, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := paginate.NewMeta(tc.total, tc.limit, tc.page)
			if m.TotalPages != tc.totalPages {
				t.Errorf("TotalPages = %d, want %d", m.TotalPages, tc.totalPages)
			}
			if m.HasPrev != tc.hasPrev {
				t.Errorf("HasPrev = %v, want %v", m.HasPrev, tc.hasPrev)
			}
			if m.HasNext != tc.hasNext {
				t.Errorf("HasNext = %v, want %v", m.HasNext, tc.hasNext)
			}
			if tc.hasPrev && (m.Prev == nil || *m.Prev != tc.page-1) {
				t.Errorf("Prev = %v, want %d", m.Prev, tc.page-1)
			}
			if !tc.hasNext && m.Next != nil {
				t.Errorf("Next = %v, want nil", *m.Next)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := paginate.Offset(10, 1); got != 0 {
		t.Errorf("Offset(10,1) = %d", got)
	}
	if got := paginate.Offset(10, 3); got != 20 {
		t.Errorf("Offset(10,3) = %d", got)
	}
	if got := paginate.Offset(0, 0); got != 0 {
		t.Errorf("Offset(0,0) = %d", got)
	}
}

func TestOffsetSaturatesInsteadOfOverflowing(t *testing.T) {
	cases := []struct {
		name        string
		limit, page int
	}{
		{"huge limit", 1 << 62, 4},
		{"huge page", 4, 1 << 62},
		{"both huge", math.MaxInt, math.MaxInt},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := paginate.Offset(tc.limit, tc.page); got != math.MaxInt {
				t.Errorf("Offset(%d,%d) = %d, want math.MaxInt", tc.limit, tc.page, got)
			}
		})
	}
}

func TestLinksPreserveQuery(t *testing.T) {
	m := paginate.NewMeta(25, 10, 2)
	prev, next := paginate.Links("http://localhost:8080/api/products", paginate.Query{
		Limit:    10,
		Sort:     "desc",
		Category: "audio",
	}, m)
	if prev == nil || next == nil {
		t.Fatal("expected both links on a middle page")
	}
	wantPrev := "http://localhost:8080/api/products?limit=10&page=1&query=audio&sort=desc"
	if *prev != wantPrev {
		t.Errorf("prev = %q, want %q", *prev, wantPrev)
	}
	wantNext := "http://localhost:8080/api/products?limit=10&page=3&query=audio&sort=desc"
	if *next != wantNext {
		t.Errorf("next = %q, want %q", *next, wantNext)
	}
}

func TestLinksNilAtEdges(t *testing.T) {
	prev, next := paginate.Links("http://x", paginate.Query{Limit: 10}, paginate.NewMeta(5, 10, 1))
	if prev != nil || next != nil {
		t.Error("single page should have no links")
	}
}
