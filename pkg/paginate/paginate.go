// Package paginate computes page metadata and navigation links for catalog
// listings. It is pure: no store access, no side effects, so every backend
// can share the same envelope math.
package paginate

import (
	"math"
	"net/url"
	"strconv"
)

// Meta describes one page of a paginated result.
type Meta struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	Prev       *int
	Next       *int
}

// NewMeta derives page metadata from a total record count, a page size and
// the requested page. An empty result still has one (empty) page so that
// page/totalPages stay meaningful. Requests past the last page yield an
// empty page with HasNext=false rather than an error.
func NewMeta(total int64, limit, page int) Meta {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}

	m := Meta{
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
	if m.HasPrev {
		prev := page - 1
		m.Prev = &prev
	}
	if m.HasNext {
		next := page + 1
		m.Next = &next
	}
	return m
}

// Offset returns the number of records to skip for this page. The product
// saturates at math.MaxInt instead of wrapping, so absurd page numbers land
// past the end of any collection rather than producing a negative offset.
func Offset(limit, page int) int {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// Query carries the listing parameters that navigation links must preserve.
type Query struct {
	Limit    int
	Sort     string // "asc", "desc" or ""
	Category string // category filter, "" for none
}

// Links builds fully qualified prev/next URLs from the page metadata and the
// original query. A missing adjacent page yields a nil link, which encodes
// to JSON null.
func Links(baseURL string, q Query, m Meta) (prev, next *string) {
	if m.Prev != nil {
		u := link(baseURL, q, *m.Prev)
		prev = &u
	}
	if m.Next != nil {
		u := link(baseURL, q, *m.Next)
		next = &u
	}
	return prev, next
}

func link(baseURL string, q Query, page int) string {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("page", strconv.Itoa(page))
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if q.Category != "" {
		params.Set("query", q.Category)
	}
	return baseURL + "?" + params.Encode()
}
