// Package store defines the persistence port for the catalog and carts, and
// its three interchangeable backends: a flat JSON file store, a MongoDB
// document store and a GORM relational store. All adapters satisfy the same
// pre/postconditions — a save that returns nil is durably visible to the
// next load, and no partial write is ever observable.
package store

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/tienda/app/models"
	"github.com/shashiranjanraj/tienda/pkg/paginate"
)

var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateCode means a product with the same code already exists in
	// a backend that enforces code uniqueness.
	ErrDuplicateCode = errors.New("duplicate product code")
)

// ListQuery carries the catalog listing parameters.
type ListQuery struct {
	Limit    int    // page size, default 10
	Page     int    // 1-based, default 1
	Sort     string // "asc" | "desc" by price, "" for storage order
	Category string // exact category filter, "" for none
}

// maxListLimit caps the page size a client can request.
const maxListLimit = 100

// Normalize fills in the documented defaults and caps the page size.
func (q ListQuery) Normalize() ListQuery {
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Sort != "asc" && q.Sort != "desc" {
		q.Sort = ""
	}
	return q
}

// ProductPage is one page of catalog records plus its pagination metadata.
type ProductPage struct {
	Items []models.Product
	Meta  paginate.Meta
}

// ProductStore is the persistence port for catalog records.
type ProductStore interface {
	// All returns every product in storage order.
	All(ctx context.Context) ([]models.Product, error)
	// Paginate returns one page, filtered and sorted per q.
	Paginate(ctx context.Context, q ListQuery) (*ProductPage, error)
	// Get returns the product with the given id or ErrNotFound.
	Get(ctx context.Context, id int64) (*models.Product, error)
	// MaxID returns the highest assigned product id, 0 when empty.
	MaxID(ctx context.Context) (int64, error)
	// Insert persists a new product. The caller has already assigned its id.
	Insert(ctx context.Context, p *models.Product) error
	// Update replaces the stored product with the same id, or ErrNotFound.
	Update(ctx context.Context, p *models.Product) error
	// Delete removes the product or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
	// CountByIDs returns how many of the given ids exist.
	CountByIDs(ctx context.Context, ids []int64) (int64, error)
	// CodeExists reports whether another product (id != excludeID) already
	// uses code.
	CodeExists(ctx context.Context, code string, excludeID int64) (bool, error)
}

// CartStore is the persistence port for carts. The store assigns cart ids
// on Create.
type CartStore interface {
	Create(ctx context.Context, c *models.Cart) error
	Get(ctx context.Context, id int64) (*models.Cart, error)
	// Save replaces the stored cart with the same id, or ErrNotFound.
	Save(ctx context.Context, c *models.Cart) error
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
