package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/shashiranjanraj/tienda/app/models"
	"github.com/shashiranjanraj/tienda/app/store"
	"github.com/shashiranjanraj/tienda/config"
	"github.com/shashiranjanraj/tienda/pkg/cache"
	"github.com/shashiranjanraj/tienda/pkg/event"
	"github.com/shashiranjanraj/tienda/pkg/storage"
	"github.com/shashiranjanraj/tienda/pkg/validate"
)

// EventCatalogChanged fires after any mutation that should reach live
// viewers. The payload is nil; listeners refetch the catalog themselves.
const EventCatalogChanged = "catalog.changed"

const catalogCacheKey = "catalog:all"

// ProductInput is the create payload. Price and stock are pointers so that
// an explicit zero and an absent field validate differently.
type ProductInput struct {
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description" validate:"required"`
	Code        string            `json:"code" validate:"required"`
	Price       *float64          `json:"price" validate:"required,gt=0"`
	Stock       *int              `json:"stock" validate:"required,gte=0"`
	Category    string            `json:"category" validate:"required"`
	Status      *bool             `json:"status"`
	Thumbnails  models.StringList `json:"thumbnails"`
}

// ProductPatch is the partial update payload. Nil fields keep their stored
// value. ID is decoded but never applied; the route parameter wins.
type ProductPatch struct {
	ID          *int64             `json:"id"`
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Code        *string            `json:"code"`
	Price       *float64           `json:"price"`
	Stock       *int               `json:"stock"`
	Category    *string            `json:"category"`
	Status      *bool              `json:"status"`
	Thumbnails  *models.StringList `json:"thumbnails"`
}

// CatalogService owns product ids, validation and change notification. It is
// safe for concurrent use as long as its store is.
type CatalogService struct {
	store       store.ProductStore
	uniqueCodes bool
	cacheTTL    time.Duration
}

// NewCatalog wires a catalog over the given store. uniqueCodes turns the
// duplicate-code check into a hard rejection; off, codes are advisory.
func NewCatalog(s store.ProductStore, uniqueCodes bool) *CatalogService {
	return &CatalogService{
		store:       s,
		uniqueCodes: uniqueCodes,
		cacheTTL:    time.Duration(config.CacheTTLSeconds()) * time.Second,
	}
}

// UniqueCodesFromConfig resolves the tri-state CATALOG_UNIQUE_CODES setting:
// an explicit value wins, otherwise only the mongo backend (which carries a
// unique index anyway) enforces uniqueness.
func UniqueCodesFromConfig() bool {
	if enabled, set := config.CatalogUniqueCodes(); set {
		return enabled
	}
	return config.StoreDriver() == "mongo"
}

// All returns the whole catalog in storage order. A positive limit truncates
// the result; zero or negative means everything. This is the collection the
// realtime push and the seeder consume.
func (s *CatalogService) All(ctx context.Context, limit int) ([]models.Product, error) {
	var items []models.Product
	if !cache.Get(catalogCacheKey, &items) {
		var err error
		items, err = s.store.All(ctx)
		if err != nil {
			return nil, err
		}
		// cache trouble must not fail the read
		_ = cache.Set(catalogCacheKey, items, s.cacheTTL)
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

// List returns one catalog page per q.
func (s *CatalogService) List(ctx context.Context, q store.ListQuery) (*store.ProductPage, error) {
	return s.store.Paginate(ctx, q)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	return p, nil
}

// Create validates in, assigns the next id and persists the product. The id
// is always one above the current maximum, so a fresh catalog starts at 1.
func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if fe := validate.First(in); fe != nil {
		return nil, invalid(fe.Field, fe.Message)
	}
	if s.uniqueCodes {
		taken, err := s.store.CodeExists(ctx, in.Code, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, invalid("code", fmt.Sprintf("el código %q ya está en uso", in.Code))
		}
	}
	maxID, err := s.store.MaxID(ctx)
	if err != nil {
		return nil, err
	}
	p := &models.Product{
		ID:          maxID + 1,
		Title:       in.Title,
		Description: in.Description,
		Code:        in.Code,
		Price:       *in.Price,
		Stock:       *in.Stock,
		Category:    in.Category,
		Status:      true,
		Thumbnails:  in.Thumbnails,
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if p.Thumbnails == nil {
		p.Thumbnails = models.StringList{}
	}
	if err := s.store.Insert(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicateCode) {
			return nil, invalid("code", fmt.Sprintf("el código %q ya está en uso", in.Code))
		}
		return nil, err
	}
	s.changed()
	return p, nil
}

// Update merges the non-nil fields of patch into the stored product. The
// stored id is never overwritten.
func (s *CatalogService) Update(ctx context.Context, id int64, patch ProductPatch) (*models.Product, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Code != nil {
		p.Code = *patch.Code
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Thumbnails != nil {
		p.Thumbnails = *patch.Thumbnails
	}
	if s.uniqueCodes && patch.Code != nil {
		taken, err := s.store.CodeExists(ctx, p.Code, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, invalid("code", fmt.Sprintf("el código %q ya está en uso", p.Code))
		}
	}
	if err := s.store.Update(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicateCode) {
			return nil, invalid("code", fmt.Sprintf("el código %q ya está en uso", p.Code))
		}
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	s.invalidate()
	return p, nil
}

// Delete removes the product. Deleting twice returns ErrNotFound the second
// time; carts that still reference the id keep their entries.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("product %d: %w", id, err)
	}
	s.changed()
	return nil
}

// AttachThumbnail stores the uploaded image on the default disk and appends
// its public URL to the product's thumbnail list.
func (s *CatalogService) AttachThumbnail(ctx context.Context, id int64, filename string, content []byte) (*models.Product, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	name := path.Base(filename)
	if name == "." || name == "/" || name == "" {
		return nil, invalid("thumbnail", "nombre de archivo inválido")
	}
	key := fmt.Sprintf("thumbnails/%d/%s", id, name)
	if err := storage.Put(key, content); err != nil {
		return nil, fmt.Errorf("store thumbnail: %w", err)
	}
	p.Thumbnails = append(p.Thumbnails, storage.URL(key))
	if err := s.store.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	s.changed()
	return p, nil
}

func (s *CatalogService) changed() {
	s.invalidate()
	event.FireAsync(EventCatalogChanged, nil)
}

func (s *CatalogService) invalidate() {
	_ = cache.Forget(catalogCacheKey)
}
