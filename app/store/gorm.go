package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/tienda/app/models"
	"github.com/shashiranjanraj/tienda/pkg/metrics"
	"github.com/shashiranjanraj/tienda/pkg/paginate"
)

// GormProducts keeps the catalog in a relational table via GORM. Product ids
// are assigned by the service layer, not the database, so every backend
// produces the same id sequence.
type GormProducts struct {
	db *gorm.DB
}

func NewGormProducts(db *gorm.DB) (*GormProducts, error) {
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return nil, fmt.Errorf("migrate products: %w", err)
	}
	return &GormProducts{db: db}, nil
}

func (s *GormProducts) All(ctx context.Context) ([]models.Product, error) {
	defer metrics.ObserveStoreOp("database", "products.all", time.Now())
	var items []models.Product
	if err := s.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

func (s *GormProducts) Paginate(ctx context.Context, q ListQuery) (*ProductPage, error) {
	defer metrics.ObserveStoreOp("database", "products.paginate", time.Now())
	q = q.Normalize()
	tx := s.db.WithContext(ctx).Model(&models.Product{})
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	switch q.Sort {
	case "asc":
		tx = tx.Order("price asc")
	case "desc":
		tx = tx.Order("price desc")
	default:
		tx = tx.Order("id")
	}
	var items []models.Product
	err := tx.Offset(paginate.Offset(q.Limit, q.Page)).Limit(q.Limit).Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("page products: %w", err)
	}
	return &ProductPage{Items: items, Meta: paginate.NewMeta(total, q.Limit, q.Page)}, nil
}

func (s *GormProducts) Get(ctx context.Context, id int64) (*models.Product, error) {
	defer metrics.ObserveStoreOp("database", "products.get", time.Now())
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return &p, nil
}

func (s *GormProducts) MaxID(ctx context.Context) (int64, error) {
	var max int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Select("COALESCE(MAX(id), 0)").Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("max product id: %w", err)
	}
	return max, nil
}

func (s *GormProducts) Insert(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveStoreOp("database", "products.insert", time.Now())
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *GormProducts) Update(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveStoreOp("database", "products.update", time.Now())
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", p.ID).
		Select("*").Omit("id").
		Updates(p)
	if res.Error != nil {
		return fmt.Errorf("update product %d: %w", p.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports changed rows, not matched rows, so a no-op update
		// also affects zero rows. Confirm the record is really gone before
		// reporting ErrNotFound.
		var n int64
		err := s.db.WithContext(ctx).Model(&models.Product{}).
			Where("id = ?", p.ID).Count(&n).Error
		if err != nil {
			return fmt.Errorf("update product %d: %w", p.ID, err)
		}
		if n == 0 {
			return ErrNotFound
		}
	}
	return nil
}

func (s *GormProducts) Delete(ctx context.Context, id int64) error {
	defer metrics.ObserveStoreOp("database", "products.delete", time.Now())
	res := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormProducts) CountByIDs(ctx context.Context, ids []int64) (int64, error) {
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id IN ?", ids).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count products by id: %w", err)
	}
	return n, nil
}

func (s *GormProducts) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("code = ? AND id <> ?", code, excludeID).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("count products by code: %w", err)
	}
	return n > 0, nil
}

// GormCarts keeps carts in a relational table. Items are serialized as a JSON
// column, matching the document shape the other backends use. Id assignment
// is max+1 under a local mutex; that is enough because all writers share this
// process, same as the file backend.
type GormCarts struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewGormCarts(db *gorm.DB) (*GormCarts, error) {
	if err := db.AutoMigrate(&models.Cart{}); err != nil {
		return nil, fmt.Errorf("migrate carts: %w", err)
	}
	return &GormCarts{db: db}, nil
}

func (s *GormCarts) Create(ctx context.Context, c *models.Cart) error {
	defer metrics.ObserveStoreOp("database", "carts.create", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	var max int64
	err := s.db.WithContext(ctx).Model(&models.Cart{}).
		Select("COALESCE(MAX(id), 0)").Scan(&max).Error
	if err != nil {
		return fmt.Errorf("max cart id: %w", err)
	}
	c.ID = max + 1
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

func (s *GormCarts) Get(ctx context.Context, id int64) (*models.Cart, error) {
	defer metrics.ObserveStoreOp("database", "carts.get", time.Now())
	var c models.Cart
	err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart %d: %w", id, err)
	}
	return &c, nil
}

func (s *GormCarts) Save(ctx context.Context, c *models.Cart) error {
	defer metrics.ObserveStoreOp("database", "carts.save", time.Now())
	res := s.db.WithContext(ctx).Model(&models.Cart{}).
		Where("id = ?", c.ID).
		Select("*").Omit("id").
		Updates(c)
	if res.Error != nil {
		return fmt.Errorf("update cart %d: %w", c.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Same no-op-update caveat as GormProducts.Update: zero affected
		// rows does not mean the cart is missing.
		var n int64
		err := s.db.WithContext(ctx).Model(&models.Cart{}).
			Where("id = ?", c.ID).Count(&n).Error
		if err != nil {
			return fmt.Errorf("update cart %d: %w", c.ID, err)
		}
		if n == 0 {
			return ErrNotFound
		}
	}
	return nil
}
