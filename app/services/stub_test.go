package services_test

import (
	"context"
	"sort"

	"github.com/shashiranjanraj/tienda/app/models"
	"github.com/shashiranjanraj/tienda/app/store"
	"github.com/shashiranjanraj/tienda/pkg/paginate"
)

// memProducts is a lightweight in-memory product store for tests.
type memProducts struct {
	items map[int64]models.Product
}

func newMemProducts() *memProducts {
	return &memProducts{items: make(map[int64]models.Product)}
}

func (m *memProducts) All(context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProducts) Paginate(ctx context.Context, q store.ListQuery) (*store.ProductPage, error) {
	q = q.Normalize()
	items, _ := m.All(ctx)
	if q.Category != "" {
		kept := items[:0:0]
		for _, p := range items {
			if p.Category == q.Category {
				kept = append(kept, p)
			}
		}
		items = kept
	}
	meta := paginate.NewMeta(int64(len(items)), q.Limit, q.Page)
	start := paginate.Offset(q.Limit, q.Page)
	if start > len(items) {
		start = len(items)
	}
	end := start + q.Limit
	if end > len(items) {
		end = len(items)
	}
	return &store.ProductPage{Items: items[start:end], Meta: meta}, nil
}

func (m *memProducts) Get(_ context.Context, id int64) (*models.Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := p
	return &clone, nil
}

func (m *memProducts) MaxID(context.Context) (int64, error) {
	var max int64
	for id := range m.items {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (m *memProducts) Insert(_ context.Context, p *models.Product) error {
	m.items[p.ID] = *p
	return nil
}

func (m *memProducts) Update(_ context.Context, p *models.Product) error {
	if _, ok := m.items[p.ID]; !ok {
		return store.ErrNotFound
	}
	m.items[p.ID] = *p
	return nil
}

func (m *memProducts) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memProducts) CountByIDs(_ context.Context, ids []int64) (int64, error) {
	seen := make(map[int64]struct{})
	var n int64
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := m.items[id]; ok {
			n++
		}
	}
	return n, nil
}

func (m *memProducts) CodeExists(_ context.Context, code string, excludeID int64) (bool, error) {
	for _, p := range m.items {
		if p.Code == code && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// memCarts is a lightweight in-memory cart store for tests.
type memCarts struct {
	items  map[int64]models.Cart
	nextID int64
}

func newMemCarts() *memCarts {
	return &memCarts{items: make(map[int64]models.Cart)}
}

func (m *memCarts) Create(_ context.Context, c *models.Cart) error {
	m.nextID++
	c.ID = m.nextID
	m.items[c.ID] = *c
	return nil
}

func (m *memCarts) Get(_ context.Context, id int64) (*models.Cart, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := c
	clone.Items = append([]models.CartItem(nil), c.Items...)
	return &clone, nil
}

func (m *memCarts) Save(_ context.Context, c *models.Cart) error {
	if _, ok := m.items[c.ID]; !ok {
		return store.ErrNotFound
	}
	m.items[c.ID] = *c
	return nil
}
