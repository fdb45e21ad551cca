package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/tienda/app/models"
	"github.com/shashiranjanraj/tienda/app/store"
)

func product(id int64, title string, price float64, category string) models.Product {
	return models.Product{
		ID: id, Title: title, Description: "d", Code: title,
		Price: price, Stock: 5, Category: category, Status: true,
		Thumbnails: models.StringList{},
	}
}

func TestFileProductsMissingFileIsEmpty(t *testing.T) {
	s := store.NewFileProducts(t.TempDir())
	items, err := s.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)

	max, err := s.MaxID(context.Background())
	require.NoError(t, err)
	assert.Zero(t, max)
}

func TestFileProductsCRUD(t *testing.T) {
	ctx := context.Background()
	s := store.NewFileProducts(t.TempDir())

	p := product(1, "teclado", 50, "periféricos")
	require.NoError(t, s.Insert(ctx, &p))

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "teclado", got.Title)

	got.Price = 60
	require.NoError(t, s.Update(ctx, got))
	got, err = s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 60.0, got.Price)

	require.NoError(t, s.Delete(ctx, 1))
	_, err = s.Get(ctx, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 1), store.ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, &p), store.ErrNotFound)
}

func TestFileProductsSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := store.NewFileProducts(dir)
	p := product(1, "mouse", 30, "periféricos")
	require.NoError(t, s.Insert(ctx, &p))

	reopened := store.NewFileProducts(dir)
	got, err := reopened.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "mouse", got.Title)
}

func TestFileProductsPaginate(t *testing.T) {
	ctx := context.Background()
	s := store.NewFileProducts(t.TempDir())
	prices := []float64{30, 10, 20}
	for i, price := range prices {
		p := product(int64(i+1), "p", price, "a")
		if i == 2 {
			p.Category = "b"
		}
		require.NoError(t, s.Insert(ctx, &p))
	}

	page, err := s.Paginate(ctx, store.ListQuery{Limit: 2, Page: 1, Sort: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 10.0, page.Items[0].Price)
	assert.Equal(t, 20.0, page.Items[1].Price)
	assert.Equal(t, 2, page.Meta.TotalPages)
	assert.True(t, page.Meta.HasNext)

	page, err = s.Paginate(ctx, store.ListQuery{Limit: 2, Page: 2, Sort: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 30.0, page.Items[0].Price)

	// category filter
	page, err = s.Paginate(ctx, store.ListQuery{Limit: 10, Page: 1, Category: "b"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "b", page.Items[0].Category)

	// past the end is an empty page, not an error
	page, err = s.Paginate(ctx, store.ListQuery{Limit: 2, Page: 9})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestFileProductsPaginateExtremeValues(t *testing.T) {
	ctx := context.Background()
	s := store.NewFileProducts(t.TempDir())
	p := product(1, "p", 10, "a")
	require.NoError(t, s.Insert(ctx, &p))

	// limit*page values near the int range must yield an empty page, not a
	// wrapped-around slice offset.
	page, err := s.Paginate(ctx, store.ListQuery{Limit: 1 << 62, Page: 4})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = s.Paginate(ctx, store.ListQuery{Limit: 4, Page: 1 << 62})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	// an oversized limit is capped, not honored verbatim
	page, err = s.Paginate(ctx, store.ListQuery{Limit: 1 << 62, Page: 1})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestFileProductsCountAndCode(t *testing.T) {
	ctx := context.Background()
	s := store.NewFileProducts(t.TempDir())
	for i := int64(1); i <= 3; i++ {
		p := product(i, "p", 10, "a")
		p.Code = map[int64]string{1: "A", 2: "B", 3: "C"}[i]
		require.NoError(t, s.Insert(ctx, &p))
	}

	n, err := s.CountByIDs(ctx, []int64{1, 3, 9})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// duplicates count once
	n, err = s.CountByIDs(ctx, []int64{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	taken, err := s.CodeExists(ctx, "B", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = s.CodeExists(ctx, "B", 2)
	require.NoError(t, err)
	assert.False(t, taken, "the product itself does not conflict")
}

func TestFileProductsNoPartialFileOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := store.NewFileProducts(dir)
	p := product(1, "cam", 55, "a")
	require.NoError(t, s.Insert(ctx, &p))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not linger")
	assert.Equal(t, "products.json", entries[0].Name())
	_, err = os.Stat(filepath.Join(dir, "products.json"))
	require.NoError(t, err)
}

func TestFileCartsAssignSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := store.NewFileCarts(t.TempDir())

	a := &models.Cart{Items: []models.CartItem{}}
	b := &models.Cart{Items: []models.CartItem{}}
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
}

func TestFileCartsSave(t *testing.T) {
	ctx := context.Background()
	s := store.NewFileCarts(t.TempDir())

	c := &models.Cart{Items: []models.CartItem{}}
	require.NoError(t, s.Create(ctx, c))

	c.Items = append(c.Items, models.CartItem{ProductID: 7, Quantity: 2})
	require.NoError(t, s.Save(ctx, c))

	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(7), got.Items[0].ProductID)

	_, err = s.Get(ctx, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Save(ctx, &models.Cart{ID: 99}), store.ErrNotFound)
}
