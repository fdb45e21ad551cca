package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/tienda/app/models"
	"github.com/shashiranjanraj/tienda/app/store"
)

func gormDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestGormProductsUpdateWithUnchangedValues(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewGormProducts(gormDB(t))
	require.NoError(t, err)

	p := product(1, "teclado", 50, "periféricos")
	require.NoError(t, s.Insert(ctx, &p))

	// Saving the exact same values must not be mistaken for a missing
	// record; some drivers report zero affected rows for no-op updates.
	require.NoError(t, s.Update(ctx, &p))

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "teclado", got.Title)

	missing := product(99, "fantasma", 10, "a")
	assert.ErrorIs(t, s.Update(ctx, &missing), store.ErrNotFound)
}

func TestGormCartsSaveWithUnchangedItems(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewGormCarts(gormDB(t))
	require.NoError(t, err)

	c := models.Cart{Items: []models.CartItem{{ProductID: 7, Quantity: 2}}}
	require.NoError(t, s.Create(ctx, &c))
	require.NoError(t, s.Save(ctx, &c))

	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)

	assert.ErrorIs(t, s.Save(ctx, &models.Cart{ID: 404}), store.ErrNotFound)
}
