package store

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/tienda/config"
	"github.com/shashiranjanraj/tienda/pkg/database"
)

// FromConfig builds the product and cart stores for the configured
// STORE_DRIVER. Unknown drivers are an error, not a silent fallback.
func FromConfig(ctx context.Context) (ProductStore, CartStore, error) {
	switch driver := config.StoreDriver(); driver {
	case "file":
		dir := config.DataDir()
		return NewFileProducts(dir), NewFileCarts(dir), nil
	case "mongo":
		db, err := ConnectMongo(ctx, config.MongoURI(), config.MongoDB())
		if err != nil {
			return nil, nil, err
		}
		products, err := NewMongoProducts(ctx, db)
		if err != nil {
			return nil, nil, err
		}
		return products, NewMongoCarts(db), nil
	case "database":
		if err := database.Connect(); err != nil {
			return nil, nil, err
		}
		products, err := NewGormProducts(database.DB)
		if err != nil {
			return nil, nil, err
		}
		carts, err := NewGormCarts(database.DB)
		if err != nil {
			return nil, nil, err
		}
		return products, carts, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}
}
