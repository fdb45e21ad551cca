// Package seeders provides a registry of catalog seed functions.
//
// Usage (define a seeder in any file in this package):
//
//	func init() {
//	    seeders.Register("products", SeedProducts)
//	}
//
//	func SeedProducts(ctx context.Context, catalog *services.CatalogService) error {
//	    // create records …
//	    return nil
//	}
//
// Then run via CLI: tienda seed
package seeders

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/tienda/app/services"
)

// SeederFunc is the signature for a seed function. Seeders go through the
// catalog service so ids and validation behave exactly like API writes.
type SeederFunc func(ctx context.Context, catalog *services.CatalogService) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
// Call this from init() in your seeder files.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order.
// It stops on the first error.
func RunAll(ctx context.Context, catalog *services.CatalogService) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Println("  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Printf("  • Running seeder: %s … ", e.name)
		if err := e.fn(ctx, catalog); err != nil {
			fmt.Println("failed")
			return fmt.Errorf("seeder %s: %w", e.name, err)
		}
		fmt.Println("done")
	}
	return nil
}
