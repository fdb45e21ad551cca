package seeders

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/tienda/app/models"
	"github.com/shashiranjanraj/tienda/app/services"
)

func init() {
	Register("products", SeedProducts)
}

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }

// SeedProducts loads a small demo catalog. It refuses to run against a
// non-empty catalog so reruns never duplicate products.
func SeedProducts(ctx context.Context, catalog *services.CatalogService) error {
	existing, err := catalog.All(ctx, 1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("catalog is not empty, refusing to seed")
	}

	demo := []services.ProductInput{
		{Title: "Teclado mecánico", Description: "Switches rojos, layout español", Code: "TEC-001", Price: f64(74.99), Stock: i(25), Category: "periféricos"},
		{Title: "Mouse inalámbrico", Description: "Sensor óptico de 16000 DPI", Code: "MOU-002", Price: f64(39.5), Stock: i(40), Category: "periféricos"},
		{Title: "Monitor 27\"", Description: "Panel IPS, 144 Hz, QHD", Code: "MON-003", Price: f64(289), Stock: i(12), Category: "pantallas"},
		{Title: "Auriculares", Description: "Cancelación activa de ruido", Code: "AUR-004", Price: f64(120), Stock: i(18), Category: "audio"},
		{Title: "Webcam HD", Description: "1080p con micrófono integrado", Code: "CAM-005", Price: f64(55), Stock: i(0), Category: "periféricos", Thumbnails: models.StringList{"https://example.com/img/cam-005.jpg"}},
	}
	for _, in := range demo {
		if _, err := catalog.Create(ctx, in); err != nil {
			return err
		}
	}
	return nil
}
