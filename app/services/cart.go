package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/tienda/app/models"
	"github.com/shashiranjanraj/tienda/app/store"
)

// Placeholder fields for cart lines whose product was deleted after being
// added. The line itself is kept; only the catalog data is gone.
const (
	missingProductTitle       = "Producto no disponible"
	missingProductDescription = "Descripción no disponible"
)

// CartService owns cart mutation rules. A product appears at most once per
// cart; adding an existing product merges quantities.
type CartService struct {
	carts    store.CartStore
	products store.ProductStore
}

func NewCart(carts store.CartStore, products store.ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

// Create opens a new cart. When productID is non-zero the cart starts with
// that product at the given quantity (minimum 1); the product must exist.
func (s *CartService) Create(ctx context.Context, productID int64, quantity int) (*models.Cart, error) {
	c := &models.Cart{Items: []models.CartItem{}}
	if productID != 0 {
		if _, err := s.products.Get(ctx, productID); err != nil {
			return nil, fmt.Errorf("product %d: %w", productID, err)
		}
		if quantity < 1 {
			quantity = 1
		}
		c.Items = append(c.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	}
	if err := s.carts.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the cart enriched with catalog data. Lines whose product no
// longer exists come back with placeholder fields and Available false.
func (s *CartService) Get(ctx context.Context, id int64) (*models.EnrichedCart, error) {
	c, err := s.carts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cart %d: %w", id, err)
	}
	out := &models.EnrichedCart{ID: c.ID, Items: make([]models.EnrichedItem, 0, len(c.Items))}
	for _, item := range c.Items {
		line := models.EnrichedItem{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			Title:       missingProductTitle,
			Description: missingProductDescription,
		}
		p, err := s.products.Get(ctx, item.ProductID)
		switch {
		case err == nil:
			line.Title = p.Title
			line.Description = p.Description
			line.Price = p.Price
			line.Available = true
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
		out.Items = append(out.Items, line)
	}
	return out, nil
}

// AddProduct adds quantity units of a product to the cart, merging with the
// existing line when the product is already there.
func (s *CartService) AddProduct(ctx context.Context, cartID, productID int64, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, invalid("quantity", "la cantidad debe ser al menos 1")
	}
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("cart %d: %w", cartID, err)
	}
	if item := c.Item(productID); item != nil {
		item.Quantity += quantity
	} else {
		c.Items = append(c.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("cart %d: %w", cartID, err)
	}
	return c, nil
}

// Replace swaps the cart contents wholesale. Every referenced product must
// exist; duplicate references are merged by summing quantities.
func (s *CartService) Replace(ctx context.Context, cartID int64, items []models.CartItem) (*models.Cart, error) {
	merged := make([]models.CartItem, 0, len(items))
	index := make(map[int64]int, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, invalid("quantity", "la cantidad debe ser al menos 1")
		}
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	ids := make([]int64, len(merged))
	for i, item := range merged {
		ids[i] = item.ProductID
	}
	if len(ids) > 0 {
		n, err := s.products.CountByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if n != int64(len(ids)) {
			return nil, invalid("products", "Uno o más productos no existen")
		}
	}
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("cart %d: %w", cartID, err)
	}
	c.Items = merged
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("cart %d: %w", cartID, err)
	}
	return c, nil
}

// RemoveItem drops one product line from the cart. Removing a product that
// is not in the cart is a no-op, not an error.
func (s *CartService) RemoveItem(ctx context.Context, cartID, productID int64) (*models.Cart, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("cart %d: %w", cartID, err)
	}
	kept := c.Items[:0:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(c.Items) {
		return c, nil
	}
	c.Items = kept
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("cart %d: %w", cartID, err)
	}
	return c, nil
}
