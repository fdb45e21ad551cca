package models

// Cart holds quantities of products a viewer intends to buy. Items reference
// products by id without owning them: deleting a product leaves the cart
// entry in place and the read side substitutes placeholder details.
type Cart struct {
	ID    int64      `json:"id"    bson:"_id"   gorm:"primaryKey;autoIncrement:false"`
	Items []CartItem `json:"products" bson:"products" gorm:"serializer:json"`
}

// CartItem is one product reference inside a cart. Product ids are unique
// within a cart; adding an already-present product increments Quantity
// instead of appending a duplicate entry.
type CartItem struct {
	ProductID int64 `json:"product"  bson:"product"`
	Quantity  int   `json:"quantity" bson:"quantity"`
}

// Item returns a pointer to the entry for productID, or nil.
func (c *Cart) Item(productID int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// EnrichedCart is the read model returned when a cart is fetched: each item
// carries the product details looked up from the catalog, or placeholders
// when the product no longer exists.
type EnrichedCart struct {
	ID    int64          `json:"id"`
	Items []EnrichedItem `json:"products"`
}

// EnrichedItem is a cart entry joined with its product's details.
type EnrichedItem struct {
	ProductID   int64   `json:"product"`
	Quantity    int     `json:"quantity"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
}
