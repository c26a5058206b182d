package types

import "github.com/google/uuid"

// CartItem is one product reference with its quantity inside a cart document.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CartItems is the embedded item array of a cart, persisted as a single JSONB
// document. ProductID is unique within the slice; insertion order is kept.
type CartItems []CartItem

// IndexOf returns the position of the entry for productID, or -1.
func (items CartItems) IndexOf(productID uuid.UUID) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Without returns a copy of the slice with the entry for productID removed.
func (items CartItems) Without(productID uuid.UUID) CartItems {
	out := make(CartItems, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}
