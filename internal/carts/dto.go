package carts

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercatto/cart-service/pkg/db/models"
)

// ItemInput is a caller-supplied item for wholesale replacement.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// ResolvedCart is a cart with each item's product reference expanded to the
// full catalog record for display.
type ResolvedCart struct {
	ID        uuid.UUID      `json:"id"`
	Items     []ResolvedItem `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ResolvedItem carries the full product record; Product is null when the
// referenced catalog row no longer exists.
type ResolvedItem struct {
	Product  *models.Product `json:"product"`
	Quantity int             `json:"quantity"`
}
