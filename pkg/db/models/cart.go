package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercatto/cart-service/pkg/types"
)

// Cart holds its item array as one JSONB document, so every mutation is a
// whole-document read-modify-write against a single row.
type Cart struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Items     types.CartItems `gorm:"column:items;type:jsonb;serializer:json;not null" json:"items"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
