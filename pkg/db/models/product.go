package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry with a mutable stock counter. Catalog fields are
// owned by external product management; cart operations only ever touch Stock.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title       string          `gorm:"column:title;not null" json:"title"`
	Description string          `gorm:"column:description" json:"description,omitempty"`
	Code        string          `gorm:"column:code;uniqueIndex;not null" json:"code"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Category    string          `gorm:"column:category" json:"category,omitempty"`
	Stock       int             `gorm:"column:stock;not null;default:0" json:"stock"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
