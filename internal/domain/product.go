package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	ID                uuid.UUID        `json:"id" db:"id"`
	Name              string           `json:"name" db:"name"`
	Description       *string          `json:"description" db:"description"`
	Slug              string           `json:"slug" db:"slug"`
	SKU               string           `json:"sku" db:"sku"`
	Price             decimal.Decimal  `json:"price" db:"price"`
	CompareAtPrice    *decimal.Decimal `json:"compare_at_price" db:"compare_at_price"`
	CostPrice         *decimal.Decimal `json:"cost_price" db:"cost_price"`
	Quantity          int              `json:"quantity" db:"quantity"`
	LowStockThreshold int              `json:"low_stock_threshold" db:"low_stock_threshold"`
	IsActive          bool             `json:"is_active" db:"is_active"`
	IsFeatured        bool             `json:"is_featured" db:"is_featured"`
	Weight            *float64         `json:"weight" db:"weight"`
	ImageURL          *string          `json:"image_url" db:"image_url"`
	Tags              *string          `json:"tags" db:"tags"`
	CategoryID        *uuid.UUID       `json:"category_id" db:"category_id"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt         *time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductPatch is a partial update of a product. SKU is deliberately
// not a member: it is immutable once set, and no update path accepts it.
type ProductPatch struct {
	Name              Optional[string]          `json:"name"`
	Description       Optional[string]          `json:"description"`
	Price             Optional[decimal.Decimal] `json:"price"`
	CompareAtPrice    Optional[decimal.Decimal] `json:"compare_at_price"`
	CostPrice         Optional[decimal.Decimal] `json:"cost_price"`
	Quantity          Optional[int]             `json:"quantity"`
	LowStockThreshold Optional[int]             `json:"low_stock_threshold"`
	IsActive          Optional[bool]            `json:"is_active"`
	IsFeatured        Optional[bool]            `json:"is_featured"`
	Weight            Optional[float64]         `json:"weight"`
	ImageURL          Optional[string]          `json:"image_url"`
	Tags              Optional[string]          `json:"tags"`
	CategoryID        Optional[uuid.UUID]       `json:"category_id"`
}
