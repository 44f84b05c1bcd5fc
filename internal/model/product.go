package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	EANCode      string          `db:"ean_code" json:"ean_code"`
	Name         string          `db:"name" json:"name"`
	Type         string          `db:"type" json:"type"`
	Description  *string         `db:"description" json:"description"`
	Height       *float64        `db:"height" json:"height"` // Nullable, centimeters
	Width        *float64        `db:"width" json:"width"`   // Nullable, centimeters
	RegularPrice decimal.Decimal `db:"regular_price" json:"regular_price"`
	CurrentPrice decimal.Decimal `db:"current_price" json:"current_price"`
	MainImageID  *string         `db:"main_image_id" json:"main_image_id"`
	Stock        *Stock          `db:"-" json:"stock"`       // Joined 1:1
	PageImages   []ProductImage  `db:"-" json:"page_images"` // Not in products table
}

// Stock is the quantity counter owned 1:1 by a product.
// Quantity never goes negative; the repository enforces that at update time.
type Stock struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"product_id"`
	Quantity  int64     `db:"quantity" json:"quantity"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProductImage is an opaque binary attachment keyed by id. The blob itself
// lives in external storage; only the reference is kept here.
type ProductImage struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"product_id"`
	FileName  string    `db:"file_name" json:"file_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StockMovement is the audit row written alongside every stock change.
type StockMovement struct {
	ID             string    `db:"id" json:"id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	MovementType   string    `db:"movement_type" json:"movement_type"`
	QuantityChange int64     `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int64     `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int64     `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string   `db:"reference_type" json:"reference_type"`
	ReferenceID    *string   `db:"reference_id" json:"reference_id"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedBy      *string   `db:"created_by" json:"created_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

const (
	MovementTypeAdjustment = "manual_adjustment"
	MovementTypeSale       = "sale"
	MovementTypeReturn     = "return"
)
