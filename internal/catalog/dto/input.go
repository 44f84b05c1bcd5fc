package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	EANCode            string
	Name               string
	Type               string
	Description        string
	Height             *float64
	Width              *float64
	RegularPrice       decimal.Decimal
	CurrentPrice       decimal.Decimal
	InitialQuantity    int64
	MainImageFileName  string
	PageImageFileNames []string
}

type UpdatePricesInput struct {
	ProductID    string
	RegularPrice decimal.Decimal
	CurrentPrice decimal.Decimal
}

type AdjustStockInput struct {
	ProductID      string
	QuantityChange int64 // Signed delta
	Reason         string
	ReferenceID    string
	ReferenceType  string
	UserID         string
}
