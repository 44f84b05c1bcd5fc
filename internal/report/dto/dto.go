package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GroupBy selects the aggregation grain.
type GroupBy string

const (
	GroupByProduct GroupBy = "product"
	GroupByType    GroupBy = "type"
)

// ReportFilters is the sparse predicate set for ledger reporting. Every
// predicate is optional but at least one must be present; they combine with
// AND. Price range and time window each require both bounds and are
// inclusive on both.
type ReportFilters struct {
	Phrase               string
	Type                 string
	MinPrice             *decimal.Decimal
	MaxPrice             *decimal.Decimal
	StartDate            *time.Time
	EndDate              *time.Time
	PaymentMethodName    string // Orders only
	DeliveryProviderName string
	UserEmail            string
}

// Empty reports whether no predicate was supplied at all.
func (f *ReportFilters) Empty() bool {
	return f.Phrase == "" &&
		f.Type == "" &&
		f.MinPrice == nil &&
		f.MaxPrice == nil &&
		f.StartDate == nil &&
		f.EndDate == nil &&
		f.PaymentMethodName == "" &&
		f.DeliveryProviderName == "" &&
		f.UserEmail == ""
}

// LineItemRecord is a raw report row: one transaction line item joined with
// its product and transaction header.
type LineItemRecord struct {
	LineItemID      string          `db:"line_item_id" json:"line_item_id"`
	TransactionID   string          `db:"transaction_id" json:"transaction_id"`
	ProductID       string          `db:"product_id" json:"product_id"`
	ProductName     string          `db:"product_name" json:"product_name"`
	ProductType     string          `db:"product_type" json:"product_type"`
	Quantity        int64           `db:"quantity" json:"quantity"`
	PricePerUnit    decimal.Decimal `db:"price_per_unit" json:"price_per_unit"`
	TransactionDate time.Time       `db:"transaction_date" json:"transaction_date"`
}

// RevenueAggregate is one grouped report row. Revenue is always computed
// from the stored price-per-unit snapshots.
type RevenueAggregate struct {
	Key      string          `db:"key" json:"key"`
	Quantity int64           `db:"total_quantity" json:"quantity"`
	Revenue  decimal.Decimal `db:"revenue" json:"revenue"`
}
