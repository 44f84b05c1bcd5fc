package model

import (
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperrors"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusCreated        TransactionStatus = "CREATED"
	StatusPaid           TransactionStatus = "PAID"
	StatusShipped        TransactionStatus = "SHIPPED"
	StatusDelivered      TransactionStatus = "DELIVERED"
	StatusAcceptedReturn TransactionStatus = "ACCEPTED_RETURN"
	StatusRefunded       TransactionStatus = "REFUNDED"
)

// allowedTransitions covers both ledgers: orders move
// CREATED → PAID → SHIPPED → DELIVERED, returns move
// CREATED → ACCEPTED_RETURN → REFUNDED.
var allowedTransitions = map[TransactionStatus][]TransactionStatus{
	StatusCreated:        {StatusPaid, StatusAcceptedReturn},
	StatusPaid:           {StatusShipped},
	StatusShipped:        {StatusDelivered},
	StatusAcceptedReturn: {StatusRefunded},
}

// CanTransition reports whether moving from the current status to next is legal.
func (s TransactionStatus) CanTransition(next TransactionStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransactionHeader carries the fields shared by both ledger variants.
type TransactionHeader struct {
	ID              string            `db:"id" json:"id"`
	Status          TransactionStatus `db:"status" json:"status"`
	TransactionDate time.Time         `db:"transaction_date" json:"transaction_date"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// Transition mutates the status after checking the transition table.
func (h *TransactionHeader) Transition(next TransactionStatus) error {
	if !h.Status.CanTransition(next) {
		return apperrors.InvalidStateTransition("cannot move transaction %s from %s to %s", h.ID, h.Status, next)
	}
	h.Status = next
	h.UpdatedAt = time.Now()
	return nil
}

type OrderTransaction struct {
	TransactionHeader
	UserID             string           `db:"user_id" json:"user_id"`
	AddressID          string           `db:"address_id" json:"address_id"`
	DeliveryProviderID string           `db:"delivery_provider_id" json:"delivery_provider_id"`
	PaymentMethodID    string           `db:"payment_method_id" json:"payment_method_id"`
	LineItems          []OrderedProduct `db:"-" json:"line_items"`
}

// Total sums quantity times the snapshot price over the order's line items.
func (t *OrderTransaction) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range t.LineItems {
		total = total.Add(item.PricePerUnit.Mul(decimal.NewFromInt(item.Quantity)))
	}
	return total
}

type ReturnTransaction struct {
	TransactionHeader
	UserID             string            `db:"user_id" json:"user_id"`
	AddressID          string            `db:"address_id" json:"address_id"`
	DeliveryProviderID string            `db:"delivery_provider_id" json:"delivery_provider_id"`
	ReturnCauseID      string            `db:"return_cause_id" json:"return_cause_id"`
	Cost               decimal.Decimal   `db:"cost" json:"cost"` // Derived, never supplied
	LineItems          []ReturnedProduct `db:"-" json:"line_items"`
}

// DeriveCost recomputes Cost from the line items. It is called once at
// construction; the stored value is immutable afterwards.
func (t *ReturnTransaction) DeriveCost() decimal.Decimal {
	cost := decimal.Zero
	for _, item := range t.LineItems {
		cost = cost.Add(item.PricePerUnit.Mul(decimal.NewFromInt(item.Quantity)))
	}
	t.Cost = cost
	return cost
}

// LineItem is the shared shape of a transaction line: a product reference,
// a quantity and the price-per-unit snapshot taken at transaction time.
// PricePerUnit is immutable once persisted.
type LineItem struct {
	ID            string          `db:"id" json:"id"`
	TransactionID string          `db:"transaction_id" json:"transaction_id"`
	ProductID     string          `db:"product_id" json:"product_id"`
	Quantity      int64           `db:"quantity" json:"quantity"`
	PricePerUnit  decimal.Decimal `db:"price_per_unit" json:"price_per_unit"`
}

type OrderedProduct struct {
	LineItem
}

// ReturnedProduct carries the id of the order transaction it originated
// from. The caller supplies and validates it; there is no cascade edge.
type ReturnedProduct struct {
	LineItem
	OrderTransactionID string `db:"order_transaction_id" json:"order_transaction_id"`
}
