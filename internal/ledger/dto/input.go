package dto

import (
	registrydto "github.com/fekuna/omnipos-backoffice-service/internal/registry/dto"
)

type OrderLineItemInput struct {
	ProductID string
	Quantity  int64
}

// ReturnLineItemInput must reference the order transaction the product was
// bought in; the price snapshot is taken from that order's line item.
type ReturnLineItemInput struct {
	ProductID          string
	Quantity           int64
	OrderTransactionID string
}

type CreateOrderInput struct {
	UserID               string
	Address              registrydto.AddressInput
	DeliveryProviderName string
	PaymentMethodName    string
	LineItems            []OrderLineItemInput
}

type CreateReturnInput struct {
	UserID               string
	Address              registrydto.AddressInput
	DeliveryProviderName string
	ReturnCause          string
	LineItems            []ReturnLineItemInput
}
