package registry

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/registry/dto"
)

type UseCase interface {
	// GetOrCreateAddress is deliberately idempotent: input casing
	// differences must not create duplicate rows.
	GetOrCreateAddress(ctx context.Context, input *dto.AddressInput) (*model.Address, error)

	CreateDeliveryProvider(ctx context.Context, name string) (*model.DeliveryProvider, error)
	GetDeliveryProviderByName(ctx context.Context, name string) (*model.DeliveryProvider, error)
	ListDeliveryProviders(ctx context.Context) ([]model.DeliveryProvider, error)

	CreatePaymentMethod(ctx context.Context, name string) (*model.PaymentMethod, error)
	GetPaymentMethodByName(ctx context.Context, name string) (*model.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error)

	CreateReturnCause(ctx context.Context, cause string) (*model.ReturnCause, error)
	GetReturnCause(ctx context.Context, cause string) (*model.ReturnCause, error)
	ListReturnCauses(ctx context.Context) ([]model.ReturnCause, error)
}
