package registry

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/registry/dto"
)

type Repository interface {
	// Address lookup is case-insensitive over the composite natural key.
	FindAddress(ctx context.Context, input *dto.AddressInput) (*model.Address, error)
	CreateAddress(ctx context.Context, address *model.Address) error

	FindDeliveryProviderByName(ctx context.Context, name string) (*model.DeliveryProvider, error)
	CreateDeliveryProvider(ctx context.Context, provider *model.DeliveryProvider) error
	ListDeliveryProviders(ctx context.Context) ([]model.DeliveryProvider, error)

	FindPaymentMethodByName(ctx context.Context, name string) (*model.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, method *model.PaymentMethod) error
	ListPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error)

	FindReturnCause(ctx context.Context, cause string) (*model.ReturnCause, error)
	CreateReturnCause(ctx context.Context, cause *model.ReturnCause) error
	ListReturnCauses(ctx context.Context) ([]model.ReturnCause, error)
}
