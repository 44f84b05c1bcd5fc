package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperrors"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/registry"
	"github.com/fekuna/omnipos-backoffice-service/internal/registry/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/validation"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/google/uuid"
)

type registryUseCase struct {
	repo   registry.Repository
	logger logger.ZapLogger
}

func NewRegistryUseCase(repo registry.Repository, log logger.ZapLogger) registry.UseCase {
	return &registryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *registryUseCase) GetOrCreateAddress(ctx context.Context, input *dto.AddressInput) (*model.Address, error) {
	fields := []struct{ name, value string }{
		{"country", input.Country},
		{"province", input.Province},
		{"city", input.City},
		{"street", input.Street},
		{"building no", input.BuildingNo},
		{"postal code", input.PostalCode},
	}
	for _, f := range fields {
		if err := validation.NonBlank(f.name, f.value); err != nil {
			return nil, err
		}
	}

	existing, err := uc.repo.FindAddress(ctx, input)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	var apartmentNo *string
	if input.ApartmentNo != "" {
		apartmentNo = &input.ApartmentNo
	}

	address := &model.Address{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Country:     input.Country,
		Province:    input.Province,
		City:        input.City,
		Street:      input.Street,
		BuildingNo:  input.BuildingNo,
		ApartmentNo: apartmentNo,
		PostalCode:  input.PostalCode,
	}

	if err := uc.repo.CreateAddress(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (uc *registryUseCase) CreateDeliveryProvider(ctx context.Context, name string) (*model.DeliveryProvider, error) {
	if err := validation.NonBlank("delivery provider name", name); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindDeliveryProviderByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.DuplicateKey("delivery provider %s", name)
	}

	now := time.Now()
	provider := &model.DeliveryProvider{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      name,
	}
	if err := uc.repo.CreateDeliveryProvider(ctx, provider); err != nil {
		return nil, err
	}
	return provider, nil
}

func (uc *registryUseCase) GetDeliveryProviderByName(ctx context.Context, name string) (*model.DeliveryProvider, error) {
	provider, err := uc.repo.FindDeliveryProviderByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, apperrors.NotFound("delivery provider %s", name)
	}
	return provider, nil
}

func (uc *registryUseCase) ListDeliveryProviders(ctx context.Context) ([]model.DeliveryProvider, error) {
	return uc.repo.ListDeliveryProviders(ctx)
}

func (uc *registryUseCase) CreatePaymentMethod(ctx context.Context, name string) (*model.PaymentMethod, error) {
	if err := validation.NonBlank("payment method name", name); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindPaymentMethodByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.DuplicateKey("payment method %s", name)
	}

	now := time.Now()
	method := &model.PaymentMethod{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      name,
	}
	if err := uc.repo.CreatePaymentMethod(ctx, method); err != nil {
		return nil, err
	}
	return method, nil
}

func (uc *registryUseCase) GetPaymentMethodByName(ctx context.Context, name string) (*model.PaymentMethod, error) {
	method, err := uc.repo.FindPaymentMethodByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, apperrors.NotFound("payment method %s", name)
	}
	return method, nil
}

func (uc *registryUseCase) ListPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	return uc.repo.ListPaymentMethods(ctx)
}

func (uc *registryUseCase) CreateReturnCause(ctx context.Context, cause string) (*model.ReturnCause, error) {
	if err := validation.NonBlank("return cause", cause); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindReturnCause(ctx, cause)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.DuplicateKey("return cause %s", cause)
	}

	now := time.Now()
	rc := &model.ReturnCause{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Cause:     cause,
	}
	if err := uc.repo.CreateReturnCause(ctx, rc); err != nil {
		return nil, err
	}
	return rc, nil
}

func (uc *registryUseCase) GetReturnCause(ctx context.Context, cause string) (*model.ReturnCause, error) {
	rc, err := uc.repo.FindReturnCause(ctx, cause)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, apperrors.NotFound("return cause %s", cause)
	}
	return rc, nil
}

func (uc *registryUseCase) ListReturnCauses(ctx context.Context) ([]model.ReturnCause, error) {
	return uc.repo.ListReturnCauses(ctx)
}
