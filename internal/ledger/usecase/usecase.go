package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperrors"
	"github.com/fekuna/omnipos-backoffice-service/internal/catalog"
	"github.com/fekuna/omnipos-backoffice-service/internal/ledger"
	"github.com/fekuna/omnipos-backoffice-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/rbac"
	"github.com/fekuna/omnipos-backoffice-service/internal/registry"
	"github.com/fekuna/omnipos-backoffice-service/internal/validation"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ledgerUseCase struct {
	repo        ledger.Repository
	catalogRepo catalog.Repository
	rbacRepo    rbac.Repository
	registryUC  registry.UseCase
	logger      logger.ZapLogger
}

func NewLedgerUseCase(
	repo ledger.Repository,
	catalogRepo catalog.Repository,
	rbacRepo rbac.Repository,
	registryUC registry.UseCase,
	log logger.ZapLogger,
) ledger.UseCase {
	return &ledgerUseCase{
		repo:        repo,
		catalogRepo: catalogRepo,
		rbacRepo:    rbacRepo,
		registryUC:  registryUC,
		logger:      log,
	}
}

func (uc *ledgerUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.OrderTransaction, error) {
	if len(input.LineItems) == 0 {
		return nil, apperrors.BadArgument("order requires at least one line item")
	}
	for _, item := range input.LineItems {
		if err := validation.NonBlank("product id", item.ProductID); err != nil {
			return nil, err
		}
		if err := validation.PositiveQuantity("line item quantity", item.Quantity); err != nil {
			return nil, err
		}
	}

	user, err := uc.rbacRepo.FindUserByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user %s", input.UserID)
	}

	address, err := uc.registryUC.GetOrCreateAddress(ctx, &input.Address)
	if err != nil {
		return nil, err
	}
	provider, err := uc.registryUC.GetDeliveryProviderByName(ctx, input.DeliveryProviderName)
	if err != nil {
		return nil, err
	}
	method, err := uc.registryUC.GetPaymentMethodByName(ctx, input.PaymentMethodName)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &model.OrderTransaction{
		TransactionHeader: model.TransactionHeader{
			ID:              uuid.New().String(),
			Status:          model.StatusPaid,
			TransactionDate: now,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		UserID:             user.ID,
		AddressID:          address.ID,
		DeliveryProviderID: provider.ID,
		PaymentMethodID:    method.ID,
	}

	movements := make([]model.StockMovement, 0, len(input.LineItems))
	for _, item := range input.LineItems {
		product, err := uc.catalogRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, apperrors.NotFound("product %s", item.ProductID)
		}

		// Snapshot the catalog price now; later price changes must not
		// affect this order.
		order.LineItems = append(order.LineItems, model.OrderedProduct{
			LineItem: model.LineItem{
				ID:            uuid.New().String(),
				TransactionID: order.ID,
				ProductID:     product.ID,
				Quantity:      item.Quantity,
				PricePerUnit:  product.CurrentPrice,
			},
		})
		movements = append(movements, newMovement(product.ID, -item.Quantity, model.MovementTypeSale, order.ID, now))
	}

	if err := uc.repo.CreateOrder(ctx, order, movements); err != nil {
		return nil, err
	}

	uc.logger.Info("created order transaction",
		zap.String("order_id", order.ID),
		zap.String("user_id", user.ID),
		zap.Int("line_items", len(order.LineItems)),
	)
	return order, nil
}

func (uc *ledgerUseCase) CreateReturn(ctx context.Context, input *dto.CreateReturnInput) (*model.ReturnTransaction, error) {
	if len(input.LineItems) == 0 {
		return nil, apperrors.BadArgument("return requires at least one line item")
	}
	for _, item := range input.LineItems {
		if err := validation.NonBlank("product id", item.ProductID); err != nil {
			return nil, err
		}
		if err := validation.PositiveQuantity("line item quantity", item.Quantity); err != nil {
			return nil, err
		}
		if err := validation.NonBlank("originating order transaction id", item.OrderTransactionID); err != nil {
			return nil, err
		}
	}

	user, err := uc.rbacRepo.FindUserByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user %s", input.UserID)
	}

	address, err := uc.registryUC.GetOrCreateAddress(ctx, &input.Address)
	if err != nil {
		return nil, err
	}
	provider, err := uc.registryUC.GetDeliveryProviderByName(ctx, input.DeliveryProviderName)
	if err != nil {
		return nil, err
	}
	cause, err := uc.registryUC.GetReturnCause(ctx, input.ReturnCause)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ret := &model.ReturnTransaction{
		TransactionHeader: model.TransactionHeader{
			ID:              uuid.New().String(),
			Status:          model.StatusAcceptedReturn,
			TransactionDate: now,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		UserID:             user.ID,
		AddressID:          address.ID,
		DeliveryProviderID: provider.ID,
		ReturnCauseID:      cause.ID,
	}

	// One originating order may cover several returned items.
	orders := map[string]*model.OrderTransaction{}

	movements := make([]model.StockMovement, 0, len(input.LineItems))
	for _, item := range input.LineItems {
		order, ok := orders[item.OrderTransactionID]
		if !ok {
			order, err = uc.repo.FindOrderByID(ctx, item.OrderTransactionID)
			if err != nil {
				return nil, err
			}
			if order == nil {
				return nil, apperrors.NotFound("order transaction %s", item.OrderTransactionID)
			}
			orders[item.OrderTransactionID] = order
		}

		// The snapshot price comes from the originating order, not from
		// the catalog's live price.
		pricePerUnit, found := decimal.Zero, false
		for _, ordered := range order.LineItems {
			if ordered.ProductID == item.ProductID {
				pricePerUnit, found = ordered.PricePerUnit, true
				break
			}
		}
		if !found {
			return nil, apperrors.BadArgument("product %s is not part of order %s", item.ProductID, item.OrderTransactionID)
		}

		ret.LineItems = append(ret.LineItems, model.ReturnedProduct{
			LineItem: model.LineItem{
				ID:            uuid.New().String(),
				TransactionID: ret.ID,
				ProductID:     item.ProductID,
				Quantity:      item.Quantity,
				PricePerUnit:  pricePerUnit,
			},
			OrderTransactionID: item.OrderTransactionID,
		})
		movements = append(movements, newMovement(item.ProductID, item.Quantity, model.MovementTypeReturn, ret.ID, now))
	}

	// Cost is always derived from the line items, never supplied.
	ret.DeriveCost()

	// Restocking happens at creation time, matching current policy.
	if err := uc.repo.CreateReturn(ctx, ret, movements); err != nil {
		return nil, err
	}

	uc.logger.Info("created return transaction",
		zap.String("return_id", ret.ID),
		zap.String("user_id", user.ID),
		zap.String("cost", ret.Cost.String()),
	)
	return ret, nil
}

func newMovement(productID string, change int64, movementType, referenceID string, at time.Time) model.StockMovement {
	refType := movementType
	refID := referenceID
	return model.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      productID,
		MovementType:   movementType,
		QuantityChange: change,
		ReferenceType:  &refType,
		ReferenceID:    &refID,
		CreatedAt:      at,
	}
}

func (uc *ledgerUseCase) GetOrderByID(ctx context.Context, id string) (*model.OrderTransaction, error) {
	order, err := uc.repo.FindOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.NotFound("order transaction %s", id)
	}
	return order, nil
}

func (uc *ledgerUseCase) GetReturnByID(ctx context.Context, id string) (*model.ReturnTransaction, error) {
	ret, err := uc.repo.FindReturnByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, apperrors.NotFound("return transaction %s", id)
	}
	return ret, nil
}

func (uc *ledgerUseCase) CountByTimeWindow(ctx context.Context, start, end time.Time) (*dto.TimeWindowCounts, error) {
	if start.After(end) {
		return nil, apperrors.BadArgument("window start %s is after end %s", start, end)
	}

	orders, err := uc.repo.CountOrdersInWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}
	returns, err := uc.repo.CountReturnsInWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &dto.TimeWindowCounts{Orders: orders, Returns: returns}, nil
}

func (uc *ledgerUseCase) UpdateOrderStatus(ctx context.Context, id string, next model.TransactionStatus) (*model.OrderTransaction, error) {
	order, err := uc.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Transition(next); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateOrderStatus(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *ledgerUseCase) UpdateReturnStatus(ctx context.Context, id string, next model.TransactionStatus) (*model.ReturnTransaction, error) {
	ret, err := uc.GetReturnByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ret.Transition(next); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateReturnStatus(ctx, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
