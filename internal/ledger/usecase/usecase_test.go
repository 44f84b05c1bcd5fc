package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperrors"
	catalogdto "github.com/fekuna/omnipos-backoffice-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	registrydto "github.com/fekuna/omnipos-backoffice-service/internal/registry/dto"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) CreateOrder(ctx context.Context, order *model.OrderTransaction, movements []model.StockMovement) error {
	args := m.Called(ctx, order, movements)
	return args.Error(0)
}

func (m *MockLedgerRepository) CreateReturn(ctx context.Context, ret *model.ReturnTransaction, movements []model.StockMovement) error {
	args := m.Called(ctx, ret, movements)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindOrderByID(ctx context.Context, id string) (*model.OrderTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderTransaction), args.Error(1)
}

func (m *MockLedgerRepository) FindReturnByID(ctx context.Context, id string) (*model.ReturnTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReturnTransaction), args.Error(1)
}

func (m *MockLedgerRepository) CountOrdersInWindow(ctx context.Context, start, end time.Time) (int, error) {
	args := m.Called(ctx, start, end)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepository) CountReturnsInWindow(ctx context.Context, start, end time.Time) (int, error) {
	args := m.Called(ctx, start, end)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepository) UpdateOrderStatus(ctx context.Context, order *model.OrderTransaction) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpdateReturnStatus(ctx context.Context, ret *model.ReturnTransaction) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Create(ctx context.Context, product *model.Product, stock *model.Stock, images []model.ProductImage) error {
	args := m.Called(ctx, product, stock, images)
	return args.Error(0)
}

func (m *MockCatalogRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogRepository) FindByEANCode(ctx context.Context, eanCode string) (*model.Product, error) {
	args := m.Called(ctx, eanCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogRepository) FindAll(ctx context.Context, filters *catalogdto.ProductFilters) ([]model.Product, int, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Product), args.Int(1), args.Error(2)
}

func (m *MockCatalogRepository) UpdatePrices(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockCatalogRepository) IsEANCodeUnique(ctx context.Context, eanCode string) (bool, error) {
	args := m.Called(ctx, eanCode)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogRepository) GetStock(ctx context.Context, productID string) (*model.Stock, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stock), args.Error(1)
}

func (m *MockCatalogRepository) AdjustStockWithMovement(ctx context.Context, productID string, delta int64, movement *model.StockMovement) (*model.Stock, error) {
	args := m.Called(ctx, productID, delta, movement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stock), args.Error(1)
}

func (m *MockCatalogRepository) ListMovements(ctx context.Context, filters *catalogdto.MovementFilters) ([]model.StockMovement, int, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.StockMovement), args.Int(1), args.Error(2)
}

type MockRBACRepository struct {
	mock.Mock
}

func (m *MockRBACRepository) FindPrivilegeByName(ctx context.Context, name string) (*model.Privilege, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Privilege), args.Error(1)
}

func (m *MockRBACRepository) FindPrivilegesByNames(ctx context.Context, names []string) ([]model.Privilege, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Privilege), args.Error(1)
}

func (m *MockRBACRepository) CreatePrivilege(ctx context.Context, privilege *model.Privilege) error {
	args := m.Called(ctx, privilege)
	return args.Error(0)
}

func (m *MockRBACRepository) DeletePrivilege(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRBACRepository) ListPrivileges(ctx context.Context) ([]model.Privilege, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Privilege), args.Error(1)
}

func (m *MockRBACRepository) FindRoleByID(ctx context.Context, id string) (*model.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockRBACRepository) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockRBACRepository) CreateRole(ctx context.Context, role *model.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRBACRepository) DeleteRoleWithReassignment(ctx context.Context, roleID, reassignToID string) (int64, error) {
	args := m.Called(ctx, roleID, reassignToID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRBACRepository) ListRoles(ctx context.Context) ([]model.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Role), args.Error(1)
}

func (m *MockRBACRepository) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockRBACRepository) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockRBACRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRBACRepository) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRegistryUseCase struct {
	mock.Mock
}

func (m *MockRegistryUseCase) GetOrCreateAddress(ctx context.Context, input *registrydto.AddressInput) (*model.Address, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Address), args.Error(1)
}

func (m *MockRegistryUseCase) CreateDeliveryProvider(ctx context.Context, name string) (*model.DeliveryProvider, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeliveryProvider), args.Error(1)
}

func (m *MockRegistryUseCase) GetDeliveryProviderByName(ctx context.Context, name string) (*model.DeliveryProvider, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeliveryProvider), args.Error(1)
}

func (m *MockRegistryUseCase) ListDeliveryProviders(ctx context.Context) ([]model.DeliveryProvider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DeliveryProvider), args.Error(1)
}

func (m *MockRegistryUseCase) CreatePaymentMethod(ctx context.Context, name string) (*model.PaymentMethod, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentMethod), args.Error(1)
}

func (m *MockRegistryUseCase) GetPaymentMethodByName(ctx context.Context, name string) (*model.PaymentMethod, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentMethod), args.Error(1)
}

func (m *MockRegistryUseCase) ListPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PaymentMethod), args.Error(1)
}

func (m *MockRegistryUseCase) CreateReturnCause(ctx context.Context, cause string) (*model.ReturnCause, error) {
	args := m.Called(ctx, cause)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReturnCause), args.Error(1)
}

func (m *MockRegistryUseCase) GetReturnCause(ctx context.Context, cause string) (*model.ReturnCause, error) {
	args := m.Called(ctx, cause)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReturnCause), args.Error(1)
}

func (m *MockRegistryUseCase) ListReturnCauses(ctx context.Context) ([]model.ReturnCause, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReturnCause), args.Error(1)
}

type ledgerMocks struct {
	repo     *MockLedgerRepository
	catalog  *MockCatalogRepository
	rbac     *MockRBACRepository
	registry *MockRegistryUseCase
}

func newLedgerUseCase() (*ledgerMocks, *ledgerUseCase) {
	m := &ledgerMocks{
		repo:     new(MockLedgerRepository),
		catalog:  new(MockCatalogRepository),
		rbac:     new(MockRBACRepository),
		registry: new(MockRegistryUseCase),
	}
	uc := NewLedgerUseCase(m.repo, m.catalog, m.rbac, m.registry, logger.NewNopLogger()).(*ledgerUseCase)
	return m, uc
}

func testAddressInput() registrydto.AddressInput {
	return registrydto.AddressInput{
		Country:    "Poland",
		Province:   "Mazovia",
		City:       "Warsaw",
		Street:     "Main",
		BuildingNo: "12",
		PostalCode: "00-001",
	}
}

func orderInput() *dto.CreateOrderInput {
	return &dto.CreateOrderInput{
		UserID:               "user-1",
		Address:              testAddressInput(),
		DeliveryProviderName: "dhl",
		PaymentMethodName:    "card",
		LineItems: []dto.OrderLineItemInput{
			{ProductID: "prod-1", Quantity: 2},
		},
	}
}

func stubRegistryForOrder(m *ledgerMocks) {
	m.registry.On("GetOrCreateAddress", mock.Anything, mock.Anything).Return(&model.Address{BaseModel: model.BaseModel{ID: "addr-1"}}, nil)
	m.registry.On("GetDeliveryProviderByName", mock.Anything, "dhl").Return(&model.DeliveryProvider{BaseModel: model.BaseModel{ID: "dp-1"}}, nil)
	m.registry.On("GetPaymentMethodByName", mock.Anything, "card").Return(&model.PaymentMethod{BaseModel: model.BaseModel{ID: "pm-1"}}, nil)
}

func TestCreateOrderSnapshotsCurrentPrice(t *testing.T) {
	m, uc := newLedgerUseCase()

	m.rbac.On("FindUserByID", mock.Anything, "user-1").Return(&model.User{BaseModel: model.BaseModel{ID: "user-1"}}, nil)
	stubRegistryForOrder(m)

	price := decimal.NewFromFloat(24.99)
	m.catalog.On("FindByID", mock.Anything, "prod-1").Return(&model.Product{
		BaseModel:    model.BaseModel{ID: "prod-1"},
		CurrentPrice: price,
	}, nil)
	m.repo.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	order, err := uc.CreateOrder(context.Background(), orderInput())
	require.NoError(t, err)

	assert.Equal(t, model.StatusPaid, order.Status)
	require.Len(t, order.LineItems, 1)
	assert.True(t, order.LineItems[0].PricePerUnit.Equal(price), "line item must carry the catalog price at order time")
	assert.Equal(t, int64(2), order.LineItems[0].Quantity)
	assert.True(t, order.Total().Equal(decimal.NewFromFloat(49.98)))

	// One sale movement per line item, negative by the ordered quantity.
	movements := m.repo.Calls[0].Arguments.Get(2).([]model.StockMovement)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementTypeSale, movements[0].MovementType)
	assert.Equal(t, int64(-2), movements[0].QuantityChange)
	assert.Equal(t, "prod-1", movements[0].ProductID)
}

func TestCreateOrderRejectsEmptyAndInvalidItems(t *testing.T) {
	_, uc := newLedgerUseCase()

	input := orderInput()
	input.LineItems = nil
	_, err := uc.CreateOrder(context.Background(), input)
	assert.ErrorIs(t, err, apperrors.ErrBadArgument)

	input = orderInput()
	input.LineItems[0].Quantity = 0
	_, err = uc.CreateOrder(context.Background(), input)
	assert.ErrorIs(t, err, apperrors.ErrBadArgument)
}

func TestCreateOrderUnknownUser(t *testing.T) {
	m, uc := newLedgerUseCase()
	m.rbac.On("FindUserByID", mock.Anything, "user-1").Return(nil, nil)

	_, err := uc.CreateOrder(context.Background(), orderInput())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	m.repo.AssertNotCalled(t, "CreateOrder")
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	m, uc := newLedgerUseCase()

	m.rbac.On("FindUserByID", mock.Anything, "user-1").Return(&model.User{BaseModel: model.BaseModel{ID: "user-1"}}, nil)
	stubRegistryForOrder(m)
	m.catalog.On("FindByID", mock.Anything, "prod-1").Return(nil, nil)

	_, err := uc.CreateOrder(context.Background(), orderInput())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	m.repo.AssertNotCalled(t, "CreateOrder")
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	m, uc := newLedgerUseCase()

	m.rbac.On("FindUserByID", mock.Anything, "user-1").Return(&model.User{BaseModel: model.BaseModel{ID: "user-1"}}, nil)
	stubRegistryForOrder(m)
	m.catalog.On("FindByID", mock.Anything, "prod-1").Return(&model.Product{
		BaseModel:    model.BaseModel{ID: "prod-1"},
		CurrentPrice: decimal.NewFromInt(10),
	}, nil)
	m.repo.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.InsufficientStock("product prod-1"))

	_, err := uc.CreateOrder(context.Background(), orderInput())
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
}

func returnInput() *dto.CreateReturnInput {
	return &dto.CreateReturnInput{
		UserID:               "user-1",
		Address:              testAddressInput(),
		DeliveryProviderName: "dhl",
		ReturnCause:          "damaged",
		LineItems: []dto.ReturnLineItemInput{
			{ProductID: "prod-1", Quantity: 1, OrderTransactionID: "order-1"},
		},
	}
}

func stubRegistryForReturn(m *ledgerMocks) {
	m.registry.On("GetOrCreateAddress", mock.Anything, mock.Anything).Return(&model.Address{BaseModel: model.BaseModel{ID: "addr-1"}}, nil)
	m.registry.On("GetDeliveryProviderByName", mock.Anything, "dhl").Return(&model.DeliveryProvider{BaseModel: model.BaseModel{ID: "dp-1"}}, nil)
	m.registry.On("GetReturnCause", mock.Anything, "damaged").Return(&model.ReturnCause{BaseModel: model.BaseModel{ID: "rc-1"}}, nil)
}

func TestCreateReturnUsesOrderSnapshotPrice(t *testing.T) {
	m, uc := newLedgerUseCase()

	m.rbac.On("FindUserByID", mock.Anything, "user-1").Return(&model.User{BaseModel: model.BaseModel{ID: "user-1"}}, nil)
	stubRegistryForReturn(m)

	// The order was placed at 19.99 even if the catalog price has moved since.
	orderPrice := decimal.NewFromFloat(19.99)
	m.repo.On("FindOrderByID", mock.Anything, "order-1").Return(&model.OrderTransaction{
		TransactionHeader: model.TransactionHeader{ID: "order-1"},
		LineItems: []model.OrderedProduct{
			{LineItem: model.LineItem{ProductID: "prod-1", Quantity: 2, PricePerUnit: orderPrice}},
		},
	}, nil)
	m.repo.On("CreateReturn", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	ret, err := uc.CreateReturn(context.Background(), returnInput())
	require.NoError(t, err)

	assert.Equal(t, model.StatusAcceptedReturn, ret.Status)
	require.Len(t, ret.LineItems, 1)
	assert.True(t, ret.LineItems[0].PricePerUnit.Equal(orderPrice))
	assert.Equal(t, "order-1", ret.LineItems[0].OrderTransactionID)
	assert.True(t, ret.Cost.Equal(orderPrice), "cost must be derived from the snapshot price")

	// Returns restock, so movements are positive.
	var movements []model.StockMovement
	for _, call := range m.repo.Calls {
		if call.Method == "CreateReturn" {
			movements = call.Arguments.Get(2).([]model.StockMovement)
		}
	}
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementTypeReturn, movements[0].MovementType)
	assert.Equal(t, int64(1), movements[0].QuantityChange)
}

func TestCreateReturnProductNotInOrder(t *testing.T) {
	m, uc := newLedgerUseCase()

	m.rbac.On("FindUserByID", mock.Anything, "user-1").Return(&model.User{BaseModel: model.BaseModel{ID: "user-1"}}, nil)
	stubRegistryForReturn(m)

	m.repo.On("FindOrderByID", mock.Anything, "order-1").Return(&model.OrderTransaction{
		TransactionHeader: model.TransactionHeader{ID: "order-1"},
		LineItems: []model.OrderedProduct{
			{LineItem: model.LineItem{ProductID: "other-product", Quantity: 1, PricePerUnit: decimal.NewFromInt(5)}},
		},
	}, nil)

	_, err := uc.CreateReturn(context.Background(), returnInput())
	assert.ErrorIs(t, err, apperrors.ErrBadArgument)
	m.repo.AssertNotCalled(t, "CreateReturn")
}

func TestCreateReturnUnknownOrder(t *testing.T) {
	m, uc := newLedgerUseCase()

	m.rbac.On("FindUserByID", mock.Anything, "user-1").Return(&model.User{BaseModel: model.BaseModel{ID: "user-1"}}, nil)
	stubRegistryForReturn(m)
	m.repo.On("FindOrderByID", mock.Anything, "order-1").Return(nil, nil)

	_, err := uc.CreateReturn(context.Background(), returnInput())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateReturnRequiresOrderReference(t *testing.T) {
	_, uc := newLedgerUseCase()

	input := returnInput()
	input.LineItems[0].OrderTransactionID = ""
	_, err := uc.CreateReturn(context.Background(), input)
	assert.ErrorIs(t, err, apperrors.ErrBadArgument)
}

func TestCountByTimeWindow(t *testing.T) {
	m, uc := newLedgerUseCase()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	m.repo.On("CountOrdersInWindow", mock.Anything, start, end).Return(7, nil)
	m.repo.On("CountReturnsInWindow", mock.Anything, start, end).Return(2, nil)

	counts, err := uc.CountByTimeWindow(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, 7, counts.Orders)
	assert.Equal(t, 2, counts.Returns)
}

func TestCountByTimeWindowInverted(t *testing.T) {
	m, uc := newLedgerUseCase()

	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := uc.CountByTimeWindow(context.Background(), end.Add(time.Hour), end)
	assert.ErrorIs(t, err, apperrors.ErrBadArgument)
	m.repo.AssertNotCalled(t, "CountOrdersInWindow")
}

func TestUpdateOrderStatus(t *testing.T) {
	m, uc := newLedgerUseCase()

	m.repo.On("FindOrderByID", mock.Anything, "order-1").Return(&model.OrderTransaction{
		TransactionHeader: model.TransactionHeader{ID: "order-1", Status: model.StatusPaid},
	}, nil)
	m.repo.On("UpdateOrderStatus", mock.Anything, mock.Anything).Return(nil)

	order, err := uc.UpdateOrderStatus(context.Background(), "order-1", model.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, order.Status)
}

func TestUpdateOrderStatusIllegalTransition(t *testing.T) {
	m, uc := newLedgerUseCase()

	m.repo.On("FindOrderByID", mock.Anything, "order-1").Return(&model.OrderTransaction{
		TransactionHeader: model.TransactionHeader{ID: "order-1", Status: model.StatusPaid},
	}, nil)

	_, err := uc.UpdateOrderStatus(context.Background(), "order-1", model.StatusDelivered)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
	m.repo.AssertNotCalled(t, "UpdateOrderStatus")
}

func TestUpdateReturnStatus(t *testing.T) {
	m, uc := newLedgerUseCase()

	m.repo.On("FindReturnByID", mock.Anything, "ret-1").Return(&model.ReturnTransaction{
		TransactionHeader: model.TransactionHeader{ID: "ret-1", Status: model.StatusAcceptedReturn},
	}, nil)
	m.repo.On("UpdateReturnStatus", mock.Anything, mock.Anything).Return(nil)

	ret, err := uc.UpdateReturnStatus(context.Background(), "ret-1", model.StatusRefunded)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRefunded, ret.Status)
}
