package catalog

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product, stock *model.Stock, images []model.ProductImage) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByEANCode(ctx context.Context, eanCode string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdatePrices(ctx context.Context, product *model.Product) error

	IsEANCodeUnique(ctx context.Context, eanCode string) (bool, error)

	// Stock
	GetStock(ctx context.Context, productID string) (*model.Stock, error)
	AdjustStockWithMovement(ctx context.Context, productID string, delta int64, movement *model.StockMovement) (*model.Stock, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
