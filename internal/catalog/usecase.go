package catalog

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetProductByEAN(ctx context.Context, eanCode string) (*model.Product, error)
	SearchProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdatePrices(ctx context.Context, input *dto.UpdatePricesInput) (*model.Product, error)

	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Stock, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)

	EnsureSearchIndex(ctx context.Context) error
}
