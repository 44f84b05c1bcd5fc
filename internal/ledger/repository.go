package ledger

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type Repository interface {
	// CreateOrder inserts the order with its line items, decrements stock
	// per line item and writes the movement audit rows, all in one
	// transaction. If any line item would drive a stock negative the whole
	// operation fails with ErrInsufficientStock.
	// Movements are aligned by index with order.LineItems; the repository
	// fills in the before/after quantities.
	CreateOrder(ctx context.Context, order *model.OrderTransaction, movements []model.StockMovement) error

	// CreateReturn inserts the return with its line items and restocks per
	// line item, in one transaction.
	CreateReturn(ctx context.Context, ret *model.ReturnTransaction, movements []model.StockMovement) error

	FindOrderByID(ctx context.Context, id string) (*model.OrderTransaction, error)
	FindReturnByID(ctx context.Context, id string) (*model.ReturnTransaction, error)

	CountOrdersInWindow(ctx context.Context, start, end time.Time) (int, error)
	CountReturnsInWindow(ctx context.Context, start, end time.Time) (int, error)

	UpdateOrderStatus(ctx context.Context, order *model.OrderTransaction) error
	UpdateReturnStatus(ctx context.Context, ret *model.ReturnTransaction) error
}
