package ledger

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.OrderTransaction, error)
	CreateReturn(ctx context.Context, input *dto.CreateReturnInput) (*model.ReturnTransaction, error)

	GetOrderByID(ctx context.Context, id string) (*model.OrderTransaction, error)
	GetReturnByID(ctx context.Context, id string) (*model.ReturnTransaction, error)

	CountByTimeWindow(ctx context.Context, start, end time.Time) (*dto.TimeWindowCounts, error)

	UpdateOrderStatus(ctx context.Context, id string, next model.TransactionStatus) (*model.OrderTransaction, error)
	UpdateReturnStatus(ctx context.Context, id string, next model.TransactionStatus) (*model.ReturnTransaction, error)
}
