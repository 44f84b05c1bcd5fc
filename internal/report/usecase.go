package report

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/report/dto"
)

type UseCase interface {
	ListOrderedProducts(ctx context.Context, filters *dto.ReportFilters) ([]dto.LineItemRecord, error)
	ListReturnedProducts(ctx context.Context, filters *dto.ReportFilters) ([]dto.LineItemRecord, error)

	AggregateOrderedRevenue(ctx context.Context, filters *dto.ReportFilters, groupBy dto.GroupBy) ([]dto.RevenueAggregate, error)
	AggregateReturnedRevenue(ctx context.Context, filters *dto.ReportFilters, groupBy dto.GroupBy) ([]dto.RevenueAggregate, error)
}
