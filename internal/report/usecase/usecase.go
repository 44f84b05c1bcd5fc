package usecase

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperrors"
	"github.com/fekuna/omnipos-backoffice-service/internal/report"
	"github.com/fekuna/omnipos-backoffice-service/internal/report/dto"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
)

type reportUseCase struct {
	repo   report.Repository
	logger logger.ZapLogger
}

func NewReportUseCase(repo report.Repository, log logger.ZapLogger) report.UseCase {
	return &reportUseCase{
		repo:   repo,
		logger: log,
	}
}

// ValidateFilters rejects an empty predicate set and half-open or inverted
// ranges before any storage access.
func ValidateFilters(f *dto.ReportFilters) error {
	if f.Empty() {
		return apperrors.BadArgument("at least one report predicate is required")
	}
	if (f.MinPrice == nil) != (f.MaxPrice == nil) {
		return apperrors.BadArgument("price range requires both min and max bounds")
	}
	if f.MinPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return apperrors.BadArgument("min price %s exceeds max price %s", f.MinPrice, f.MaxPrice)
	}
	if (f.StartDate == nil) != (f.EndDate == nil) {
		return apperrors.BadArgument("time window requires both start and end dates")
	}
	if f.StartDate != nil && f.StartDate.After(*f.EndDate) {
		return apperrors.BadArgument("window start %s is after end %s", f.StartDate, f.EndDate)
	}
	return nil
}

func validateGroupBy(groupBy dto.GroupBy) error {
	switch groupBy {
	case dto.GroupByProduct, dto.GroupByType:
		return nil
	}
	return apperrors.BadArgument("unknown aggregation grain %q", groupBy)
}

// validateReturnFilters additionally rejects predicates that do not exist
// on the returns ledger.
func validateReturnFilters(f *dto.ReportFilters) error {
	if err := ValidateFilters(f); err != nil {
		return err
	}
	if f.PaymentMethodName != "" {
		return apperrors.BadArgument("payment method predicate does not apply to returns")
	}
	return nil
}

func (uc *reportUseCase) ListOrderedProducts(ctx context.Context, filters *dto.ReportFilters) ([]dto.LineItemRecord, error) {
	if err := ValidateFilters(filters); err != nil {
		return nil, err
	}
	return uc.repo.ListOrderedProducts(ctx, filters)
}

func (uc *reportUseCase) ListReturnedProducts(ctx context.Context, filters *dto.ReportFilters) ([]dto.LineItemRecord, error) {
	if err := validateReturnFilters(filters); err != nil {
		return nil, err
	}
	return uc.repo.ListReturnedProducts(ctx, filters)
}

func (uc *reportUseCase) AggregateOrderedRevenue(ctx context.Context, filters *dto.ReportFilters, groupBy dto.GroupBy) ([]dto.RevenueAggregate, error) {
	if err := ValidateFilters(filters); err != nil {
		return nil, err
	}
	if err := validateGroupBy(groupBy); err != nil {
		return nil, err
	}
	return uc.repo.AggregateOrderedRevenue(ctx, filters, groupBy)
}

func (uc *reportUseCase) AggregateReturnedRevenue(ctx context.Context, filters *dto.ReportFilters, groupBy dto.GroupBy) ([]dto.RevenueAggregate, error) {
	if err := validateReturnFilters(filters); err != nil {
		return nil, err
	}
	if err := validateGroupBy(groupBy); err != nil {
		return nil, err
	}
	return uc.repo.AggregateReturnedRevenue(ctx, filters, groupBy)
}
