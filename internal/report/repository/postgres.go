package repository

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/report/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const lineItemColumns = `
    SELECT li.id AS line_item_id,
           li.transaction_id,
           li.product_id,
           p.name AS product_name,
           p.type AS product_type,
           li.quantity,
           li.price_per_unit,
           t.transaction_date
`

func (r *PGRepository) ListOrderedProducts(ctx context.Context, f *dto.ReportFilters) ([]dto.LineItemRecord, error) {
	return r.listLineItems(ctx, f, orderedSource)
}

func (r *PGRepository) ListReturnedProducts(ctx context.Context, f *dto.ReportFilters) ([]dto.LineItemRecord, error) {
	return r.listLineItems(ctx, f, returnedSource)
}

func (r *PGRepository) listLineItems(ctx context.Context, f *dto.ReportFilters, source ledgerSource) ([]dto.LineItemRecord, error) {
	clause, args := buildFilterClause(f, source)
	query := lineItemColumns + clause + " ORDER BY t.transaction_date DESC, li.id"

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	var records []dto.LineItemRecord
	err = nstmt.SelectContext(ctx, &records, args)
	return records, err
}

func (r *PGRepository) AggregateOrderedRevenue(ctx context.Context, f *dto.ReportFilters, groupBy dto.GroupBy) ([]dto.RevenueAggregate, error) {
	return r.aggregateRevenue(ctx, f, groupBy, orderedSource)
}

func (r *PGRepository) AggregateReturnedRevenue(ctx context.Context, f *dto.ReportFilters, groupBy dto.GroupBy) ([]dto.RevenueAggregate, error) {
	return r.aggregateRevenue(ctx, f, groupBy, returnedSource)
}

// aggregateRevenue sums quantity and quantity times the stored
// price-per-unit snapshot per group. The product's live current price never
// enters the computation.
func (r *PGRepository) aggregateRevenue(ctx context.Context, f *dto.ReportFilters, groupBy dto.GroupBy, source ledgerSource) ([]dto.RevenueAggregate, error) {
	key := groupKeyColumn(groupBy)
	clause, args := buildFilterClause(f, source)

	query := "SELECT " + key + " AS key," +
		" SUM(li.quantity) AS total_quantity," +
		" SUM(li.quantity * li.price_per_unit) AS revenue" +
		clause +
		" GROUP BY " + key +
		" ORDER BY key"

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	var aggregates []dto.RevenueAggregate
	err = nstmt.SelectContext(ctx, &aggregates, args)
	return aggregates, err
}
