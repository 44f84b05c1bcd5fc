package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperrors"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// adjustStock applies a guarded signed delta inside tx and returns the
// resulting quantity. No row comes back when the delta would go negative
// or the stock row is missing; either way the whole transaction fails.
func adjustStock(ctx context.Context, tx *sqlx.Tx, productID string, delta int64) (int64, error) {
	var after int64
	err := tx.GetContext(ctx, &after, `
		UPDATE stocks
		SET quantity = quantity + $1, updated_at = NOW()
		WHERE product_id = $2 AND quantity + $1 >= 0
		RETURNING quantity
	`, delta, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var existing model.Stock
			lookupErr := tx.GetContext(ctx, &existing,
				`SELECT * FROM stocks WHERE product_id = $1`, productID)
			if lookupErr != nil && !errors.Is(lookupErr, sql.ErrNoRows) {
				return 0, lookupErr
			}
			if errors.Is(lookupErr, sql.ErrNoRows) {
				return 0, stockAdjustError(productID, delta, nil)
			}
			return 0, stockAdjustError(productID, delta, &existing)
		}
		return 0, err
	}
	return after, nil
}

// stockAdjustError classifies a guarded-update miss: a product with no stock
// row at all is NotFound, an existing row that cannot absorb the delta is
// InsufficientStock.
func stockAdjustError(productID string, delta int64, existing *model.Stock) error {
	if existing == nil {
		return apperrors.NotFound("stock for product %s", productID)
	}
	return apperrors.InsufficientStock("product %s has %d, requested change %d", productID, existing.Quantity, delta)
}

const insertMovementQuery = `
    INSERT INTO stock_movements (
        id, product_id, movement_type, quantity_change, quantity_before,
        quantity_after, reference_type, reference_id, notes, created_by, created_at
    )
    VALUES (
        :id, :product_id, :movement_type, :quantity_change, :quantity_before,
        :quantity_after, :reference_type, :reference_id, :notes, :created_by, :created_at
    )
`

func (r *PGRepository) CreateOrder(ctx context.Context, order *model.OrderTransaction, movements []model.StockMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	orderQuery := `
        INSERT INTO order_transactions (
            id, status, transaction_date, user_id, address_id,
            delivery_provider_id, payment_method_id, created_at, updated_at
        )
        VALUES (
            :id, :status, :transaction_date, :user_id, :address_id,
            :delivery_provider_id, :payment_method_id, :created_at, :updated_at
        )
    `
	if _, err = tx.NamedExecContext(ctx, orderQuery, order); err != nil {
		return apperrors.FromPostgres(err, "order transaction")
	}

	itemQuery := `
        INSERT INTO ordered_products (id, transaction_id, product_id, quantity, price_per_unit)
        VALUES (:id, :transaction_id, :product_id, :quantity, :price_per_unit)
    `
	for i := range order.LineItems {
		item := &order.LineItems[i]

		after, err := adjustStock(ctx, tx, item.ProductID, -item.Quantity)
		if err != nil {
			return err
		}

		if _, err = tx.NamedExecContext(ctx, itemQuery, item); err != nil {
			return apperrors.FromPostgres(err, "ordered product")
		}

		movements[i].QuantityAfter = after
		movements[i].QuantityBefore = after + item.Quantity
		if _, err = tx.NamedExecContext(ctx, insertMovementQuery, &movements[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PGRepository) CreateReturn(ctx context.Context, ret *model.ReturnTransaction, movements []model.StockMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	returnQuery := `
        INSERT INTO return_transactions (
            id, status, transaction_date, user_id, address_id,
            delivery_provider_id, return_cause_id, cost, created_at, updated_at
        )
        VALUES (
            :id, :status, :transaction_date, :user_id, :address_id,
            :delivery_provider_id, :return_cause_id, :cost, :created_at, :updated_at
        )
    `
	if _, err = tx.NamedExecContext(ctx, returnQuery, ret); err != nil {
		return apperrors.FromPostgres(err, "return transaction")
	}

	itemQuery := `
        INSERT INTO returned_products (
            id, transaction_id, product_id, quantity, price_per_unit, order_transaction_id
        )
        VALUES (
            :id, :transaction_id, :product_id, :quantity, :price_per_unit, :order_transaction_id
        )
    `
	for i := range ret.LineItems {
		item := &ret.LineItems[i]

		after, err := adjustStock(ctx, tx, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}

		if _, err = tx.NamedExecContext(ctx, itemQuery, item); err != nil {
			return apperrors.FromPostgres(err, "returned product")
		}

		movements[i].QuantityAfter = after
		movements[i].QuantityBefore = after - item.Quantity
		if _, err = tx.NamedExecContext(ctx, insertMovementQuery, &movements[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindOrderByID(ctx context.Context, id string) (*model.OrderTransaction, error) {
	var order model.OrderTransaction
	err := r.DB.GetContext(ctx, &order, `SELECT * FROM order_transactions WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var items []model.OrderedProduct
	err = r.DB.SelectContext(ctx, &items,
		`SELECT * FROM ordered_products WHERE transaction_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	order.LineItems = items

	return &order, nil
}

func (r *PGRepository) FindReturnByID(ctx context.Context, id string) (*model.ReturnTransaction, error) {
	var ret model.ReturnTransaction
	err := r.DB.GetContext(ctx, &ret, `SELECT * FROM return_transactions WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var items []model.ReturnedProduct
	err = r.DB.SelectContext(ctx, &items,
		`SELECT * FROM returned_products WHERE transaction_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	ret.LineItems = items

	return &ret, nil
}

func (r *PGRepository) CountOrdersInWindow(ctx context.Context, start, end time.Time) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count,
		`SELECT count(*) FROM order_transactions WHERE transaction_date BETWEEN $1 AND $2`,
		start, end)
	return count, err
}

func (r *PGRepository) CountReturnsInWindow(ctx context.Context, start, end time.Time) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count,
		`SELECT count(*) FROM return_transactions WHERE transaction_date BETWEEN $1 AND $2`,
		start, end)
	return count, err
}

func (r *PGRepository) UpdateOrderStatus(ctx context.Context, order *model.OrderTransaction) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE order_transactions SET status = $1, updated_at = $2 WHERE id = $3`,
		order.Status, order.UpdatedAt, order.ID)
	return err
}

func (r *PGRepository) UpdateReturnStatus(ctx context.Context, ret *model.ReturnTransaction) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE return_transactions SET status = $1, updated_at = $2 WHERE id = $3`,
		ret.Status, ret.UpdatedAt, ret.ID)
	return err
}
