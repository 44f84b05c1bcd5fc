package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperrors"
	"github.com/fekuna/omnipos-backoffice-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product, stock *model.Stock, images []model.ProductImage) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	productQuery := `
        INSERT INTO products (
            id, ean_code, name, type, description, height, width,
            regular_price, current_price, main_image_id, created_at, updated_at
        )
        VALUES (
            :id, :ean_code, :name, :type, :description, :height, :width,
            :regular_price, :current_price, :main_image_id, :created_at, :updated_at
        )
    `
	if _, err = tx.NamedExecContext(ctx, productQuery, p); err != nil {
		return apperrors.FromPostgres(err, "product")
	}

	stockQuery := `
        INSERT INTO stocks (id, product_id, quantity, updated_at)
        VALUES (:id, :product_id, :quantity, :updated_at)
    `
	if _, err = tx.NamedExecContext(ctx, stockQuery, stock); err != nil {
		return apperrors.FromPostgres(err, "stock")
	}

	imageQuery := `
        INSERT INTO product_images (id, product_id, file_name, created_at)
        VALUES (:id, :product_id, :file_name, :created_at)
    `
	for i := range images {
		if _, err = tx.NamedExecContext(ctx, imageQuery, &images[i]); err != nil {
			return apperrors.FromPostgres(err, "product image")
		}
	}

	return tx.Commit()
}

// pageOffset treats any page below 1 as the first page.
func pageOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return r.findOne(ctx, `SELECT * FROM products WHERE id = $1 LIMIT 1`, id)
}

func (r *PGRepository) FindByEANCode(ctx context.Context, eanCode string) (*model.Product, error) {
	return r.findOne(ctx, `SELECT * FROM products WHERE ean_code = $1 LIMIT 1`, eanCode)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Product, error) {
	var product model.Product
	err := r.DB.GetContext(ctx, &product, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.loadAssociations(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) loadAssociations(ctx context.Context, p *model.Product) error {
	var stock model.Stock
	err := r.DB.GetContext(ctx, &stock, `SELECT * FROM stocks WHERE product_id = $1`, p.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err == nil {
		p.Stock = &stock
	}

	var images []model.ProductImage
	err = r.DB.SelectContext(ctx, &images, `SELECT * FROM product_images WHERE product_id = $1 ORDER BY created_at`, p.ID)
	if err != nil {
		return err
	}
	p.PageImages = images
	return nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Phrase != "" {
		conditions = append(conditions, "name ILIKE :phrase")
		args["phrase"] = "%" + f.Phrase + "%"
	}
	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = f.Type
	}
	if f.MinPrice != nil && f.MaxPrice != nil {
		// Inclusive on both bounds
		conditions = append(conditions, "current_price BETWEEN :min_price AND :max_price")
		args["min_price"] = *f.MinPrice
		args["max_price"] = *f.MaxPrice
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM products" + whereClause + " ORDER BY name"
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, pageOffset(f.Page, f.PageSize))
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err = nstmt.SelectContext(ctx, &products, args); err != nil {
		return nil, 0, err
	}

	for i := range products {
		if err := r.loadAssociations(ctx, &products[i]); err != nil {
			return nil, 0, err
		}
	}

	return products, count, nil
}

func (r *PGRepository) UpdatePrices(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET regular_price = :regular_price,
            current_price = :current_price,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) IsEANCodeUnique(ctx context.Context, eanCode string) (bool, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM products WHERE ean_code = $1`, eanCode)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) GetStock(ctx context.Context, productID string) (*model.Stock, error) {
	var stock model.Stock
	err := r.DB.GetContext(ctx, &stock, `SELECT * FROM stocks WHERE product_id = $1`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &stock, nil
}

// AdjustStockWithMovement applies a signed delta and writes the audit row in
// one transaction. The guarded UPDATE keeps quantity from going negative
// even under concurrent adjustments.
func (r *PGRepository) AdjustStockWithMovement(ctx context.Context, productID string, delta int64, movement *model.StockMovement) (*model.Stock, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var stock model.Stock
	err = tx.GetContext(ctx, &stock, `
		UPDATE stocks
		SET quantity = quantity + $1, updated_at = NOW()
		WHERE product_id = $2 AND quantity + $1 >= 0
		RETURNING *
	`, delta, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Either the stock row is missing or the delta would go negative.
			existing, lookupErr := r.GetStock(ctx, productID)
			if lookupErr != nil {
				return nil, lookupErr
			}
			if existing == nil {
				return nil, apperrors.NotFound("stock for product %s", productID)
			}
			return nil, apperrors.InsufficientStock("product %s has %d, requested change %d", productID, existing.Quantity, delta)
		}
		return nil, err
	}

	movement.QuantityAfter = stock.Quantity
	movement.QuantityBefore = stock.Quantity - delta

	movementQuery := `
        INSERT INTO stock_movements (
            id, product_id, movement_type, quantity_change, quantity_before,
            quantity_after, reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :product_id, :movement_type, :quantity_change, :quantity_before,
            :quantity_after, :reference_type, :reference_id, :notes, :created_by, :created_at
        )
    `
	if _, err = tx.NamedExecContext(ctx, movementQuery, movement); err != nil {
		return nil, fmt.Errorf("failed to log movement: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var items []model.StockMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stock_movements" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, pageOffset(f.Page, f.PageSize))
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}
