package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperrors"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/registry/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAddress(ctx context.Context, input *dto.AddressInput) (*model.Address, error) {
	var address model.Address
	// Case-insensitive composite lookup so 'Warsaw' and 'warsaw' dedupe.
	query := `
        SELECT * FROM addresses
        WHERE LOWER(country) = LOWER($1)
          AND LOWER(province) = LOWER($2)
          AND LOWER(city) = LOWER($3)
          AND LOWER(street) = LOWER($4)
          AND LOWER(building_no) = LOWER($5)
          AND LOWER(postal_code) = LOWER($6)
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &address, query,
		input.Country, input.Province, input.City, input.Street, input.BuildingNo, input.PostalCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

func (r *PGRepository) CreateAddress(ctx context.Context, address *model.Address) error {
	query := `
        INSERT INTO addresses (
            id, country, province, city, street, building_no, apartment_no,
            postal_code, created_at, updated_at
        )
        VALUES (
            :id, :country, :province, :city, :street, :building_no, :apartment_no,
            :postal_code, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, address)
	return apperrors.FromPostgres(err, "address")
}

func (r *PGRepository) FindDeliveryProviderByName(ctx context.Context, name string) (*model.DeliveryProvider, error) {
	var provider model.DeliveryProvider
	err := r.DB.GetContext(ctx, &provider, `SELECT * FROM delivery_providers WHERE name = $1 LIMIT 1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &provider, nil
}

func (r *PGRepository) CreateDeliveryProvider(ctx context.Context, provider *model.DeliveryProvider) error {
	query := `
        INSERT INTO delivery_providers (id, name, created_at, updated_at)
        VALUES (:id, :name, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, provider)
	return apperrors.FromPostgres(err, "delivery provider")
}

func (r *PGRepository) ListDeliveryProviders(ctx context.Context) ([]model.DeliveryProvider, error) {
	var providers []model.DeliveryProvider
	err := r.DB.SelectContext(ctx, &providers, `SELECT * FROM delivery_providers ORDER BY name`)
	return providers, err
}

func (r *PGRepository) FindPaymentMethodByName(ctx context.Context, name string) (*model.PaymentMethod, error) {
	var method model.PaymentMethod
	err := r.DB.GetContext(ctx, &method, `SELECT * FROM payment_methods WHERE name = $1 LIMIT 1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

func (r *PGRepository) CreatePaymentMethod(ctx context.Context, method *model.PaymentMethod) error {
	query := `
        INSERT INTO payment_methods (id, name, created_at, updated_at)
        VALUES (:id, :name, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, method)
	return apperrors.FromPostgres(err, "payment method")
}

func (r *PGRepository) ListPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	var methods []model.PaymentMethod
	err := r.DB.SelectContext(ctx, &methods, `SELECT * FROM payment_methods ORDER BY name`)
	return methods, err
}

func (r *PGRepository) FindReturnCause(ctx context.Context, cause string) (*model.ReturnCause, error) {
	var rc model.ReturnCause
	err := r.DB.GetContext(ctx, &rc, `SELECT * FROM return_causes WHERE cause = $1 LIMIT 1`, cause)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rc, nil
}

func (r *PGRepository) CreateReturnCause(ctx context.Context, cause *model.ReturnCause) error {
	query := `
        INSERT INTO return_causes (id, cause, created_at, updated_at)
        VALUES (:id, :cause, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, cause)
	return apperrors.FromPostgres(err, "return cause")
}

func (r *PGRepository) ListReturnCauses(ctx context.Context) ([]model.ReturnCause, error) {
	var causes []model.ReturnCause
	err := r.DB.SelectContext(ctx, &causes, `SELECT * FROM return_causes ORDER BY cause`)
	return causes, err
}
