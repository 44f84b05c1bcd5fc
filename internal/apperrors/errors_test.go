package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConstructorsWrapSentinels(t *testing.T) {
	assert.ErrorIs(t, BadArgument("field %s", "name"), ErrBadArgument)
	assert.ErrorIs(t, NotFound("product %s", "p-1"), ErrNotFound)
	assert.ErrorIs(t, DuplicateKey("ean %s", "123"), ErrDuplicateKey)
	assert.ErrorIs(t, InsufficientStock("product %s", "p-1"), ErrInsufficientStock)
	assert.ErrorIs(t, InvalidStateTransition("from %s", "PAID"), ErrInvalidStateTransition)

	err := NotFound("product %s", "p-1")
	assert.Contains(t, err.Error(), "product p-1")
}

func TestFromPostgres(t *testing.T) {
	assert.NoError(t, FromPostgres(nil, "product"))

	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	assert.ErrorIs(t, FromPostgres(unique, "product"), ErrDuplicateKey)

	fk := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
	assert.ErrorIs(t, FromPostgres(fk, "order transaction"), ErrNotFound)

	check := &pgconn.PgError{Code: pgerrcode.CheckViolation}
	assert.ErrorIs(t, FromPostgres(check, "stock"), ErrBadArgument)
}

func TestFromPostgresWrapped(t *testing.T) {
	inner := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	wrapped := fmt.Errorf("insert failed: %w", inner)
	assert.ErrorIs(t, FromPostgres(wrapped, "product"), ErrDuplicateKey)
}

func TestFromPostgresPassthrough(t *testing.T) {
	plain := errors.New("connection reset")
	assert.Equal(t, plain, FromPostgres(plain, "product"))

	other := &pgconn.PgError{Code: pgerrcode.SerializationFailure}
	assert.Equal(t, error(other), FromPostgres(other, "product"))
}
