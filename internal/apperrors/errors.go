package apperrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for the recoverable failure classes the service surfaces.
// Callers match with errors.Is; detail is attached via the constructors.
var (
	ErrBadArgument            = errors.New("bad argument")
	ErrNotFound               = errors.New("not found")
	ErrDuplicateKey           = errors.New("duplicate key")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

func BadArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrBadArgument, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func DuplicateKey(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDuplicateKey, fmt.Sprintf(format, args...))
}

func InsufficientStock(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInsufficientStock, fmt.Sprintf(format, args...))
}

func InvalidStateTransition(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidStateTransition, fmt.Sprintf(format, args...))
}

// FromPostgres translates storage-level constraint violations into the
// service taxonomy so raw driver errors never leak past the repository.
// Anything unrecognized is returned as-is for the caller to retry or log.
func FromPostgres(err error, entity string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return DuplicateKey("%s already exists", entity)
		case pgerrcode.ForeignKeyViolation:
			return NotFound("%s references a missing entity", entity)
		case pgerrcode.CheckViolation:
			return BadArgument("%s violates a check constraint", entity)
		}
	}
	return err
}
