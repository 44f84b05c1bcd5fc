package repository

import (
	"testing"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperrors"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestStockAdjustError(t *testing.T) {
	err := stockAdjustError("prod-1", 5, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "missing stock row is not an insufficiency")

	err = stockAdjustError("prod-1", -5, &model.Stock{ProductID: "prod-1", Quantity: 2})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}
