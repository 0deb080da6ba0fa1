package models_test

import (
	"testing"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func TestProduct_CanBeOrdered(t *testing.T) {
	p := models.Product{Status: models.ProductActive, IsActive: true, TrackInventory: true, Stock: 3}
	assert.True(t, p.IsInStock())
	assert.True(t, p.CanBeOrdered(3))
	assert.False(t, p.CanBeOrdered(4))

	p.AllowBackorders = true
	assert.True(t, p.CanBeOrdered(10))

	p.TrackInventory, p.AllowBackorders, p.Stock = false, false, 0
	assert.True(t, p.IsInStock())
	assert.True(t, p.CanBeOrdered(100))

	p.Status = models.ProductDraft
	assert.False(t, p.CanBeOrdered(1))

	p.Status, p.IsActive = models.ProductActive, false
	assert.False(t, p.CanBeOrdered(1))

	out := models.Product{Status: models.ProductActive, IsActive: true, TrackInventory: true}
	assert.False(t, out.IsInStock())
}
