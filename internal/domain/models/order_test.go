package models_test

import (
	"testing"
	"time"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineCost(t *testing.T) {
	assert.True(t, dec("39.98").Equal(models.LineCost(dec("19.99"), 2)))
	assert.True(t, models.LineCost(dec("19.99"), 0).IsZero())
	// 0.1 × 3 не теряет точность
	assert.True(t, dec("0.3").Equal(models.LineCost(dec("0.1"), 3)))
}

func TestComputeTotals(t *testing.T) {
	totals := models.ComputeTotals(dec("44.98"), decimal.Zero, decimal.Zero)
	assert.True(t, dec("44.98").Equal(totals.Total))
	assert.True(t, totals.Tax.IsZero())

	totals = models.ComputeTotals(dec("10.00"), dec("2.50"), dec("0.075"))
	assert.True(t, dec("0.75").Equal(totals.Tax), "tax %s", totals.Tax)
	assert.True(t, dec("13.25").Equal(totals.Total), "total %s", totals.Total)

	// 0.125 округляется до 0.13
	totals = models.ComputeTotals(dec("1.25"), decimal.Zero, dec("0.1"))
	assert.True(t, dec("0.13").Equal(totals.Tax), "tax %s", totals.Tax)
}

func TestOrder_ItemsTotal(t *testing.T) {
	o := &models.Order{
		TotalAmount: dec("50.00"),
		Items: []models.OrderItem{
			{Price: dec("19.99"), Quantity: 2},
			{Price: dec("5.00"), Quantity: 1},
		},
	}
	assert.True(t, dec("44.98").Equal(o.ItemsTotal()))
	assert.Equal(t, 3, o.TotalItems())
	// Хранимая сумма не пересчитывается
	assert.True(t, dec("50.00").Equal(o.TotalAmount))
}

func TestOrder_FullName(t *testing.T) {
	o := &models.Order{Contact: models.ContactInfo{FirstName: "Ivan", LastName: "Petrov"}}
	assert.Equal(t, "Ivan Petrov", o.FullName())
	o.Contact.LastName = ""
	assert.Equal(t, "Ivan", o.FullName())
	o.Contact = models.ContactInfo{LastName: "Petrov"}
	assert.Equal(t, "Petrov", o.FullName())
}

func TestOrder_ApplyStatus_Idempotent(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	o := &models.Order{Status: models.StatusPending}

	o.ApplyStatus(models.StatusProcessing, t1)
	assert.Nil(t, o.ShippedAt)
	assert.Equal(t, t1, o.UpdatedAt)

	o.ApplyStatus(models.StatusShipped, t1)
	require.NotNil(t, o.ShippedAt)
	assert.Equal(t, t1, *o.ShippedAt)

	// Повторная отправка не меняет shipped_at
	o.ApplyStatus(models.StatusShipped, t2)
	assert.Equal(t, t1, *o.ShippedAt)
	assert.Equal(t, t2, o.UpdatedAt)

	o.ApplyStatus(models.StatusDelivered, t2)
	require.NotNil(t, o.DeliveredAt)
	assert.Equal(t, t2, *o.DeliveredAt)
	assert.Equal(t, t1, *o.ShippedAt)
}

func TestContactInfo_WithDefaults(t *testing.T) {
	profile := models.ContactInfo{FirstName: "Anna", Email: "anna@example.com", City: "Kazan", Notes: "ignored"}
	c := models.ContactInfo{City: "Moscow", Notes: "ring twice"}.WithDefaults(profile)

	assert.Equal(t, "Anna", c.FirstName)
	assert.Equal(t, "anna@example.com", c.Email)
	assert.Equal(t, "Moscow", c.City)
	assert.Equal(t, "ring twice", c.Notes)
}
