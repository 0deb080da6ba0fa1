package models_test

import (
	"testing"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func TestUser_Can(t *testing.T) {
	customer := &models.User{Role: models.RoleCustomer}
	vendor := &models.User{Role: models.RoleVendor}
	admin := &models.User{Role: models.RoleAdmin}
	super := &models.User{Role: models.RoleCustomer, IsSuperuser: true}
	var nobody *models.User

	assert.False(t, customer.Can(models.CapManageOrders))
	assert.False(t, customer.Can(models.CapCreateProducts))

	assert.True(t, vendor.Can(models.CapManageOrders))
	assert.True(t, vendor.Can(models.CapCreateProducts))
	assert.False(t, vendor.Can(models.CapViewAllOrders))

	assert.True(t, admin.Can(models.CapViewAllOrders))
	assert.True(t, super.Can(models.CapViewAllOrders))
	assert.False(t, nobody.Can(models.CapManageOrders))

	assert.True(t, models.RoleVendor.Valid())
	assert.False(t, models.Role("guest").Valid())
}
