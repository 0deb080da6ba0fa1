package service_test

import (
	"context"
	"testing"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/service"
	"github.com/linemk/storefront/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture() (*fakeProductRepo, *fakeCartRepo, service.CartService) {
	products := newFakeProductRepo(
		&models.Product{ID: 1, Name: "Widget", Price: dec("19.99"), Stock: 5, TrackInventory: true,
			Status: models.ProductActive, IsActive: true},
		&models.Product{ID: 2, Name: "Preorder", Price: dec("5.00"), Stock: 0, TrackInventory: true,
			AllowBackorders: true, Status: models.ProductActive, IsActive: true},
		&models.Product{ID: 3, Name: "Hidden", Price: dec("1.00"), Status: models.ProductDraft, IsActive: true},
	)
	carts := newFakeCartRepo()
	return products, carts, service.NewCartService(newTestLogger(), products, carts)
}

func TestCartService_AddToCart(t *testing.T) {
	products, carts, svc := newCartFixture()
	ctx := context.Background()

	cart, err := svc.AddToCart(ctx, 1, 1, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Len())
	assert.True(t, dec("39.98").Equal(cart.TotalPrice()))

	// Повторное добавление суммирует количество, цена остаётся прежней
	products.products[1].Price = dec("25.00")
	cart, err = svc.AddToCart(ctx, 1, 1, 3, false)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.QuantityOf(1))
	assert.True(t, dec("19.99").Equal(carts.carts[1][0].Price))

	// override заменяет количество
	cart, err = svc.AddToCart(ctx, 1, 1, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.QuantityOf(1))
}

func TestCartService_AddToCart_QuantityBounds(t *testing.T) {
	_, _, svc := newCartFixture()

	for _, q := range []int{0, -1, 21} {
		_, err := svc.AddToCart(context.Background(), 1, 1, q, false)
		assert.ErrorIs(t, err, service.ErrValidation, "quantity %d", q)
	}
}

func TestCartService_AddToCart_Availability(t *testing.T) {
	_, _, svc := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, 1, 404, 1, false)
	assert.ErrorIs(t, err, service.ErrProductNotFound)

	_, err = svc.AddToCart(ctx, 1, 3, 1, false)
	assert.ErrorIs(t, err, service.ErrValidation)

	// Остаток 5: 3 + 3 уже не помещается
	_, err = svc.AddToCart(ctx, 1, 1, 3, false)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, 1, 1, 3, false)
	assert.ErrorIs(t, err, service.ErrValidation)

	// а замена на 4 проходит
	_, err = svc.AddToCart(ctx, 1, 1, 4, true)
	assert.NoError(t, err)

	// Под заказ можно положить больше остатка
	_, err = svc.AddToCart(ctx, 1, 2, 10, false)
	assert.NoError(t, err)
}

func TestCartService_RemoveFromCart(t *testing.T) {
	_, _, svc := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, 1, 1, 1, false)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, 1, 2, 1, false)
	require.NoError(t, err)

	cart, err := svc.RemoveFromCart(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, cart.QuantityOf(1))
	assert.Equal(t, 1, cart.Len())

	_, err = svc.RemoveFromCart(ctx, 1, 1)
	assert.ErrorIs(t, err, storage.ErrCartLineNotFound)
}

func TestCatalogService(t *testing.T) {
	products, _, _ := newCartFixture()
	svc := service.NewCatalogService(newTestLogger(), products, 5)
	ctx := context.Background()

	list, err := svc.ListProducts(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 5, products.lastLimit)
	assert.Equal(t, 10, products.lastOffset)

	p, err := svc.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)

	_, err = svc.GetProduct(ctx, 3)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
	_, err = svc.GetProduct(ctx, 404)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}
