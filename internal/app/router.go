package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/storefront/internal/app/handlers"
	"github.com/linemk/storefront/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/storefront/internal/lib/logger/handlers/urllog"
	"github.com/linemk/storefront/internal/service"
)

// Services - всё, что нужно HTTP-слою
type Services struct {
	Auth    service.AuthServiceInterface
	Catalog service.CatalogService
	Cart    service.CartService
	Orders  service.OrderService
}

// NewRouter собирает маршруты API; всё, кроме /api/auth, требует JWT
func NewRouter(log *slog.Logger, jwtSecret string, svc Services) http.Handler {
	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// эндпоинт для аутентификации
	router.Post("/api/auth", handlers.AuthHandler(log, svc.Auth))

	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(jwtSecret))

		// каталог
		r.Get("/api/products", handlers.ListProductsHandler(log, svc.Catalog))
		r.Get("/api/products/{id}", handlers.GetProductHandler(log, svc.Catalog))

		// корзина
		r.Get("/api/cart", handlers.GetCartHandler(log, svc.Cart))
		r.Post("/api/cart", handlers.AddToCartHandler(log, svc.Cart))
		r.Delete("/api/cart/{productID}", handlers.RemoveFromCartHandler(log, svc.Cart))

		// заказы
		r.Post("/api/orders", handlers.CreateOrderHandler(log, svc.Orders))
		r.Get("/api/orders", handlers.ListOrdersHandler(log, svc.Orders))
		r.Get("/api/orders/{orderID}", handlers.GetOrderHandler(log, svc.Orders))
		r.Post("/api/orders/{orderID}/status", handlers.TransitionStatusHandler(log, svc.Orders))
	})

	return router
}
