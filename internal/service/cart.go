package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

// Ограничения формы добавления в корзину
const (
	MinCartQuantity = 1
	MaxCartQuantity = 20
)

type CartService interface {
	GetCart(ctx context.Context, userID int64) (*models.Cart, error)
	AddToCart(ctx context.Context, userID, productID int64, quantity int, override bool) (*models.Cart, error)
	RemoveFromCart(ctx context.Context, userID, productID int64) (*models.Cart, error)
}

type cartService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
	cartRepo    storage.CartStorage
	now         func() time.Time
}

func NewCartService(log *slog.Logger, productRepo storage.ProductStorage, cartRepo storage.CartStorage) CartService {
	return &cartService{
		log:         log,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		now:         time.Now,
	}
}

func (s *cartService) GetCart(ctx context.Context, userID int64) (*models.Cart, error) {
	const op = "service.CartService.GetCart"

	cart, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		s.log.Error("failed to get cart", slog.String("op", op), slog.Int64("userID", userID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w", op, err)
	}
	return cart, nil
}

// AddToCart кладёт товар в корзину. override заменяет количество, иначе оно суммируется.
// Доступность проверяется для итогового количества строки.
func (s *cartService) AddToCart(ctx context.Context, userID, productID int64, quantity int, override bool) (*models.Cart, error) {
	const op = "service.CartService.AddToCart"
	logger := s.log.With(
		slog.String("op", op),
		slog.Int64("userID", userID),
		slog.Int64("productID", productID),
		slog.Int("quantity", quantity),
	)

	if quantity < MinCartQuantity || quantity > MaxCartQuantity {
		return nil, fmt.Errorf("%s: %w", op,
			newValidationError(fmt.Sprintf("quantity must be between %d and %d", MinCartQuantity, MaxCartQuantity)))
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		logger.Warn("failed to get product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cart, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		logger.Error("failed to get cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w", op, err)
	}

	resulting := quantity
	if !override {
		resulting += cart.QuantityOf(productID)
	}
	if !product.CanBeOrdered(resulting) {
		logger.Warn("product cannot be ordered", slog.Int("resulting", resulting))
		return nil, fmt.Errorf("%s: %w", op,
			newValidationError(fmt.Sprintf("%q is not available in quantity %d", product.Name, resulting)))
	}

	line := models.CartLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		Price:       product.Price,
		AddedAt:     s.now().UTC(),
	}
	if err := s.cartRepo.UpsertLine(ctx, userID, line, override); err != nil {
		logger.Error("failed to save cart line", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to save cart line: %w", op, err)
	}

	logger.Info("product added to cart")
	return s.GetCart(ctx, userID)
}

func (s *cartService) RemoveFromCart(ctx context.Context, userID, productID int64) (*models.Cart, error) {
	const op = "service.CartService.RemoveFromCart"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("productID", productID))

	if err := s.cartRepo.RemoveLine(ctx, userID, productID); err != nil {
		logger.Warn("failed to remove cart line", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product removed from cart")
	return s.GetCart(ctx, userID)
}
