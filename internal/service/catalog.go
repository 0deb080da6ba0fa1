package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

// CatalogService - чтение опубликованных товаров
type CatalogService interface {
	ListProducts(ctx context.Context, page int) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type catalogService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
	pageSize    int
}

func NewCatalogService(log *slog.Logger, productRepo storage.ProductStorage, pageSize int) CatalogService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &catalogService{log: log, productRepo: productRepo, pageSize: pageSize}
}

func (s *catalogService) ListProducts(ctx context.Context, page int) ([]*models.Product, error) {
	const op = "service.CatalogService.ListProducts"
	if page < 1 {
		page = 1
	}
	products, err := s.productRepo.ListActiveProducts(ctx, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// GetProduct отдаёт только опубликованный товар: черновики и снятые с продажи не видны
func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.CatalogService.GetProduct"
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !product.IsActive || product.Status == models.ProductDraft {
		return nil, fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}
	return product, nil
}
