package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/storefront/internal/domain/models"
)

// ProductStorage описывает методы каталога, которые нужны корзине и заказам.
type ProductStorage interface {
	// GetProductByID получает товар по идентификатору.
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	// ListActiveProducts возвращает опубликованные товары.
	ListActiveProducts(ctx context.Context, limit, offset int) ([]*models.Product, error)
	// ReserveStock условно списывает остаток внутри транзакции заказа.
	ReserveStock(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error
}

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotEnoughStock  = errors.New("not enough stock")
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт новый репозиторий товаров.
func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

const productColumns = `id, name, slug, sku, price, stock, track_inventory, allow_backorders, status, is_active, category_id, brand_id, vendor_id, created_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.SKU, &p.Price, &p.Stock,
		&p.TrackInventory, &p.AllowBackorders, &p.Status, &p.IsActive,
		&p.CategoryID, &p.BrandID, &p.VendorID, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) ListActiveProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	query := "SELECT " + productColumns + `
		FROM products
		WHERE is_active AND status = 'active'
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// ReserveStock списывает остаток одним условным UPDATE.
// Товары без учёта остатков не трогаются, при backorder остаток не уходит ниже нуля.
func (r *productRepository) ReserveStock(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error {
	query := `UPDATE products
		SET stock = CASE WHEN track_inventory THEN GREATEST(stock - $1, 0) ELSE stock END,
		    updated_at = NOW()
		WHERE id = $2 AND (NOT track_inventory OR stock >= $1 OR allow_backorders)`
	res, err := tx.ExecContext(ctx, query, quantity, productID)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotEnoughStock
	}
	return nil
}
