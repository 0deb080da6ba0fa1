package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/storefront/internal/domain/models"
)

var ErrCartLineNotFound = errors.New("cart line not found")

// CartStorage хранит строки корзины по ключу пользователя.
type CartStorage interface {
	// GetCart собирает корзину пользователя, имя товара подтягивается JOIN.
	GetCart(ctx context.Context, userID int64) (*models.Cart, error)
	// UpsertLine добавляет строку или меняет количество (override заменяет, иначе суммирует).
	UpsertLine(ctx context.Context, userID int64, line models.CartLine, override bool) error
	// RemoveLine удаляет товар из корзины.
	RemoveLine(ctx context.Context, userID int64, productID int64) error
	// ClearCart очищает корзину в рамках транзакции оформления заказа.
	ClearCart(ctx context.Context, tx *sql.Tx, userID int64) error
}

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) CartStorage {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetCart(ctx context.Context, userID int64) (*models.Cart, error) {
	query := `
		SELECT c.product_id, p.name, c.quantity, c.price, c.added_at
		FROM cart_lines c
		JOIN products p ON c.product_id = p.id
		WHERE c.user_id = $1
		ORDER BY c.added_at, c.product_id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	cart := &models.Cart{UserID: userID}
	for rows.Next() {
		var line models.CartLine
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.Quantity, &line.Price, &line.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		cart.Items = append(cart.Items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpsertLine - цена остаётся той, что была при первом добавлении товара
func (r *cartRepository) UpsertLine(ctx context.Context, userID int64, line models.CartLine, override bool) error {
	query := `INSERT INTO cart_lines (user_id, product_id, quantity, price, added_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (user_id, product_id) DO UPDATE
	          SET quantity = CASE WHEN $6 THEN EXCLUDED.quantity ELSE cart_lines.quantity + EXCLUDED.quantity END`
	_, err := r.db.ExecContext(ctx, query, userID, line.ProductID, line.Quantity, line.Price, line.AddedAt, override)
	if err != nil {
		return fmt.Errorf("failed to upsert cart line: %w", err)
	}
	return nil
}

func (r *cartRepository) RemoveLine(ctx context.Context, userID int64, productID int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cart_lines WHERE user_id = $1 AND product_id = $2", userID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

func (r *cartRepository) ClearCart(ctx context.Context, tx *sql.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM cart_lines WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
