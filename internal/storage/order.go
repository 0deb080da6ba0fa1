package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/linemk/storefront/internal/domain/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrOrderLocked   = errors.New("order is locked by another operation")
)

// OrderStorage описывает методы для работы с заказами, их строками и журналом статусов.
type OrderStorage interface {
	// CreateOrder вставляет заказ в таблицу orders и проставляет order.ID.
	CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error
	// CreateOrderItem вставляет строку заказа.
	CreateOrderItem(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error
	// AddStatusHistory дописывает запись в журнал статусов.
	AddStatusHistory(ctx context.Context, tx *sql.Tx, entry *models.OrderStatusHistory) error
	// LockOrderTx блокирует строку заказа до конца транзакции.
	LockOrderTx(ctx context.Context, tx *sql.Tx, orderID string) (*models.Order, error)
	// UpdateOrderStatus сохраняет статус и временные метки отправки/доставки.
	UpdateOrderStatus(ctx context.Context, tx *sql.Tx, order *models.Order) error
	// GetOrderByOrderID возвращает заказ по публичному идентификатору (без строк и журнала).
	GetOrderByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderPK int64) ([]models.OrderItem, error)
	GetStatusHistory(ctx context.Context, orderPK int64) ([]models.OrderStatusHistory, error)
	// GetOrdersByUserID возвращает страницу заказов пользователя, новые первыми.
	GetOrdersByUserID(ctx context.Context, userID int64, limit, offset int) ([]*models.Order, error)
	CountOrdersByUserID(ctx context.Context, userID int64) (int, error)
}

// orderRepository - конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_id, user_id, first_name, last_name, email, phone, address, city, postal_code, country,
	status, payment_status, total_amount, shipping_cost, tax_amount, notes, admin_notes,
	created_at, updated_at, shipped_at, delivered_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	o := &models.Order{}
	err := row.Scan(
		&o.ID, &o.OrderID, &o.UserID,
		&o.Contact.FirstName, &o.Contact.LastName, &o.Contact.Email, &o.Contact.Phone,
		&o.Contact.Address, &o.Contact.City, &o.Contact.PostalCode, &o.Contact.Country,
		&o.Status, &o.PaymentStatus, &o.TotalAmount, &o.ShippingCost, &o.TaxAmount,
		&o.Contact.Notes, &o.AdminNotes,
		&o.CreatedAt, &o.UpdatedAt, &o.ShippedAt, &o.DeliveredAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	query := `INSERT INTO orders (order_id, user_id, first_name, last_name, email, phone, address, city, postal_code, country,
	              status, payment_status, total_amount, shipping_cost, tax_amount, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	          RETURNING id`
	c := order.Contact
	err := tx.QueryRowContext(ctx, query,
		order.OrderID, order.UserID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.City, c.PostalCode, c.Country,
		order.Status, order.PaymentStatus, order.TotalAmount, order.ShippingCost, order.TaxAmount, c.Notes,
		order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) CreateOrderItem(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error {
	query := `INSERT INTO order_items (order_id, product_id, product_name, price, quantity)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := tx.QueryRowContext(ctx, query, item.OrderID, item.ProductID, item.ProductName, item.Price, item.Quantity).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return nil
}

func (r *orderRepository) AddStatusHistory(ctx context.Context, tx *sql.Tx, entry *models.OrderStatusHistory) error {
	query := `INSERT INTO order_status_history (order_id, status, note, changed_by, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := tx.QueryRowContext(ctx, query, entry.OrderID, entry.Status, entry.Note, entry.ChangedBy, entry.CreatedAt).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to add status history: %w", err)
	}
	return nil
}

func (r *orderRepository) LockOrderTx(ctx context.Context, tx *sql.Tx, orderID string) (*models.Order, error) {
	row := tx.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE order_id = $1 FOR UPDATE NOWAIT", orderID)
	order, err := scanOrder(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "55P03" { // lock_not_available
			return nil, fmt.Errorf("%w: %v", ErrOrderLocked, err)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	query := `UPDATE orders SET status = $1, updated_at = $2, shipped_at = $3, delivered_at = $4 WHERE id = $5`
	res, err := tx.ExecContext(ctx, query, order.Status, order.UpdatedAt, order.ShippedAt, order.DeliveredAt, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) GetOrderByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE order_id = $1", orderID)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetOrderItems(ctx context.Context, orderPK int64) ([]models.OrderItem, error) {
	query := `SELECT id, order_id, product_id, product_name, price, quantity
		FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, orderPK)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Price, &it.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepository) GetStatusHistory(ctx context.Context, orderPK int64) ([]models.OrderStatusHistory, error) {
	query := `SELECT id, order_id, status, note, COALESCE(changed_by, 0), created_at
		FROM order_status_history WHERE order_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, orderPK)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var history []models.OrderStatusHistory
	for rows.Next() {
		var h models.OrderStatusHistory
		if err := rows.Scan(&h.ID, &h.OrderID, &h.Status, &h.Note, &h.ChangedBy, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return history, nil
}

func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID int64, limit, offset int) ([]*models.Order, error) {
	query := "SELECT " + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) CountOrdersByUserID(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders WHERE user_id = $1", userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
