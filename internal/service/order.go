package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
	"github.com/shopspring/decimal"
)

// OrderService - оформление заказа из корзины и смена его статуса.
type OrderService interface {
	// PlaceOrder берёт сохранённую корзину пользователя и оформляет по ней заказ.
	PlaceOrder(ctx context.Context, userID int64, contact models.ContactInfo) (*models.Order, error)
	CreateOrder(ctx context.Context, userID int64, cart *models.Cart, contact models.ContactInfo) (*models.Order, error)
	TransitionStatus(ctx context.Context, actorID int64, orderID string, target models.Status, note string) (*models.Order, error)
	GetOrder(ctx context.Context, actorID int64, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, userID int64, page int) (*OrderPage, error)
}

// OrderOptions - настройки оформления, приходят из конфига
type OrderOptions struct {
	ShippingCost decimal.Decimal
	TaxRate      decimal.Decimal
	// StrictTransitions включает таблицу допустимых переходов статусов
	StrictTransitions bool
	ReserveStock      bool
	PageSize          int

	// Now и NewOrderID подменяются в тестах
	Now        func() time.Time
	NewOrderID func() string
}

// OrderPage - страница списка заказов
type OrderPage struct {
	Orders   []*models.Order `json:"orders"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Total    int             `json:"total"`
	HasNext  bool            `json:"has_next"`
}

type orderService struct {
	log         *slog.Logger
	db          *sql.DB
	userRepo    storage.UserStorage
	productRepo storage.ProductStorage
	cartRepo    storage.CartStorage
	orderRepo   storage.OrderStorage
	opts        OrderOptions
}

func NewOrderService(
	log *slog.Logger,
	db *sql.DB,
	userRepo storage.UserStorage,
	productRepo storage.ProductStorage,
	cartRepo storage.CartStorage,
	orderRepo storage.OrderStorage,
	opts OrderOptions,
) OrderService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewOrderID == nil {
		opts.NewOrderID = func() string { return uuid.New().String() }
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	return &orderService{
		log:         log,
		db:          db,
		userRepo:    userRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		opts:        opts,
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, userID int64, contact models.ContactInfo) (*models.Order, error) {
	const op = "service.OrderService.PlaceOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	cart, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		logger.Error("failed to get cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w", op, err)
	}

	return s.CreateOrder(ctx, userID, cart, contact.WithDefaults(user.ContactDefaults()))
}

// CreateOrder оформляет заказ: одна транзакция на заказ, строки, журнал и очистку корзины.
// Корзина в памяти очищается только после коммита.
func (s *orderService) CreateOrder(ctx context.Context, userID int64, cart *models.Cart, contact models.ContactInfo) (*models.Order, error) {
	const op = "service.OrderService.CreateOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))
	logger.Info("starting order creation")

	if cart.IsEmpty() {
		logger.Warn("cart is empty")
		return nil, fmt.Errorf("%s: %w", op, newValidationError("cart is empty"))
	}
	if err := validateStruct(contact); err != nil {
		logger.Warn("invalid contact info", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, line := range cart.Lines() {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%s: %w", op, newValidationError(fmt.Sprintf("invalid quantity for product %d", line.ProductID)))
		}
	}

	now := s.opts.Now().UTC()
	totals := models.ComputeTotals(cart.TotalPrice(), s.opts.ShippingCost, s.opts.TaxRate)
	order := &models.Order{
		OrderID:       s.opts.NewOrderID(),
		UserID:        userID,
		Contact:       contact,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		TotalAmount:   totals.Total,
		ShippingCost:  totals.Shipping,
		TaxAmount:     totals.Tax,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	logger = logger.With(slog.String("orderID", order.OrderID))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	rollback := func() {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
	}

	// Резервируем остатки до вставки заказа, чтобы не писать лишнего при нехватке
	if s.opts.ReserveStock {
		for _, line := range cart.Lines() {
			if err := s.productRepo.ReserveStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
				rollback()
				if errors.Is(err, storage.ErrNotEnoughStock) {
					logger.Warn("not enough stock", slog.Int64("productID", line.ProductID))
					return nil, fmt.Errorf("%s: %w", op, newValidationError(fmt.Sprintf("not enough stock for %q", line.ProductName)))
				}
				logger.Error("failed to reserve stock", slog.Any("error", err))
				return nil, fmt.Errorf("%s: failed to reserve stock: %w", op, err)
			}
		}
	}

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		rollback()
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	// Цена и количество копируются из корзины как есть
	for _, line := range cart.Lines() {
		item := models.OrderItem{
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Price:       line.Price,
			Quantity:    line.Quantity,
		}
		if err := s.orderRepo.CreateOrderItem(ctx, tx, &item); err != nil {
			rollback()
			logger.Error("failed to create order item", slog.Int64("productID", line.ProductID), slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to create order item: %w", op, err)
		}
		order.Items = append(order.Items, item)
	}

	entry := models.OrderStatusHistory{
		OrderID:   order.ID,
		Status:    models.StatusPending,
		Note:      "Order created",
		ChangedBy: userID,
		CreatedAt: now,
	}
	if err := s.orderRepo.AddStatusHistory(ctx, tx, &entry); err != nil {
		rollback()
		logger.Error("failed to add status history", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to add status history: %w", op, err)
	}
	order.History = append(order.History, entry)

	if err := s.cartRepo.ClearCart(ctx, tx, userID); err != nil {
		rollback()
		logger.Error("failed to clear cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to clear cart: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	cart.Clear()

	logger.Info("order created successfully",
		slog.String("total", order.TotalAmount.StringFixed(2)),
		slog.Int("items", order.TotalItems()),
	)
	return order, nil
}

// TransitionStatus переводит заказ в новый статус и дописывает журнал.
// Строка заказа блокируется NOWAIT: при параллельной смене статуса вернётся ErrOrderLocked.
func (s *orderService) TransitionStatus(ctx context.Context, actorID int64, orderID string, target models.Status, note string) (*models.Order, error) {
	const op = "service.OrderService.TransitionStatus"
	logger := s.log.With(
		slog.String("op", op),
		slog.Int64("actorID", actorID),
		slog.String("orderID", orderID),
		slog.String("target", string(target)),
	)
	logger.Info("starting status transition")

	if err := s.authorize(ctx, actorID, models.CapManageOrders); err != nil {
		logger.Warn("actor is not allowed to manage orders", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !target.Valid() {
		return nil, fmt.Errorf("%s: %w", op, newValidationError(fmt.Sprintf("unknown status %q", target)))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	rollback := func() {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
	}

	order, err := s.orderRepo.LockOrderTx(ctx, tx, orderID)
	if err != nil {
		rollback()
		logger.Error("failed to lock order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to lock order: %w", op, err)
	}

	if !models.CanTransition(order.Status, target, s.opts.StrictTransitions) {
		rollback()
		logger.Warn("illegal status transition", slog.String("from", string(order.Status)))
		return nil, fmt.Errorf("%s: %w", op,
			newValidationError(fmt.Sprintf("cannot change status from %s to %s", order.Status, target)))
	}

	now := s.opts.Now().UTC()
	order.ApplyStatus(target, now)
	if err := s.orderRepo.UpdateOrderStatus(ctx, tx, order); err != nil {
		rollback()
		logger.Error("failed to update order status", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update order status: %w", op, err)
	}

	entry := models.OrderStatusHistory{
		OrderID:   order.ID,
		Status:    target,
		Note:      note,
		ChangedBy: actorID,
		CreatedAt: now,
	}
	if err := s.orderRepo.AddStatusHistory(ctx, tx, &entry); err != nil {
		rollback()
		logger.Error("failed to add status history", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to add status history: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	if err := s.loadDetails(ctx, order); err != nil {
		logger.Error("failed to load order details", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("order status changed")
	return order, nil
}

// GetOrder возвращает заказ со строками и журналом; чужой заказ доступен только с правом просмотра всех заказов
func (s *orderService) GetOrder(ctx context.Context, actorID int64, orderID string) (*models.Order, error) {
	const op = "service.OrderService.GetOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("actorID", actorID), slog.String("orderID", orderID))

	order, err := s.orderRepo.GetOrderByOrderID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, storage.ErrOrderNotFound) {
			logger.Error("failed to get order", slog.Any("error", err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if order.UserID != actorID {
		if err := s.authorize(ctx, actorID, models.CapViewAllOrders); err != nil {
			logger.Warn("access to foreign order denied")
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.loadDetails(ctx, order); err != nil {
		logger.Error("failed to load order details", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

// ListOrders - заказы пользователя, новые первыми
func (s *orderService) ListOrders(ctx context.Context, userID int64, page int) (*OrderPage, error) {
	const op = "service.OrderService.ListOrders"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	if page < 1 {
		page = 1
	}
	size := s.opts.PageSize

	total, err := s.orderRepo.CountOrdersByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to count orders", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to count orders: %w", op, err)
	}

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID, size, (page-1)*size)
	if err != nil {
		logger.Error("failed to get orders", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get orders: %w", op, err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}

	return &OrderPage{
		Orders:   orders,
		Page:     page,
		PageSize: size,
		Total:    total,
		HasNext:  page*size < total,
	}, nil
}

func (s *orderService) authorize(ctx context.Context, userID int64, c models.Capability) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return ErrForbidden
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if !user.Can(c) {
		return ErrForbidden
	}
	return nil
}

func (s *orderService) loadDetails(ctx context.Context, order *models.Order) error {
	items, err := s.orderRepo.GetOrderItems(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}
	history, err := s.orderRepo.GetStatusHistory(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to get status history: %w", err)
	}
	order.Items = items
	order.History = history
	return nil
}
