package service_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sort"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

type fakeUserRepo struct {
	users map[string]*models.User // ключ - email
}

var _ storage.UserStorage = (*fakeUserRepo)(nil)

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		f.users[u.Email] = u
	}
	return f
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = int64(len(f.users) + 1)
	f.users[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

type fakeProductRepo struct {
	products   map[int64]*models.Product
	reserveErr map[int64]error
	reserved   map[int64]int
	lastLimit  int
	lastOffset int
}

var _ storage.ProductStorage = (*fakeProductRepo)(nil)

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	f := &fakeProductRepo{
		products:   make(map[int64]*models.Product),
		reserveErr: make(map[int64]error),
		reserved:   make(map[int64]int),
	}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, storage.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) ListActiveProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	f.lastLimit, f.lastOffset = limit, offset
	var res []*models.Product
	for _, p := range f.products {
		if p.IsActive && p.Status == models.ProductActive {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (f *fakeProductRepo) ReserveStock(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error {
	if err := f.reserveErr[productID]; err != nil {
		return err
	}
	f.reserved[productID] += quantity
	return nil
}

type fakeCartRepo struct {
	carts    map[int64][]models.CartLine // ключ: userID
	clearErr error
	cleared  []int64
}

var _ storage.CartStorage = (*fakeCartRepo)(nil)

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[int64][]models.CartLine)}
}

func (f *fakeCartRepo) GetCart(ctx context.Context, userID int64) (*models.Cart, error) {
	lines := append([]models.CartLine(nil), f.carts[userID]...)
	return &models.Cart{UserID: userID, Items: lines}, nil
}

func (f *fakeCartRepo) UpsertLine(ctx context.Context, userID int64, line models.CartLine, override bool) error {
	lines := f.carts[userID]
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			if override {
				lines[i].Quantity = line.Quantity
			} else {
				lines[i].Quantity += line.Quantity
			}
			return nil
		}
	}
	f.carts[userID] = append(lines, line)
	return nil
}

func (f *fakeCartRepo) RemoveLine(ctx context.Context, userID int64, productID int64) error {
	lines := f.carts[userID]
	for i := range lines {
		if lines[i].ProductID == productID {
			f.carts[userID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return storage.ErrCartLineNotFound
}

func (f *fakeCartRepo) ClearCart(ctx context.Context, tx *sql.Tx, userID int64) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	delete(f.carts, userID)
	f.cleared = append(f.cleared, userID)
	return nil
}

type fakeOrderRepo struct {
	nextID  int64
	orders  map[string]*models.Order // ключ: OrderID
	items   map[int64][]models.OrderItem
	history map[int64][]models.OrderStatusHistory

	itemErr error
	lockErr error
}

var _ storage.OrderStorage = (*fakeOrderRepo)(nil)

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:  make(map[string]*models.Order),
		items:   make(map[int64][]models.OrderItem),
		history: make(map[int64][]models.OrderStatusHistory),
	}
}

// seed кладёт готовый заказ, как будто он уже был оформлен
func (f *fakeOrderRepo) seed(o *models.Order) *models.Order {
	f.nextID++
	o.ID = f.nextID
	f.orders[o.OrderID] = o
	return o
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	f.nextID++
	order.ID = f.nextID
	stored := *order
	f.orders[order.OrderID] = &stored
	return nil
}

func (f *fakeOrderRepo) CreateOrderItem(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error {
	if f.itemErr != nil {
		return f.itemErr
	}
	item.ID = int64(len(f.items[item.OrderID]) + 1)
	f.items[item.OrderID] = append(f.items[item.OrderID], *item)
	return nil
}

func (f *fakeOrderRepo) AddStatusHistory(ctx context.Context, tx *sql.Tx, entry *models.OrderStatusHistory) error {
	entry.ID = int64(len(f.history[entry.OrderID]) + 1)
	f.history[entry.OrderID] = append(f.history[entry.OrderID], *entry)
	return nil
}

func (f *fakeOrderRepo) LockOrderTx(ctx context.Context, tx *sql.Tx, orderID string) (*models.Order, error) {
	if f.lockErr != nil {
		return nil, f.lockErr
	}
	o, ok := f.orders[orderID]
	if !ok {
		return nil, storage.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	o, ok := f.orders[order.OrderID]
	if !ok {
		return storage.ErrOrderNotFound
	}
	o.Status = order.Status
	o.UpdatedAt = order.UpdatedAt
	o.ShippedAt = order.ShippedAt
	o.DeliveredAt = order.DeliveredAt
	return nil
}

func (f *fakeOrderRepo) GetOrderByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, storage.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) GetOrderItems(ctx context.Context, orderPK int64) ([]models.OrderItem, error) {
	return f.items[orderPK], nil
}

func (f *fakeOrderRepo) GetStatusHistory(ctx context.Context, orderPK int64) ([]models.OrderStatusHistory, error) {
	return f.history[orderPK], nil
}

func (f *fakeOrderRepo) userOrders(userID int64) []*models.Order {
	var res []*models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			res = append(res, o)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res
}

func (f *fakeOrderRepo) GetOrdersByUserID(ctx context.Context, userID int64, limit, offset int) ([]*models.Order, error) {
	all := f.userOrders(userID)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeOrderRepo) CountOrdersByUserID(ctx context.Context, userID int64) (int, error) {
	return len(f.userOrders(userID)), nil
}
