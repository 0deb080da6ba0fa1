package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine - строка корзины; цена фиксируется в момент добавления
type CartLine struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	AddedAt     time.Time       `json:"added_at"`
}

// Cost возвращает стоимость строки
func (l CartLine) Cost() decimal.Decimal {
	return LineCost(l.Price, l.Quantity)
}

// Cart - корзина пользователя. Хранение корзины находится вне заказа:
// workflow получает только её строки.
type Cart struct {
	UserID int64      `json:"user_id"`
	Items  []CartLine `json:"items"`
}

// NewCart создаёт корзину из строк, объединяя повторы одного товара
func NewCart(userID int64, lines ...CartLine) *Cart {
	c := &Cart{UserID: userID}
	for _, l := range lines {
		c.Put(l)
	}
	return c
}

// Put добавляет строку; если товар уже есть, увеличивает количество, цена остаётся прежней
func (c *Cart) Put(line CartLine) {
	for i := range c.Items {
		if c.Items[i].ProductID == line.ProductID {
			c.Items[i].Quantity += line.Quantity
			return
		}
	}
	c.Items = append(c.Items, line)
}

// QuantityOf - сколько единиц товара уже лежит в корзине
func (c *Cart) QuantityOf(productID int64) int {
	for _, l := range c.Items {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

// Lines возвращает строки корзины
func (c *Cart) Lines() []CartLine {
	return c.Items
}

// Len - общее количество единиц товара в корзине
func (c *Cart) Len() int {
	n := 0
	for _, l := range c.Items {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// TotalPrice - сумма price×quantity по всем строкам
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Items {
		total = total.Add(l.Cost())
	}
	return total
}

// Clear очищает корзину
func (c *Cart) Clear() {
	c.Items = nil
}
