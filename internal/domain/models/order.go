package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContactInfo - снимок контактных данных и адреса доставки на момент заказа.
// Не связан с профилем пользователя: правка профиля не меняет старые заказы.
type ContactInfo struct {
	FirstName  string `json:"first_name" validate:"required,max=150"`
	LastName   string `json:"last_name" validate:"required,max=150"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Phone      string `json:"phone" validate:"max=20"`
	Address    string `json:"address" validate:"required,max=250"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
	Notes      string `json:"notes" validate:"max=2000"`
}

// Order представляет заказ, оформленный из корзины
type Order struct {
	ID            int64           `json:"-"`
	OrderID       string          `json:"order_id"`
	UserID        int64           `json:"user_id"`
	Contact       ContactInfo     `json:"contact"`
	Status        Status          `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ShippingCost  decimal.Decimal `json:"shipping_cost"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	AdminNotes    string          `json:"admin_notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	ShippedAt     *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt   *time.Time      `json:"delivered_at,omitempty"`

	Items   []OrderItem          `json:"items,omitempty"`
	History []OrderStatusHistory `json:"history,omitempty"`
}

// OrderItem - строка заказа; цена зафиксирована при оформлении
type OrderItem struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"-"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Cost возвращает price × quantity
func (i OrderItem) Cost() decimal.Decimal {
	return LineCost(i.Price, i.Quantity)
}

// OrderStatusHistory - запись журнала смены статусов (только добавление)
type OrderStatusHistory struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"-"`
	Status    Status    `json:"status"`
	Note      string    `json:"note"`
	ChangedBy int64     `json:"changed_by"`
	CreatedAt time.Time `json:"created_at"`
}

// LineCost считает стоимость строки в десятичной арифметике
func LineCost(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// ItemsTotal - пересчитанная сумма строк заказа, без доставки и налога.
// Хранимое TotalAmount не пересчитывается, этот метод нужен для сверки.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Cost())
	}
	return total
}

// TotalItems - количество единиц товара в заказе
func (o *Order) TotalItems() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// FullName - имя и фамилия получателя
func (o *Order) FullName() string {
	if o.Contact.LastName == "" {
		return o.Contact.FirstName
	}
	if o.Contact.FirstName == "" {
		return o.Contact.LastName
	}
	return o.Contact.FirstName + " " + o.Contact.LastName
}

// Totals - разбивка суммы заказа
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals считает налог от subtotal (округление до копеек) и итог
func ComputeTotals(subtotal, shipping, taxRate decimal.Decimal) Totals {
	tax := subtotal.Mul(taxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// ApplyStatus меняет статус и проставляет shipped_at/delivered_at, не перезаписывая уже установленные
func (o *Order) ApplyStatus(target Status, at time.Time) {
	o.Status = target
	o.UpdatedAt = at
	switch target {
	case StatusShipped:
		if o.ShippedAt == nil {
			t := at
			o.ShippedAt = &t
		}
	case StatusDelivered:
		if o.DeliveredAt == nil {
			t := at
			o.DeliveredAt = &t
		}
	}
}

// WithDefaults дополняет пустые поля значениями из профиля; заметки не подставляются
func (c ContactInfo) WithDefaults(d ContactInfo) ContactInfo {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&c.FirstName, d.FirstName)
	fill(&c.LastName, d.LastName)
	fill(&c.Email, d.Email)
	fill(&c.Phone, d.Phone)
	fill(&c.Address, d.Address)
	fill(&c.City, d.City)
	fill(&c.PostalCode, d.PostalCode)
	fill(&c.Country, d.Country)
	return c
}
