package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus - статус публикации товара в каталоге
type ProductStatus string

const (
	ProductDraft      ProductStatus = "draft"
	ProductActive     ProductStatus = "active"
	ProductInactive   ProductStatus = "inactive"
	ProductOutOfStock ProductStatus = "out_of_stock"
)

// Product представляет товар каталога
type Product struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	SKU             string          `json:"sku"`
	Price           decimal.Decimal `json:"price"`
	Stock           int             `json:"stock"`
	TrackInventory  bool            `json:"track_inventory"`
	AllowBackorders bool            `json:"allow_backorders"`
	Status          ProductStatus   `json:"status"`
	IsActive        bool            `json:"is_active"`
	CategoryID      *int64          `json:"category_id,omitempty"`
	BrandID         *int64          `json:"brand_id,omitempty"`
	VendorID        int64           `json:"vendor_id"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IsInStock - товар в наличии с учётом политики склада
func (p *Product) IsInStock() bool {
	if !p.TrackInventory {
		return true
	}
	return p.Stock > 0 || p.AllowBackorders
}

// CanBeOrdered проверяет, можно ли заказать товар в указанном количестве
func (p *Product) CanBeOrdered(quantity int) bool {
	if !p.IsActive || p.Status != ProductActive {
		return false
	}
	if !p.TrackInventory {
		return true
	}
	if p.Stock >= quantity {
		return true
	}
	return p.AllowBackorders
}
