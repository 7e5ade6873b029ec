package models

import "time"

// Product represents a catalog item tracked by the inventory.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	PurchasePrice float64   `json:"purchasePrice"`
	SalePrice     float64   `json:"salePrice"`
	Stock         int       `json:"stock"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProductInput carries the caller-supplied fields for a new product. The
// identifier and timestamps are assigned by the coordinator.
type ProductInput struct {
	Name          string  `json:"name"`
	PurchasePrice float64 `json:"purchasePrice"`
	SalePrice     float64 `json:"salePrice"`
	Stock         int     `json:"stock"`
}

// ProductUpdate describes a partial update. Nil fields are left untouched.
type ProductUpdate struct {
	Name          *string  `json:"name,omitempty"`
	PurchasePrice *float64 `json:"purchasePrice,omitempty"`
	SalePrice     *float64 `json:"salePrice,omitempty"`
	Stock         *int     `json:"stock,omitempty"`
}

// Apply merges the non-nil fields onto the product.
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.PurchasePrice != nil {
		p.PurchasePrice = *u.PurchasePrice
	}
	if u.SalePrice != nil {
		p.SalePrice = *u.SalePrice
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
}
