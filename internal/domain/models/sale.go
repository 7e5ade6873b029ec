package models

import "time"

// PaymentMethod enumerates how a sale was paid. The values match the strings
// stored in the Ventas worksheet.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "efectivo"
	PaymentCard   PaymentMethod = "tarjeta"
	PaymentCredit PaymentMethod = "credito"
)

// Valid reports whether the payment method is one of the known values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentCredit:
		return true
	}
	return false
}

// SaleItem is a line item within a sale: a product reference plus the sold
// quantity. Name and Price are captured at sale time so the history stays
// readable after the product changes or disappears.
type SaleItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Sale represents a completed sales transaction. Sales are immutable except
// for IsPaid, which flips false to true once when a credit sale is settled.
type Sale struct {
	ID            string        `json:"id"`
	CustomerName  string        `json:"customerName"`
	Items         []SaleItem    `json:"products"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	IsPaid        bool          `json:"isPaid"`
	Date          time.Time     `json:"date"`
	Profit        float64       `json:"profit"`
}

// SaleInput carries the caller-supplied fields for a new sale. Identifier,
// date, paid flag and profit are computed by the coordinator.
type SaleInput struct {
	CustomerName  string        `json:"customerName"`
	Items         []SaleItem    `json:"products"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}
