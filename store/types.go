// Package store holds well-formed types the static contract checks load.
package store

import (
	"time"
)

// Audit is embedded into records that track their author.
type Audit struct {
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is a transaction made by a customer.
type Order struct {
	Audit
	ID      int64             `json:"id"`
	Status  OrderStatus       `json:"status"`
	Items   []OrderItem       `json:"items"`
	Payment Payment           `json:"payment"`
	Notes   map[string]string `json:"notes,omitempty"`
	Extra   map[string]any    `json:",unknown"`
}

// OrderItem is a product line within an order. Prices are in cents.
type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int
	UnitPrice int64 `json:"unit_price,string"`
}

// NewOrderItem builds a line item; quantity defaults to 1 in contracts.yaml.
func NewOrderItem(productID int64, quantity int, unitPrice int64) OrderItem {
	return OrderItem{ProductID: productID, Quantity: quantity, UnitPrice: unitPrice}
}

// NewBulkItem builds an item from a wide quantity.
func NewBulkItem(productID int64, quantity int64) OrderItem {
	return OrderItem{ProductID: productID, Quantity: int(quantity)}
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Payment is how an order was paid.
type Payment interface {
	AmountCents() int64
}

// Card is a card payment.
type Card struct {
	Last4 string `json:"last4"`
	Cents int64  `json:"cents"`
}

func (c Card) AmountCents() int64 { return c.Cents }

// Transfer is a bank transfer.
type Transfer struct {
	IBAN  string `json:"iban"`
	Cents int64  `json:"cents"`
}

func (t *Transfer) AmountCents() int64 { return t.Cents }
