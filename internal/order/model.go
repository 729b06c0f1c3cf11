package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	DeliveryStatus Status    `json:"deliveryStatus"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Item is an immutable snapshot line: price is captured from the product at
// checkout time and never recomputed afterwards.
type Item struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"orderId"`
	ProductID string          `json:"productId"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Details is the order-with-items shape returned by checkout and by a single
// order fetch. Items keep cart insertion order.
type Details struct {
	Order Order  `json:"order"`
	Items []Item `json:"order_items"`
}
