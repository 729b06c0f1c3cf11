package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ListOptions narrows and orders a product listing.
// Ordering accepts name, price, -name, -price; anything else falls back to name.
type ListOptions struct {
	Search   string
	Ordering string
}
