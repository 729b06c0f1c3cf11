package cart

import "time"

// Item is one pending line in a user's cart. One row per (user, product);
// repeated adds for the same product increment the quantity.
type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}
