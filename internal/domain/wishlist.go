package domain

import "time"

// WishlistItem represents a product saved in a session's wishlist.
type WishlistItem struct {
	SessionID string    `json:"session_id"`
	ProductID string    `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}
