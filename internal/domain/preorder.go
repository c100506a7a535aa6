package domain

import "time"

// PreorderCart is the alternate single-item cart used for pre-order purchases.
// It holds at most one item and is mutually exclusive with the regular Cart:
// sessions cannot mix regular and pre-order checkout.
type PreorderCart struct {
	SessionID      string    `json:"session_id"`
	Item           *CartItem `json:"item,omitempty"`
	DiscountAmount int64     `json:"discount_amount"`
	IsOpen         bool      `json:"is_open"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// HasItem reports whether a pre-order item is currently held.
func (p *PreorderCart) HasItem() bool {
	return p.Item != nil
}

// ItemCount returns the quantity of the held item, or 0 when empty.
func (p *PreorderCart) ItemCount() int {
	if p.Item == nil {
		return 0
	}
	return p.Item.Quantity
}

// Subtotal returns the line total of the held item, or 0 when empty.
func (p *PreorderCart) Subtotal() int64 {
	if p.Item == nil {
		return 0
	}
	return p.Item.Subtotal()
}

// GrandTotal returns the subtotal less the discount, floored at zero.
func (p *PreorderCart) GrandTotal() int64 {
	total := p.Subtotal() - p.DiscountAmount
	if total < 0 {
		return 0
	}
	return total
}
