package domain

import "time"

// Cart represents the regular (immediate purchase) shopping cart for a
// browsing session. Items keep insertion order.
type Cart struct {
	SessionID      string     `json:"session_id"`
	Items          []CartItem `json:"items"`
	DiscountAmount int64      `json:"discount_amount"`
	IsOpen         bool       `json:"is_open"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ExpiresAt      time.Time  `json:"expires_at"`
}

// CartItem represents a single line in the cart, identified by the
// (ProductID, VariantID) pair. VariantID is empty for products without variants.
type CartItem struct {
	ProductID     string   `json:"product_id"`
	VariantID     string   `json:"variant_id,omitempty"`
	Name          string   `json:"name"`
	UnitPrice     int64    `json:"unit_price"`
	Quantity      int      `json:"quantity"`
	MaxStock      int      `json:"max_stock"`
	Currency      string   `json:"currency"`
	ImageURL      string   `json:"image_url,omitempty"`
	VariantValues []string `json:"variant_values,omitempty"`
}

// ClampQuantity applies the stock ceiling to a requested quantity.
// A MaxStock of 0 means the product has no known ceiling. Quantities above
// the ceiling are clamped down to it; the floor of 1 is the caller's concern
// because a requested quantity of zero or less removes the line instead.
func ClampQuantity(quantity, maxStock int) int {
	if maxStock > 0 && quantity > maxStock {
		return maxStock
	}
	return quantity
}

// Subtotal returns the line total for the item.
func (i *CartItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the sum of unit price times quantity over all lines.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// GrandTotal returns the subtotal less the discount, floored at zero.
func (c *Cart) GrandTotal() int64 {
	total := c.Subtotal() - c.DiscountAmount
	if total < 0 {
		return 0
	}
	return total
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItemIndex returns the index of the cart line matching the given product
// and variant IDs, or -1 if not found.
func (c *Cart) FindItemIndex(productID, variantID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].VariantID == variantID {
			return i
		}
	}
	return -1
}
