package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		maxStock int
		want     int
	}{
		{"under ceiling", 3, 10, 3},
		{"at ceiling", 10, 10, 10},
		{"over ceiling", 15, 10, 10},
		{"no ceiling", 9999, 0, 9999},
		{"ceiling of one", 5, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampQuantity(tt.quantity, tt.maxStock))
		})
	}
}

func TestCart_Totals(t *testing.T) {
	cart := &Cart{
		SessionID: "sess-1",
		Items: []CartItem{
			{ProductID: "p1", UnitPrice: 1000, Quantity: 2},
			{ProductID: "p2", VariantID: "v1", UnitPrice: 500, Quantity: 3},
		},
	}

	assert.Equal(t, 5, cart.ItemCount())
	assert.Equal(t, int64(3500), cart.Subtotal())
	assert.Equal(t, int64(3500), cart.GrandTotal())

	cart.DiscountAmount = 1000
	assert.Equal(t, int64(2500), cart.GrandTotal())
}

func TestCart_GrandTotal_FlooredAtZero(t *testing.T) {
	cart := &Cart{
		Items:          []CartItem{{ProductID: "p1", UnitPrice: 100, Quantity: 1}},
		DiscountAmount: 500,
	}

	assert.Equal(t, int64(0), cart.GrandTotal())
}

func TestCart_Empty(t *testing.T) {
	cart := &Cart{SessionID: "sess-1"}

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.ItemCount())
	assert.Equal(t, int64(0), cart.Subtotal())
	assert.Equal(t, int64(0), cart.GrandTotal())
}

func TestCart_FindItemIndex(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ProductID: "p1", VariantID: ""},
			{ProductID: "p1", VariantID: "v1"},
			{ProductID: "p2", VariantID: "v1"},
		},
	}

	assert.Equal(t, 0, cart.FindItemIndex("p1", ""))
	assert.Equal(t, 1, cart.FindItemIndex("p1", "v1"))
	assert.Equal(t, 2, cart.FindItemIndex("p2", "v1"))
	assert.Equal(t, -1, cart.FindItemIndex("p3", ""))
	assert.Equal(t, -1, cart.FindItemIndex("p1", "v2"))
}

func TestPreorderCart_Totals(t *testing.T) {
	cart := &PreorderCart{SessionID: "sess-1"}

	assert.False(t, cart.HasItem())
	assert.Equal(t, 0, cart.ItemCount())
	assert.Equal(t, int64(0), cart.GrandTotal())

	cart.Item = &CartItem{ProductID: "p1", UnitPrice: 2500, Quantity: 2}

	assert.True(t, cart.HasItem())
	assert.Equal(t, 2, cart.ItemCount())
	assert.Equal(t, int64(5000), cart.Subtotal())

	cart.DiscountAmount = 6000
	assert.Equal(t, int64(0), cart.GrandTotal())

	cart.DiscountAmount = 1000
	assert.Equal(t, int64(4000), cart.GrandTotal())
}
