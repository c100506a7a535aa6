package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func newTestPreorderService(carts *mockCartRepository, preorders *mockPreorderRepository) *PreorderService {
	arbiter := NewArbiter(carts, preorders)
	return NewPreorderService(preorders, arbiter, newTestProducer(), newTestLogger(), 7*24*time.Hour, "/pre-order/checkout")
}

func preorderWithItem(sessionID string) *domain.PreorderCart {
	now := time.Now().UTC()
	return &domain.PreorderCart{
		SessionID: sessionID,
		Item: &domain.CartItem{
			ProductID: "pre-1",
			Name:      "Upcoming Product",
			UnitPrice: 4999,
			Quantity:  1,
			MaxStock:  5,
		},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}
}

func emptyCart(carts *mockCartRepository, sessionID string) {
	carts.On("Get", mock.Anything, sessionID).
		Return(nil, apperrors.NotFound("cart", sessionID))
}

func TestPreorderService_GetCart_Empty(t *testing.T) {
	carts := new(mockCartRepository)
	preorders := new(mockPreorderRepository)
	svc := newTestPreorderService(carts, preorders)
	ctx := context.Background()

	preorders.On("Get", ctx, "sess-1").Return(nil, apperrors.NotFound("preorder cart", "sess-1"))

	cart, err := svc.GetCart(ctx, "sess-1")

	require.NoError(t, err)
	assert.Equal(t, "sess-1", cart.SessionID)
	assert.False(t, cart.HasItem())
}

func TestPreorderService_SetItem_ReplacesHeldItem(t *testing.T) {
	carts := new(mockCartRepository)
	preorders := new(mockPreorderRepository)
	svc := newTestPreorderService(carts, preorders)
	ctx := context.Background()

	emptyCart(carts, "sess-1")
	preorders.On("Get", mock.Anything, "sess-1").Return(preorderWithItem("sess-1"), nil)
	preorders.On("Save", mock.Anything, mock.AnythingOfType("*domain.PreorderCart")).Return(nil)

	cart, err := svc.SetItem(ctx, "sess-1", AddItemInput{
		ProductID: "pre-2",
		Name:      "Another Upcoming Product",
		UnitPrice: 5999,
		Quantity:  2,
		MaxStock:  3,
	})

	require.NoError(t, err)
	require.True(t, cart.HasItem())
	assert.Equal(t, "pre-2", cart.Item.ProductID)
	assert.Equal(t, 2, cart.Item.Quantity)

	preorders.AssertExpectations(t)
}

func TestPreorderService_SetItem_ClampsQuantity(t *testing.T) {
	carts := new(mockCartRepository)
	preorders := new(mockPreorderRepository)
	svc := newTestPreorderService(carts, preorders)
	ctx := context.Background()

	emptyCart(carts, "sess-1")
	preorders.On("Get", mock.Anything, "sess-1").Return(nil, apperrors.NotFound("preorder cart", "sess-1"))
	preorders.On("Save", mock.Anything, mock.AnythingOfType("*domain.PreorderCart")).Return(nil)

	cart, err := svc.SetItem(ctx, "sess-1", AddItemInput{
		ProductID: "pre-1",
		Name:      "Upcoming Product",
		UnitPrice: 4999,
		Quantity:  10,
		MaxStock:  5,
	})

	require.NoError(t, err)
	assert.Equal(t, 5, cart.Item.Quantity)
}

func TestPreorderService_SetItem_RejectedWhenCartOccupied(t *testing.T) {
	carts := new(mockCartRepository)
	preorders := new(mockPreorderRepository)
	svc := newTestPreorderService(carts, preorders)
	ctx := context.Background()

	carts.On("Get", mock.Anything, "sess-1").Return(cartWithItem("sess-1"), nil)

	_, err := svc.SetItem(ctx, "sess-1", AddItemInput{
		ProductID: "pre-1",
		Name:      "Upcoming Product",
		UnitPrice: 4999,
		Quantity:  1,
	})

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CART_NOT_EMPTY", appErr.Code)
	assert.Equal(t, 409, appErr.Status)

	preorders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPreorderService_UpdateQuantity_ZeroClears(t *testing.T) {
	carts := new(mockCartRepository)
	preorders := new(mockPreorderRepository)
	svc := newTestPreorderService(carts, preorders)
	ctx := context.Background()

	preorders.On("Get", mock.Anything, "sess-1").Return(preorderWithItem("sess-1"), nil)
	preorders.On("Delete", mock.Anything, "sess-1").Return(nil)

	cart, err := svc.UpdateQuantity(ctx, "sess-1", 0)

	require.NoError(t, err)
	assert.False(t, cart.HasItem())

	preorders.AssertExpectations(t)
}

func TestPreorderService_UpdateQuantity_Clamps(t *testing.T) {
	carts := new(mockCartRepository)
	preorders := new(mockPreorderRepository)
	svc := newTestPreorderService(carts, preorders)
	ctx := context.Background()

	preorders.On("Get", mock.Anything, "sess-1").Return(preorderWithItem("sess-1"), nil)
	preorders.On("Save", mock.Anything, mock.AnythingOfType("*domain.PreorderCart")).Return(nil)

	cart, err := svc.UpdateQuantity(ctx, "sess-1", 99)

	require.NoError(t, err)
	assert.Equal(t, 5, cart.Item.Quantity)
}

func TestPreorderService_UpdateQuantity_NoItem(t *testing.T) {
	carts := new(mockCartRepository)
	preorders := new(mockPreorderRepository)
	svc := newTestPreorderService(carts, preorders)
	ctx := context.Background()

	preorders.On("Get", mock.Anything, "sess-1").Return(nil, apperrors.NotFound("preorder cart", "sess-1"))

	_, err := svc.UpdateQuantity(ctx, "sess-1", 2)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPreorderService_Clear(t *testing.T) {
	carts := new(mockCartRepository)
	preorders := new(mockPreorderRepository)
	svc := newTestPreorderService(carts, preorders)
	ctx := context.Background()

	preorders.On("Delete", mock.Anything, "sess-1").Return(nil)

	require.NoError(t, svc.Clear(ctx, "sess-1"))
	preorders.AssertExpectations(t)
}

func TestPreorderService_CheckoutURL(t *testing.T) {
	svc := newTestPreorderService(new(mockCartRepository), new(mockPreorderRepository))
	assert.Equal(t, "/pre-order/checkout", svc.CheckoutURL())
}
