package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/commerce"
	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
)

func newTestCheckoutService(t *testing.T, carts *mockCartRepository, preorders *mockPreorderRepository, sources *mockSourceRepository, commerceHandler http.HandlerFunc) *CheckoutService {
	t.Helper()

	srv := httptest.NewServer(commerceHandler)
	t.Cleanup(srv.Close)

	logger := newTestLogger()
	client := httpclient.New(httpclient.Config{
		Timeout:         5 * time.Second,
		MaxRetries:      0,
		RetryWaitMin:    time.Millisecond,
		RetryWaitMax:    time.Millisecond,
		MaxConnsPerHost: 10,
	})
	commerceClient := commerce.NewClient(client, srv.URL, logger)
	attribution := NewAttributionService(sources, logger)

	return NewCheckoutService(carts, preorders, attribution, commerceClient, newTestProducer(), logger)
}

func testContact() ContactInput {
	return ContactInput{
		Name:  "Ada Example",
		Phone: "+1 555 0100",
	}
}

func TestCheckout_Submit_RegularCart(t *testing.T) {
	carts := new(mockCartRepository)
	preorders := new(mockPreorderRepository)
	sources := new(mockSourceRepository)
	ctx := context.Background()

	var received commerce.OrderPayload
	svc := newTestCheckoutService(t, carts, preorders, sources, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/orders", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(commerce.OrderRef{OrderID: "ord-1"})
	})

	carts.On("Get", mock.Anything, "sess-1").Return(cartWithItem("sess-1"), nil)
	carts.On("Delete", mock.Anything, "sess-1").Return(nil)
	sources.On("Get", mock.Anything, "sess-1").Return(domain.SourceFacebook, nil)

	result, err := svc.Submit(ctx, "sess-1", testContact())

	require.NoError(t, err)
	assert.Equal(t, "ord-1", result.OrderID)
	assert.Equal(t, domain.SourceFacebook, result.CustomerSource)
	assert.Equal(t, 2, result.ItemCount)
	assert.False(t, result.Preorder)

	assert.Equal(t, "facebook", received.CustomerSource)
	require.Len(t, received.Items, 1)
	assert.Equal(t, "prod-1", received.Items[0].ProductID)
	assert.Equal(t, 2, received.Items[0].Quantity)
	assert.Equal(t, "Ada Example", received.Customer.Name)
	assert.False(t, received.Preorder)

	carts.AssertExpectations(t)
}

func TestCheckout_Submit_PreorderCart(t *testing.T) {
	carts := new(mockCartRepository)
	preorders := new(mockPreorderRepository)
	sources := new(mockSourceRepository)
	ctx := context.Background()

	var received commerce.OrderPayload
	svc := newTestCheckoutService(t, carts, preorders, sources, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(commerce.OrderRef{OrderID: "ord-2"})
	})

	carts.On("Get", mock.Anything, "sess-1").Return(nil, apperrors.NotFound("cart", "sess-1"))
	preorders.On("Get", mock.Anything, "sess-1").Return(preorderWithItem("sess-1"), nil)
	preorders.On("Delete", mock.Anything, "sess-1").Return(nil)
	sources.On("Get", mock.Anything, "sess-1").Return(domain.CustomerSource(""), apperrors.NotFound("customer source", "sess-1"))

	result, err := svc.Submit(ctx, "sess-1", testContact())

	require.NoError(t, err)
	assert.Equal(t, "ord-2", result.OrderID)
	assert.True(t, result.Preorder)
	// No tracked channel defaults to website at read time.
	assert.Equal(t, domain.SourceWebsite, result.CustomerSource)

	assert.True(t, received.Preorder)
	require.Len(t, received.Items, 1)
	assert.Equal(t, "pre-1", received.Items[0].ProductID)

	preorders.AssertExpectations(t)
}

func TestCheckout_Submit_EmptyCarts(t *testing.T) {
	carts := new(mockCartRepository)
	preorders := new(mockPreorderRepository)
	sources := new(mockSourceRepository)
	ctx := context.Background()

	svc := newTestCheckoutService(t, carts, preorders, sources, func(w http.ResponseWriter, r *http.Request) {
		t.Error("commerce API must not be called for an empty cart")
	})

	carts.On("Get", mock.Anything, "sess-1").Return(nil, apperrors.NotFound("cart", "sess-1"))
	preorders.On("Get", mock.Anything, "sess-1").Return(nil, apperrors.NotFound("preorder cart", "sess-1"))

	_, err := svc.Submit(ctx, "sess-1", testContact())

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCheckout_Submit_CommerceRejects(t *testing.T) {
	carts := new(mockCartRepository)
	preorders := new(mockPreorderRepository)
	sources := new(mockSourceRepository)
	ctx := context.Background()

	svc := newTestCheckoutService(t, carts, preorders, sources, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"out of stock"}`, http.StatusUnprocessableEntity)
	})

	carts.On("Get", mock.Anything, "sess-1").Return(cartWithItem("sess-1"), nil)
	sources.On("Get", mock.Anything, "sess-1").Return(domain.SourceGoogle, nil)

	_, err := svc.Submit(ctx, "sess-1", testContact())

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	// The cart survives a rejected submission.
	carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCheckout_Submit_ClearFailureDoesNotFailOrder(t *testing.T) {
	carts := new(mockCartRepository)
	preorders := new(mockPreorderRepository)
	sources := new(mockSourceRepository)
	ctx := context.Background()

	svc := newTestCheckoutService(t, carts, preorders, sources, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(commerce.OrderRef{OrderID: "ord-3"})
	})

	carts.On("Get", mock.Anything, "sess-1").Return(cartWithItem("sess-1"), nil)
	carts.On("Delete", mock.Anything, "sess-1").Return(errors.New("redis down"))
	sources.On("Get", mock.Anything, "sess-1").Return(domain.SourceGoogle, nil)

	result, err := svc.Submit(ctx, "sess-1", testContact())

	require.NoError(t, err)
	assert.Equal(t, "ord-3", result.OrderID)
}
