package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/commerce"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// CircuitOpenFallback is the circuit-breaker fallback for the commerce API
// client. When the circuit is open it returns a structured error with a retry
// hint instead of letting the raw ErrCircuitOpen propagate.
func CircuitOpenFallback(_ context.Context, _ error) (*http.Response, error) {
	return nil, apperrors.ServiceUnavailable("the store is temporarily unable to take orders, please retry shortly")
}

// ContactInput holds the customer contact fields collected at checkout.
type ContactInput struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Phone   string `json:"phone" validate:"required,min=5,max=30"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"max=500"`
	Note    string `json:"note" validate:"max=1000"`
}

// OrderResult is returned after a successful submission.
type OrderResult struct {
	OrderID        string                `json:"order_id"`
	CustomerSource domain.CustomerSource `json:"customer_source"`
	ItemCount      int                   `json:"item_count"`
	GrandTotal     int64                 `json:"grand_total"`
	Preorder       bool                  `json:"preorder"`
}

// CheckoutService submits the session's occupied cart to the commerce API.
// It composes the order payload from the cart snapshot and the tracked
// customer source, then clears the submitted cart on success.
type CheckoutService struct {
	carts       repository.CartRepository
	preorders   repository.PreorderRepository
	attribution *AttributionService
	commerce    *commerce.Client
	producer    *event.Producer
	logger      *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	carts repository.CartRepository,
	preorders repository.PreorderRepository,
	attribution *AttributionService,
	commerceClient *commerce.Client,
	producer *event.Producer,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:       carts,
		preorders:   preorders,
		attribution: attribution,
		commerce:    commerceClient,
		producer:    producer,
		logger:      logger,
	}
}

// Submit snapshots whichever cart is occupied, submits the order, and clears
// the submitted cart. Submitting with both carts empty is rejected.
func (s *CheckoutService) Submit(ctx context.Context, sessionID string, contact ContactInput) (*OrderResult, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	items, itemCount, grandTotal, preorder, err := s.snapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.InvalidInput("cannot submit an order with an empty cart")
	}

	source := s.attribution.CustomerSource(ctx, sessionID)

	payload := commerce.OrderPayload{
		CustomerSource: source.String(),
		Items:          items,
		Customer: commerce.Customer{
			Name:    contact.Name,
			Phone:   contact.Phone,
			Email:   contact.Email,
			Address: contact.Address,
			Note:    contact.Note,
		},
		Preorder: preorder,
	}

	ref, err := s.commerce.SubmitOrder(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	// Order completion clears the submitted cart. A delete failure here is
	// logged rather than surfaced: the order is already placed and the cart
	// expires with the session anyway.
	s.clearSubmitted(ctx, sessionID, preorder)

	if err := s.producer.PublishOrderSubmitted(ctx, event.OrderSubmittedData{
		SessionID:      sessionID,
		OrderID:        ref.OrderID,
		CustomerSource: source.String(),
		ItemCount:      itemCount,
		GrandTotal:     grandTotal,
		Preorder:       preorder,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.submitted event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order submitted",
		slog.String("session_id", sessionID),
		slog.String("order_id", ref.OrderID),
		slog.String("customer_source", source.String()),
		slog.Int("item_count", itemCount),
		slog.Bool("preorder", preorder),
	)

	return &OrderResult{
		OrderID:        ref.OrderID,
		CustomerSource: source,
		ItemCount:      itemCount,
		GrandTotal:     grandTotal,
		Preorder:       preorder,
	}, nil
}

// snapshot reads the occupied cart. The regular cart wins; the arbiter
// prevents both being occupied at once.
func (s *CheckoutService) snapshot(ctx context.Context, sessionID string) (items []commerce.OrderItem, itemCount int, grandTotal int64, preorder bool, err error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, 0, 0, false, fmt.Errorf("get cart for checkout: %w", err)
	}
	if cart != nil && !cart.IsEmpty() {
		items = make([]commerce.OrderItem, len(cart.Items))
		for i, it := range cart.Items {
			items[i] = commerce.OrderItem{
				ProductID: it.ProductID,
				VariantID: it.VariantID,
				Quantity:  it.Quantity,
			}
		}
		return items, cart.ItemCount(), cart.GrandTotal(), false, nil
	}

	pre, err := s.preorders.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, 0, 0, false, nil
		}
		return nil, 0, 0, false, fmt.Errorf("get preorder cart for checkout: %w", err)
	}
	if pre.HasItem() {
		items = []commerce.OrderItem{{
			ProductID: pre.Item.ProductID,
			VariantID: pre.Item.VariantID,
			Quantity:  pre.Item.Quantity,
		}}
		return items, pre.ItemCount(), pre.GrandTotal(), true, nil
	}

	return nil, 0, 0, false, nil
}

func (s *CheckoutService) clearSubmitted(ctx context.Context, sessionID string, preorder bool) {
	var err error
	if preorder {
		err = s.preorders.Delete(ctx, sessionID)
	} else {
		err = s.carts.Delete(ctx, sessionID)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after order submission",
			slog.String("session_id", sessionID),
			slog.Bool("preorder", preorder),
			slog.String("error", err.Error()),
		)
	}
}
