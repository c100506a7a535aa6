package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// AddItemInput holds the parameters for adding an item to the cart.
type AddItemInput struct {
	ProductID     string   `json:"product_id" validate:"required"`
	VariantID     string   `json:"variant_id"`
	Name          string   `json:"name" validate:"required"`
	UnitPrice     int64    `json:"unit_price" validate:"gte=0"`
	Quantity      int      `json:"quantity" validate:"required,gte=1"`
	MaxStock      int      `json:"max_stock" validate:"gte=0"`
	Currency      string   `json:"currency"`
	ImageURL      string   `json:"image_url"`
	VariantValues []string `json:"variant_values"`
}

// CartService implements the business logic for the regular cart.
type CartService struct {
	repo       repository.CartRepository
	arbiter    *Arbiter
	producer   *event.Producer
	logger     *slog.Logger
	sessionTTL time.Duration
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, arbiter *Arbiter, producer *event.Producer, logger *slog.Logger, sessionTTL time.Duration) *CartService {
	return &CartService{
		repo:       repo,
		arbiter:    arbiter,
		producer:   producer,
		logger:     logger,
		sessionTTL: sessionTTL,
	}
}

// GetCart retrieves the cart for a session. If no cart exists, returns an empty cart.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds an item to the session's cart. If a line with the same
// (product, variant) pair exists, the quantities are merged and clamped to the
// item's stock ceiling. Adding is rejected while a pre-order is in progress.
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if input.UnitPrice < 0 {
		return nil, apperrors.InvalidInput("unit price must not be negative")
	}
	if input.MaxStock < 0 {
		return nil, apperrors.InvalidInput("max stock must not be negative")
	}

	// Mutual exclusion: regular and pre-order purchases cannot be mixed in
	// one session. Checked before any state changes so a rejection leaves
	// the cart untouched.
	if err := s.arbiter.AllowRegular(ctx, sessionID); err != nil {
		return nil, err
	}

	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var line domain.CartItem
	if idx := cart.FindItemIndex(input.ProductID, input.VariantID); idx >= 0 {
		item := &cart.Items[idx]
		item.Quantity = domain.ClampQuantity(item.Quantity+input.Quantity, input.MaxStock)
		// Refresh price and display fields in case they changed upstream.
		item.Name = input.Name
		item.UnitPrice = input.UnitPrice
		item.MaxStock = input.MaxStock
		item.Currency = input.Currency
		item.ImageURL = input.ImageURL
		item.VariantValues = input.VariantValues
		line = *item
	} else {
		line = domain.CartItem{
			ProductID:     input.ProductID,
			VariantID:     input.VariantID,
			Name:          input.Name,
			UnitPrice:     input.UnitPrice,
			Quantity:      domain.ClampQuantity(input.Quantity, input.MaxStock),
			MaxStock:      input.MaxStock,
			Currency:      input.Currency,
			ImageURL:      input.ImageURL,
			VariantValues: input.VariantValues,
		}
		cart.Items = append(cart.Items, line)
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	// Analytics emission is fire-and-forget: a publish failure must never
	// fail the mutation.
	if err := s.producer.PublishCartItemAdded(ctx, cart, line); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.item_added event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", input.ProductID),
		slog.String("variant_id", input.VariantID),
		slog.Int("quantity", line.Quantity),
	)

	return cart, nil
}

// UpdateItemQuantity sets the quantity of a cart line. A requested quantity of
// zero or less removes the line; anything above the stock ceiling is clamped.
func (s *CartService) UpdateItemQuantity(ctx context.Context, sessionID, productID, variantID string, quantity int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, productID, variantID)
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("cart item", lineID(productID, variantID))
		}
		return nil, fmt.Errorf("get cart for update: %w", err)
	}

	idx := cart.FindItemIndex(productID, variantID)
	if idx < 0 {
		return nil, apperrors.NotFound("cart item", lineID(productID, variantID))
	}

	item := &cart.Items[idx]
	item.Quantity = domain.ClampQuantity(quantity, item.MaxStock)
	line := *item

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	if err := s.producer.PublishCartQuantityUpdated(ctx, cart, line); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.quantity_updated event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.String("variant_id", variantID),
		slog.Int("quantity", line.Quantity),
	)

	return cart, nil
}

// RemoveItem removes a specific line from the cart. Removing a line that is
// not present is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID, variantID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItemIndex(productID, variantID)
	if idx < 0 {
		return cart, nil
	}

	removed := cart.Items[idx]
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	if err := s.producer.PublishCartItemRemoved(ctx, cart, removed); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.item_removed event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.String("variant_id", variantID),
	)

	return cart, nil
}

// ClearCart removes all items from the session's cart and resets the discount.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

// SetDiscount sets the manual discount amount. Negative amounts clamp to zero.
func (s *CartService) SetDiscount(ctx context.Context, sessionID string, amount int64) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if amount < 0 {
		amount = 0
	}
	cart.DiscountAmount = amount

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// SetOpen sets the cart drawer visibility flag. Pure UI state, no analytics.
func (s *CartService) SetOpen(ctx context.Context, sessionID string, open bool) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.IsOpen = open

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// ToggleOpen flips the cart drawer visibility flag.
func (s *CartService) ToggleOpen(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.IsOpen = !cart.IsOpen

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// getOrCreateCart retrieves the cart for a session, creating an empty one if
// it does not exist.
func (s *CartService) getOrCreateCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// save stamps the cart and persists it.
func (s *CartService) save(ctx context.Context, cart *domain.Cart) error {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	cart.ExpiresAt = now.Add(s.sessionTTL)

	if err := s.repo.Save(ctx, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// newEmptyCart creates a new empty cart for the given session.
func (s *CartService) newEmptyCart(sessionID string) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		SessionID: sessionID,
		Items:     []domain.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
}

// lineID formats a (product, variant) pair for error messages.
func lineID(productID, variantID string) string {
	if variantID == "" {
		return productID
	}
	return productID + "/" + variantID
}
