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

// PreorderService implements the business logic for the single-item
// pre-order cart.
type PreorderService struct {
	repo        repository.PreorderRepository
	arbiter     *Arbiter
	producer    *event.Producer
	logger      *slog.Logger
	sessionTTL  time.Duration
	checkoutURL string
}

// NewPreorderService creates a new pre-order cart service. checkoutURL is the
// pre-order checkout page the storefront redirects to after an item is set.
func NewPreorderService(repo repository.PreorderRepository, arbiter *Arbiter, producer *event.Producer, logger *slog.Logger, sessionTTL time.Duration, checkoutURL string) *PreorderService {
	return &PreorderService{
		repo:        repo,
		arbiter:     arbiter,
		producer:    producer,
		logger:      logger,
		sessionTTL:  sessionTTL,
		checkoutURL: checkoutURL,
	}
}

// CheckoutURL returns the pre-order checkout redirect target. The redirect
// itself is the storefront's side effect, not this service's.
func (s *PreorderService) CheckoutURL() string {
	return s.checkoutURL
}

// GetCart retrieves the pre-order cart for a session. If none exists, returns
// an empty aggregate.
func (s *PreorderService) GetCart(ctx context.Context, sessionID string) (*domain.PreorderCart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sessionID), nil
		}
		return nil, fmt.Errorf("get preorder cart: %w", err)
	}

	return cart, nil
}

// SetItem places an item in the pre-order cart, replacing any held item.
// Setting is rejected while the regular cart has items.
func (s *PreorderService) SetItem(ctx context.Context, sessionID string, input AddItemInput) (*domain.PreorderCart, error) {
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

	if err := s.arbiter.AllowPreorder(ctx, sessionID); err != nil {
		return nil, err
	}

	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.Item = &domain.CartItem{
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

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	if err := s.producer.PublishPreorderItemSet(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish preorder.item_set event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "preorder item set",
		slog.String("session_id", sessionID),
		slog.String("product_id", input.ProductID),
		slog.String("variant_id", input.VariantID),
		slog.Int("quantity", cart.Item.Quantity),
	)

	return cart, nil
}

// UpdateQuantity sets the quantity of the held item. A requested quantity of
// zero or less clears the pre-order; anything above the ceiling is clamped.
func (s *PreorderService) UpdateQuantity(ctx context.Context, sessionID string, quantity int) (*domain.PreorderCart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("preorder item", sessionID)
		}
		return nil, fmt.Errorf("get preorder cart for update: %w", err)
	}
	if cart.Item == nil {
		return nil, apperrors.NotFound("preorder item", sessionID)
	}

	if quantity <= 0 {
		if err := s.Clear(ctx, sessionID); err != nil {
			return nil, err
		}
		return s.newEmptyCart(sessionID), nil
	}

	cart.Item.Quantity = domain.ClampQuantity(quantity, cart.Item.MaxStock)

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "preorder quantity updated",
		slog.String("session_id", sessionID),
		slog.Int("quantity", cart.Item.Quantity),
	)

	return cart, nil
}

// Clear removes the pre-order cart and resets the discount.
func (s *PreorderService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete preorder cart: %w", err)
	}

	if err := s.producer.PublishPreorderCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish preorder.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "preorder cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

// SetDiscount sets the manual discount amount. Negative amounts clamp to zero.
func (s *PreorderService) SetDiscount(ctx context.Context, sessionID string, amount int64) (*domain.PreorderCart, error) {
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

// SetOpen sets the pre-order drawer visibility flag.
func (s *PreorderService) SetOpen(ctx context.Context, sessionID string, open bool) (*domain.PreorderCart, error) {
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

// ToggleOpen flips the pre-order drawer visibility flag.
func (s *PreorderService) ToggleOpen(ctx context.Context, sessionID string) (*domain.PreorderCart, error) {
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

func (s *PreorderService) getOrCreateCart(ctx context.Context, sessionID string) (*domain.PreorderCart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sessionID), nil
		}
		return nil, fmt.Errorf("get preorder cart: %w", err)
	}
	return cart, nil
}

func (s *PreorderService) save(ctx context.Context, cart *domain.PreorderCart) error {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	cart.ExpiresAt = now.Add(s.sessionTTL)

	if err := s.repo.Save(ctx, cart); err != nil {
		return fmt.Errorf("save preorder cart: %w", err)
	}
	return nil
}

func (s *PreorderService) newEmptyCart(sessionID string) *domain.PreorderCart {
	now := time.Now().UTC()
	return &domain.PreorderCart{
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
}
