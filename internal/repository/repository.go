package repository

import (
	"context"

	"github.com/utafrali/storefront/internal/domain"
)

// CartRepository defines the interface for regular cart persistence.
type CartRepository interface {
	// Get retrieves the cart for a session.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the session.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the session's cart.
	Delete(ctx context.Context, sessionID string) error
}

// PreorderRepository defines the interface for pre-order cart persistence.
type PreorderRepository interface {
	// Get retrieves the pre-order cart for a session.
	Get(ctx context.Context, sessionID string) (*domain.PreorderCart, error)

	// Save persists a pre-order cart, overwriting any existing one for the session.
	Save(ctx context.Context, cart *domain.PreorderCart) error

	// Delete removes the session's pre-order cart.
	Delete(ctx context.Context, sessionID string) error
}

// SourceRepository defines the interface for the session-scoped customer
// source value written by the attribution tracker.
type SourceRepository interface {
	// Get retrieves the stored customer source for a session.
	Get(ctx context.Context, sessionID string) (domain.CustomerSource, error)

	// Set stores the customer source for a session.
	Set(ctx context.Context, sessionID string, source domain.CustomerSource) error

	// Delete removes the stored customer source for a session.
	Delete(ctx context.Context, sessionID string) error
}

// WishlistRepository defines the interface for session-scoped wishlist persistence.
type WishlistRepository interface {
	// Add inserts a product into the session's wishlist (idempotent).
	Add(ctx context.Context, sessionID, productID string) error

	// Remove deletes a product from the session's wishlist.
	Remove(ctx context.Context, sessionID, productID string) error

	// List returns a page of wishlist items, most recently added first,
	// and the total count.
	List(ctx context.Context, sessionID string, page, perPage int) ([]*domain.WishlistItem, int, error)

	// Contains checks whether a product is in the session's wishlist.
	Contains(ctx context.Context, sessionID, productID string) (bool, error)
}
