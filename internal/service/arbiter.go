package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Arbiter enforces the cross-cart mutual exclusion rule: a session cannot mix
// regular-cart and pre-order checkout. Both cart services consult the arbiter
// at the point of addition instead of reaching into each other's state.
//
// The check is advisory (no lock is taken): within one session requests are
// serialized by the browsing context, so check-then-write is sufficient.
type Arbiter struct {
	carts     repository.CartRepository
	preorders repository.PreorderRepository
}

// NewArbiter creates a new checkout arbiter over the two cart stores.
func NewArbiter(carts repository.CartRepository, preorders repository.PreorderRepository) *Arbiter {
	return &Arbiter{
		carts:     carts,
		preorders: preorders,
	}
}

// AllowRegular returns nil if a regular item may be added for the session,
// or a conflict error when a pre-order is already in progress.
func (a *Arbiter) AllowRegular(ctx context.Context, sessionID string) error {
	preorder, err := a.preorders.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("check preorder occupancy: %w", err)
	}

	if preorder.HasItem() {
		return apperrors.Conflict("PREORDER_IN_PROGRESS",
			"a pre-order is in progress; clear it before adding regular items")
	}

	return nil
}

// AllowPreorder returns nil if a pre-order item may be set for the session,
// or a conflict error when the regular cart is not empty.
func (a *Arbiter) AllowPreorder(ctx context.Context, sessionID string) error {
	cart, err := a.carts.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("check cart occupancy: %w", err)
	}

	if !cart.IsEmpty() {
		return apperrors.Conflict("CART_NOT_EMPTY",
			"the cart has items; clear it before starting a pre-order")
	}

	return nil
}
