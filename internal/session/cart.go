// internal/session/cart.go
package session

import (
	"context"
	"fmt"

	"github.com/oxaDeveloper/e-commerce-task/internal/domain/cart"
	"github.com/oxaDeveloper/e-commerce-task/internal/pkg/storage"
)

// The cart ledger is pure client-side state: no network calls here. Checkout
// lives with the orders slice. Every mutation is immediately serialized to
// durable storage under the fixed cart key.

// AddToCart merges a line into the ledger and persists it.
func (s *Session) AddToCart(ctx context.Context, req cart.AddRequest) (CartState, error) {
	s.cartMu.Lock()
	defer s.cartMu.Unlock()

	items := s.store.CartAdd(cart.Line{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Quantity:  req.Quantity,
	})
	return s.persistCart(ctx, items)
}

// SetCartQuantity replaces a line's quantity (clamped to a minimum of 1) and
// persists the ledger.
func (s *Session) SetCartQuantity(ctx context.Context, productID string, quantity int) (CartState, error) {
	s.cartMu.Lock()
	defer s.cartMu.Unlock()

	items := s.store.CartSetQuantity(productID, quantity)
	return s.persistCart(ctx, items)
}

// RemoveFromCart drops a line and persists the ledger.
func (s *Session) RemoveFromCart(ctx context.Context, productID string) (CartState, error) {
	s.cartMu.Lock()
	defer s.cartMu.Unlock()

	items := s.store.CartRemove(productID)
	return s.persistCart(ctx, items)
}

// ClearCart empties the ledger and persists the empty list. Called after a
// confirmed checkout; never called on logout.
func (s *Session) ClearCart(ctx context.Context) error {
	s.cartMu.Lock()
	defer s.cartMu.Unlock()

	_, err := s.persistCart(ctx, s.store.CartClear())
	return err
}

func (s *Session) persistCart(ctx context.Context, items []cart.Line) (CartState, error) {
	if err := s.storage.Set(ctx, storage.KeyCart, cart.Encode(items)); err != nil {
		return CartState{Items: items}, fmt.Errorf("failed to persist cart: %w", err)
	}
	return CartState{Items: items}, nil
}
