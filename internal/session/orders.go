// internal/session/orders.go
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/oxaDeveloper/e-commerce-task/internal/backend"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/order"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/product"
)

// ErrNotAuthenticated rejects order operations that need a resolved email.
var ErrNotAuthenticated = errors.New("session: no authenticated user")

// ErrStatusLocked rejects a status edit the client-side guard disallows.
// The guard is advisory; the backend may still reject transitions the guard
// lets through.
var ErrStatusLocked = errors.New("session: order status transition not allowed")

// ErrEmptyCart rejects a checkout with nothing in the ledger.
var ErrEmptyCart = errors.New("session: cart is empty")

// FetchAllOrders loads every order (administrator view).
func (s *Session) FetchAllOrders(ctx context.Context) (OrdersState, error) {
	s.store.OrdersLoading()

	items, err := s.backend.ListOrders(ctx)
	if err != nil {
		s.store.OrdersFailed(err.Error())
		return s.store.Orders(), err
	}

	s.store.OrdersLoaded(items)
	return s.store.Orders(), nil
}

// FetchMyOrders loads the current user's orders. The backend associates
// orders by customer email, so the resolved email is the key, never the
// user id.
func (s *Session) FetchMyOrders(ctx context.Context) (OrdersState, error) {
	user := s.CurrentUser()
	if user == nil || user.Email == "" {
		return s.store.Orders(), ErrNotAuthenticated
	}

	s.store.OrdersLoading()

	items, err := s.backend.ListCustomerOrders(ctx, user.Email)
	if err != nil {
		s.store.OrdersFailed(err.Error())
		return s.store.Orders(), err
	}

	s.store.OrdersLoaded(items)
	return s.store.Orders(), nil
}

// UpdateOrderStatus moves an order to a new status. Orders already shipped
// or cancelled are frozen client-side, and cancellation is only reachable
// from pending.
func (s *Session) UpdateOrderStatus(ctx context.Context, id string, next order.Status) (*order.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("unknown order status %q", next)
	}

	if existing, ok := s.OrderByID(id); ok {
		if !existing.Status.CanTransitionTo(next) {
			return nil, ErrStatusLocked
		}
	}

	updated, err := s.backend.UpdateOrderStatus(ctx, id, next)
	if err != nil {
		return nil, err
	}

	s.store.OrderUpdated(*updated)
	return updated, nil
}

// Checkout places an order from the current cart ledger and, once the
// backend confirms, clears the cart. The two steps are sequenced, not
// atomic: a failed clear leaves the ledger intact alongside an
// already-placed order, and the gateway logs the divergence.
func (s *Session) Checkout(ctx context.Context, customerName string) (*order.Order, error) {
	user := s.CurrentUser()
	if user == nil || user.Email == "" {
		return nil, ErrNotAuthenticated
	}

	lines := s.store.Cart().Items
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	if err := s.store.BeginCheckout(); err != nil {
		return nil, err
	}

	created, err := s.backend.CreateOrder(ctx, backend.CreateOrderParams{
		Items:         lines,
		CustomerEmail: user.Email,
		CustomerName:  customerName,
	})
	if err != nil {
		s.store.OrdersFailed(err.Error())
		return nil, err
	}

	s.store.OrderCreated(*created)

	if err := s.ClearCart(ctx); err != nil {
		s.log.WithError(err).WithField("order_id", created.ID).
			Warn("Order placed but cart clear failed; ledger still holds ordered lines")
	}

	return created, nil
}

// OrderByID looks an order up in the orders slice.
func (s *Session) OrderByID(id string) (*order.Order, bool) {
	for _, o := range s.store.Orders().Items {
		if o.ID == product.StringID(id) {
			found := o
			return &found, true
		}
	}
	return nil, false
}
