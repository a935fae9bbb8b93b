// internal/session/store.go
package session

import (
	"errors"
	"sync"

	"github.com/oxaDeveloper/e-commerce-task/internal/domain/cart"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/identity"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/order"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/product"
)

// Status is the lifecycle of a slice's outstanding work.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusFailed  Status = "failed"
)

// ErrBusy rejects a dispatch while the same slice is already loading. The UI
// is expected to disable duplicate-triggering controls; this guard closes the
// gap when it does not.
var ErrBusy = errors.New("session: operation already in progress")

// AuthState is the auth slice.
type AuthState struct {
	User          *identity.User `json:"user"`
	Token         string         `json:"token,omitempty"`
	Status        Status         `json:"status"`
	Error         string         `json:"error,omitempty"`
	DeveloperMode bool           `json:"developerMode"`
}

// ProductsState is the products slice. Page is 1-based; the backend
// translation happens at dispatch time, and the page stored here is the one
// the UI requested, never recomputed from a response.
type ProductsState struct {
	Items   []product.Product `json:"items"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	Size    int               `json:"size"`
	Query   product.Query     `json:"query"`
	Status  Status            `json:"status"`
	Error   string            `json:"error,omitempty"`
	Current *product.Product  `json:"current,omitempty"`
}

// OrdersState is the orders slice.
type OrdersState struct {
	Items  []order.Order `json:"items"`
	Status Status        `json:"status"`
	Error  string        `json:"error,omitempty"`
}

// CartState is the cart slice.
type CartState struct {
	Items []cart.Line `json:"items"`
}

// Store is the single source of truth for session state. It owns four named
// slices, each mutated only through the transition methods below; the mutex
// serializes transitions so they apply in dispatch order.
type Store struct {
	mu       sync.Mutex
	auth     AuthState
	products ProductsState
	orders   OrdersState
	cart     CartState
}

// NewStore creates a store with every slice in its initial state.
func NewStore() *Store {
	return &Store{
		auth: AuthState{Status: StatusIdle},
		products: ProductsState{
			Items:  []product.Product{},
			Page:   1,
			Size:   10,
			Status: StatusIdle,
		},
		orders: OrdersState{
			Items:  []order.Order{},
			Status: StatusIdle,
		},
		cart: CartState{Items: []cart.Line{}},
	}
}

// --- auth slice transitions ---

// BeginAuth moves the auth slice to loading, rejecting the dispatch when a
// login or registration is already outstanding.
func (s *Store) BeginAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.auth.Status == StatusLoading {
		return ErrBusy
	}
	s.auth.Status = StatusLoading
	s.auth.Error = ""
	return nil
}

// AuthSucceeded stores a resolved identity and returns the slice to idle.
func (s *Store) AuthSucceeded(token string, user identity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth.Status = StatusIdle
	s.auth.Token = token
	s.auth.User = &user
}

// AuthFailed records a failed login or registration.
func (s *Store) AuthFailed(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth.Status = StatusFailed
	s.auth.Error = message
}

// SetCredentials injects a trusted identity directly, used by startup
// bootstrap and developer-mode shortcuts. The slice status is untouched.
func (s *Store) SetCredentials(token string, user identity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth.Token = token
	s.auth.User = &user
}

// ClearCredentials drops the in-memory identity.
func (s *Store) ClearCredentials() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth.Token = ""
	s.auth.User = nil
}

// SetDeveloperMode flips the developer-mode flag.
func (s *Store) SetDeveloperMode(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth.DeveloperMode = enabled
}

// Auth returns a snapshot of the auth slice.
func (s *Store) Auth() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.auth
	if s.auth.User != nil {
		user := *s.auth.User
		snapshot.User = &user
	}
	return snapshot
}

// --- products slice transitions ---

// ProductsLoading marks a catalog fetch as outstanding.
func (s *Store) ProductsLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products.Status = StatusLoading
	s.products.Error = ""
}

// ProductsLoaded stores a fetched page. page is the 1-based page the UI
// requested.
func (s *Store) ProductsLoaded(items []product.Product, total, page, size int, query product.Query) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if items == nil {
		items = []product.Product{}
	}
	s.products.Status = StatusIdle
	s.products.Items = items
	s.products.Total = total
	s.products.Page = page
	s.products.Size = size
	s.products.Query = query
}

// ProductsFailed records a failed fetch and empties the page.
func (s *Store) ProductsFailed(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products.Status = StatusFailed
	s.products.Error = message
	s.products.Items = []product.Product{}
}

// SetCurrentProduct loads a product into the edit-flow slot.
func (s *Store) SetCurrentProduct(p *product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products.Current = p
}

// ProductCreated prepends a server-confirmed product.
func (s *Store) ProductCreated(p product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products.Items = append([]product.Product{p}, s.products.Items...)
	s.products.Total++
}

// ProductUpdated replaces the matching product in place.
func (s *Store) ProductUpdated(p product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products.Items {
		if s.products.Items[i].ID == p.ID {
			s.products.Items[i] = p
			break
		}
	}
}

// ProductDeleted filters out the matching product.
func (s *Store) ProductDeleted(id product.StringID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.products.Items[:0]
	for _, p := range s.products.Items {
		if p.ID != id {
			items = append(items, p)
		}
	}
	s.products.Items = items
}

// Products returns a snapshot of the products slice.
func (s *Store) Products() ProductsState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.products
	snapshot.Items = append([]product.Product(nil), s.products.Items...)
	if s.products.Current != nil {
		current := *s.products.Current
		snapshot.Current = &current
	}
	return snapshot
}

// --- orders slice transitions ---

// OrdersLoading marks an order fetch as outstanding.
func (s *Store) OrdersLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders.Status = StatusLoading
	s.orders.Error = ""
}

// BeginCheckout moves the orders slice to loading, rejecting the dispatch
// when a checkout is already outstanding.
func (s *Store) BeginCheckout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.orders.Status == StatusLoading {
		return ErrBusy
	}
	s.orders.Status = StatusLoading
	s.orders.Error = ""
	return nil
}

// OrdersLoaded stores a fetched order list.
func (s *Store) OrdersLoaded(items []order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if items == nil {
		items = []order.Order{}
	}
	s.orders.Status = StatusIdle
	s.orders.Items = items
}

// OrdersFailed records a failed fetch or checkout.
func (s *Store) OrdersFailed(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders.Status = StatusFailed
	s.orders.Error = message
}

// OrderUpdated replaces the matching order in place.
func (s *Store) OrderUpdated(o order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders.Items {
		if s.orders.Items[i].ID == o.ID {
			s.orders.Items[i] = o
			break
		}
	}
}

// OrderCreated prepends a server-confirmed order and returns the slice to
// idle.
func (s *Store) OrderCreated(o order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders.Status = StatusIdle
	s.orders.Items = append([]order.Order{o}, s.orders.Items...)
}

// Orders returns a snapshot of the orders slice.
func (s *Store) Orders() OrdersState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.orders
	snapshot.Items = append([]order.Order(nil), s.orders.Items...)
	return snapshot
}

// --- cart slice transitions ---

// CartReplace rehydrates the ledger wholesale (startup only).
func (s *Store) CartReplace(items []cart.Line) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if items == nil {
		items = []cart.Line{}
	}
	s.cart.Items = items
}

// CartAdd merges a line and returns the resulting ledger.
func (s *Store) CartAdd(line cart.Line) []cart.Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Items = cart.Add(s.cart.Items, line)
	return append([]cart.Line(nil), s.cart.Items...)
}

// CartSetQuantity clamps and replaces a line's quantity, returning the
// resulting ledger.
func (s *Store) CartSetQuantity(productID string, quantity int) []cart.Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Items = cart.SetQuantity(s.cart.Items, productID, quantity)
	return append([]cart.Line(nil), s.cart.Items...)
}

// CartRemove filters out a line, returning the resulting ledger.
func (s *Store) CartRemove(productID string) []cart.Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Items = cart.Remove(s.cart.Items, productID)
	return append([]cart.Line(nil), s.cart.Items...)
}

// CartClear empties the ledger.
func (s *Store) CartClear() []cart.Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Items = []cart.Line{}
	return []cart.Line{}
}

// Cart returns a snapshot of the cart slice.
func (s *Store) Cart() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return CartState{Items: append([]cart.Line(nil), s.cart.Items...)}
}
