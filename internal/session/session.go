// internal/session/session.go
package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/oxaDeveloper/e-commerce-task/internal/backend"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/cart"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/identity"
	"github.com/oxaDeveloper/e-commerce-task/internal/pkg/storage"
)

// Session orchestrates the store's slices: it dispatches outbound backend
// calls, applies the resulting transitions, and keeps the durable local
// state in sync. One Session lives for the whole process.
type Session struct {
	store    *Store
	backend  *backend.Client
	storage  storage.Store
	resolver *identity.Resolver
	log      *logrus.Logger

	// cartMu keeps ledger mutation and its persistence as one step, so the
	// persisted line list always reflects the order mutations were applied.
	cartMu sync.Mutex
}

// New creates the session around an existing store and its collaborators.
func New(store *Store, client *backend.Client, st storage.Store, log *logrus.Logger) *Session {
	return &Session{
		store:    store,
		backend:  client,
		storage:  st,
		resolver: identity.NewResolver(st, log),
		log:      log,
	}
}

// Bootstrap restores persisted state: developer-mode flag, cart ledger, and
// the identity backed by a previously stored token. Invoked once at startup.
func (s *Session) Bootstrap(ctx context.Context) error {
	if flag, err := s.storage.Get(ctx, storage.KeyDeveloperMode); err == nil {
		s.store.SetDeveloperMode(flag == "true")
	}

	raw, err := s.storage.Get(ctx, storage.KeyCart)
	if err == nil {
		s.store.CartReplace(cart.Decode(raw))
	}

	res, err := s.resolver.Bootstrap(ctx)
	if err != nil {
		return err
	}
	if res != nil {
		s.store.SetCredentials(res.Token, res.User)
		s.log.WithFields(logrus.Fields{
			"user_id": res.User.ID,
			"role":    res.User.Role,
		}).Info("Session restored from persisted token")
	}
	return nil
}

// Auth returns the auth slice snapshot.
func (s *Session) Auth() AuthState {
	return s.store.Auth()
}

// Products returns the products slice snapshot.
func (s *Session) Products() ProductsState {
	return s.store.Products()
}

// Orders returns the orders slice snapshot.
func (s *Session) Orders() OrdersState {
	return s.store.Orders()
}

// Cart returns the cart slice snapshot.
func (s *Session) Cart() CartState {
	return s.store.Cart()
}

// CurrentUser returns the resolved identity, or nil when anonymous.
func (s *Session) CurrentUser() *identity.User {
	return s.store.Auth().User
}
