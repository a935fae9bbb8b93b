// internal/session/auth.go
package session

import (
	"context"
	"strconv"

	"github.com/oxaDeveloper/e-commerce-task/internal/domain/identity"
	"github.com/oxaDeveloper/e-commerce-task/internal/pkg/storage"
)

// Login authenticates against the backend and installs the resolved
// identity. A login dispatched while another is outstanding is rejected with
// ErrBusy.
func (s *Session) Login(ctx context.Context, username, password string) (AuthState, error) {
	if err := s.store.BeginAuth(); err != nil {
		return s.store.Auth(), err
	}

	body, err := s.backend.Login(ctx, username, password)
	if err != nil {
		s.store.AuthFailed(err.Error())
		return s.store.Auth(), err
	}

	res, err := s.resolver.ResolveLogin(ctx, body, username)
	if err != nil {
		s.store.AuthFailed(err.Error())
		return s.store.Auth(), err
	}

	s.persistToken(ctx, res.Token)
	s.store.AuthSucceeded(res.Token, res.User)
	return s.store.Auth(), nil
}

// Register creates an account and installs the resolved identity, under the
// same duplicate-dispatch guard as Login.
func (s *Session) Register(ctx context.Context, username, email, password string) (AuthState, error) {
	if err := s.store.BeginAuth(); err != nil {
		return s.store.Auth(), err
	}

	body, err := s.backend.Register(ctx, username, email, password)
	if err != nil {
		s.store.AuthFailed(err.Error())
		return s.store.Auth(), err
	}

	res, err := s.resolver.ResolveRegister(ctx, body, username, email)
	if err != nil {
		s.store.AuthFailed(err.Error())
		return s.store.Auth(), err
	}

	s.persistToken(ctx, res.Token)
	s.store.AuthSucceeded(res.Token, res.User)
	return s.store.Auth(), nil
}

// Logout clears the in-memory identity and the persisted token
// unconditionally. Cached last-known values are purged when they carry the
// non-production shortcut identity, so a privileged cached identity cannot
// leak into the next anonymous session on this device. The cart ledger is
// left alone: cart scope is per-device.
func (s *Session) Logout(ctx context.Context) {
	s.store.ClearCredentials()

	if err := s.storage.Delete(ctx, storage.KeyToken); err != nil {
		s.log.WithError(err).Warn("Failed to clear persisted token")
	}

	storedEmail, _ := s.storage.Get(ctx, storage.KeyLastEmail)
	storedRole, _ := s.storage.Get(ctx, storage.KeyLastRole)
	if storedEmail == identity.DevAdminEmail || storedRole == string(identity.RoleAdmin) {
		if err := s.storage.Delete(ctx, storage.KeyLastEmail); err != nil {
			s.log.WithError(err).Warn("Failed to purge cached email")
		}
		if err := s.storage.Delete(ctx, storage.KeyLastRole); err != nil {
			s.log.WithError(err).Warn("Failed to purge cached role")
		}
	}
}

// ForceLogout is the global 401 hook: any backend request answered with 401
// resets the session, regardless of which call produced it.
func (s *Session) ForceLogout() {
	s.log.Warn("Backend answered 401, forcing logout")
	s.Logout(context.Background())
}

// SetCredentials injects a trusted identity directly (startup bootstrap and
// developer-mode shortcuts) and persists it the way a login would.
func (s *Session) SetCredentials(ctx context.Context, token string, user identity.User) {
	s.store.SetCredentials(token, user)
	s.persistToken(ctx, token)

	if user.Email != "" {
		if err := s.storage.Set(ctx, storage.KeyLastEmail, user.Email); err != nil {
			s.log.WithError(err).Warn("Failed to persist last known email")
		}
	}
	if user.Role.Valid() {
		if err := s.storage.Set(ctx, storage.KeyLastRole, string(user.Role)); err != nil {
			s.log.WithError(err).Warn("Failed to persist last known role")
		}
	}
}

// SetDeveloperMode flips and persists the developer-mode flag. The flag only
// gates the visibility of non-production credential shortcuts in the UI; the
// core exposes it as state, never as logic.
func (s *Session) SetDeveloperMode(ctx context.Context, enabled bool) {
	s.store.SetDeveloperMode(enabled)
	if err := s.storage.Set(ctx, storage.KeyDeveloperMode, strconv.FormatBool(enabled)); err != nil {
		s.log.WithError(err).Warn("Failed to persist developer mode flag")
	}
}

func (s *Session) persistToken(ctx context.Context, token string) {
	if err := s.storage.Set(ctx, storage.KeyToken, token); err != nil {
		s.log.WithError(err).Warn("Failed to persist token")
	}
}
