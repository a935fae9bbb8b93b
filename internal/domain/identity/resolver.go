// internal/domain/identity/resolver.go
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/oxaDeveloper/e-commerce-task/internal/pkg/claims"
	"github.com/oxaDeveloper/e-commerce-task/internal/pkg/storage"
)

// Resolver derives a single trustworthy user identity from whatever
// combination of inputs is available: the backend's auth response body,
// persisted last-known values, decoded token claims, and finally the
// submitted username when it is email-shaped. The ordering is a trust
// hierarchy: server-asserted data outranks cached data outranks token claims
// outranks heuristic inference.
type Resolver struct {
	storage storage.Store
	log     *logrus.Logger
}

// NewResolver creates a new identity resolver.
func NewResolver(store storage.Store, log *logrus.Logger) *Resolver {
	return &Resolver{
		storage: store,
		log:     log,
	}
}

// Resolution is a resolved identity and its backing token.
type Resolution struct {
	Token string
	User  User
}

// authPayload is the loose shape of a login/registration response body after
// envelope unwrapping. Backends disagree on field names; every field is
// optional.
type authPayload struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	JWT         string `json:"jwt"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	User        *User  `json:"user"`
}

func (p *authPayload) token() string {
	return firstNonEmpty(
		func() string { return p.Token },
		func() string { return p.AccessToken },
		func() string { return p.JWT },
	)
}

// RoleFromClaims derives a role from decoded token claims: admin if and only
// if any role-bearing claim contains "ADMIN" case-insensitively.
func RoleFromClaims(c claims.Claims) Role {
	for _, value := range c.RoleValues() {
		if strings.Contains(strings.ToUpper(value), "ADMIN") {
			return RoleAdmin
		}
	}
	return RoleCustomer
}

// Bootstrap resolves the identity persisted from a previous run. It returns
// nil when no token is stored. The resolved email is written back so later
// bootstraps survive tokens without email claims.
func (r *Resolver) Bootstrap(ctx context.Context) (*Resolution, error) {
	token := r.stored(ctx, storage.KeyToken)
	if token == "" {
		return nil, nil
	}

	tokenClaims := claims.Parse(token)

	email := firstNonEmpty(
		func() string { return claims.Email(token) },
		func() string { return r.stored(ctx, storage.KeyLastEmail) },
	)

	role := RoleFromClaims(tokenClaims)
	if stored := Role(r.stored(ctx, storage.KeyLastRole)); stored.Valid() {
		role = stored
	}

	user := User{
		ID: firstNonEmpty(
			func() string { return tokenClaims.String("id") },
			func() string { return tokenClaims.String("sub") },
			func() string { return "user" },
		),
		Email: email,
		Role:  role,
	}

	r.persistLastKnown(ctx, user.Email, user.Role)

	return &Resolution{Token: token, User: user}, nil
}

// ResolveLogin derives the identity from a login response body. The body is
// preferred source for every attribute; token claims and the submitted
// username only fill gaps.
func (r *Resolver) ResolveLogin(ctx context.Context, body json.RawMessage, submittedUsername string) (*Resolution, error) {
	payload, err := decodeAuthPayload(body)
	if err != nil {
		return nil, err
	}

	token := payload.token()
	if token == "" {
		return nil, fmt.Errorf("auth response carried no token")
	}

	user := r.baseUser(payload, token, submittedUsername)

	user.Email = firstNonEmpty(
		func() string { return user.Email },
		func() string { return r.stored(ctx, storage.KeyLastEmail) },
		func() string { return claims.Email(token) },
		func() string { return emailShaped(submittedUsername) },
	)

	r.persistLastKnown(ctx, user.Email, user.Role)

	return &Resolution{Token: token, User: user}, nil
}

// ResolveRegister derives the identity from a registration response body.
// The email the user just submitted outranks anything decoded from the
// token: they asserted it moments ago.
func (r *Resolver) ResolveRegister(ctx context.Context, body json.RawMessage, submittedUsername, submittedEmail string) (*Resolution, error) {
	payload, err := decodeAuthPayload(body)
	if err != nil {
		return nil, err
	}

	token := payload.token()
	if token == "" {
		return nil, fmt.Errorf("auth response carried no token")
	}

	user := r.baseUser(payload, token, submittedUsername)

	user.Email = firstNonEmpty(
		func() string { return payload.Email },
		func() string {
			if payload.User != nil {
				return payload.User.Email
			}
			return ""
		},
		func() string { return submittedEmail },
		func() string { return r.stored(ctx, storage.KeyLastEmail) },
		func() string { return claims.Email(token) },
		func() string { return emailShaped(submittedUsername) },
	)

	r.persistLastKnown(ctx, user.Email, user.Role)

	return &Resolution{Token: token, User: user}, nil
}

// baseUser applies the response-shape preference order: a flat
// username/email/role triple, then a nested user object, then token claims
// combined with the submitted username.
func (r *Resolver) baseUser(payload *authPayload, token, submittedUsername string) User {
	if payload.Username != "" && payload.Email != "" && payload.Role != "" {
		return User{
			ID:    payload.Username,
			Email: payload.Email,
			Role:  NormalizeRole(payload.Role),
		}
	}

	tokenClaims := claims.Parse(token)

	if payload.User != nil {
		user := *payload.User
		user.Role = NormalizeRole(string(user.Role))
		if user.ID == "" {
			user.ID = firstNonEmpty(
				func() string { return tokenClaims.String("id") },
				func() string { return tokenClaims.String("sub") },
				func() string { return submittedUsername },
			)
		}
		return user
	}

	// Email is left empty here: the callers' ordered chains fill it, so the
	// submitted-username heuristic stays the lowest-ranked source.
	return User{
		ID: firstNonEmpty(
			func() string { return tokenClaims.String("id") },
			func() string { return tokenClaims.String("sub") },
			func() string { return submittedUsername },
		),
		Role: RoleFromClaims(tokenClaims),
	}
}

func decodeAuthPayload(body json.RawMessage) (*authPayload, error) {
	var payload authPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	return &payload, nil
}

// persistLastKnown caches the resolved email and role so later sessions can
// paper over tokens with incomplete claims.
func (r *Resolver) persistLastKnown(ctx context.Context, email string, role Role) {
	if email != "" {
		if err := r.storage.Set(ctx, storage.KeyLastEmail, email); err != nil {
			r.log.WithError(err).Warn("Failed to persist last known email")
		}
	}
	if role.Valid() {
		if err := r.storage.Set(ctx, storage.KeyLastRole, string(role)); err != nil {
			r.log.WithError(err).Warn("Failed to persist last known role")
		}
	}
}

func (r *Resolver) stored(ctx context.Context, key string) string {
	value, err := r.storage.Get(ctx, key)
	if err != nil {
		return ""
	}
	return value
}

// firstNonEmpty tries each source in order and returns the first non-empty
// value. Keeping the sources as an explicit ordered list makes the trust
// hierarchy auditable and testable per source.
func firstNonEmpty(sources ...func() string) string {
	for _, source := range sources {
		if value := source(); value != "" {
			return value
		}
	}
	return ""
}

// emailShaped returns s only when it looks like an email address.
func emailShaped(s string) string {
	if strings.Contains(s, "@") {
		return s
	}
	return ""
}
