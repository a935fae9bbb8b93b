// internal/pkg/claims/claims.go
package claims

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of a bearer token. The gateway holds no
// signing secret, so claims are never verified and must be treated as
// untrusted hints.
type Claims map[string]interface{}

// Parse decodes the payload segment of a bearer token without verifying the
// signature. It is total: any malformed input (wrong segment count, invalid
// Base64URL, non-JSON payload) yields nil, never an error.
func Parse(token string) Claims {
	if token == "" {
		return nil
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return Claims(mapClaims)
}

// String returns the named claim when it is a non-empty string.
func (c Claims) String(key string) string {
	if c == nil {
		return ""
	}
	if v, ok := c[key].(string); ok {
		return v
	}
	return ""
}

// Email extracts an email-shaped value from the token payload: the "email"
// claim, falling back to "sub" when it looks like an address.
func Email(token string) string {
	c := Parse(token)
	if c == nil {
		return ""
	}
	if email := c.String("email"); strings.Contains(email, "@") {
		return email
	}
	if sub := c.String("sub"); strings.Contains(sub, "@") {
		return sub
	}
	return ""
}

// Username extracts a display identifier from the token payload. An
// email-shaped subject is reduced to its local part.
func Username(token string) string {
	c := Parse(token)
	if c == nil {
		return ""
	}
	for _, key := range []string{"username", "preferred_username", "name"} {
		if v := c.String(key); v != "" {
			return v
		}
	}
	if sub := c.String("sub"); sub != "" {
		if !strings.Contains(sub, "@") {
			return sub
		}
		return strings.SplitN(sub, "@", 2)[0]
	}
	return ""
}

// RoleValues collects every claim value that may carry a role or authority:
// the scalar "role" claim, "authorities" (list or space-separated string),
// the "roles" list, and realm-style nested "realm_access.roles".
func (c Claims) RoleValues() []string {
	if c == nil {
		return nil
	}

	var values []string
	if role := c.String("role"); role != "" {
		values = append(values, role)
	}

	switch authorities := c["authorities"].(type) {
	case []interface{}:
		values = append(values, stringItems(authorities)...)
	case string:
		values = append(values, strings.Fields(authorities)...)
	}

	if roles, ok := c["roles"].([]interface{}); ok {
		values = append(values, stringItems(roles)...)
	}

	if realm, ok := c["realm_access"].(map[string]interface{}); ok {
		if roles, ok := realm["roles"].([]interface{}); ok {
			values = append(values, stringItems(roles)...)
		}
	}

	return values
}

func stringItems(items []interface{}) []string {
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
