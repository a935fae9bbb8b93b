// internal/domain/identity/entity.go
package identity

import "strings"

// Role is the resolved user role. Exactly two variants exist; anything the
// backend or a token reports that is not recognizably admin resolves to
// RoleCustomer. Ambiguous input must never escalate privilege.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "USER"
)

// Valid reports whether r is one of the two known variants.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// NormalizeRole maps a free-form role string onto the closed Role set.
func NormalizeRole(raw string) Role {
	if strings.Contains(strings.ToUpper(raw), "ADMIN") {
		return RoleAdmin
	}
	return RoleCustomer
}

// User is the canonical current-user identity derived by the resolver.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DevAdminEmail is the non-production shortcut identity surfaced by the
// developer-mode flow. Cached last-known values matching it are purged on
// logout so a privileged cached identity cannot leak into a later anonymous
// session on the same device.
const DevAdminEmail = "admin@example.com"
