package domain

import "strings"

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
	RoleManager    = "manager"
	RoleSupport    = "support"
	RoleUser       = "user"
)

// adminTier lists the roles that see every shipment. Keys are lower-case.
var adminTier = map[string]struct{}{
	"admin":       {},
	"super admin": {},
	"superadmin":  {},
	"manager":     {},
	"support":     {},
}

// IsAdminTier reports whether role belongs to the back-office tier.
func IsAdminTier(role string) bool {
	_, ok := adminTier[strings.ToLower(strings.TrimSpace(role))]
	return ok
}

// Actor is the authenticated caller, taken from the request's JWT claims.
type Actor struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the actor belongs to the back-office tier.
func (a Actor) IsAdmin() bool {
	return IsAdminTier(a.Role)
}
