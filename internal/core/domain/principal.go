package domain

// Role represents an account role in the system
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// AdminIdentity is the reserved identity for the admin principal.
// It never appears in the users map; lockout tracking for the admin
// login flow is keyed on it.
const AdminIdentity = "admin"

// Valid reports whether the role is one a user can register as.
// Admin is a session-only principal, never a stored account.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleVendor
}

// Principal identifies the authenticated session owner: a customer, a
// vendor, or the reserved admin. It replaces the original magic
// "admin" user-map key with an explicit tagged identity.
type Principal struct {
	Identity string `json:"identity"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the principal is the admin.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// AdminPrincipal returns the principal for the reserved admin identity.
func AdminPrincipal() Principal {
	return Principal{Identity: AdminIdentity, Role: RoleAdmin}
}
