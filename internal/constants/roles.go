package constants

const (
	Superadmin = "superadmin"
	Admin      = "admin"
	Manager    = "manager"
	Investor   = "investor"
	System     = "system" // reserved for the underwriter account, never a login role
)

// ValidRoles is the set of allowed DB enum values for user role.
var ValidRoles = []string{Investor, Manager, Admin, Superadmin}

// IsValidRole returns true if role is one of the allowed enum values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
