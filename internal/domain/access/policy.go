package access

// Allow-lists shared by the route table.
var (
	// Back-office staff: every read and write on members, enrollments and
	// payments, plus the dashboard.
	Staff = []Role{RoleAdmin, RoleStaff, RoleManager}
	// Destructive package operations and user management.
	AdminOnly = []Role{RoleAdmin}
	// Any authenticated caller.
	Everyone = Roles
)

// Allows reports whether role is in allowed. An empty allow-list denies.
func Allows(role Role, allowed ...Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// IsStaff reports whether the role sees every record rather than only the
// records owned by the caller.
func IsStaff(role Role) bool {
	return Allows(role, Staff...)
}
