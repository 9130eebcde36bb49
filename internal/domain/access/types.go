package access

import "strings"

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStaff   Role = "STAFF"
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
)

// Roles lists every role a user can hold.
var Roles = []Role{RoleAdmin, RoleStaff, RoleManager, RoleMember}

// ParseRole accepts any letter case and reports whether the role exists.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

func (r Role) String() string { return string(r) }
