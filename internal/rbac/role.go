package rbac

import "errors"

var ErrUnknownRole = errors.New("unknown role")

// Role is the privilege level a membership grants within one organization.
// The numeric values encode the total privilege order and are the single
// source of truth for every comparison in this package; roles are never
// compared as strings.
type Role int

const (
	RoleNone   Role = 0 // zero value, matches nothing in the matrix
	RoleMember Role = 1
	RoleAdmin  Role = 2
	RoleOwner  Role = 3
)

// roleNames maps roles to their stored string form. The global user status
// "invited" is deliberately absent: it is not a membership role.
var roleNames = map[Role]string{
	RoleMember: "member",
	RoleAdmin:  "admin",
	RoleOwner:  "owner",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether r is one of the three membership roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// AtLeast reports whether r holds privilege equal to or above min.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r >= min
}

// ParseRole converts a stored role string to a Role. Unrecognized strings
// (including "invited") yield RoleNone and ErrUnknownRole, so a corrupt or
// tampered value never grants access.
func ParseRole(s string) (Role, error) {
	switch s {
	case "member":
		return RoleMember, nil
	case "admin":
		return RoleAdmin, nil
	case "owner":
		return RoleOwner, nil
	}
	return RoleNone, ErrUnknownRole
}

// Roles lists the valid membership roles in ascending privilege order.
func Roles() []Role {
	return []Role{RoleMember, RoleAdmin, RoleOwner}
}
