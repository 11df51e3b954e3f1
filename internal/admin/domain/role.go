package domain

import "fmt"

// Role is the closed set of roles a principal can hold. Unrecognized values
// are rejected at the boundary, never compared ad hoc.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// ParseRole validates a role string from an API boundary.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleStaff:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }
