package model

import "fmt"

// Role is the closed set of account roles.  Authorization checks enumerate
// allowed roles explicitly; there is no hierarchy between them (an admin does
// not implicitly pass an owner-only check).
type Role string

const (
	RoleOwner     Role = "owner"
	RoleCommittee Role = "committee"
	RoleAdmin     Role = "admin"
)

// ParseRole converts a stored or submitted role string into a Role.  Unknown
// values are rejected so that a typo can never widen an allowed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleCommittee, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// String returns the wire/storage form of the role.
func (r Role) String() string { return string(r) }
