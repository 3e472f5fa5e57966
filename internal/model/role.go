package model

import (
	"fmt"
	"strings"
)

// Role is the closed set of staff roles. Route permissions are declared as
// explicit role sets; there is no hierarchy or inheritance between roles.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleNurse        Role = "nurse"
	RoleReceptionist Role = "receptionist"
)

// Roles lists every valid role, in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist}
}

// ParseRole resolves a free-text role string case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleDoctor:
		return RoleDoctor, nil
	case RoleNurse:
		return RoleNurse, nil
	case RoleReceptionist:
		return RoleReceptionist, nil
	}
	return "", fmt.Errorf("invalid role: %q", s)
}

func (r Role) String() string { return string(r) }

// In returns whether r is a member of the allowed set.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// CanViewClinicalDetail reports whether the role may see full clinical
// sub-record contents. Other roles receive entry counts only; the read
// itself is never blocked.
func (r Role) CanViewClinicalDetail() bool {
	return r == RoleDoctor || r == RoleNurse
}
