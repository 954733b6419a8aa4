package domain

import "fmt"

// Role is the closed set of account types in the marketplace. It replaces the
// stringly-typed role column: anything outside the four known values fails
// ParseRole instead of falling through a default branch at some later point.
type Role string

const (
	RoleTenant       Role = "tenant"
	RolePGOwner      Role = "pgowner"
	RoleMessOwner    Role = "messowner"
	RoleLaundryOwner Role = "laundry"
)

// ParseRole maps a raw role string onto the fixed role set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleTenant:
		return RoleTenant, nil
	case RolePGOwner:
		return RolePGOwner, nil
	case RoleMessOwner:
		return RoleMessOwner, nil
	case RoleLaundryOwner:
		return RoleLaundryOwner, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) String() string { return string(r) }
