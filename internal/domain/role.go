package domain

import (
	"fmt"
	"strings"
)

// Role is the acting user's privilege level. It is parsed once at the
// boundary and passed explicitly into rule evaluation.
type Role int

const (
	RoleUnknown Role = iota
	RoleWorker
	RoleSiteManager
	RoleAdmin
)

func ParseRole(v string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "admin":
		return RoleAdmin, nil
	case "site_manager":
		return RoleSiteManager, nil
	case "worker":
		return RoleWorker, nil
	default:
		return RoleUnknown, fmt.Errorf("unknown role %q", v)
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleSiteManager:
		return "site_manager"
	case RoleWorker:
		return "worker"
	default:
		return "unknown"
	}
}

// CanOverride reports whether the role may approve a soft-rule exception.
func (r Role) CanOverride() bool {
	return r == RoleAdmin || r == RoleSiteManager
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
}
