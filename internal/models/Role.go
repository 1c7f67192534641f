package models

import (
	"strings"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
)

// Role is the closed set of actor kinds. The string values are the ones
// stored in the database and embedded in issued tokens.
type Role string

const (
	RoleCitizen   Role = "ciudadano"
	RoleCollector Role = "recolector"
	RoleAdmin     Role = "admin"
)

// ParseRole accepts the stored values and their English aliases.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ciudadano", "citizen":
		return RoleCitizen, nil
	case "recolector", "collector":
		return RoleCollector, nil
	case "admin", "administrador", "administrator":
		return RoleAdmin, nil
	default:
		return "", apperrors.Invalid("role", "invalid role")
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleCollector, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
