package identity

import "strings"

// Role is a closed set of account roles known to the portal.
type Role string

const (
	RoleSiswa Role = "siswa"
	RoleGuru  Role = "guru"
	RoleAdmin Role = "admin"
	// RoleUnknown is the least-privilege fallback for any value outside the
	// known set. It matches no menu item and never reaches the profile gate.
	RoleUnknown Role = ""
)

// ParseRole maps a raw role string onto the known set. Anything
// unrecognized collapses to RoleUnknown, never to a privileged role.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleSiswa:
		return RoleSiswa
	case RoleGuru:
		return RoleGuru
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

// Known reports whether the role belongs to the closed set.
func (r Role) Known() bool {
	return r == RoleSiswa || r == RoleGuru || r == RoleAdmin
}

// RequiresProfile reports whether accounts with this role must own a
// biodata profile before using the portal. Admin accounts are exempt.
func (r Role) RequiresProfile() bool {
	return r == RoleSiswa || r == RoleGuru
}

// Principal is the resolved identity of the current session.
type Principal struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}
