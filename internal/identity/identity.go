// Package identity carries the authenticated caller into core operations.
package identity

import "strings"

type Role string

const (
	RolePlayer     Role = "PLAYER"
	RoleFieldOwner Role = "FIELD_OWNER"
	RoleAdmin      Role = "ADMIN"
)

// ParseRole maps an unknown or empty role to RolePlayer.
func ParseRole(raw string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleFieldOwner:
		return RoleFieldOwner
	case RoleAdmin:
		return RoleAdmin
	default:
		return RolePlayer
	}
}

// Caller is the identity every core operation acts on behalf of.
type Caller struct {
	ID   int64
	Role Role
}

func (c Caller) IsAdmin() bool      { return c.Role == RoleAdmin }
func (c Caller) IsFieldOwner() bool { return c.Role == RoleFieldOwner }

// Valid reports whether the caller carries a usable user id.
func (c Caller) Valid() bool { return c.ID > 0 }
