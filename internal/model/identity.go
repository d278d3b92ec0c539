package model

import "time"

// IdentityID uniquely identifies a team or admin account
type IdentityID string

// Role determines what an identity is allowed to do
type Role string

const (
	RoleTeam  Role = "team"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	return r == RoleTeam || r == RoleAdmin
}

// Identity represents a provisioned account (team or admin).
// Identities are created at provisioning time and immutable afterwards.
type Identity struct {
	ID           IdentityID
	Username     string // login username (unique, immutable)
	PasswordHash string // bcrypt hash; credentials are always hashed at rest
	Role         Role
	DisplayName  string
	CreatedAt    time.Time
}
