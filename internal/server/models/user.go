// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role is the coarse authorization tier attached to a user.
// Moderator and admin are independent tiers; moderator-gated operations
// accept either, admin-gated operations accept admin only.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User is an identity record. Username and email are globally unique.
// RefreshToken holds the single currently valid refresh token for the user
// and is overwritten on every login/refresh and cleared on logout.
type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	CreatedAt      time.Time
	Avatar         string
	Confirmed      bool
	Role           Role
	RefreshToken   string
}
