// Package users provides the user directory: lookup and mutation of user
// records keyed by id, username or email.
package users

import (
	"context"

	"github.com/dmitrijs2005/contacthub/internal/server/models"
)

// Repository is the user directory contract. Lookups return
// common.ErrNotFound on a miss; that is a normal outcome, not a failure.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Create inserts a new user record. A username or email collision yields
	// common.ErrConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// UpdatePassword overwrites the stored password hash for one user.
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error

	// UpdateRefreshToken overwrites the stored refresh token for one user.
	// An empty token clears the stored value (logout).
	UpdateRefreshToken(ctx context.Context, id int64, token string) error

	// ConfirmEmail flips the confirmed flag for the user with this email.
	// Callers must have validated the email via a confirmation token first.
	ConfirmEmail(ctx context.Context, email string) error

	// UpdateAvatar sets the avatar URL for the user with this email.
	UpdateAvatar(ctx context.Context, email, url string) (*models.User, error)
}
