// Package httpapi is the HTTP surface of the server: routing, middleware and
// request/response mapping. Handlers translate transport concerns into
// service calls and service errors into stable `{"detail": ...}` bodies.
package httpapi

import (
	"context"

	"github.com/dmitrijs2005/contacthub/internal/server/models"
	"github.com/dmitrijs2005/contacthub/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/contacthub/internal/server/services"
)

// UserAPI is the slice of the user service the HTTP layer consumes.
type UserAPI interface {
	Register(ctx context.Context, username, email, password string, role models.Role) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, userID int64) error
	CurrentUser(ctx context.Context, accessToken string) (*models.User, error)
	RequireModerator(user *models.User) error
	RequireAdmin(user *models.User) error
	ConfirmEmail(ctx context.Context, token string) (alreadyConfirmed bool, err error)
	ResendConfirmation(ctx context.Context, email string) (alreadyConfirmed bool, err error)
	RequestPasswordReset(ctx context.Context, email, newPassword string) error
	CompletePasswordReset(ctx context.Context, token string) error
	UpdateAvatar(ctx context.Context, email, url string) (*models.User, error)
}

// ContactAPI is the slice of the contact service the HTTP layer consumes.
type ContactAPI interface {
	List(ctx context.Context, userID int64, page contacts.Page, filter contacts.Filter) ([]*models.Contact, error)
	Get(ctx context.Context, userID, id int64) (*models.Contact, error)
	Create(ctx context.Context, userID int64, in services.ContactInput) (*models.Contact, error)
	Update(ctx context.Context, userID, id int64, in services.ContactInput) (*models.Contact, error)
	Delete(ctx context.Context, userID, id int64) (*models.Contact, error)
	UpcomingBirthdays(ctx context.Context, userID int64, days int) ([]*models.Contact, error)
}
