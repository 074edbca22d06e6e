// Package contacts provides the contact store and query engine. Every
// operation is scoped to an owning user; queries always filter by owner, so
// cross-user access is structurally impossible.
package contacts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/contacthub/internal/server/models"
)

// Filter holds optional substring filters for List. Empty fields are ignored;
// non-empty fields are combined with AND.
type Filter struct {
	FirstName string
	LastName  string
	Email     string
}

// Page is offset/limit pagination for List.
type Page struct {
	Skip  int
	Limit int
}

// Repository is the contact store contract. Lookups return
// common.ErrNotFound on a miss; creating a duplicate (email, owner) pair
// yields common.ErrConflict.
type Repository interface {
	// List returns the owner's contacts matching filter, ordered by id so
	// offset pagination stays stable across calls.
	List(ctx context.Context, userID int64, page Page, filter Filter) ([]*models.Contact, error)

	GetByID(ctx context.Context, userID, id int64) (*models.Contact, error)

	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)

	// Update overwrites all mutable fields of the contact and refreshes its
	// updated-at timestamp.
	Update(ctx context.Context, contact *models.Contact) (*models.Contact, error)

	// Delete removes the contact and returns the removed record.
	Delete(ctx context.Context, userID, id int64) (*models.Contact, error)

	// UpcomingBirthdays returns the owner's contacts whose birthday
	// (month/day, year ignored) falls within [today, today+days]. The window
	// may wrap across Dec→Jan.
	UpcomingBirthdays(ctx context.Context, userID int64, today time.Time, days int) ([]*models.Contact, error)
}
