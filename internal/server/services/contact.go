package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/contacthub/internal/common"
	"github.com/dmitrijs2005/contacthub/internal/dbx"
	"github.com/dmitrijs2005/contacthub/internal/server/models"
	"github.com/dmitrijs2005/contacthub/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/contacthub/internal/server/repositories/repomanager"
)

const (
	maxNameLength       = 50
	defaultPageLimit    = 10
	defaultBirthdayDays = 7
)

// timeNow is a seam for tests.
var timeNow = time.Now

// ContactInput carries the mutable fields of a contact for create and update.
// Updates are full-field overwrites.
type ContactInput struct {
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	Birthday       *time.Time
	AdditionalInfo string
}

func (in *ContactInput) validate() error {
	if in.FirstName == "" || in.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", common.ErrValidation)
	}
	if len(in.FirstName) > maxNameLength || len(in.LastName) > maxNameLength {
		return fmt.Errorf("%w: names are limited to %d characters", common.ErrValidation, maxNameLength)
	}
	if in.Email == "" {
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	}
	if in.PhoneNumber == "" {
		return fmt.Errorf("%w: phone number is required", common.ErrValidation)
	}
	return nil
}

// ContactService provides the per-user address book. Every operation takes
// the owner's id; repositories filter by it unconditionally.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewContactService constructs a ContactService.
func NewContactService(db *sql.DB, m repomanager.RepositoryManager) *ContactService {
	return &ContactService{db: db, repomanager: m}
}

// List returns a page of the owner's contacts. A non-positive limit falls
// back to the default page size; a negative skip is treated as zero.
func (s *ContactService) List(ctx context.Context, userID int64, page contacts.Page, filter contacts.Filter) ([]*models.Contact, error) {
	if page.Limit <= 0 {
		page.Limit = defaultPageLimit
	}
	if page.Skip < 0 {
		page.Skip = 0
	}
	repo := s.repomanager.Contacts(s.db)
	return repo.List(ctx, userID, page, filter)
}

// Get returns one contact by id, scoped to the owner.
func (s *ContactService) Get(ctx context.Context, userID, id int64) (*models.Contact, error) {
	repo := s.repomanager.Contacts(s.db)
	return repo.GetByID(ctx, userID, id)
}

// Create adds a contact for the owner. A duplicate (email, owner) pair yields
// common.ErrConflict.
func (s *ContactService) Create(ctx context.Context, userID int64, in ContactInput) (*models.Contact, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	contact := &models.Contact{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		Birthday:       in.Birthday,
		AdditionalInfo: in.AdditionalInfo,
		UserID:         userID,
	}

	repo := s.repomanager.Contacts(s.db)
	return repo.Create(ctx, contact)
}

// Update overwrites all mutable fields of the contact. The read and the write
// run in one transaction so the overwrite targets the record that was checked.
func (s *ContactService) Update(ctx context.Context, userID, id int64, in ContactInput) (*models.Contact, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *models.Contact
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Contacts(tx)

		contact, err := repo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}

		contact.FirstName = in.FirstName
		contact.LastName = in.LastName
		contact.Email = in.Email
		contact.PhoneNumber = in.PhoneNumber
		contact.Birthday = in.Birthday
		contact.AdditionalInfo = in.AdditionalInfo

		updated, err = repo.Update(ctx, contact)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating contact: %w", err)
	}
	return updated, nil
}

// Delete removes one contact and returns the removed record.
func (s *ContactService) Delete(ctx context.Context, userID, id int64) (*models.Contact, error) {
	repo := s.repomanager.Contacts(s.db)
	return repo.Delete(ctx, userID, id)
}

// UpcomingBirthdays returns the owner's contacts whose birthday (month/day,
// year ignored) falls within the next `days` days, inclusive. A non-positive
// window falls back to seven days.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, userID int64, days int) ([]*models.Contact, error) {
	if days <= 0 {
		days = defaultBirthdayDays
	}
	repo := s.repomanager.Contacts(s.db)
	return repo.UpcomingBirthdays(ctx, userID, timeNow(), days)
}
