package models

import "time"

// Contact is a per-user address-book entry. The (Email, UserID) pair is
// unique; the same email may recur across different users. Contacts are
// exclusively owned by one user and removed when the owner is deleted.
type Contact struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	Birthday       *time.Time
	AdditionalInfo string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	UserID         int64
}
