// Package mail is the outbound-email collaborator. Delivery is best-effort:
// callers log failures and never surface them to the end user.
package mail

import "context"

// Mailer sends the two transactional messages the auth flow needs. The token
// is embedded into a link the recipient clicks.
type Mailer interface {
	// SendConfirmation mails an email-confirmation link.
	SendConfirmation(ctx context.Context, to, username, token string) error

	// SendPasswordReset mails a password-reset confirmation link.
	SendPasswordReset(ctx context.Context, to, username, token string) error
}
