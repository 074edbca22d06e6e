// Package services contains server-side business logic. This file implements
// UserService, which orchestrates registration, login, refresh-token rotation
// and the email confirmation / password reset flows.
package services

import (
	"context"
	"crypto/md5"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/contacthub/internal/common"
	"github.com/dmitrijs2005/contacthub/internal/logging"
	"github.com/dmitrijs2005/contacthub/internal/server/auth"
	"github.com/dmitrijs2005/contacthub/internal/server/mail"
	"github.com/dmitrijs2005/contacthub/internal/server/models"
	"github.com/dmitrijs2005/contacthub/internal/server/repositories/repomanager"
)

// Flow-specific sentinels. The HTTP layer maps them to the contractual
// status codes and detail strings.
var (
	// ErrEmailTaken and ErrUsernameTaken distinguish which uniqueness check
	// failed during registration.
	ErrEmailTaken    = errors.New("user with this email already exists")
	ErrUsernameTaken = errors.New("user with this username already exists")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrEmailNotConfirmed   = errors.New("email is not confirmed")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// UserService provides the session/auth flow on top of the user directory,
// the token manager and the mail collaborator. It is stateless across calls:
// the only persistent state is the user record itself.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.Manager
	mailer      mail.Mailer
	logger      logging.Logger
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.Manager, mailer mail.Mailer, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		mailer:      mailer,
		logger:      logger.With("module", "user_service"),
	}
}

// Register creates a new unconfirmed user and mails a confirmation link.
// The email check runs before the username check, so a record clashing on
// both reports the email conflict.
func (s *UserService) Register(ctx context.Context, username, email, password string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInternal
	}
	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInternal
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: hash,
		Avatar:         gravatarURL(email),
		Confirmed:      false,
		Role:           role,
	}

	created, err := repo.Create(ctx, user)
	if err != nil {
		// Lost the race against a concurrent registration.
		if errors.Is(err, common.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.sendConfirmationMail(ctx, created)

	return created, nil
}

// Login verifies the credentials and, on success, issues a token pair and
// persists the refresh token on the user record.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}
	if !auth.CheckPassword(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}
	if !user.Confirmed {
		return nil, ErrEmailNotConfirmed
	}

	return s.issueTokenPair(ctx, user)
}

// Refresh validates a presented refresh token, requires it to byte-equal the
// one stored on the user record, and rotates it. Two concurrent refreshes for
// the same user race on the stored token; the last write wins and the loser's
// pair is invalidated on its next use.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Parse(refreshToken, auth.TokenRefresh)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, common.ErrInternal
	}

	if subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		return nil, ErrInvalidRefreshToken
	}

	return s.issueTokenPair(ctx, user)
}

// Logout clears the stored refresh token, invalidating the session
// server-side.
func (s *UserService) Logout(ctx context.Context, userID int64) error {
	repo := s.repomanager.Users(s.db)
	if err := repo.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return common.ErrInternal
	}
	return nil
}

// CurrentUser resolves a bearer access token to the user it was issued for.
func (s *UserService) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.Parse(accessToken, auth.TokenAccess)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}
	return user, nil
}

// RequireModerator gates an operation to moderators. Admins pass too: the
// moderator gate accepts either tier.
func (s *UserService) RequireModerator(user *models.User) error {
	switch user.Role {
	case models.RoleModerator, models.RoleAdmin:
		return nil
	case models.RoleUser:
		return common.ErrForbidden
	default:
		return common.ErrForbidden
	}
}

// RequireAdmin gates an operation to admins only.
func (s *UserService) RequireAdmin(user *models.User) error {
	switch user.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleUser, models.RoleModerator:
		return common.ErrForbidden
	default:
		return common.ErrForbidden
	}
}

// ConfirmEmail decodes a confirmation token and marks the user confirmed.
// Confirming twice is harmless; the returned flag reports that case so the
// caller can phrase its response.
func (s *UserService) ConfirmEmail(ctx context.Context, token string) (alreadyConfirmed bool, err error) {
	email, err := s.tokens.EmailFromToken(token)
	if err != nil {
		return false, common.ErrInvalidToken
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, common.ErrNotFound
		}
		return false, common.ErrInternal
	}
	if user.Confirmed {
		return true, nil
	}
	if err := repo.ConfirmEmail(ctx, email); err != nil {
		return false, common.ErrInternal
	}
	return false, nil
}

// ResendConfirmation re-sends the confirmation mail. An unknown email is
// reported as success so the endpoint cannot be used to probe for accounts.
func (s *UserService) ResendConfirmation(ctx context.Context, email string) (alreadyConfirmed bool, err error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, common.ErrInternal
	}
	if user.Confirmed {
		return true, nil
	}
	s.sendConfirmationMail(ctx, user)
	return false, nil
}

// RequestPasswordReset mints a reset token embedding the candidate new
// password and mails a confirmation link. The token is signed but not
// encrypted, so the link exposes the candidate password to anyone who
// captures it until the token expires; kept for compatibility with the
// previous implementation. An unknown email is reported as success.
func (s *UserService) RequestPasswordReset(ctx context.Context, email, newPassword string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return common.ErrInternal
	}

	token, err := s.tokens.IssueResetToken(email, newPassword)
	if err != nil {
		return common.ErrInternal
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Username, token); err != nil {
		s.logger.Error(ctx, "password reset mail failed", "email", user.Email, "error", err.Error())
	}
	return nil
}

// CompletePasswordReset decodes the reset token and overwrites the stored
// password hash with a hash of the embedded candidate password.
func (s *UserService) CompletePasswordReset(ctx context.Context, token string) error {
	email, password, err := s.tokens.ResetFromToken(token)
	if err != nil {
		return common.ErrInvalidToken
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return common.ErrInternal
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return common.ErrInternal
	}
	if err := repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return common.ErrInternal
	}
	return nil
}

// UpdateAvatar sets a new avatar URL for the user with this email.
func (s *UserService) UpdateAvatar(ctx context.Context, email, url string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.UpdateAvatar(ctx, email, url)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	return user, nil
}

// --- helpers below ---

func (s *UserService) issueTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(user.Username)
	if err != nil {
		return nil, common.ErrInternal
	}
	refresh, err := s.tokens.IssueRefresh(user.Username)
	if err != nil {
		return nil, common.ErrInternal
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, common.ErrInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// sendConfirmationMail is best-effort: failures are logged and never surfaced
// to the caller of Register/ResendConfirmation.
func (s *UserService) sendConfirmationMail(ctx context.Context, user *models.User) {
	token, err := s.tokens.IssueEmailToken(user.Email)
	if err != nil {
		s.logger.Error(ctx, "confirmation token mint failed", "email", user.Email, "error", err.Error())
		return
	}
	if err := s.mailer.SendConfirmation(ctx, user.Email, user.Username, token); err != nil {
		s.logger.Error(ctx, "confirmation mail failed", "email", user.Email, "error", err.Error())
	}
}

func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?d=identicon"
}
