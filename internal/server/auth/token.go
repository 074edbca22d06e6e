package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/contacthub/internal/common"
)

// TokenType tags a JWT as an access or refresh credential. Validation matches
// the tag exhaustively: a refresh token presented where an access token is
// expected fails, and vice versa.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// emailTokenTTL is the lifetime of confirmation and password-reset tokens.
// There is no revocation list: a leaked link stays valid until expiry.
const emailTokenTTL = 7 * 24 * time.Hour

// Claims is the claim set carried by every token the Manager issues.
// TokenType is empty for confirmation/reset tokens. Password is set only on
// password-reset tokens and holds the candidate new password in plaintext;
// the token is signed but not encrypted, so intercepting a reset link exposes
// that password. This mirrors the behavior of the previous implementation
// and is kept for link compatibility.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type,omitempty"`
	Password  string    `json:"password,omitempty"`
}

// Manager issues and validates signed, time-limited tokens with a
// process-wide secret and a fixed HMAC algorithm. It keeps no per-token
// state; validity is computed from the signature and the expiry claim.
type Manager struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewManager builds a Manager for the given secret and HMAC algorithm name
// (HS256, HS384 or HS512). accessTTL and refreshTTL are the default lifetimes
// used by IssueAccess and IssueRefresh.
func NewManager(secret, algorithm string, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm: %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %q", algorithm)
	}
	return &Manager{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Issue signs a token for subject with the given type tag and lifetime.
// Every token carries a unique jti, so two tokens minted back to back for the
// same subject never collide and rotation always produces a fresh value.
func (m *Manager) Issue(subject string, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(m.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		TokenType: typ,
	})
	return token.SignedString(m.secret)
}

// IssueAccess issues an access token with the default access lifetime.
func (m *Manager) IssueAccess(subject string) (string, error) {
	return m.Issue(subject, TokenAccess, m.accessTTL)
}

// IssueRefresh issues a refresh token with the default refresh lifetime.
func (m *Manager) IssueRefresh(subject string) (string, error) {
	return m.Issue(subject, TokenRefresh, m.refreshTTL)
}

// Parse verifies the signature and expiry of tokenString and checks that its
// type tag equals want. Any failure yields common.ErrInvalidToken; callers
// translate that into their own authorization errors.
func (m *Manager) Parse(tokenString string, want TokenType) (*Claims, error) {
	claims, err := m.decode(tokenString)
	if err != nil {
		return nil, err
	}
	switch claims.TokenType {
	case TokenAccess, TokenRefresh:
		if claims.TokenType != want {
			return nil, common.ErrInvalidToken
		}
	default:
		return nil, common.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// IssueEmailToken signs a confirmation token carrying only the email as
// subject, valid for seven days. Confirmation tokens carry no type tag so
// that links minted by the previous implementation keep working.
func (m *Manager) IssueEmailToken(email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(m.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(emailTokenTTL)),
		},
	})
	return token.SignedString(m.secret)
}

// IssueResetToken signs a password-reset token embedding the email as subject
// and the candidate new password as a claim. See the hazard note on Claims.
func (m *Manager) IssueResetToken(email, newPassword string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(m.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(emailTokenTTL)),
		},
		Password: newPassword,
	})
	return token.SignedString(m.secret)
}

// EmailFromToken decodes a confirmation token and returns the email it was
// issued for.
func (m *Manager) EmailFromToken(tokenString string) (string, error) {
	claims, err := m.decode(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}

// ResetFromToken decodes a password-reset token and returns the email and the
// candidate new password embedded in it.
func (m *Manager) ResetFromToken(tokenString string) (email, password string, err error) {
	claims, err := m.decode(tokenString)
	if err != nil {
		return "", "", err
	}
	if claims.Subject == "" || claims.Password == "" {
		return "", "", common.ErrInvalidToken
	}
	return claims.Subject, claims.Password, nil
}

func (m *Manager) decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.method.Alg() {
			return nil, common.ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
