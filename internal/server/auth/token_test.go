package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/contacthub/internal/common"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("super-secret", "HS256", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	return m
}

func TestNewManager_UnknownAlgorithm(t *testing.T) {
	t.Parallel()

	if _, err := NewManager("k", "HS1024", time.Hour, time.Hour); err == nil {
		t.Fatalf("expected error for unknown algorithm")
	}
	if _, err := NewManager("k", "RS256", time.Hour, time.Hour); err == nil {
		t.Fatalf("expected error for non-HMAC algorithm")
	}
}

func TestIssueAndParse_Success(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	tok, err := m.IssueAccess("alice")
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	claims, err := m.Parse(tok, TokenAccess)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("subject mismatch: got %q want %q", claims.Subject, "alice")
	}
	if claims.TokenType != TokenAccess {
		t.Fatalf("token type mismatch: got %q", claims.TokenType)
	}
}

func TestParse_TypeMismatch(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	refresh, err := m.IssueRefresh("alice")
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}

	if _, err := m.Parse(refresh, TokenAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for type mismatch, got %v", err)
	}
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	tok, err := m.Issue("alice", TokenAccess, -1*time.Second)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := m.Parse(tok, TokenAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	m1 := newTestManager(t)
	m2, err := NewManager("other-secret", "HS256", time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}

	tok, err := m1.IssueAccess("alice")
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	if _, err := m2.Parse(tok, TokenAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	if _, err := m.Parse("not.a.jwt", TokenAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}

func TestParse_RejectsEmailToken(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	tok, err := m.IssueEmailToken("alice@example.com")
	if err != nil {
		t.Fatalf("IssueEmailToken error: %v", err)
	}

	// Confirmation tokens carry no type tag and must not authenticate requests.
	if _, err := m.Parse(tok, TokenAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestEmailFromToken_Roundtrip(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	tok, err := m.IssueEmailToken("alice@example.com")
	if err != nil {
		t.Fatalf("IssueEmailToken error: %v", err)
	}

	email, err := m.EmailFromToken(tok)
	if err != nil {
		t.Fatalf("EmailFromToken error: %v", err)
	}
	if email != "alice@example.com" {
		t.Fatalf("email mismatch: got %q", email)
	}
}

func TestResetFromToken_Roundtrip(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	tok, err := m.IssueResetToken("alice@example.com", "new-password")
	if err != nil {
		t.Fatalf("IssueResetToken error: %v", err)
	}

	email, password, err := m.ResetFromToken(tok)
	if err != nil {
		t.Fatalf("ResetFromToken error: %v", err)
	}
	if email != "alice@example.com" || password != "new-password" {
		t.Fatalf("claims mismatch: got %q %q", email, password)
	}
}

func TestResetFromToken_RejectsEmailToken(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	tok, err := m.IssueEmailToken("alice@example.com")
	if err != nil {
		t.Fatalf("IssueEmailToken error: %v", err)
	}

	if _, _, err := m.ResetFromToken(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for token without password claim, got %v", err)
	}
}
