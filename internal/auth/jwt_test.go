package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/gaurav630/userhub/internal/common"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := NewTokenService([]byte("super-secret"), time.Hour)

	tok, err := s.Issue(123)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	gotUserID, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if gotUserID != 123 {
		t.Fatalf("userID mismatch: got %d want %d", gotUserID, 123)
	}
}

func TestVerify_ExpiredAfterTTL(t *testing.T) {
	t.Parallel()

	// Simulated clock: issue at t0 with a 1s TTL, then verify 2s later.
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewTokenService([]byte("secret"), time.Second, WithTimeFunc(func() time.Time {
		return current
	}))

	tok, err := s.Issue(1)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := s.Verify(tok); err != nil {
		t.Fatalf("token must still be valid at issuance: %v", err)
	}

	current = current.Add(2 * time.Second)

	_, err = s.Verify(tok)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenService([]byte("right-secret"), time.Hour)
	verifier := NewTokenService([]byte("wrong-secret"), time.Hour)

	tok, err := issuer.Issue(2)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = verifier.Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	s := NewTokenService([]byte("k"), time.Hour)

	_, err := s.Verify("not.a.jwt")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	t.Parallel()

	s := NewTokenService([]byte("k"), time.Hour)

	a, err := s.Issue(7)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	b, err := s.Issue(7)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if a == b {
		t.Fatalf("two tokens for the same user must carry distinct jti values")
	}
}
