package session_test

import (
	"testing"
	"time"

	"github.com/fooddash/api/internal/session"
	"github.com/google/uuid"
)

func TestNewAndParseToken(t *testing.T) {
	sid := uuid.New()

	token, err := session.NewToken("test-secret", sid, time.Hour)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	claims, err := session.ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.SessionID != sid {
		t.Errorf("session ID: got %v, want %v", claims.SessionID, sid)
	}
	if claims.Subject != sid.String() {
		t.Errorf("subject: got %q, want %q", claims.Subject, sid.String())
	}
}

func TestParseTokenWithWrongSecret(t *testing.T) {
	token, err := session.NewToken("secret-a", uuid.New(), time.Hour)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if _, err := session.ParseToken("secret-b", token); err == nil {
		t.Fatal("expected error parsing with wrong secret")
	}
}

func TestParseExpiredToken(t *testing.T) {
	token, err := session.NewToken("secret", uuid.New(), -time.Minute)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if _, err := session.ParseToken("secret", token); err == nil {
		t.Fatal("expected error parsing expired token")
	}
}

func TestParseTokenWithInvalidString(t *testing.T) {
	if _, err := session.ParseToken("secret", "not-a-jwt"); err == nil {
		t.Fatal("expected error parsing invalid token string")
	}
}
