package utils

import (
	"testing"
	"time"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", "ai-document-assistance")

	token, err := m.GenerateToken("user-1", "u@example.com", "U", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Email != "u@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "u@example.com")
	}
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("test-secret", "ai-document-assistance")

	token, err := m.GenerateToken("user-1", "", "", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrExpiredToken {
		t.Errorf("ParseToken error = %v, want ErrExpiredToken", err)
	}
}

func TestJWTManager_WrongSecret(t *testing.T) {
	m := NewJWTManager("secret-a", "ai-document-assistance")
	token, err := m.GenerateToken("user-1", "", "", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	other := NewJWTManager("secret-b", "ai-document-assistance")
	if _, err := other.ParseToken(token); err != ErrInvalidToken {
		t.Errorf("ParseToken error = %v, want ErrInvalidToken", err)
	}
}
