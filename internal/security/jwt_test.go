package security

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateParseRoundTrip(t *testing.T) {
	token, errGen := GenerateToken("secret", 7, "ama.owusu", "Ama Owusu", "Supervisor", "#dc2626", time.Hour)
	if errGen != nil {
		t.Fatalf("generate: %v", errGen)
	}

	claims, errParse := ParseToken("secret", token)
	if errParse != nil {
		t.Fatalf("parse: %v", errParse)
	}
	if claims.UserID != 7 || claims.Username != "ama.owusu" || claims.Role != "Supervisor" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseWrongSecret(t *testing.T) {
	token, errGen := GenerateToken("secret", 1, "admin", "Admin User", "Administrator", "#1e3a5f", time.Hour)
	if errGen != nil {
		t.Fatalf("generate: %v", errGen)
	}
	if _, errParse := ParseToken("other", token); !errors.Is(errParse, ErrInvalidToken) {
		t.Fatalf("wrong secret error = %v, want ErrInvalidToken", errParse)
	}
}

func TestParseExpiredToken(t *testing.T) {
	token, errGen := GenerateToken("secret", 1, "admin", "Admin User", "Administrator", "#1e3a5f", -time.Minute)
	if errGen != nil {
		t.Fatalf("generate: %v", errGen)
	}
	if _, errParse := ParseToken("secret", token); !errors.Is(errParse, ErrExpiredToken) {
		t.Fatalf("expired token error = %v, want ErrExpiredToken", errParse)
	}
}

func TestParseGarbage(t *testing.T) {
	if _, errParse := ParseToken("secret", "not-a-token"); !errors.Is(errParse, ErrInvalidToken) {
		t.Fatalf("garbage token error = %v, want ErrInvalidToken", errParse)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, errHash := HashPassword("admin123")
	if errHash != nil {
		t.Fatalf("hash: %v", errHash)
	}
	if hash == "admin123" {
		t.Fatalf("password stored in the clear")
	}
	if !CheckPassword(hash, "admin123") {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword(hash, "admin124") {
		t.Fatalf("wrong password accepted")
	}
}
