package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signHS256(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestValidateJWT(t *testing.T) {
	signed := signHS256(t, "test-secret", Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := ValidateJWT(signed, "test-secret")
	if err != nil {
		t.Fatalf("ValidateJWT returned error: %v", err)
	}
	if claims.Subject != "user_1" {
		t.Fatalf("expected subject user_1, got %q", claims.Subject)
	}
}

func TestValidateJWTWrongSecret(t *testing.T) {
	signed := signHS256(t, "test-secret", Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	if _, err := ValidateJWT(signed, "other-secret"); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestValidateJWTExpired(t *testing.T) {
	signed := signHS256(t, "test-secret", Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	if _, err := ValidateJWT(signed, "test-secret"); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestValidateJWTGarbage(t *testing.T) {
	if _, err := ValidateJWT("not-a-token", "test-secret"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
