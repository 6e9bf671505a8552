package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{"sub": "ayse@example.com", "exp": exp.Unix()})

	got, ok := TokenExpiry(token)
	if !ok {
		t.Fatal("Expected expiry to be found")
	}
	if !got.Equal(exp) {
		t.Errorf("Expected expiry %v, got %v", exp, got)
	}
}

func TestTokenExpiry_NoExpClaim(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "ayse@example.com"})

	if _, ok := TokenExpiry(token); ok {
		t.Error("Expected no expiry for a token without exp")
	}
}

func TestTokenExpiry_Opaque(t *testing.T) {
	if _, ok := TokenExpiry("not-a-jwt"); ok {
		t.Error("Expected no expiry for an opaque token")
	}
}
