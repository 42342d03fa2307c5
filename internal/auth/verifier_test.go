package auth

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-with-enough-entropy"

func signHS256(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func validClaims(sub string) *Claims {
	return &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    "otter-auth",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}}
}

func TestNewVerifierRequiresKeySource(t *testing.T) {
	if _, err := NewVerifier(Config{}); err == nil {
		t.Fatal("expected error without secret or JWKS URL")
	}
	if _, err := NewVerifier(Config{Secret: testSecret}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifyTokenHS256(t *testing.T) {
	v, err := NewVerifier(Config{Secret: testSecret, Issuer: "otter-auth"})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	expired := validClaims("user-1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	otherIssuer := validClaims("user-1")
	otherIssuer.Issuer = "someone-else"

	noExpiry := validClaims("user-1")
	noExpiry.ExpiresAt = nil

	withUserID := validClaims("")
	withUserID.UserID = "user-2"

	tests := []struct {
		name     string
		token    string
		wantUser string
		wantErr  bool
	}{
		{"valid subject", signHS256(t, testSecret, validClaims("user-1")), "user-1", false},
		{"user_id claim", signHS256(t, testSecret, withUserID), "user-2", false},
		{"wrong secret", signHS256(t, "another-secret", validClaims("user-1")), "", true},
		{"expired", signHS256(t, testSecret, expired), "", true},
		{"issuer mismatch", signHS256(t, testSecret, otherIssuer), "", true},
		{"missing expiry", signHS256(t, testSecret, noExpiry), "", true},
		{"no subject", signHS256(t, testSecret, validClaims("")), "", true},
		{"garbage", "not-a-jwt", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.VerifyToken(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got claims for %q", claims.User())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if claims.User() != tt.wantUser {
				t.Errorf("User() = %q, want %q", claims.User(), tt.wantUser)
			}
		})
	}
}

func TestVerifyTokenRejectsHS256WithoutSecret(t *testing.T) {
	v, err := NewVerifier(Config{JWKSURL: "http://127.0.0.1:0/jwks.json"})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	if _, err := v.VerifyToken(signHS256(t, testSecret, validClaims("user-1"))); err == nil {
		t.Fatal("expected HS256 token to be rejected without a secret")
	}
}

func TestVerifyTokenEd25519JWKS(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(jwksResponse{Keys: []jwksKey{{
			Kty: "OKP",
			Crv: "Ed25519",
			X:   base64.RawURLEncoding.EncodeToString(pub),
			Kid: "k1",
			Use: "sig",
			Alg: "EdDSA",
		}}})
	}))
	defer srv.Close()

	v, err := NewVerifier(Config{JWKSURL: srv.URL})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	sign := func(kid string) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodEdDSA, validClaims("user-ed"))
		tok.Header["kid"] = kid
		s, err := tok.SignedString(priv)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	claims, err := v.VerifyToken(sign("k1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.User() != "user-ed" {
		t.Errorf("User() = %q, want user-ed", claims.User())
	}

	// Cached key is reused.
	if _, err := v.VerifyToken(sign("k1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fetches.Load(); got != 1 {
		t.Errorf("JWKS fetched %d times, want 1", got)
	}

	if _, err := v.VerifyToken(sign("unknown")); err == nil {
		t.Error("expected error for unknown kid")
	}
}
