// Package auth verifies the bearer tokens presented to the MCP endpoint.
package auth

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims the server reads. The caller is identified by
// user_id when present, otherwise by the subject.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id,omitempty"`
}

// User returns the authenticated user id.
func (c *Claims) User() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

type jwksKey struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
}

type jwksResponse struct {
	Keys []jwksKey `json:"keys"`
}

// Config selects how tokens are verified. With Secret set, HS256 tokens
// signed with it are accepted; with JWKSURL set, EdDSA tokens whose kid is
// published there are accepted. Issuer is checked only when non-empty.
type Config struct {
	Secret  string
	JWKSURL string
	Issuer  string
}

// Verifier verifies bearer JWTs.
type Verifier struct {
	secret  []byte
	jwksURL string
	issuer  string

	httpClient *http.Client
	mu         sync.RWMutex
	keys       map[string]ed25519.PublicKey
	fetchedAt  time.Time
	cacheTTL   time.Duration
}

// NewVerifier creates a verifier. It fails when neither a secret nor a JWKS
// URL is configured.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Secret == "" && cfg.JWKSURL == "" {
		return nil, errors.New("auth: one of secret or JWKS URL is required")
	}
	return &Verifier{
		secret:     []byte(cfg.Secret),
		jwksURL:    cfg.JWKSURL,
		issuer:     cfg.Issuer,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		keys:       make(map[string]ed25519.PublicKey),
		cacheTTL:   5 * time.Minute,
	}, nil
}

// VerifyToken verifies a JWT and returns its claims.
func (v *Verifier) VerifyToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithLeeway(5 * time.Second),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "token verification failed")
	}
	if claims.User() == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func (v *Verifier) keyFunc(t *jwt.Token) (interface{}, error) {
	switch t.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(v.secret) == 0 || t.Method != jwt.SigningMethodHS256 {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	case *jwt.SigningMethodEd25519:
		if v.jwksURL == "" {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		kid, ok := t.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, errors.New("missing kid in token header")
		}
		return v.getKey(kid)
	default:
		return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
}

// getKey returns the public key for the given kid, fetching JWKS if cache
// is empty or expired. On unknown kid, forces a refetch (key rotation support).
func (v *Verifier) getKey(kid string) (ed25519.PublicKey, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	expired := time.Since(v.fetchedAt) > v.cacheTTL
	v.mu.RUnlock()

	if ok && !expired {
		return key, nil
	}

	if err := v.fetchJWKS(); err != nil {
		// A stale key beats no key while the JWKS endpoint is down.
		if ok {
			return key, nil
		}
		return nil, err
	}

	v.mu.RLock()
	key, ok = v.keys[kid]
	v.mu.RUnlock()

	if !ok {
		return nil, errors.Errorf("key with kid %q not found in JWKS", kid)
	}
	return key, nil
}

func (v *Verifier) fetchJWKS() error {
	resp, err := v.httpClient.Get(v.jwksURL)
	if err != nil {
		return errors.Wrapf(err, "fetch JWKS from %s", v.jwksURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("JWKS fetch returned status %d", resp.StatusCode)
	}

	var jwks jwksResponse
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return errors.Wrap(err, "decode JWKS")
	}

	keys := make(map[string]ed25519.PublicKey)
	for _, k := range jwks.Keys {
		if k.Kty != "OKP" || k.Crv != "Ed25519" || k.X == "" {
			continue
		}
		xBytes, err := base64.RawURLEncoding.DecodeString(k.X)
		if err != nil {
			log.Printf("[auth] failed to decode key %s: %v", k.Kid, err)
			continue
		}
		if len(xBytes) != ed25519.PublicKeySize {
			log.Printf("[auth] invalid key size for %s: %d", k.Kid, len(xBytes))
			continue
		}
		keys[k.Kid] = ed25519.PublicKey(xBytes)
	}

	v.mu.Lock()
	v.keys = keys
	v.fetchedAt = time.Now()
	v.mu.Unlock()

	log.Printf("[auth] JWKS refreshed: %d key(s) loaded from %s", len(keys), v.jwksURL)
	return nil
}
