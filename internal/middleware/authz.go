package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"otter/server/internal/auth"
	"otter/server/internal/bookmark"
	"otter/server/internal/observability"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// AuthContextKey is the context key for auth context
	AuthContextKey ContextKey = "authContext"
	// RequestIDKey is the context key for request tracing ID
	RequestIDKey ContextKey = "requestID"
)

// AuthContext is the authenticated caller: who they are and the store their
// tool calls run against.
type AuthContext struct {
	UserID   string
	AuthType string // "jwt"
	Store    bookmark.Store
}

// TokenVerifier checks a bearer token. Implemented by auth.Verifier.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// Authorizer turns a bearer token into an AuthContext.
type Authorizer struct {
	verifier TokenVerifier
	store    bookmark.Store
}

// NewAuthorizer creates a new authorizer. Every authenticated request gets
// store, scoped by the caller's user id in each tool.
func NewAuthorizer(verifier TokenVerifier, store bookmark.Store) *Authorizer {
	return &Authorizer{
		verifier: verifier,
		store:    store,
	}
}

// Authenticate validates the request's credentials. On failure the returned
// error is an *AuthError to be written verbatim as the HTTP response.
func (a *Authorizer) Authenticate(r *http.Request) (*AuthContext, error) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		observability.LogSecurityEvent(GetRequestID(r.Context()), "", "missing_token", map[string]any{
			"remote_addr": r.RemoteAddr,
		})
		return nil, &AuthError{
			Code:    "MISSING_TOKEN",
			Message: "Missing bearer token",
			Status:  http.StatusUnauthorized,
		}
	}

	claims, err := a.verifier.VerifyToken(token)
	if err != nil {
		observability.LogSecurityEvent(GetRequestID(r.Context()), "", "invalid_token", map[string]any{
			"remote_addr": r.RemoteAddr,
			"error":       err.Error(),
		})
		return nil, &AuthError{
			Code:    "INVALID_TOKEN",
			Message: "Invalid bearer token",
			Status:  http.StatusUnauthorized,
		}
	}

	return &AuthContext{
		UserID:   claims.User(),
		AuthType: "jwt",
		Store:    a.store,
	}, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// AuthError represents an authorization error
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *AuthError) Error() string {
	return e.Message
}

// writeAuthError writes an authorization error response
func writeAuthError(w http.ResponseWriter, err error) {
	authErr, ok := err.(*AuthError)
	if !ok {
		authErr = &AuthError{
			Code:    "AUTHORIZATION_ERROR",
			Message: err.Error(),
			Status:  http.StatusInternalServerError,
		}
	}

	if authErr.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="otter"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(authErr.Status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   authErr.Code,
		"message": authErr.Message,
	})
}

// WithAuthContext returns ctx carrying authCtx.
func WithAuthContext(ctx context.Context, authCtx *AuthContext) context.Context {
	return context.WithValue(ctx, AuthContextKey, authCtx)
}

// WithRequestID returns ctx carrying a request tracing ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// GetAuthContext extracts auth context from request context
func GetAuthContext(ctx context.Context) *AuthContext {
	authCtx, _ := ctx.Value(AuthContextKey).(*AuthContext)
	return authCtx
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// requestID propagates X-Request-ID or generates a new one.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" && len(id) <= 128 {
		return id
	}
	return uuid.NewString()
}
