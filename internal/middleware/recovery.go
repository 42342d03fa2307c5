package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"otter/server/internal/observability"
)

// callerKey holds the *caller that Recovery installs and Transport fills in.
const callerKey ContextKey = "caller"

// caller records who a request belongs to once that is known, so an outer
// panic handler can still attribute the request.
type caller struct {
	requestID string
	userID    string
}

// noteRequestID records the request id on the caller holder, if any.
func noteRequestID(ctx context.Context, id string) {
	if c, ok := ctx.Value(callerKey).(*caller); ok {
		c.requestID = id
	}
}

// noteUser records the authenticated user on the caller holder, if any.
func noteUser(ctx context.Context, userID string) {
	if c, ok := ctx.Value(callerKey).(*caller); ok {
		c.userID = userID
	}
}

// Recovery is HTTP middleware that recovers from panics. It logs the stack,
// reports a security event tagged with the request and user the inner
// handlers identified, and answers 500.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := &caller{}
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[recovery] panic (request=%s user=%s): %v\n%s", c.requestID, c.userID, err, debug.Stack())
				observability.LogSecurityEvent(c.requestID, c.userID, "panic_recovered", map[string]any{
					"error": fmt.Sprintf("%v", err),
					"path":  r.URL.Path,
				})

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{
					"error":      "internal_server_error",
					"message":    "An unexpected error occurred",
					"request_id": c.requestID,
				})
			}
		}()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey, c)))
	})
}
