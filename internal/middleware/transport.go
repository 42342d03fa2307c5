package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"otter/server/internal/jsonrpc"
	"otter/server/internal/observability"
)

// maxBodyBytes caps a POST body. Larger bodies are answered as a parse error.
const maxBodyBytes = 1 << 20

// Dispatcher answers the messages of one request body. A nil payload means
// no response body is owed. Implemented by the MCP handler.
type Dispatcher interface {
	Dispatch(ctx context.Context, msgs []json.RawMessage, batch bool) interface{}
}

// Authenticator resolves the caller of a request. Implemented by Authorizer.
type Authenticator interface {
	Authenticate(r *http.Request) (*AuthContext, error)
}

// transport is the stateless HTTP binding of the MCP endpoint.
type transport struct {
	dispatcher Dispatcher
	authn      Authenticator
	limiter    *RateLimiter
}

// Transport creates the http.Handler for the MCP endpoint. Only POST carries
// messages; there are no event streams or sessions. A nil limiter disables
// rate limiting.
func Transport(dispatcher Dispatcher, authn Authenticator, limiter *RateLimiter) http.Handler {
	return &transport{
		dispatcher: dispatcher,
		authn:      authn,
		limiter:    limiter,
	}
}

func setCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization, Mcp-Session-Id")
}

func (t *transport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := requestID(r)
	noteRequestID(r.Context(), id)
	r = r.WithContext(WithRequestID(r.Context(), id))

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	setCORSHeaders(rec.Header())
	rec.Header().Set("X-Request-ID", id)

	switch r.Method {
	case http.MethodOptions:
		rec.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		http.Error(rec, "SSE not supported. Use POST for JSON-RPC requests.", http.StatusMethodNotAllowed)
	case http.MethodDelete:
		http.Error(rec, "Session management not supported (stateless server).", http.StatusMethodNotAllowed)
	case http.MethodPost:
		t.handlePost(rec, r)
	default:
		rec.Header().Set("Allow", "POST, OPTIONS")
		http.Error(rec, "Method not allowed", http.StatusMethodNotAllowed)
	}

	observability.LogRequest(r.Method, r.URL.Path, rec.status, time.Since(start).Milliseconds())
}

func (t *transport) handlePost(w http.ResponseWriter, r *http.Request) {
	if !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	authCtx, err := t.authn.Authenticate(r)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	noteUser(r.Context(), authCtx.UserID)
	if !t.limiter.Allow(authCtx.UserID) {
		observability.LogSecurityEvent(GetRequestID(r.Context()), authCtx.UserID, "rate_limited", nil)
		writeRateLimited(w)
		return
	}
	ctx := WithAuthContext(r.Context(), authCtx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Printf("[transport] read body: %v", err)
		writeJSON(w, http.StatusOK, parseErrorResponse())
		return
	}

	msgs, batch, err := jsonrpc.SplitBody(body)
	if err != nil {
		writeJSON(w, http.StatusOK, parseErrorResponse())
		return
	}

	payload := t.dispatcher.Dispatch(ctx, msgs, batch)
	if payload == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func parseErrorResponse() *jsonrpc.Response {
	return jsonrpc.Failure(nil, jsonrpc.ParseError, "Parse error: invalid JSON")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("[transport] encode response: %v", err)
		body, _ = json.Marshal(jsonrpc.Failure(nil, jsonrpc.InternalError, "Internal error: "+err.Error()))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// statusRecorder remembers the status code written for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
