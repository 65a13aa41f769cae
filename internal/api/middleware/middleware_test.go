package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathantheresa/portfolio/internal/api/constants"
	"github.com/nathantheresa/portfolio/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.POST("/api/v1/contact", ok)
	r.GET("/api/v1/articles", ok)
	return r
}

func TestCORS_PreflightReturns200(t *testing.T) {
	r := newRouter(CORS(CORSConfig{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/contact", nil)
	req.Header.Set("Origin", "https://example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "content-type")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORS_AllowedOrigins(t *testing.T) {
	r := newRouter(CORS(CORSConfig{AllowedOrigins: []string{"https://nathan.dev"}}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil)
	req.Header.Set("Origin", "https://nathan.dev")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://nathan.dev", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORS_DisallowedOriginPreflightReturns200(t *testing.T) {
	r := newRouter(CORS(CORSConfig{AllowedOrigins: []string{"https://nathan.dev"}}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/contact", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	r := newRouter(SecurityHeaders())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/articles", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestLimitBody(t *testing.T) {
	r := gin.New()
	r.Use(LimitBody(8))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("much longer than eight")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRateLimitMiddleware_PerClient(t *testing.T) {
	store := NewLimiterStore(RateLimitConfig{RPS: 0.001, Burst: 2})
	r := newRouter(RateLimitMiddleware(store))

	send := func(ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/articles", nil)
		req.Header.Set("X-Real-IP", ip)
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.1"))
	assert.Equal(t, http.StatusOK, send("192.0.2.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("192.0.2.1"))
	assert.Equal(t, http.StatusOK, send("192.0.2.2"))
	assert.Equal(t, 2, store.Len())
}

func TestRateLimitMiddleware_RejectionBody(t *testing.T) {
	store := NewLimiterStore(RateLimitConfig{RPS: 0.001, Burst: 1})
	flat := func(c *gin.Context) interface{} {
		if c.FullPath() == "/api/v1/contact" {
			return gin.H{"error": "slow down"}
		}
		return nil
	}
	r := newRouter(RateLimitMiddleware(store, flat))

	send := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("X-Real-IP", "192.0.2.9")
		r.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, send(http.MethodPost, "/api/v1/contact").Code)

	w := send(http.MethodPost, "/api/v1/contact")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"slow down"}`, w.Body.String())

	w = send(http.MethodGet, "/api/v1/articles")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Rate limit exceeded")
}

func TestLimiterStore_Cleanup(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewLimiterStore(RateLimitConfig{RPS: 1, Burst: 1, IdleTTL: time.Minute})
	store.now = func() time.Time { return now }

	store.Get("a")
	now = now.Add(2 * time.Minute)
	store.Get("b")

	assert.Equal(t, 1, store.Cleanup())
	assert.Equal(t, 1, store.Len())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/", func(c *gin.Context) { seen = c.GetString(constants.ContextKeyRequestID) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", seen)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logging.Discard()))
	r.GET("/boom", func(c *gin.Context) { panic(errors.New("boom")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

type observedRequest struct {
	method, route, status string
}

type requestObserver struct {
	seen []observedRequest
}

func (o *requestObserver) ObserveRequest(method, route, status string, seconds float64) {
	o.seen = append(o.seen, observedRequest{method, route, status})
}

func TestRequestLogger_ReportsRouteTemplate(t *testing.T) {
	obs := &requestObserver{}
	r := gin.New()
	r.Use(RequestLogger(logging.Discard(), obs))
	r.GET("/api/v1/articles/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/articles/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Len(t, obs.seen, 2)
	assert.Equal(t, observedRequest{"GET", "/api/v1/articles/:id", "204"}, obs.seen[0])
	assert.Equal(t, observedRequest{"GET", "unmatched", "404"}, obs.seen[1])
}

type fakeVerifier struct {
	tokens map[string]string
}

func (f *fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	uid, ok := f.tokens[idToken]
	if !ok {
		return nil, errors.New("ID token has expired")
	}
	return &auth.Token{UID: uid}, nil
}

func TestRequireAuth(t *testing.T) {
	verifier := &fakeVerifier{tokens: map[string]string{"good-token": "uid-1"}}
	r := gin.New()
	r.Use(RequireAuth(verifier, logging.Discard()))
	r.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(constants.ContextKeyUserID)) })

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized, ""},
		{"invalid token", "Bearer bad-token", http.StatusUnauthorized, ""},
		{"valid token", "Bearer good-token", http.StatusOK, "uid-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}
