package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathantheresa/portfolio/internal/config"
	"github.com/nathantheresa/portfolio/internal/logging"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:           "test",
		Port:                  "0",
		APIRateRPS:            100,
		APIRateBurst:          100,
		MailFrom:              "Nathan Theresa <onboarding@resend.dev>",
		MailSubject:           "Thank you for contacting us!",
		MailSignature:         "Nathan Theresa",
		ContactRateLimit:      3,
		ContactRateWindow:     time.Hour,
		ContactLedgerCapacity: 1000,
		ContactLedgerSweep:    10 * time.Minute,
		YouTubeChannelHandle:  "akhilnathan2622",
		YouTubeMaxResults:     10,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s, err := NewServer(ctx, testConfig(), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func serve(s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestServer_ContactPreflight(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/contact", "/functions/v1/send-confirmation"} {
		w := serve(s, http.MethodOptions, path, "", map[string]string{"Origin": "https://example.com"})
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Empty(t, w.Body.String(), path)
	}
}

func TestServer_ContactRateLimitedAfterThreeAttempts(t *testing.T) {
	s := newTestServer(t)
	body := `{"name":"Jo","email":"jo@example.com","message":"Hello there, friend"}`
	headers := map[string]string{"X-Forwarded-For": "203.0.113.7", "Content-Type": "application/json"}

	// Without RESEND_API_KEY every admitted attempt fails at dispatch
	for i := 0; i < 3; i++ {
		w := serve(s, http.MethodPost, "/api/v1/contact", body, headers)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	}

	w := serve(s, http.MethodPost, "/functions/v1/send-confirmation", body, headers)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests. Please try again later."}`, w.Body.String())

	w = serve(s, http.MethodPost, "/api/v1/contact", body, map[string]string{"X-Forwarded-For": "198.51.100.1"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	metrics := serve(s, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), `portfolio_contact_submissions_total{outcome="rate_limited"} 1`)
	assert.Contains(t, metrics.Body.String(), `portfolio_contact_submissions_total{outcome="dispatch_failed"} 4`)
	assert.Contains(t, metrics.Body.String(), `portfolio_contact_ledger_sources 2`)
}

func TestServer_ContactValidation(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodPost, "/api/v1/contact", `{"name":"J","email":"nope","message":"short"}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Invalid input data"`)
	assert.Contains(t, w.Body.String(), `"field":"name"`)
	assert.Contains(t, w.Body.String(), `"field":"email"`)
	assert.Contains(t, w.Body.String(), `"field":"message"`)
}

func TestServer_OptionalRoutes(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodGet, "/api/v1/videos", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Missing YOUTUBE_API_KEY","videos":[]}`, w.Body.String())

	w = serve(s, http.MethodGet, "/api/v1/public/articles", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
