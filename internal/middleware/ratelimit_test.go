package middleware

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hardiksingla/insightboard/internal/middleware/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitByEmail(t *testing.T) {
	rl := ratelimiter.NewSubjectRateLimiter(0.001, 1, time.Minute)
	defer rl.Stop()

	var bodySeen string
	handler := RateLimit(rl, GetEmailFromBody)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The limiter must restore the body for the handler.
		b, _ := io.ReadAll(r.Body)
		bodySeen = string(b)
		w.WriteHeader(http.StatusOK)
	}))

	payload := `{"email":"user@example.com","password":"pw"}`

	req := httptest.NewRequest("POST", "/v1/auth/login", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, payload, bodySeen)

	req = httptest.NewRequest("POST", "/v1/auth/login", strings.NewReader(payload))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	// A different email has its own bucket.
	req = httptest.NewRequest("POST", "/v1/auth/login", strings.NewReader(`{"email":"other@example.com"}`))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimitBadIdentity(t *testing.T) {
	rl := ratelimiter.NewSubjectRateLimiter(1, 1, time.Minute)
	defer rl.Stop()

	handler := RateLimit(rl, GetEmailFromBody)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without an identity")
	}))

	req := httptest.NewRequest("POST", "/v1/auth/login", strings.NewReader("not json"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRateLimitByIPRotatingForwardedHeader(t *testing.T) {
	rl := ratelimiter.NewSubjectRateLimiter(0.001, 1, time.Minute)
	defer rl.Stop()

	// Same middleware composition as the router: no RealIP, so a client
	// rotating X-Forwarded-For stays in one bucket.
	router := chi.NewRouter()
	router.Use(chimw.Recoverer)
	router.With(RateLimit(rl, GetIP)).Post("/v1/posts/ingest", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("POST", "/v1/posts/ingest", strings.NewReader(`{}`))
		req.RemoteAddr = "203.0.113.9:51234"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{
		http.StatusOK,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
	}, codes)
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.9:51234"
	// Spoofed headers are ignored.
	req.Header.Set("X-Forwarded-For", "10.0.0.1")

	ip, err := GetIP(req)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", ip)
}
