package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carlosmendieta/modique-backend/pkg/config"
)

type fakeLimiter struct {
	counts map[string]int64
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: make(map[string]int64)}
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	cfg := config.RateLimitConfig{Window: time.Minute, UserLimit: 5, IPLimit: 10}
	mw := RateLimit(cfg, newFakeLimiter(), nil)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req = req.WithContext(WithUserID(req.Context(), "user-1"))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i+1, resp.Code)
		}
	}
}

func TestRateLimitBlocksUserOverLimit(t *testing.T) {
	cfg := config.RateLimitConfig{Window: time.Minute, UserLimit: 2, IPLimit: 100}
	mw := RateLimit(cfg, newFakeLimiter(), nil)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req = req.WithContext(WithUserID(req.Context(), "user-1"))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		last = resp.Code
	}

	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", last)
	}
}

func TestRateLimitBlocksIPOverLimit(t *testing.T) {
	cfg := config.RateLimitConfig{Window: time.Minute, UserLimit: 0, IPLimit: 1}
	mw := RateLimit(cfg, newFakeLimiter(), nil)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, first)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	second.RemoteAddr = "10.0.0.1:1234"
	blocked := httptest.NewRecorder()
	handler.ServeHTTP(blocked, second)
	if blocked.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", blocked.Code)
	}
}

func TestRateLimitDisabledWithoutWindow(t *testing.T) {
	mw := RateLimit(config.RateLimitConfig{}, newFakeLimiter(), nil)
	var calls int
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls got %d", calls)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.2")

	if got := clientIP(req); got != "203.0.113.9" {
		t.Fatalf("expected forwarded ip got %s", got)
	}
}
