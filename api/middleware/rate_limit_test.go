package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeLimiter struct {
	counts map[string]int64
	err    error
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func okHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	limiter := &fakeLimiter{}
	policy := NewRateLimitPolicy("api", time.Minute, 2)
	calls := 0
	handler := RateLimit(policy, limiter, nil)(okHandler(&calls))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
		req.RemoteAddr = "203.0.113.7:51234"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i+1, resp.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("expected 2 handler calls, got %d", calls)
	}
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	limiter := &fakeLimiter{}
	policy := NewRateLimitPolicy("api", time.Minute, 1)
	calls := 0
	handler := RateLimit(policy, limiter, nil)(okHandler(&calls))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
		req.RemoteAddr = "203.0.113.7:51234"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		if i == 0 {
			if resp.Code != http.StatusOK {
				t.Fatalf("first request should pass, got %d", resp.Code)
			}
			continue
		}
		if resp.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429 got %d", resp.Code)
		}
		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body.Error.Code != "RATE_LIMIT_EXCEEDED" {
			t.Fatalf("unexpected error code %q", body.Error.Code)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 handler call, got %d", calls)
	}
}

func TestRateLimitScopesByClientIP(t *testing.T) {
	limiter := &fakeLimiter{}
	policy := NewRateLimitPolicy("api", time.Minute, 1)
	calls := 0
	handler := RateLimit(policy, limiter, nil)(okHandler(&calls))

	for _, ip := range []string{"198.51.100.1", "198.51.100.2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
		req.Header.Set("X-Forwarded-For", ip)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("ip %s should have its own window, got %d", ip, resp.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("expected 2 handler calls, got %d", calls)
	}
}

func TestRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	limiter := &fakeLimiter{}
	policy := NewRateLimitPolicy("api", 0, 0)
	calls := 0
	handler := RateLimit(policy, limiter, nil)(okHandler(&calls))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("disabled policy must not block, got %d", resp.Code)
		}
	}
	if len(limiter.counts) != 0 {
		t.Fatalf("disabled policy must not touch the store, got %v", limiter.counts)
	}
	if calls != 5 {
		t.Fatalf("expected 5 handler calls, got %d", calls)
	}
}
