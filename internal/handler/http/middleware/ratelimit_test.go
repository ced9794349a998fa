package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestLimiter(rps float64, burst int) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(rps, burst, nil)
	rl.now = clock.now
	return rl, clock
}

func doRequest(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/sources", nil)
	req.RemoteAddr = remoteAddr
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRateLimiter_AllowsBurstThenRejects(t *testing.T) {
	rl, _ := newTestLimiter(1, 3)
	h := rl.Middleware(okHandler())

	for i := range 3 {
		if rr := doRequest(h, "192.0.2.1:1000"); rr.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rr.Code)
		}
	}

	rr := doRequest(h, "192.0.2.1:1000")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Retry-After = %q, want 1", got)
	}
	if got := rr.Header().Get("X-RateLimit-Limit"); got != "3" {
		t.Errorf("X-RateLimit-Limit = %q, want 3", got)
	}
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl, clock := newTestLimiter(2, 1)
	h := rl.Middleware(okHandler())

	if rr := doRequest(h, "192.0.2.1:1"); rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr := doRequest(h, "192.0.2.1:1"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rr.Code)
	}

	clock.t = clock.t.Add(600 * time.Millisecond)
	if rr := doRequest(h, "192.0.2.1:1"); rr.Code != http.StatusOK {
		t.Errorf("status after refill = %d, want 200", rr.Code)
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl, _ := newTestLimiter(1, 1)
	h := rl.Middleware(okHandler())

	if rr := doRequest(h, "192.0.2.1:1"); rr.Code != http.StatusOK {
		t.Fatalf("first client: status = %d", rr.Code)
	}
	if rr := doRequest(h, "192.0.2.2:1"); rr.Code != http.StatusOK {
		t.Errorf("second client should have its own bucket, status = %d", rr.Code)
	}
	if n := rl.ActiveClients(); n != 2 {
		t.Errorf("ActiveClients() = %d, want 2", n)
	}
}

func TestRateLimiter_BadRemoteAddr(t *testing.T) {
	rl, _ := newTestLimiter(1, 1)
	rr := doRequest(rl.Middleware(okHandler()), "garbage")
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}

func TestRateLimiter_CleanupExpired(t *testing.T) {
	rl, clock := newTestLimiter(1, 1)
	h := rl.Middleware(okHandler())

	doRequest(h, "192.0.2.1:1")
	clock.t = clock.t.Add(5 * time.Minute)
	doRequest(h, "192.0.2.2:1")
	clock.t = clock.t.Add(6 * time.Minute)

	if left := rl.CleanupExpired(10 * time.Minute); left != 1 {
		t.Errorf("CleanupExpired() left %d clients, want 1", left)
	}
}
