package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T, perMinute int) (*Limiter, *fakeClock) {
	t.Helper()
	l := NewLimiter(Config{RequestsPerMinute: perMinute, CleanupInterval: time.Hour})
	t.Cleanup(l.Stop)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l.now = clock.Now
	return l, clock
}

func TestAllowBurstThenRefill(t *testing.T) {
	l, clock := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("1.1.1.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
		clock.Advance(time.Second)
	}
	if l.Allow("1.1.1.1") {
		t.Fatalf("fourth request should be rejected")
	}
	if !l.Allow("2.2.2.2") {
		t.Fatalf("other clients are independent")
	}
	if l.Rejected() != 1 {
		t.Fatalf("Rejected() = %d, want 1", l.Rejected())
	}

	// One token every 20s at 3/min
	clock.Advance(20 * time.Second)
	if !l.Allow("1.1.1.1") {
		t.Fatalf("request after refill should be allowed")
	}
	if l.Allow("1.1.1.1") {
		t.Fatalf("only one token should have refilled")
	}
}

func TestEvictIdle(t *testing.T) {
	l, clock := newTestLimiter(t, 10)
	l.Allow("1.1.1.1")
	clock.Advance(5 * time.Minute)
	l.Allow("2.2.2.2")
	clock.Advance(6 * time.Minute)

	l.evictIdle()
	if l.ActiveClients() != 1 {
		t.Fatalf("ActiveClients() = %d, want 1", l.ActiveClients())
	}
}

func TestDefaultsAndStopIdempotent(t *testing.T) {
	l := NewLimiter(Config{})
	if l.burst != 60 {
		t.Fatalf("burst = %d, want 60", l.burst)
	}
	if got := l.retryAfter(); got != "1" {
		t.Fatalf("retryAfter() = %q, want 1", got)
	}
	l.Stop()
	l.Stop()
}

func TestMiddleware(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	ip := func(*http.Request) string { return "9.9.9.9" }
	var limited bool
	h := l.Middleware(ip, func(w http.ResponseWriter, r *http.Request) {
		limited = true
		w.WriteHeader(http.StatusTooManyRequests)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusTooManyRequests || !limited {
		t.Fatalf("second request status = %d, limited=%v", rr.Code, limited)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Fatalf("Retry-After = %q, want 60", rr.Header().Get("Retry-After"))
	}
}

func TestMiddlewareDefaultResponse(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	h := l.Middleware(func(*http.Request) string { return "x" }, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rr.Code)
	}
}
