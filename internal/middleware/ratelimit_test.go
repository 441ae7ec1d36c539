package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	handler := RateLimit(3)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	var last int
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/generate-itinerary", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("status after burst = %d, want 429", last)
	}
}

func TestRateLimitIsPerClient(t *testing.T) {
	handler := RateLimit(1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	first := httptest.NewRequest(http.MethodPost, "/generate-itinerary", nil)
	first.RemoteAddr = "10.0.0.1:4000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("first client status = %d, want 202", rec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/generate-itinerary", nil)
	second.RemoteAddr = "10.0.0.2:4000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("second client status = %d, want 202 (separate bucket)", rec.Code)
	}
}

func TestVisitorRegistryKeepsActiveClient(t *testing.T) {
	registry := newVisitorRegistry(60, 50*time.Millisecond)

	first := registry.limiterFor("10.0.0.1")
	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		if got := registry.limiterFor("10.0.0.1"); got != first {
			t.Fatal("active client lost its limiter before going idle")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestVisitorRegistryEvictsIdleClient(t *testing.T) {
	registry := newVisitorRegistry(60, 20*time.Millisecond)

	registry.limiterFor("10.0.0.1")
	if !registry.contains("10.0.0.1") {
		t.Fatal("client missing right after first request")
	}

	time.Sleep(100 * time.Millisecond)
	if registry.contains("10.0.0.1") {
		t.Fatal("idle client still registered after TTL")
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	req.Header.Set("X-Forwarded-For", "not-an-ip, 203.0.113.7")
	if got := clientIP(req); got != "203.0.113.7" {
		t.Fatalf("clientIP = %q, want forwarded address", got)
	}
}
