package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const visitorIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorRegistry hands out one limiter per client IP and drops entries
// once a client has been idle for the TTL. Active clients keep their
// bucket; eviction timers re-arm while a client is still sending.
type visitorRegistry struct {
	perMinute int
	idleTTL   time.Duration

	mu       sync.Mutex
	visitors map[string]*visitor
}

func newVisitorRegistry(perMinute int, idleTTL time.Duration) *visitorRegistry {
	return &visitorRegistry{
		perMinute: perMinute,
		idleTTL:   idleTTL,
		visitors:  make(map[string]*visitor),
	}
}

func (r *visitorRegistry) limiterFor(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.visitors[ip]; ok {
		v.lastSeen = time.Now()
		return v.limiter
	}
	v := &visitor{
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(r.perMinute)), r.perMinute),
		lastSeen: time.Now(),
	}
	r.visitors[ip] = v
	time.AfterFunc(r.idleTTL, func() { r.evictWhenIdle(ip) })
	return v.limiter
}

func (r *visitorRegistry) evictWhenIdle(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.visitors[ip]
	if !ok {
		return
	}
	if idle := time.Since(v.lastSeen); idle < r.idleTTL {
		time.AfterFunc(r.idleTTL-idle, func() { r.evictWhenIdle(ip) })
		return
	}
	delete(r.visitors, ip)
}

func (r *visitorRegistry) contains(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.visitors[ip]
	return ok
}

// RateLimit allows perMinute requests per client IP with a small burst.
// Client entries are dropped after ten minutes of inactivity.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		perMinute = 30
	}
	registry := newVisitorRegistry(perMinute, visitorIdleTTL)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !registry.limiterFor(clientIP(r)).Allow() {
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
