package httpx

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiter throttles login attempts per client address.
type LoginLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter creates a limiter allowing perMinute attempts per client
// address with the given burst on top.
func NewLoginLimiter(perMinute, burst int) *LoginLimiter {
	return &LoginLimiter{
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		visitors: make(map[string]*visitor),
	}
}

// Allow reports whether the client behind remoteAddr may attempt a login now.
func (l *LoginLimiter) Allow(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[host]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[host] = v
	}
	v.lastSeen = time.Now()

	l.evictStale()
	return v.limiter.Allow()
}

// evictStale drops visitors idle for over an hour. Called with mu held.
func (l *LoginLimiter) evictStale() {
	cutoff := time.Now().Add(-time.Hour)
	for host, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, host)
		}
	}
}

// Middleware rejects over-limit requests with 429 before they reach next.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(r.RemoteAddr) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
