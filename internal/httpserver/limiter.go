package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ipLimiter hands out one token bucket per client IP.
type ipLimiter struct {
	mu    sync.Mutex
	rps   int
	burst int
	m     map[string]*rate.Limiter
}

func newIPLimiter(rps, burst int) *ipLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &ipLimiter{rps: rps, burst: burst, m: make(map[string]*rate.Limiter)}
}

// get returns the limiter for key (usually client IP).
func (l *ipLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.m[key]; ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Every(time.Second/time.Duration(l.rps)), l.burst)
	l.m[key] = lim
	return lim
}

// middleware rejects requests over the per-IP budget with 429.
func (l *ipLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if !l.get(key).Allow() {
			log.Debug().Str("ip", key).Str("path", r.URL.Path).Msg("rate limited")
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Too many requests. Please slow down."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr when present (RealIP may already have).
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
