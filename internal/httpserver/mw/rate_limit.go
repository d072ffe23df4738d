package mw

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"linkstash/internal/utils"
)

// RateLimitConfig tunes the per-IP limiter.
type RateLimitConfig struct {
	RPS           float64       // sustained requests per second per IP, <= 0 disables
	Burst         int           // bucket size
	SweepInterval time.Duration // how often idle entries are evicted
	IdleTTL       time.Duration // entries unused for this long get evicted
	TrustProxy    bool          // resolve IP from proxy headers when true
}

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type ipLimiters struct {
	cfg       RateLimitConfig
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

func newIPLimiters(cfg RateLimitConfig) *ipLimiters {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	return &ipLimiters{
		cfg:       cfg,
		clients:   make(map[string]*clientLimiter, 64),
		lastSweep: time.Now(),
	}
}

func (l *ipLimiters) get(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.cfg.SweepInterval {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > l.cfg.IdleTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c := l.clients[ip]
	if c == nil {
		c = &clientLimiter{lim: rate.NewLimiter(rate.Limit(l.cfg.RPS), l.cfg.Burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.lim
}

// RateLimit throttles requests per client IP with a token bucket.
// A non-positive RPS returns a passthrough middleware.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.RPS <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	l := newIPLimiters(cfg)
	limitStr := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, cfg.TrustProxy)
			if !l.get(ip, time.Now()).Allow() {
				w.Header().Set("Retry-After", "1")
				w.Header().Set("X-RateLimit-Limit", limitStr)
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
