package httpx

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/karyasoft/backoffice/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters for a route class.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the window.
	RequestsPerWindow int
	// Window is the time window for rate limiting.
	Window time.Duration
	// Burst allows temporary bursts above the sustained rate.
	Burst int
}

// Rate limit profiles for the different endpoint classes.
var (
	// StrictLimit for credential-bearing endpoints (login, invitation
	// acceptance): brute-force prevention.
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// ModerateLimit for authenticated mutations.
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}

	// LenientLimit for reads and health checks.
	LenientLimit = RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}
)

// KeyExtractor derives the bucketing key for a request.
type KeyExtractor func(r *http.Request) string

// IPKey buckets requests by client IP.
func IPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// UserKey buckets requests by authenticated user ID, falling back to IP for
// anonymous requests.
func UserKey(r *http.Request) string {
	if id := UserIDFromContext(r.Context()); id != "" {
		return "user:" + id
	}
	return "ip:" + IPKey(r)
}

// maxTrackedKeys caps the limiter map; when exceeded, entries idle for more
// than a window are evicted.
const maxTrackedKeys = 10_000

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	cfg     RateLimitConfig
	entries map[string]*limiterEntry
}

func (rl *rateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if len(rl.entries) >= maxTrackedKeys {
		for k, e := range rl.entries {
			if now.Sub(e.lastSeen) > rl.cfg.Window {
				delete(rl.entries, k)
			}
		}
	}

	e, ok := rl.entries[key]
	if !ok {
		limit := rate.Every(rl.cfg.Window / time.Duration(rl.cfg.RequestsPerWindow))
		e = &limiterEntry{limiter: rate.NewLimiter(limit, rl.cfg.Burst)}
		rl.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// RateLimit limits requests per extracted key using a token bucket.
func RateLimit(cfg RateLimitConfig, extract KeyExtractor) Middleware {
	rl := &rateLimiter{cfg: cfg, entries: make(map[string]*limiterEntry)}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := extract(r)
			limiter := rl.get(key)

			if !limiter.Allow() {
				reservation := limiter.Reserve()
				delay := reservation.Delay()
				reservation.Cancel()

				retryAfter := max(int(delay.Seconds()), 1)
				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))

				slogx.FromContext(r.Context()).Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"retry_after", retryAfter,
				)

				WriteDetail(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP limits by client IP only.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, IPKey)
}

// RateLimitByUser limits by authenticated user ID, falling back to IP.
func RateLimitByUser(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, UserKey)
}
