package httpx

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters for one endpoint
// class.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// AuthLimit is the profile applied to sign-in endpoints (brute force
// prevention): 10 requests per minute per client address.
var AuthLimit = RateLimitConfig{
	RequestsPerWindow: 10,
	Window:            time.Minute,
	Burst:             10,
}

// RateLimit returns middleware enforcing a per-client-IP token bucket.
// Over-limit requests receive 429 with the message envelope.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	limit := rate.Every(cfg.Window / time.Duration(cfg.RequestsPerWindow))

	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			mu.Lock()
			limiter, ok := limiters[ip]
			if !ok {
				limiter = rate.NewLimiter(limit, cfg.Burst)
				limiters[ip] = limiter
			}
			allowed := limiter.Allow()
			mu.Unlock()

			if !allowed {
				Message(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
