package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"geodata/internal/handler/http/respond"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	rps         rate.Limit
	burst       int
	ipExtractor IPExtractor
	now         func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewRateLimiter allows rps requests per second per IP with bursts of up
// to burst requests.
func NewRateLimiter(rps float64, burst int, ipExtractor IPExtractor) *RateLimiter {
	if ipExtractor == nil {
		ipExtractor = &RemoteAddrExtractor{}
	}
	return &RateLimiter{
		rps:         rate.Limit(rps),
		burst:       burst,
		ipExtractor: ipExtractor,
		now:         time.Now,
		visitors:    make(map[string]*visitor),
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header. Requests whose IP cannot be determined are rejected with 500.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := rl.ipExtractor.ExtractIP(r)
		if err != nil {
			slog.Error("rate limiter: IP extraction failed",
				slog.String("error", err.Error()),
				slog.String("remote_addr", r.RemoteAddr))
			respond.SafeError(w, http.StatusInternalServerError, err)
			return
		}

		lim := rl.limiterFor(ip)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		res := lim.ReserveN(rl.now(), 1)
		if delay := res.DelayFrom(rl.now()); !res.OK() || delay > 0 {
			res.CancelAt(rl.now())
			retryAfter := 1
			if res.OK() {
				retryAfter = max(1, int(math.Ceil(delay.Seconds())))
			}
			slog.Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", r.URL.Path))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			respond.JSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(lim.TokensAt(rl.now()))))

		next.ServeHTTP(w, r)
	})
}

// CleanupExpired drops buckets unused for longer than maxIdle and returns
// the number of buckets left.
func (rl *RateLimiter) CleanupExpired(maxIdle time.Duration) int {
	cutoff := rl.now().Add(-maxIdle)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
	return len(rl.visitors)
}

// ActiveClients returns the number of tracked client IPs.
func (rl *RateLimiter) ActiveClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}
