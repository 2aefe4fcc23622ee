// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
)

type RateLimitConfig struct {
	Limit   redis_rate.Limit
	KeyFunc func(*http.Request) string
}

// RateLimiter counts requests in Redis so every API replica shares one
// budget per client. While Redis is unreachable each process falls back
// to its own token buckets with the same limit.
type RateLimiter struct {
	shared *redis_rate.Limiter
	local  *bucketSet
	cfg    RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	return &RateLimiter{
		shared: redis_rate.NewLimiter(rdb),
		local:  newBucketSet(cfg.Limit),
		cfg:    cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := rl.decide(r, rl.cfg.KeyFunc(r))
		decision.writeHeaders(w, rl.cfg.Limit)
		if !decision.allowed {
			decision.reject(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type decision struct {
	allowed    bool
	remaining  int
	retryAfter time.Duration
	resetAfter time.Duration
}

func (rl *RateLimiter) decide(r *http.Request, key string) decision {
	res, err := rl.shared.Allow(r.Context(), key, rl.cfg.Limit)
	if err == nil {
		return decision{
			allowed:    res.Allowed > 0,
			remaining:  res.Remaining,
			retryAfter: res.RetryAfter,
			resetAfter: res.ResetAfter,
		}
	}

	slog.Debug("shared rate limit store failed, using local buckets",
		"error", err,
		"key", key,
	)
	return rl.local.take(key, time.Now())
}

func (d decision) writeHeaders(w http.ResponseWriter, limit redis_rate.Limit) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(d.resetAfter).Unix(), 10))
}

func (d decision) reject(w http.ResponseWriter) {
	wait := max(int(d.retryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(wait))
	core.JSONError(w, core.NewAppError(
		core.ErrInvalidInput,
		fmt.Sprintf("Too many requests. Try again in %d seconds.", wait),
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	))
}

// KeyByIP buckets by the client address. Behind a proxy the last
// X-Forwarded-For hop is the one the proxy itself appended.
func KeyByIP(r *http.Request) string {
	return "ratelimit:ip:" + clientIP(r)
}

// KeyByPrefixedIP buckets requests per client IP under a separate namespace,
// so a stricter limiter does not share counters with the global one.
func KeyByPrefixedIP(prefix string) func(*http.Request) string {
	return func(r *http.Request) string {
		return prefix + ":" + KeyByIP(r)
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func PerMinute(requests, burst int) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   requests,
		Burst:  burst,
		Period: time.Minute,
	}
}

const bucketIdleTTL = 10 * time.Minute

type bucket struct {
	tokens   *rate.Limiter
	lastSeen time.Time
}

// bucketSet is the in-process fallback. Idle buckets are swept on access
// once per idle TTL instead of by a background goroutine.
type bucketSet struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	every     rate.Limit
	burst     int
	lastSweep time.Time
}

func newBucketSet(limit redis_rate.Limit) *bucketSet {
	every := rate.Inf
	if limit.Period > 0 && limit.Rate > 0 {
		every = rate.Limit(float64(limit.Rate) / limit.Period.Seconds())
	}

	return &bucketSet{
		buckets:   make(map[string]*bucket),
		every:     every,
		burst:     limit.Burst,
		lastSweep: time.Now(),
	}
}

func (s *bucketSet) take(key string, now time.Time) decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > bucketIdleTTL {
		for k, b := range s.buckets {
			if now.Sub(b.lastSeen) > bucketIdleTTL {
				delete(s.buckets, k)
			}
		}
		s.lastSweep = now
	}

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{tokens: rate.NewLimiter(s.every, s.burst)}
		s.buckets[key] = b
	}
	b.lastSeen = now

	d := decision{allowed: b.tokens.AllowN(now, 1)}
	d.remaining = max(int(b.tokens.TokensAt(now)), 0)

	if s.every != rate.Inf && s.every > 0 {
		refill := time.Duration(float64(time.Second) / float64(s.every))
		d.resetAfter = refill
		if !d.allowed {
			d.retryAfter = refill
		}
	}

	return d
}
