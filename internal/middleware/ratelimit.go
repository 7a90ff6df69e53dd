// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
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

	"github.com/kenfackariol/ITCare/internal/core"
)

const (
	sweepInterval = 5 * time.Minute
	bucketTTL     = 10 * time.Minute
)

type RateLimitConfig struct {
	Limit      redis_rate.Limit
	KeyFunc    func(*http.Request) string
	BypassFunc func(*http.Request) bool
}

// RateLimiter counts requests per client in redis. Without redis, or while
// redis errors, each process enforces the same limit with local buckets.
type RateLimiter struct {
	shared *redis_rate.Limiter
	local  *bucketStore
	cfg    RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	rl := &RateLimiter{
		local: newBucketStore(cfg.Limit),
		cfg:   cfg,
	}
	if rdb != nil {
		rl.shared = redis_rate.NewLimiter(rdb)
	}
	return rl
}

// Close stops the local bucket sweeper.
func (rl *RateLimiter) Close() {
	rl.local.close()
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.cfg.BypassFunc != nil && rl.cfg.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		res := rl.allow(r.Context(), rl.cfg.KeyFunc(r))

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Limit.Rate))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(
			time.Now().Add(res.ResetAfter).Unix(), 10))
		h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d",
			rl.cfg.Limit.Rate, int(rl.cfg.Limit.Period.Seconds())))

		if res.Allowed > 0 {
			next.ServeHTTP(w, r)
			return
		}

		retryAfter := max(int(res.RetryAfter.Seconds()), 1)
		h.Set("Retry-After", strconv.Itoa(retryAfter))
		core.JSON(w, http.StatusTooManyRequests, core.ErrorResponse{
			Status: "fail",
			Message: fmt.Sprintf(
				"Too many requests from this IP, please try again after %d seconds.",
				retryAfter,
			),
			Code: core.CodeRateLimited,
		})
	})
}

func (rl *RateLimiter) allow(ctx context.Context, key string) *redis_rate.Result {
	if rl.shared != nil {
		res, err := rl.shared.Allow(ctx, key, rl.cfg.Limit)
		if err == nil {
			return res
		}
		slog.WarnContext(ctx, "shared rate limiter unavailable, using local buckets",
			"error", err,
		)
	}
	return rl.local.allow(key)
}

// KeyByIP keys on the last X-Forwarded-For hop, then X-Real-IP, then the
// socket address.
func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return "ratelimit:ip:" + strings.TrimSpace(hops[len(hops)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ratelimit:ip:" + xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ratelimit:ip:" + ip
}

type bucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

type bucketStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   redis_rate.Limit
	every   time.Duration
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

func newBucketStore(limit redis_rate.Limit) *bucketStore {
	s := &bucketStore{
		buckets: make(map[string]*bucket),
		limit:   limit,
		every:   limit.Period / time.Duration(max(limit.Rate, 1)),
		ttl:     max(bucketTTL, limit.Period),
		done:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *bucketStore) allow(key string) *redis_rate.Result {
	now := time.Now()

	s.mu.Lock()
	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(s.every), s.limit.Burst)}
		s.buckets[key] = b
	}
	b.seen = now
	allowed := b.limiter.AllowN(now, 1)
	remaining := max(int(b.limiter.TokensAt(now)), 0)
	s.mu.Unlock()

	res := &redis_rate.Result{
		Limit:      s.limit,
		Remaining:  remaining,
		RetryAfter: -1,
		ResetAfter: s.every,
	}
	if allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = s.every
	}
	return res
}

func (s *bucketStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.evict(now)
		}
	}
}

// evict drops buckets idle for longer than both bucketTTL and the window.
func (s *bucketStore) evict(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, b := range s.buckets {
		if now.Sub(b.seen) > s.ttl {
			delete(s.buckets, key)
		}
	}
}

func (s *bucketStore) close() {
	s.once.Do(func() { close(s.done) })
}

// KeyByIPScoped namespaces KeyByIP so that separate limiters keep separate
// counters for the same client.
func KeyByIPScoped(scope string) func(*http.Request) string {
	return func(r *http.Request) string {
		return scope + ":" + KeyByIP(r)
	}
}

// PerWindow spreads rate requests over an arbitrary window, e.g. 100 per 15m.
// A non-positive burst defaults to rate.
func PerWindow(rate, burst int, window time.Duration) redis_rate.Limit {
	if burst <= 0 {
		burst = rate
	}
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: window,
	}
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return PerWindow(rate, burst, time.Minute)
}
