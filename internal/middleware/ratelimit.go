// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/startup-perks/internal/core"
)

type RateLimitConfig struct {
	Limit      redis_rate.Limit
	KeyFunc    func(*http.Request) string
	BypassFunc func(*http.Request) bool
}

type RateLimiter struct {
	redis  *redis_rate.Limiter
	local  *localBuckets
	config RateLimitConfig
}

// NewRateLimiter counts requests in Redis. With a nil client, or whenever
// Redis errors, an in-process token bucket per key takes over.
func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	rl := &RateLimiter{
		local:  newLocalBuckets(bucketIdleTTL),
		config: cfg,
	}
	if rdb != nil {
		rl.redis = redis_rate.NewLimiter(rdb)
	}
	return rl
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.BypassFunc != nil && rl.config.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		res := rl.take(r, rl.config.KeyFunc(r))
		writeLimitHeaders(w.Header(), res)

		if res.Allowed == 0 {
			retryAfter := max(int(math.Ceil(res.RetryAfter.Seconds())), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			core.Message(w, http.StatusTooManyRequests, fmt.Sprintf(
				"Too many requests. Retry after %d seconds.", retryAfter,
			))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) take(r *http.Request, key string) *redis_rate.Result {
	if rl.redis != nil {
		res, err := rl.redis.Allow(r.Context(), key, rl.config.Limit)
		if err == nil {
			return res
		}
		slog.DebugContext(r.Context(), "redis rate limit unavailable, using local bucket",
			"error", err,
			"key", key,
		)
	}
	return rl.local.take(key, rl.config.Limit, time.Now())
}

func writeLimitHeaders(h http.Header, res *redis_rate.Result) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d",
		res.Limit.Rate, int(res.Limit.Period.Seconds())))
}

func KeyByIP(r *http.Request) string {
	return "ratelimit:ip:" + clientIP(r)
}

// clientIP trusts the last X-Forwarded-For hop, which is the one appended
// by the proxy in front of the service.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func KeyByUser(r *http.Request) string {
	if userID := GetUserID(r.Context()); userID != "" {
		return "ratelimit:user:" + userID
	}
	return KeyByIP(r)
}

func KeyByUserAndEndpoint(r *http.Request) string {
	return KeyByUser(r) + ":endpoint:" + routeShape(r.URL.Path)
}

// KeyByIPAndEndpoint buckets unauthenticated endpoints such as login
// separately per client address.
func KeyByIPAndEndpoint(r *http.Request) string {
	return KeyByIP(r) + ":endpoint:" + routeShape(r.URL.Path)
}

// routeShape replaces id segments so every deal shares one bucket per route.
func routeShape(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if looksLikeID(seg) {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func looksLikeID(seg string) bool {
	if len(seg) == 36 && seg[8] == '-' && seg[13] == '-' && seg[18] == '-' && seg[23] == '-' {
		return true
	}
	if seg == "" {
		return false
	}
	_, err := strconv.ParseUint(seg, 10, 64)
	return err == nil
}

const (
	bucketIdleTTL = 10 * time.Minute
	sweepEvery    = 5 * time.Minute
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// localBuckets keeps one token bucket per key. Idle buckets are swept
// inline by whichever caller first notices the sweep is due.
type localBuckets struct {
	buckets   sync.Map
	idleTTL   time.Duration
	lastSweep atomic.Int64
}

func newLocalBuckets(idleTTL time.Duration) *localBuckets {
	lb := &localBuckets{idleTTL: idleTTL}
	lb.lastSweep.Store(time.Now().UnixNano())
	return lb
}

func (lb *localBuckets) take(
	key string,
	limit redis_rate.Limit,
	now time.Time,
) *redis_rate.Result {
	lb.maybeSweep(now)

	perSecond := float64(limit.Rate) / limit.Period.Seconds()

	v, ok := lb.buckets.Load(key)
	if !ok {
		v, _ = lb.buckets.LoadOrStore(key, &bucket{
			limiter: rate.NewLimiter(rate.Limit(perSecond), limit.Burst),
		})
	}
	b := v.(*bucket)
	b.lastSeen.Store(now.UnixNano())

	res := &redis_rate.Result{Limit: limit, RetryAfter: -1}
	if b.limiter.AllowN(now, 1) {
		res.Allowed = 1
	}

	tokens := b.limiter.TokensAt(now)
	res.Remaining = max(int(tokens), 0)
	if perSecond > 0 {
		res.ResetAfter = time.Duration((float64(limit.Burst) - tokens) / perSecond * float64(time.Second))
		if res.Allowed == 0 {
			res.RetryAfter = time.Duration((1 - tokens) / perSecond * float64(time.Second))
		}
	}

	return res
}

func (lb *localBuckets) maybeSweep(now time.Time) {
	last := lb.lastSweep.Load()
	if now.UnixNano()-last < int64(sweepEvery) {
		return
	}
	if !lb.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-lb.idleTTL).UnixNano()
	lb.buckets.Range(func(key, v any) bool {
		if v.(*bucket).lastSeen.Load() < cutoff {
			lb.buckets.Delete(key)
		}
		return true
	})
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: rate, Burst: burst, Period: time.Minute}
}

func PerHour(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: rate, Burst: burst, Period: time.Hour}
}
