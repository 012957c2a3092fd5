package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// staleLimiterAge is how long an IP bucket may sit unused before the cleanup
// pass drops it. Keeps memory bounded under IP churn.
const staleLimiterAge = time.Hour

// ipLimiters maps client IPs to token buckets.
type ipLimiters struct {
	buckets sync.Map // map[string]*ipBucket
	rps     float64
	burst   int
}

type ipBucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix seconds
}

// TokenRateLimitMiddleware throttles the token issuance endpoint per client
// IP. The endpoint is unauthenticated, so the IP is the only usable key; this
// is separate from the per-actor disclosure limit, which kicks in after
// authentication.
//
// c.ClientIP() resolves X-Forwarded-For and X-Real-IP before falling back to
// the remote address. Exceeding the limit yields 429 with a Retry-After
// header.
func TokenRateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &ipLimiters{rps: rps, burst: burst}
	go store.evictStale(context.Background(), 5*time.Minute)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limiter := store.bucketFor(clientIP)

		if limiter.Allow() {
			c.Next()
			return
		}

		reservation := limiter.Reserve()
		retryAfter := int(reservation.Delay().Seconds())
		reservation.Cancel()

		logger.Debug("token rate limit exceeded",
			slog.String("client_ip", clientIP),
			slog.Int("retry_after", retryAfter))

		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":   "rate_limit_exceeded",
			"message": "Too many token requests from this IP. Please retry after the specified delay.",
		})
		c.Abort()
	}
}

func (s *ipLimiters) bucketFor(ip string) *rate.Limiter {
	fresh := &ipBucket{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
	actual, _ := s.buckets.LoadOrStore(ip, fresh)
	bucket := actual.(*ipBucket)
	bucket.lastSeen.Store(time.Now().Unix())
	return bucket.limiter
}

// evictStale periodically drops buckets whose IP has gone quiet.
func (s *ipLimiters) evictStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-staleLimiterAge).Unix()
			s.buckets.Range(func(key, value any) bool {
				if value.(*ipBucket).lastSeen.Load() < cutoff {
					s.buckets.Delete(key)
				}
				return true
			})
		}
	}
}
