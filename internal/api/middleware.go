package api

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/triply/content-engine/internal/config"
	"github.com/triply/content-engine/internal/metrics"
)

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// metricsMiddleware records per-request counters and latency, labelled by
// the route template rather than the raw path to bound cardinality
func metricsMiddleware(collector metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		collector.RecordHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}

// operatorAuth gates mutating routes behind the operator capability token.
// The surrounding platform owns real user accounts; the engine only checks
// that the caller holds the capability.
func operatorAuth(cfg *config.OperatorConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" || token != cfg.Token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "operator token required",
			})
			return
		}
		c.Next()
	}
}

// clientLimiters tracks one token bucket per client IP. Entries idle past
// limiterTTL are evicted on the next sweep.
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	rps      rate.Limit
	burst    int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const limiterTTL = 10 * time.Minute

func newClientLimiters(cfg *config.RateLimitConfig) *clientLimiters {
	return &clientLimiters{
		limiters: make(map[string]*clientLimiter),
		rps:      rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
	}
}

func (cl *clientLimiters) get(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := time.Now()
	if entry, ok := cl.limiters[ip]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	// Sweep stale entries while we hold the lock; the map stays small
	// because clients are a handful of operator tools and the renderer.
	for key, entry := range cl.limiters {
		if now.Sub(entry.lastSeen) > limiterTTL {
			delete(cl.limiters, key)
		}
	}

	limiter := rate.NewLimiter(cl.rps, cl.burst)
	cl.limiters[ip] = &clientLimiter{limiter: limiter, lastSeen: now}
	return limiter
}

// rateLimitMiddleware applies a per-client-IP token bucket
func rateLimitMiddleware(cfg *config.RateLimitConfig) gin.HandlerFunc {
	limiters := newClientLimiters(cfg)
	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
