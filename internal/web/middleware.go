package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"amenitymap/internal/mapview"
	"amenitymap/internal/session"
	"amenitymap/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// SessionCookie holds the id of the browser's map session.
	SessionCookie = "amenitymap_session"

	contextSessionKey = "session"
)

// RequestLogger logs HTTP requests with timing.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		log.WithContext(c.Request.Context()).
			HTTPRequest(c.Request.Method, path, c.Writer.Status(), float64(latency.Milliseconds()), c.ClientIP())
	}
}

// SecurityHeaders adds security headers to responses. The policy admits the
// Leaflet assets from unpkg and the OpenStreetMap tile servers.
func SecurityHeaders() gin.HandlerFunc {
	const csp = "default-src 'self'; " +
		"script-src 'self' https://unpkg.com; " +
		"style-src 'self' https://unpkg.com; " +
		"img-src 'self' data: https://unpkg.com https://*.tile.openstreetmap.org; " +
		"connect-src 'self'"
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", csp)
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// IPRateLimiter manages per-IP rate limiters.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	log      *logger.Logger
}

func NewIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
		log:   log,
	}
}

// PerMinute allows n requests per minute with a burst of n.
func PerMinute(n int, log *logger.Logger) *IPRateLimiter {
	return NewIPRateLimiter(rate.Limit(float64(n)/60.0), n, log)
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	limiter, _ := i.limiters.LoadOrStore(ip, rate.NewLimiter(i.rate, i.burst))
	return limiter.(*rate.Limiter)
}

// RateLimit returns a middleware that rate limits by IP.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !i.getLimiter(ip).Allow() {
			if i.log != nil {
				i.log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}

// Sessions attaches the caller's map session, issuing a new cookie when the
// presented one is missing or unknown. The session id is also put on the
// request context for the logger.
func Sessions(store *session.Store, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)
		sess, created := store.Get(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sess.ID(), int(ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
		}

		c.Set(contextSessionKey, sess)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.SessionIDKey, sess.ID()))
		c.Next()
	}
}

func currentSession(c *gin.Context) *mapview.Session {
	return c.MustGet(contextSessionKey).(*mapview.Session)
}
