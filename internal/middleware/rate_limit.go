package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// CleanupInterval is the interval for cleaning up stale limiters
	CleanupInterval = 5 * time.Minute
	// LimiterTTL is the time-to-live for inactive limiters
	LimiterTTL = 10 * time.Minute
)

// RateLimiter limits requests per page session
type RateLimiter struct {
	limiters  map[uuid.UUID]*limiterEntry
	mu        sync.Mutex
	perMinute int
	rateLimit float64
	burstSize int
	stopCh    chan struct{}
	stopOnce  sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a RateLimiter allowing requestsPerMinute with the
// given burst per session
func NewRateLimiter(requestsPerMinute int, burstSize int) *RateLimiter {
	rl := &RateLimiter{
		limiters:  make(map[uuid.UUID]*limiterEntry),
		perMinute: requestsPerMinute,
		rateLimit: float64(requestsPerMinute) / 60.0,
		burstSize: burstSize,
		stopCh:    make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Limit returns the configured requests per minute
func (r *RateLimiter) Limit() int {
	return r.perMinute
}

// Allow checks if a request from the given session is allowed
func (r *RateLimiter) Allow(sessionID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.limiters[sessionID]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(r.rateLimit), r.burstSize)}
		r.limiters[sessionID] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter.Allow()
}

// State returns the remaining tokens and the time the bucket is full again
func (r *RateLimiter) State(sessionID uuid.UUID) (remaining int, resetTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.limiters[sessionID]
	if !exists {
		return r.burstSize, time.Now()
	}

	tokens := max(int(entry.limiter.Tokens()), 0)
	resetDuration := time.Duration(float64(r.burstSize-tokens) / r.rateLimit * float64(time.Second))
	return tokens, time.Now().Add(resetDuration)
}

// Len returns the number of tracked sessions
func (r *RateLimiter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

func (r *RateLimiter) cleanup() {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictIdle(time.Now())
		case <-r.stopCh:
			return
		}
	}
}

func (r *RateLimiter) evictIdle(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for sessionID, entry := range r.limiters {
		if now.Sub(entry.lastSeen) > LimiterTTL {
			delete(r.limiters, sessionID)
			log.Debug().Str("session_id", sessionID.String()).Msg("Cleaned up stale rate limiter")
		}
	}
}

// Stop stops the cleanup goroutine
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// RateLimitMiddleware limits requests per page session. It must run after
// Session; requests without a session pass through.
func RateLimitMiddleware(rl *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID := GetSessionID(c)
			if sessionID == uuid.Nil {
				return next(c)
			}

			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(rl.Limit()))

			if !rl.Allow(sessionID) {
				_, resetTime := rl.State(sessionID)
				retryAfter := max(int(time.Until(resetTime).Seconds()), 1)

				header.Set("X-RateLimit-Remaining", "0")
				header.Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))
				header.Set("Retry-After", strconv.Itoa(retryAfter))

				log.Warn().
					Str("session_id", sessionID.String()).
					Int("retry_after", retryAfter).
					Msg("Rate limit exceeded")

				return rateLimitError(c, retryAfter)
			}

			remaining, resetTime := rl.State(sessionID)
			header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			header.Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			return next(c)
		}
	}
}
