package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nathantheresa/portfolio/internal/api/dto/common"
	"github.com/nathantheresa/portfolio/internal/utils"
)

// RateLimitConfig defines configuration for the rate limiter
type RateLimitConfig struct {
	// Requests per second per client
	RPS float64
	// Burst size (number of requests that can be made in a single burst)
	Burst int
	// IdleTTL drops limiters of clients not seen for this long
	IdleTTL time.Duration
	// CleanupEvery is the janitor period
	CleanupEvery time.Duration
}

// LimiterStore keeps one token bucket per client key
type LimiterStore struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	config  RateLimitConfig
	now     func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewLimiterStore(config RateLimitConfig) *LimiterStore {
	if config.IdleTTL <= 0 {
		config.IdleTTL = 15 * time.Minute
	}
	if config.CleanupEvery <= 0 {
		config.CleanupEvery = 2 * time.Minute
	}
	return &LimiterStore{
		entries: make(map[string]*limiterEntry),
		config:  config,
		now:     time.Now,
	}
}

// Get returns the limiter of key, creating it on first use
func (s *LimiterStore) Get(key string) *rate.Limiter {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(rate.Limit(s.config.RPS), s.config.Burst)
	s.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup removes limiters idle for longer than IdleTTL
func (s *LimiterStore) Cleanup() int {
	cutoff := s.now().Add(-s.config.IdleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

func (s *LimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartJanitor runs Cleanup periodically until ctx is cancelled
func (s *LimiterStore) StartJanitor(ctx context.Context) {
	t := time.NewTicker(s.config.CleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// RejectionBody chooses the 429 payload for a request. Returning nil keeps
// the API error envelope.
type RejectionBody func(c *gin.Context) interface{}

// RateLimitMiddleware is the coarse per-client guard in front of every
// route. The contact endpoint has its own stricter ledger behind it.
func RateLimitMiddleware(store *LimiterStore, bodies ...RejectionBody) gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := store.Get(utils.GetRealIP(c))

		if !limiter.Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, rejection(c, bodies))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(store.config.Burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))

		c.Next()
	}
}

func rejection(c *gin.Context, bodies []RejectionBody) interface{} {
	for _, body := range bodies {
		if b := body(c); b != nil {
			return b
		}
	}
	return common.NewErrorResponse(
		common.ErrCodeTooManyRequests,
		"Rate limit exceeded. Please try again later.",
		nil,
	)
}
