package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"jobpilot-backend/internal/shared/server/respond"
)

const defaultRateLimitGroup = "DEFAULT"

// RateLimitRule describes a token bucket for a route group.
type RateLimitRule struct {
	RPS   float64
	Burst int
}

// RateLimitConfig controls per-principal rate limiting.
type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Store        *LimiterStore
}

// LimiterStore caches one rate.Limiter per key and evicts idle entries.
type LimiterStore struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	idleTTL time.Duration
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewLimiterStore constructs a LimiterStore with the given idle eviction window.
func NewLimiterStore(idleTTL time.Duration) *LimiterStore {
	if idleTTL <= 0 {
		idleTTL = 15 * time.Minute
	}
	return &LimiterStore{
		entries: make(map[string]*limiterEntry),
		idleTTL: idleTTL,
	}
}

func (s *LimiterStore) get(key string, rule RateLimitRule) *rate.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(rate.Limit(rule.RPS), rule.Burst)
	s.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup drops entries not seen within the idle window.
func (s *LimiterStore) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor periodically evicts idle limiter entries until stop is closed.
func (s *LimiterStore) StartJanitor(every time.Duration, stop <-chan struct{}) {
	if every <= 0 {
		every = 2 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}

// RateLimit limits requests per principal (user ID, falling back to client IP).
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Store == nil {
		cfg.Store = NewLimiterStore(0)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		principal := strings.TrimSpace(UserIDFromContext(c))
		if principal == "" {
			principal = strings.TrimSpace(c.ClientIP())
		}
		key := principal + "|" + group

		lim := cfg.Store.get(key, rule)
		if lim.Allow() {
			c.Next()
			return
		}

		retryAfter := time.Second
		if rule.RPS > 0 {
			retryAfter = time.Duration(float64(time.Second) / rule.RPS)
		}
		seconds := int(retryAfter/time.Second) + 1
		c.Header("Retry-After", strconv.Itoa(seconds))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "too many requests", nil)
	}
}
