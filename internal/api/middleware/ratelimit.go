package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/internlog/server/internal/api/problem"
	"github.com/internlog/server/internal/config"
	"golang.org/x/time/rate"
)

type RateLimitTier string

const (
	TierPublic RateLimitTier = "public"
	// TierLogin guards credential endpoints: a burst of LoginPer15Minutes, refilled evenly
	// over fifteen minutes.
	TierLogin RateLimitTier = "login"
)

const loginWindow = 15 * time.Minute

type rateLimitKey string

const rateLimitTierKey rateLimitKey = "rateLimitTier"

func WithRateLimitTier(ctx context.Context, tier RateLimitTier) context.Context {
	return context.WithValue(ctx, rateLimitTierKey, tier)
}

func WithRateLimitTierHandler(tier RateLimitTier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithRateLimitTier(r.Context(), tier)))
		})
	}
}

// RateLimit applies a per-client token bucket chosen by the request's tier. The tier must be
// set before this middleware runs; requests without one use TierPublic. A limit of zero
// disables the tier.
func RateLimit(cfg config.RateLimitConfig, env string) func(http.Handler) http.Handler {
	store := newLimiterStore(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" {
				next.ServeHTTP(w, r)
				return
			}

			tier := TierPublic
			if value, ok := r.Context().Value(rateLimitTierKey).(RateLimitTier); ok {
				tier = value
			}

			limiter := store.limiter(tier, clientKey(r, cfg.TrustedProxyCIDRs))
			if limiter == nil || limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Retry-After", strconv.Itoa(store.retryAfterSeconds(tier)))
			problem.Write(w, r, http.StatusTooManyRequests, problem.CodeRateLimited, "Too many requests", nil, env,
				problem.WithDetail("Rate limit exceeded, retry later"))
		})
	}
}

type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limits   map[RateLimitTier]int
	lastGC   time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(cfg config.RateLimitConfig) *limiterStore {
	return &limiterStore{
		limiters: make(map[string]*limiterEntry),
		limits: map[RateLimitTier]int{
			TierPublic: cfg.PublicPerMinute,
			TierLogin:  cfg.LoginPer15Minutes,
		},
		lastGC: time.Now(),
	}
}

func (s *limiterStore) interval(tier RateLimitTier) time.Duration {
	limit := s.limits[tier]
	if tier == TierLogin {
		return loginWindow / time.Duration(limit)
	}
	return time.Minute / time.Duration(limit)
}

func (s *limiterStore) retryAfterSeconds(tier RateLimitTier) int {
	if s.limits[tier] <= 0 {
		return 0
	}
	secs := int(s.interval(tier).Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

func (s *limiterStore) limiter(tier RateLimitTier, key string) *rate.Limiter {
	limit := s.limits[tier]
	if limit <= 0 {
		return nil
	}

	lookup := string(tier) + ":" + key

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.collectLocked(now)

	if entry, ok := s.limiters[lookup]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	limiter := rate.NewLimiter(rate.Every(s.interval(tier)), limit)
	s.limiters[lookup] = &limiterEntry{limiter: limiter, lastSeen: now}
	return limiter
}

// collectLocked drops clients idle for longer than the login window, at most once per
// five minutes, so the map cannot grow without bound.
func (s *limiterStore) collectLocked(now time.Time) {
	if now.Sub(s.lastGC) < 5*time.Minute {
		return
	}
	s.lastGC = now
	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > loginWindow {
			delete(s.limiters, key)
		}
	}
}

// clientKey identifies the client. X-Forwarded-For and X-Real-IP are only trusted when the
// direct peer is inside one of the trusted proxy CIDRs.
func clientKey(r *http.Request, trustedProxyCIDRs []string) string {
	if r == nil {
		return ""
	}

	remoteIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		remoteIP = host
	}

	if isTrustedProxy(remoteIP, trustedProxyCIDRs) {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			return strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}
		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			return strings.TrimSpace(realIP)
		}
	}

	return remoteIP
}

func isTrustedProxy(ip string, trustedCIDRs []string) bool {
	if len(trustedCIDRs) == 0 {
		return false
	}
	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}
	for _, cidrStr := range trustedCIDRs {
		_, cidr, err := net.ParseCIDR(cidrStr)
		if err != nil {
			continue
		}
		if cidr.Contains(parsedIP) {
			return true
		}
	}
	return false
}
