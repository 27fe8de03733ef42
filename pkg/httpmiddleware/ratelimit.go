package httpmiddleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimitConfig configures the per-client rate limiter.
type RateLimitConfig struct {
	// Max is the number of requests allowed per Window. Zero or negative
	// disables limiting.
	Max int

	// Window is the sliding window length. Defaults to one minute.
	Window time.Duration

	// KeyFunc extracts the client key from a request. Defaults to the
	// client IP, honoring X-Forwarded-For and X-Real-IP.
	KeyFunc func(*http.Request) string
}

// entry tracks request counts for the current and previous window of one
// client key. The sliding estimate weighs the previous window by how much
// of it still overlaps the sliding interval.
type entry struct {
	prevCount int
	currCount int
	currStart time.Time
}

type rateLimiter struct {
	cfg RateLimitConfig

	mu      sync.Mutex
	entries map[string]*entry
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = defaultKeyFunc
	}
	return &rateLimiter{
		cfg:     cfg,
		entries: make(map[string]*entry),
	}
}

// allow reports whether the request may proceed, plus the remaining budget
// and the time at which the current window resets.
func (l *rateLimiter) allow(key string, now time.Time) (ok bool, remaining int, reset time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, found := l.entries[key]
	if !found {
		e = &entry{currStart: now}
		l.entries[key] = e
	}

	// Rotate windows that have elapsed since the last request.
	if elapsed := now.Sub(e.currStart); elapsed >= l.cfg.Window {
		if elapsed >= 2*l.cfg.Window {
			e.prevCount = 0
		} else {
			e.prevCount = e.currCount
		}
		e.currCount = 0
		e.currStart = e.currStart.Add(l.cfg.Window * (elapsed / l.cfg.Window))
	}

	// Weight of the previous window still inside the sliding interval.
	frac := 1 - float64(now.Sub(e.currStart))/float64(l.cfg.Window)
	if frac < 0 {
		frac = 0
	}
	estimated := float64(e.currCount) + float64(e.prevCount)*frac

	reset = e.currStart.Add(l.cfg.Window)
	if estimated >= float64(l.cfg.Max) {
		return false, 0, reset
	}

	e.currCount++
	remaining = l.cfg.Max - e.currCount
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining, reset
}

// cleanup drops entries idle for more than two windows.
func (l *rateLimiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, e := range l.entries {
		if now.Sub(e.currStart) >= 2*l.cfg.Window {
			delete(l.entries, key)
		}
	}
}

func (l *rateLimiter) startCleanup(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.Window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.cleanup(now)
		}
	}
}

func (l *rateLimiter) middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			ok, remaining, reset := l.allow(l.cfg.KeyFunc(r), now)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if !ok {
				retryAfter := int(reset.Sub(now).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprint(w, `{"code":429,"message":"rate limit exceeded"}`)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit returns a sliding-window rate limiting middleware without a
// background cleaner. Suitable for tests and short-lived servers.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return newRateLimiter(cfg).middleware()
}

// RateLimitWithCleanup is RateLimit with a goroutine evicting idle client
// entries until ctx is canceled.
func RateLimitWithCleanup(ctx context.Context, cfg RateLimitConfig) Middleware {
	if cfg.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	l := newRateLimiter(cfg)
	go l.startCleanup(ctx)
	return l.middleware()
}

// defaultKeyFunc keys clients by IP. Proxy headers win over the socket
// address so limits apply to the original client behind a load balancer.
func defaultKeyFunc(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, found := strings.Cut(xff, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return strings.TrimSpace(rip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
