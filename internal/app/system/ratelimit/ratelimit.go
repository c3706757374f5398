// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// Limiter counts requests per key in fixed windows. Counters live in a
// go-cache instance, so expired windows are swept by its janitor.
// It is safe for concurrent use.
type Limiter struct {
	c      *cache.Cache
	limit  int
	window time.Duration
}

// New creates a limiter allowing limit requests per key per window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		c:      cache.New(window, 2*window),
		limit:  limit,
		window: window,
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	if err := l.c.Add(key, 1, l.window); err == nil {
		return true
	}
	n, err := l.c.IncrementInt(key, 1)
	if err != nil {
		// window expired between Add and Increment
		l.c.Set(key, 1, l.window)
		return true
	}
	return n <= l.limit
}

// Remaining returns how many requests are left for key in the current window.
func (l *Limiter) Remaining(key string) int {
	v, ok := l.c.Get(key)
	if !ok {
		return l.limit
	}
	if left := l.limit - v.(int); left > 0 {
		return left
	}
	return 0
}

// Reset clears the counter for key.
func (l *Limiter) Reset(key string) {
	l.c.Delete(key)
}

// ClientIP extracts the client IP from an HTTP request.
// X-Forwarded-For (first entry) and X-Real-IP win over RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter throttles sign-in attempts by client IP and by login id.
type LoginLimiter struct {
	byIP      *Limiter
	byAccount *Limiter
}

// NewLoginLimiter allows 10 attempts per IP per minute and 5 per login id
// per 5 minutes.
func NewLoginLimiter() *LoginLimiter {
	return NewLoginLimiterWithConfig(10, time.Minute, 5, 5*time.Minute)
}

// NewLoginLimiterWithConfig creates a login limiter with custom limits.
func NewLoginLimiterWithConfig(ipLimit int, ipWindow time.Duration, accountLimit int, accountWindow time.Duration) *LoginLimiter {
	return &LoginLimiter{
		byIP:      New(ipLimit, ipWindow),
		byAccount: New(accountLimit, accountWindow),
	}
}

// Check records an attempt and returns (allowed, reason). reason is a
// user-facing message when the attempt is refused.
func (ll *LoginLimiter) Check(r *http.Request, loginID string) (bool, string) {
	if !ll.byIP.Allow(ClientIP(r)) {
		return false, "Too many login attempts. Please wait a minute before trying again."
	}
	if key := accountKey(loginID); key != "" && !ll.byAccount.Allow(key) {
		return false, "Too many login attempts for this account. Please wait a few minutes."
	}
	return true, ""
}

// ResetAccount clears the per-account counter after a successful sign-in.
func (ll *LoginLimiter) ResetAccount(loginID string) {
	if key := accountKey(loginID); key != "" {
		ll.byAccount.Reset(key)
	}
}

func accountKey(loginID string) string {
	return strings.ToLower(strings.TrimSpace(loginID))
}
