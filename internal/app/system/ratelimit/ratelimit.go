// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	wafflelimit "github.com/dalemusser/waffle/pantry/ratelimit"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
)

// Limiter allows limit requests per key per window as a token bucket: a key
// may burst up to limit, then earns one request back every window/limit.
// Idle keys are evicted after window. Safe for concurrent use.
type Limiter struct {
	keys   *wafflelimit.KeyLimiter
	limit  int
	window time.Duration
}

// New creates a limiter allowing limit requests per key per window.
// window must be positive.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		keys:   wafflelimit.NewKeyLimiter(float64(limit)/window.Seconds(), limit, window),
		limit:  limit,
		window: window,
	}
}

// Allow records a request for key and reports whether it is within limit.
func (l *Limiter) Allow(key string) bool {
	return l.keys.Allow(key)
}

// RetryAfter is how long a blocked key waits for its next request.
func (l *Limiter) RetryAfter() time.Duration {
	if l.limit <= 0 {
		return l.window
	}
	return l.window / time.Duration(l.limit)
}

func (l *Limiter) retryAfterHeader() string {
	secs := int(math.Ceil(l.RetryAfter().Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// Middleware rejects requests from a client IP that has exceeded l with
// 429, a Retry-After header and a JSON error body.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return wafflelimit.MiddlewareWithLimiter(l.keys, wafflelimit.Config{
		KeyFunc: ClientIP,
		OnLimited: func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", l.retryAfterHeader())
			jsonresp.Error(w, http.StatusTooManyRequests, "Too many requests, please try again later.")
		},
	})(next)
}

// ClientIP returns the caller's address: first X-Forwarded-For entry, then
// X-Real-IP, then RemoteAddr without its port.
func ClientIP(r *http.Request) string {
	return strings.Trim(strings.TrimSpace(wafflelimit.IPKeyFunc(r)), "[]")
}

// LoginLimiter limits login attempts per client IP and per email address.
// Successful attempts count too.
type LoginLimiter struct {
	ip    *Limiter
	email *Limiter
}

// NewLoginLimiter returns a LoginLimiter allowing ipLimit attempts per IP per
// ipWindow and emailLimit attempts per address per emailWindow.
func NewLoginLimiter(ipLimit int, ipWindow time.Duration, emailLimit int, emailWindow time.Duration) *LoginLimiter {
	return &LoginLimiter{
		ip:    New(ipLimit, ipWindow),
		email: New(emailLimit, emailWindow),
	}
}

// Check records a login attempt and reports whether it may proceed. When it
// may not, reason is a message suitable for the client.
func (ll *LoginLimiter) Check(r *http.Request, email string) (allowed bool, reason string) {
	if !ll.ip.Allow(ClientIP(r)) {
		return false, "Too many login attempts. Please wait a minute before trying again."
	}
	if key := emailKey(email); key != "" && !ll.email.Allow(key) {
		return false, "Too many login attempts for this account. Please wait a few minutes."
	}
	return true, ""
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
