// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts events per key in fixed windows. Safe for concurrent
// use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

type bucket struct {
	count     int
	expiresAt time.Time
}

// New creates a Limiter allowing at most limit events per key per
// window. A background loop drops stale buckets so the map does not
// grow without bound.
func New(limit int, window time.Duration) *Limiter {
	l := &Limiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
	go l.sweep()
	return l
}

// Allow records an event for key and reports whether it is within the
// limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.expiresAt) {
		l.buckets[key] = &bucket{count: 1, expiresAt: now.Add(l.window)}
		return true
	}
	if b.count >= l.limit {
		return false
	}
	b.count++
	return true
}

// Reset clears the counter for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

func (l *Limiter) sweep() {
	ticker := time.NewTicker(l.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, b := range l.buckets {
			if now.After(b.expiresAt) {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}

// ClientIP returns the client address for a request, honoring the
// proxy headers the reverse proxy in front of the portal sets.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First entry is the original client.
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if ip != "" {
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

// LoginLimiter throttles login attempts on two axes: per source IP,
// and per target account. The account axis catches attacks spread
// over many IPs; the IP axis catches one machine hammering many
// accounts.
type LoginLimiter struct {
	ip      *Limiter
	account *Limiter
}

// NewLoginLimiter returns a LoginLimiter with the portal defaults:
// 10 attempts per IP per minute, 5 attempts per account per 5 minutes.
func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{
		ip:      New(10, time.Minute),
		account: New(5, 5*time.Minute),
	}
}

// Check records a login attempt and reports whether it may proceed.
// When blocked, the second return value carries the user-facing
// message.
func (ll *LoginLimiter) Check(r *http.Request, account string) (bool, string) {
	if !ll.ip.Allow(ClientIP(r)) {
		return false, "Zu viele Anmeldeversuche. Bitte warten Sie eine Minute."
	}
	if key := accountKey(account); key != "" {
		if !ll.account.Allow(key) {
			return false, "Zu viele Anmeldeversuche für dieses Konto. Bitte warten Sie einige Minuten."
		}
	}
	return true, ""
}

// ResetAccount clears the per-account counter after a successful
// login, so a legitimate user who mistyped a few times is not locked
// out right after getting in.
func (ll *LoginLimiter) ResetAccount(account string) {
	if key := accountKey(account); key != "" {
		ll.account.Reset(key)
	}
}

func accountKey(account string) string {
	return strings.ToLower(strings.TrimSpace(account))
}
