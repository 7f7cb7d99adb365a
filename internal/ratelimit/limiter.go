// Package ratelimit throttles actions that start a payment: booking
// creation and wallet top-ups. Limits apply per user and per client IP.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Padelicious/internal/config"
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Action names a throttled operation. Each action has its own counters.
type Action string

const (
	ActionBooking Action = "booking"
	ActionCharge  Action = "charge"
)

// Config holds rate limit configuration.
type Config struct {
	Cooldown     time.Duration // Minimum time between attempts by one user
	MaxPerHour   int           // Max attempts per user per hour
	MaxIPPerHour int           // Max attempts per IP per hour
	Clock        Clock
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		Cooldown:     5 * time.Second,
		MaxPerHour:   20,
		MaxIPPerHour: 60,
	}
}

// FromConfig maps the rate_limit section of the application config.
func FromConfig(cfg config.RateLimitConfig) *Config {
	return &Config{
		Cooldown:     cfg.BookingCooldown,
		MaxPerHour:   cfg.BookingMaxPerHour,
		MaxIPPerHour: cfg.IPMaxPerHour,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

type entry struct {
	count   int
	firstAt time.Time // First attempt in window
	lastAt  time.Time // Most recent attempt, for cooldown
}

// Limiter tracks attempts in memory. Counters are lost on restart.
type Limiter struct {
	config *Config
	clock  Clock
	mu     sync.RWMutex
	// Keyed by action plus a hash of the user id or IP
	byUser map[string]*entry
	byIP   map[string]*entry

	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:        cfg,
		clock:         clock,
		byUser:        make(map[string]*entry),
		byIP:          make(map[string]*entry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// Check reports whether userID may attempt action from ip. It does not
// record the attempt; call Record once the attempt is actually made.
func (l *Limiter) Check(action Action, userID int64, ip string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()
	userKey := l.hashKey(action, "user", strconv.FormatInt(userID, 10))
	ipKey := l.hashKey(action, "ip", ip)

	l.mu.RLock()
	defer l.mu.RUnlock()

	if e := l.byUser[userKey]; e != nil {
		if elapsed := now.Sub(e.lastAt); elapsed < l.config.Cooldown {
			return LimitResult{
				Allowed:    false,
				RetryAfter: l.config.Cooldown - elapsed,
				Reason:     "cooldown",
			}
		}
		if now.Sub(e.firstAt) < time.Hour && e.count >= l.config.MaxPerHour {
			return LimitResult{
				Allowed:    false,
				RetryAfter: time.Hour - now.Sub(e.firstAt),
				Reason:     "hourly_limit",
			}
		}
	}

	if e := l.byIP[ipKey]; e != nil {
		if now.Sub(e.firstAt) < time.Hour && e.count >= l.config.MaxIPPerHour {
			return LimitResult{
				Allowed:    false,
				RetryAfter: time.Hour - now.Sub(e.firstAt),
				Reason:     "ip_hourly_limit",
			}
		}
	}

	return LimitResult{Allowed: true}
}

// Record counts one attempt against both the user and the IP.
func (l *Limiter) Record(action Action, userID int64, ip string) {
	now := l.clock.Now()
	userKey := l.hashKey(action, "user", strconv.FormatInt(userID, 10))
	ipKey := l.hashKey(action, "ip", ip)

	l.mu.Lock()
	defer l.mu.Unlock()

	bump(l.byUser, userKey, now)
	bump(l.byIP, ipKey, now)
}

// Allow checks and, when allowed, records in one step.
func (l *Limiter) Allow(action Action, userID int64, ip string) LimitResult {
	result := l.Check(action, userID, ip)
	if result.Allowed {
		l.Record(action, userID, ip)
	}
	return result
}

func bump(m map[string]*entry, key string, now time.Time) {
	e := m[key]
	if e == nil || now.Sub(e.firstAt) >= time.Hour {
		m[key] = &entry{count: 1, firstAt: now, lastAt: now}
		return
	}
	e.count++
	e.lastAt = now
}

func (l *Limiter) hashKey(action Action, kind, value string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(value)))
	return string(action) + ":" + kind + ":" + hex.EncodeToString(hash[:8])
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.C:
					l.cleanup()
				}
			}
		}()
	})
}

// cleanup drops entries idle for more than an hour.
func (l *Limiter) cleanup() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	for k, e := range l.byUser {
		if now.Sub(e.lastAt) > time.Hour {
			delete(l.byUser, k)
		}
	}
	for k, e := range l.byIP {
		if now.Sub(e.lastAt) > time.Hour {
			delete(l.byIP, k)
		}
	}
}

// GetClientIP extracts the client IP from a request.
// When trustProxy is true, uses the rightmost IP from X-Forwarded-For (added by your proxy).
// When trustProxy is false, ignores X-Forwarded-For entirely (prevents spoofing).
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// Use RIGHTMOST IP - this is the one your proxy added, not user-supplied
			parts := strings.Split(xff, ",")
			for i := len(parts) - 1; i >= 0; i-- {
				ip := strings.TrimSpace(parts[i])
				// Skip private/internal IPs to find the real client
				if ip != "" && !isPrivateIP(ip) {
					return ip
				}
			}
			// All IPs are private, use the last one
			return strings.TrimSpace(parts[len(parts)-1])
		}

		// Check X-Real-IP (set by nginx)
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	// Fall back to RemoteAddr (direct connection or untrusted proxy)
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port (e.g., Unix socket or malformed)
		// Try to parse as IP directly, otherwise return as-is
		if parsed := net.ParseIP(r.RemoteAddr); parsed != nil {
			return r.RemoteAddr
		}
		// Last resort: strip anything after last colon that looks like a port
		if idx := strings.LastIndex(r.RemoteAddr, ":"); idx != -1 {
			candidate := r.RemoteAddr[:idx]
			if net.ParseIP(candidate) != nil {
				return candidate
			}
		}
		return r.RemoteAddr
	}
	return ip
}

// privateNetworks holds parsed CIDR ranges for private/reserved IPs.
// Parsed once at package init for efficiency.
var privateNetworks []*net.IPNet

func init() {
	privateRanges := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"::1/128",
		"fc00::/7",
		"fe80::/10", // Link-local
	}
	for _, cidr := range privateRanges {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("invalid private CIDR: " + cidr)
		}
		privateNetworks = append(privateNetworks, network)
	}
}

// isPrivateIP checks if an IP is in a private/reserved range.
// Handles both IPv4 and IPv4-mapped IPv6 addresses (e.g., ::ffff:192.168.1.1).
func isPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}

	// Convert IPv4-mapped IPv6 to IPv4 for consistent matching
	// e.g., ::ffff:192.168.1.1 -> 192.168.1.1
	if ipv4 := ip.To4(); ipv4 != nil {
		ip = ipv4
	}

	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// LogRateLimitExceeded logs a throttled attempt.
func LogRateLimitExceeded(action Action, userID int64, ip, reason string) {
	log.Warn().
		Str("event", "rate_limit_exceeded").
		Str("action", string(action)).
		Int64("user_id", userID).
		Str("ip", ip).
		Str("reason", reason).
		Msg("Rate limit exceeded")
}
