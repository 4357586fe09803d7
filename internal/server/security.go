package server

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/osse101/CommentGarden_Go/internal/logger"
)

// ProxyList holds the peers allowed to set X-Forwarded-For.
// Entries may be single addresses or CIDR ranges.
type ProxyList []netip.Prefix

// ParseProxyList parses addresses and CIDR ranges, skipping anything unparsable
func ParseProxyList(entries []string) ProxyList {
	var out ProxyList
	for _, raw := range entries {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if p, err := netip.ParsePrefix(raw); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(raw); err == nil {
			out = append(out, netip.PrefixFrom(a.Unmap(), a.Unmap().BitLen()))
			continue
		}
		logger.FromContext(context.Background()).Warn(LogMsgBadTrustedProxy, "entry", raw)
	}
	return out
}

func (p ProxyList) trusts(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// clientIP returns the caller address. X-Forwarded-For counts only when the
// direct peer is a trusted proxy, and then its rightmost entry wins.
func clientIP(r *http.Request, proxies ProxyList) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !proxies.trusts(peer) {
		return peer
	}

	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return peer
	}
	hops := strings.Split(forwarded, ",")
	if last := strings.TrimSpace(hops[len(hops)-1]); last != "" {
		return last
	}
	return peer
}

// presentedKey reads the API key from X-API-Key or a Bearer Authorization header
func presentedKey(r *http.Request) string {
	if key := r.Header.Get(HeaderAPIKey); key != "" {
		return key
	}
	auth := r.Header.Get(HeaderAuthorization)
	if len(auth) > len(BearerPrefix) && strings.EqualFold(auth[:len(BearerPrefix)], BearerPrefix) {
		return strings.TrimSpace(auth[len(BearerPrefix):])
	}
	return ""
}

func isPublicPath(path string) bool {
	for _, p := range PublicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// ipWindow is one caller's counters for the current window
type ipWindow struct {
	start      time.Time
	requests   int
	failedAuth int
}

// ClientGuard tracks per-IP request and failed-auth counts. Every IP has its
// own fixed window; the set of tracked IPs is bounded and least recently seen
// callers are forgotten first.
type ClientGuard struct {
	mu          sync.Mutex
	windows     *lru.Cache[string, *ipWindow]
	window      time.Duration
	maxRequests int
	now         func() time.Time
}

// NewClientGuard creates a guard with the default window, limit and capacity
func NewClientGuard() *ClientGuard {
	return newClientGuard(RateWindow, MaxRequestsPerIP, time.Now)
}

func newClientGuard(window time.Duration, maxRequests int, now func() time.Time) *ClientGuard {
	// size is a positive constant, so New cannot fail
	windows, _ := lru.New[string, *ipWindow](MaxTrackedIPs)
	return &ClientGuard{
		windows:     windows,
		window:      window,
		maxRequests: maxRequests,
		now:         now,
	}
}

// windowLocked returns the live window for ip, starting a fresh one if the
// previous window has elapsed
func (g *ClientGuard) windowLocked(ip string) *ipWindow {
	now := g.now()
	w, ok := g.windows.Get(ip)
	if !ok || now.Sub(w.start) >= g.window {
		w = &ipWindow{start: now}
		g.windows.Add(ip, w)
	}
	return w
}

// Allow counts a request from ip and reports whether it is within the limit
func (g *ClientGuard) Allow(ip string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	w := g.windowLocked(ip)
	w.requests++
	if w.requests <= g.maxRequests {
		return true
	}

	over := w.requests - g.maxRequests
	if over == 1 || over%HighRateAlertEvery == 0 {
		logger.FromContext(context.Background()).Warn(SecurityAlertHighRate,
			"ip", ip,
			"count_in_window", w.requests,
			"window_started", w.start)
	}
	return false
}

// FailedAuth records a rejected credential from ip and returns the count so far
func (g *ClientGuard) FailedAuth(ip string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	w := g.windowLocked(ip)
	w.failedAuth++
	if w.failedAuth == FailedAuthAlertAt {
		logger.FromContext(context.Background()).Warn(SecurityAlertFailedAuth, "ip", ip, "count", w.failedAuth)
	}
	return w.failedAuth
}

// Tracked returns how many IPs currently hold a window
func (g *ClientGuard) Tracked() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.windows.Len()
}

// RequireAPIKey rejects non-public requests that do not present apiKey
func RequireAPIKey(apiKey string, proxies ProxyList, guard *ClientGuard) func(http.Handler) http.Handler {
	want := []byte(apiKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			got := presentedKey(r)
			if subtle.ConstantTimeCompare([]byte(got), want) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r, proxies)
			attempts := 0
			if guard != nil {
				attempts = guard.FailedAuth(ip)
			}
			logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
				"path", r.URL.Path,
				"has_key", got != "",
				"ip", ip,
				"attempts", attempts)

			http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
		})
	}
}

// LimitRate rejects callers over the guard's limit. Probe and metrics paths
// are not counted.
func LimitRate(proxies ProxyList, guard *ClientGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			if !guard.Allow(clientIP(r, proxies)) {
				w.Header().Set(HeaderRetryAfter, RetryAfterSeconds)
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LimitBody caps request bodies at maxBytes
func LimitBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecureHeaders sets the response hardening headers
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set(HeaderContentType, HeaderValueNoSniff)
		h.Set(HeaderFrameOptions, HeaderValueSameOrigin)
		h.Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
		next.ServeHTTP(w, r)
	})
}
