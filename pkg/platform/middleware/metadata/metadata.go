// Package metadata copies caller metadata from request headers onto the
// request context.
package metadata

import (
	"net/http"
	"net/netip"
	"strings"

	"broker/pkg/requestcontext"
)

const (
	// MaxForwardedHeaderLength bounds X-Forwarded-For and X-Real-IP values.
	MaxForwardedHeaderLength = 500

	// ServiceContextHeader names the service context the caller acts within.
	ServiceContextHeader = "X-Service-Context"
	// ServiceContextQuery is the query parameter fallback for ServiceContextHeader.
	ServiceContextQuery = "serviceContext"
)

// Config lists the proxies allowed to set forwarding headers. Empty trusts none.
type Config struct {
	TrustedProxies []netip.Prefix
}

// ParseTrustedProxies parses CIDR prefixes, skipping invalid entries.
func ParseTrustedProxies(raw []string) []netip.Prefix {
	var out []netip.Prefix
	for _, r := range raw {
		if p, err := netip.ParsePrefix(strings.TrimSpace(r)); err == nil {
			out = append(out, p)
		}
	}
	return out
}

type Middleware struct {
	config Config
}

func NewMiddleware(cfg Config) *Middleware {
	return &Middleware{config: cfg}
}

// Handler stores the client IP and the requested service context.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ip := m.clientIP(r); ip != "" {
			ctx = requestcontext.WithClientIP(ctx, ip)
		}
		if sc := serviceContext(r); sc != "" {
			ctx = requestcontext.WithServiceContext(ctx, sc)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func serviceContext(r *http.Request) string {
	if sc := strings.TrimSpace(r.Header.Get(ServiceContextHeader)); sc != "" {
		return sc
	}
	return strings.TrimSpace(r.URL.Query().Get(ServiceContextQuery))
}

// clientIP honours forwarding headers only from trusted proxies.
func (m *Middleware) clientIP(r *http.Request) string {
	remote := remoteIP(r.RemoteAddr)
	if !remote.IsValid() {
		return ""
	}
	if !m.trusted(remote) {
		return remote.String()
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if len(xff) > MaxForwardedHeaderLength {
			return remote.String()
		}
		first, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.String()
		}
		return remote.String()
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" && len(xri) <= MaxForwardedHeaderLength {
		if addr, err := netip.ParseAddr(strings.TrimSpace(xri)); err == nil {
			return addr.String()
		}
	}
	return remote.String()
}

func (m *Middleware) trusted(addr netip.Addr) bool {
	for _, prefix := range m.config.TrustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteIP(remoteAddr string) netip.Addr {
	if ap, err := netip.ParseAddrPort(remoteAddr); err == nil {
		return ap.Addr().Unmap()
	}
	if addr, err := netip.ParseAddr(remoteAddr); err == nil {
		return addr.Unmap()
	}
	return netip.Addr{}
}
