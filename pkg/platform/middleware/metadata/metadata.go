package metadata

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"loandesk/pkg/requestcontext"
)

// Resolver extracts the client IP for the rate limiter and access logs.
// X-Forwarded-For and X-Real-IP are honored only when the direct peer is a
// trusted proxy; otherwise any client could pick its own address.
type Resolver struct {
	trusted []netip.Prefix
}

// NewResolver parses proxies given as single addresses or CIDR ranges.
// An empty list trusts no proxy and every request is keyed by its peer address.
func NewResolver(proxies []string) (*Resolver, error) {
	res := &Resolver{}
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.Contains(p, "/") {
			prefix, err := netip.ParsePrefix(p)
			if err != nil {
				return nil, fmt.Errorf("parse trusted proxy %q: %w", p, err)
			}
			res.trusted = append(res.trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(p)
		if err != nil {
			return nil, fmt.Errorf("parse trusted proxy %q: %w", p, err)
		}
		res.trusted = append(res.trusted, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return res, nil
}

// ClientMetadata stores the resolved client IP in the request context.
// Apply it early in the chain.
func (res *Resolver) ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientIP(r.Context(), res.ClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIP returns the peer address, or the forwarded client address when
// the peer is a trusted proxy. X-Forwarded-For is read right to left and
// the first hop that is not a trusted proxy wins.
func (res *Resolver) ClientIP(r *http.Request) string {
	peer := RemoteIP(r)
	if !res.trusts(peer) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if !res.trusts(hop) || i == 0 {
				return hop
			}
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}

func (res *Resolver) trusts(ip string) bool {
	if res == nil || len(res.trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range res.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// RemoteIP returns the host part of the connection's peer address.
func RemoteIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
