package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the client IP from the request.
// Uses r.RemoteAddr only (no proxy headers), so a spoofed X-Forwarded-For
// cannot dodge the per-IP rate limits. IPv6 zones are dropped.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	host = strings.TrimSpace(host)
	if idx := strings.IndexByte(host, '%'); idx != -1 {
		host = host[:idx]
	}
	if host == "" {
		return "unknown"
	}
	return host
}
