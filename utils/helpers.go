package utils

import (
	"net/http"
	"strings"
)

// IsHTTPS reports whether the request reached us over TLS. X-Forwarded-Proto is
// only honoured when trustForwarded is set.
func IsHTTPS(r *http.Request, trustForwarded bool) bool {
	if r == nil {
		return false
	}
	if r.TLS != nil {
		return true
	}
	if trustForwarded {
		proto := strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-Proto"), ",")[0])
		return strings.EqualFold(proto, "https")
	}
	return false
}

// CurrentURL rebuilds the absolute URL of the request, query string included.
func CurrentURL(r *http.Request, trustForwarded bool) string {
	if r == nil || r.URL == nil {
		return ""
	}
	scheme := "http"
	if IsHTTPS(r, trustForwarded) {
		scheme = "https"
	}
	host := r.Host
	if trustForwarded {
		if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-Host")); fwd != "" {
			host = fwd
		}
	}
	return scheme + "://" + host + r.URL.RequestURI()
}
