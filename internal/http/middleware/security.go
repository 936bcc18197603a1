// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides SecurityHeaders, which attaches a conservative set of
// HTTP security headers to every response. The movie API serves JSON only,
// typically behind a reverse proxy, so the defaults skip HTML-oriented
// policies such as CSP.
//
// Design notes:
//   - HSTS is opt-in and only applied when the request is actually HTTPS
//   - Search and recommendation responses can opt out of caching via NoStore
//   - Header values are idempotent and cheap to compute per request
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures the headers emitted by SecurityHeaders.
//
// EnableHSTS controls whether Strict-Transport-Security is sent for HTTPS
// requests (never for plain HTTP). Only enable it when traffic is HTTPS
// end-to-end, including the hop between the proxy and the app.
//
// HSTSMaxAge is the HSTS lifetime. Common values are 15552000 seconds
// (180 days) or 31536000 (1 year). Zero falls back to 180 days.
//
// NoStore adds Cache-Control: no-store plus the legacy Pragma/Expires pair.
// Useful when search results must not linger in intermediary caches.
//
// EnablePolicy includes Permissions-Policy and
// X-Permitted-Cross-Domain-Policies. Browsers honor them; curl and SDK
// clients ignore them.
type SecurityOptions struct {
	EnableHSTS   bool          // require HTTPS end-to-end before enabling
	HSTSMaxAge   time.Duration // e.g. 180 * 24h
	NoStore      bool          // add Cache-Control: no-store
	EnablePolicy bool          // include Permissions-Policy, etc.
}

// SecurityHeaders returns a Gin middleware that adds hardening headers to
// each response.
//
// Always set:
//
//	X-Content-Type-Options: nosniff
//	X-Frame-Options: DENY
//	Referrer-Policy: no-referrer
//
// When EnablePolicy:
//
//	Permissions-Policy: geolocation=(), microphone=(), camera=(), payment=()
//	X-Permitted-Cross-Domain-Policies: none
//
// When NoStore:
//
//	Cache-Control: no-store
//	Pragma: no-cache
//	Expires: 0
//
// When EnableHSTS and the request arrived over HTTPS:
//
//	Strict-Transport-Security: max-age=<seconds>; includeSubDomains; preload
//
// If the response already carries X-Request-ID, it is listed in
// Access-Control-Expose-Headers so browser clients can read it and quote it
// when reporting a failed search.
//
// SecurityHeaders composes cleanly with the CORS, logging, and rate-limit
// middlewares in this package.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int((180 * 24 * time.Hour).Seconds())
	}
	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}

		// HSTS only for HTTPS requests, never for plain HTTP.
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security",
				"max-age="+strconv.Itoa(maxAge)+"; includeSubDomains; preload")
		}

		// Expose X-Request-ID without clobbering existing exposed headers.
		if rid := h.Get("X-Request-ID"); rid != "" {
			const hdr = "Access-Control-Expose-Headers"
			cur := h.Get(hdr)
			switch {
			case cur == "":
				h.Set(hdr, "X-Request-ID")
			case !strings.Contains(cur, "X-Request-ID"):
				h.Set(hdr, cur+", X-Request-ID")
			}
		}

		c.Next()
	}
}

// isHTTPS reports whether the request used HTTPS either directly
// (r.TLS != nil) or via a reverse proxy that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
