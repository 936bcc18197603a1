// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the request plumbing every movie API route runs through:
//
//   - RequestID() ensures each request carries a stable correlation ID,
//     propagated via X-Request-ID and stored in the Gin context. Error
//     envelopes returned by the handlers echo the same ID.
//   - Logger() emits a structured access log per request (latency, status,
//     sizes) and attaches a request-scoped zerolog.Logger so the search and
//     recommendation handlers can log with the request's fields attached.
//   - Recovery() converts panics into JSON 500 responses while keeping the
//     correlation ID and writing a stack trace to the log.
//   - LoggerFrom() retrieves the request-scoped logger inside handlers and
//     services (e.g. lg.Info().Int("movie_id", id).Msg("…")).
//
// Install RequestID first, then Logger (or RedactingLogger), then Recovery,
// so that panics and errors are logged with the correlation ID attached.
// Raw query strings are capped before logging; a pathological search query
// cannot bloat the log.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// requestIDKey is the Gin context key holding the request ID.
	requestIDKey = "requestID"
	// requestIDHeader carries the correlation ID on requests and responses.
	requestIDHeader = "X-Request-ID"
	// maxQueryLogLength caps the bytes of raw query string written per entry.
	maxQueryLogLength = 2048
)

// RequestID attaches (or propagates) a correlation identifier per request.
//
// An incoming X-Request-ID is reused (header lookup is case-insensitive);
// otherwise a fresh UUIDv4 is generated. The ID is written to the response
// header and stored in the Gin context under "requestID".
//
// Place this first in the chain so the rest of the middleware and the
// handlers can rely on the ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Logger writes a structured access log entry for each request.
//
// The entry records method, path (the route pattern when one matched),
// remote IP, user agent, referer, correlation ID, user ID when an auth
// layer has set one, request size, response status, latency, and bytes
// written. A request-scoped zerolog.Logger is stored in the Gin context
// under "logger" for downstream code.
//
// Level follows the outcome: error for 5xx or when the Gin context
// collected errors, warn for 4xx, info otherwise.
//
// Place this after RequestID() so entries include the correlation ID.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid, _ := c.Get(requestIDKey)
		uid, _ := c.Get("userID")
		path := c.FullPath()
		if path == "" {
			// No matched route (404), fall back to the raw path.
			path = c.Request.URL.Path
		}

		l := log.With().
			Str("request_id", asString(rid)).
			Str("user_id", asString(uid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("referer", c.Request.Referer()).
			Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
			// ContentLength is -1 when unknown.
			Int64("bytes_in", c.Request.ContentLength).
			Logger()

		c.Set("logger", &l)

		c.Next()

		ev := l.With().
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		switch {
		case len(c.Errors) > 0:
			ev.Error().Str("errors", c.Errors.String()).Msg("request")
		case c.Writer.Status() >= 500:
			ev.Error().Msg("request")
		case c.Writer.Status() >= 400:
			ev.Warn().Msg("request")
		default:
			ev.Info().Msg("request")
		}
	}
}

// Recovery intercepts panics, logs a stack trace, and returns a JSON 500.
//
// When nothing has been written yet, the response is the standard error
// envelope:
//
//	{ "request_id": "…", "code": "internal_error", "message": "internal server error" }
//
// If the handler already wrote part of a response, the status is aborted
// without a body. The X-Request-ID header is kept either way.
//
// Place this after Logger() so the panic is captured with request context.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				rid, _ := c.Get(requestIDKey)
				log.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("request_id", asString(rid)).
					Msg("panic recovered")

				if !c.Writer.Written() {
					c.Header("Content-Type", "application/json")
					c.Header(requestIDHeader, asString(rid))
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"request_id": asString(rid),
						"code":       "internal_error",
						"message":    "internal server error",
					})
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped zerolog.Logger attached by Logger().
// When none was attached, a plain fallback logger is returned, so callers
// never need a nil check.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get("logger"); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// asString converts a context value to a string, yielding "" for any
// non-string value.
func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// truncate caps s at max bytes, appending an ellipsis when it was cut.
// A max <= 0 disables truncation. Byte-level cutting is fine for log output.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
