// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the structured access logger. It
// scrubs obvious PII from request metadata before anything reaches the log
// sink. Two API surfaces make that mandatory here: account emails travel in
// the /password-recovery/{email} path, and bearer tokens in the Authorization
// header.
//
// Behavior:
//   - Never logs request or response bodies.
//   - Pattern-redacts emails, phone numbers, and UUID-like identifiers from
//     the query string, header values, and the raw path (the raw path only
//     matters when no route matched; matched routes log the template).
//   - Fully masks Authorization, Cookie and Set-Cookie plus any headers
//     listed in RedactOptions.MaskHeaders.
//   - Tags the line with the request id and, when the auth gate has run,
//     the authenticated user id.
//   - Attaches a request-scoped logger to the Gin context so handlers can
//     emit lines carrying the same request id via LoggerFrom.
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Redaction patterns, compiled once. UUIDs go first so the phone pattern
// cannot latch onto the digit runs inside one.
var (
	redactUUIDRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	redactEmailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	redactPhoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

func redactPII(s string) string {
	if s == "" {
		return s
	}
	s = redactUUIDRE.ReplaceAllString(s, "[REDACTED:id]")
	s = redactEmailRE.ReplaceAllString(s, "[REDACTED:email]")
	s = redactPhoneRE.ReplaceAllString(s, "[REDACTED:phone]")
	return s
}

// RedactOptions configures additional scrub behavior for RedactingLogger.
//
// MaskHeaders lists extra header names whose values are replaced with
// "[REDACTED]" wholesale. Matching is case-insensitive and merged with the
// built-in sensitive set.
type RedactOptions struct {
	MaskHeaders []string
}

// RedactingLogger returns a Gin middleware that logs one structured line per
// request: method, path, scrubbed query, status, response size, latency,
// scrubbed headers, request id, and user id when authenticated. Severity is
// info for 2xx/3xx, warn for 4xx, error for 5xx.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	maskHeaders := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		// RequestID runs earlier in the stack, so the id is already set.
		rid := c.GetString(requestIDKey)
		scoped := log.With().
			Str("request_id", rid).
			Str("method", c.Request.Method).
			Logger()
		c.Set(loggerKey, &scoped)

		safeQuery := truncate(redactPII(c.Request.URL.RawQuery), maxQueryLogLength)
		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, masked := maskHeaders[strings.ToLower(k)]; masked {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = redactPII(strings.Join(vv, ", "))
		}

		c.Next()

		// Matched routes log the template (/api/v1/password-recovery/:email);
		// only unmatched requests fall back to the raw path, which may carry
		// an email or id and gets scrubbed.
		path := c.FullPath()
		if path == "" {
			path = redactPII(c.Request.URL.Path)
		}

		status := c.Writer.Status()
		reqID := c.Writer.Header().Get("X-Request-ID")
		if reqID == "" {
			reqID = c.GetHeader("X-Request-ID")
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		if uid := c.GetString(userIDKey); uid != "" {
			ev = ev.Str("user_id", uid)
		}

		ev.
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}
