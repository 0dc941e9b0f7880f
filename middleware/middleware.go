// Package middleware adapts the teacher's curated middleware set (logger,
// recover, CORS, JWT auth) onto the routing core's Handler/Middleware
// model.
package middleware

import (
	"bytes"

	"github.com/trafficstars/routecore"
)

// Skipper decides whether a middleware should be bypassed for req, letting
// next run unmodified. Grounded on the teacher's own Skipper type used
// across its middleware package.
type Skipper func(req *routecore.Request) bool

// DefaultSkipper never skips.
func DefaultSkipper(*routecore.Request) bool { return false }

// writeJSONSafeString writes s to buf with JSON string-escaping applied to
// the handful of bytes that would otherwise break the Logger middleware's
// default JSON format.
func writeJSONSafeString(buf *bytes.Buffer, s string) (int, error) {
	start := buf.Len()
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteRune(r)
		}
	}
	return buf.Len() - start, nil
}
