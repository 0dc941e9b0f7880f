package routecore

import "sync/atomic"

// Token is an opaque identity issued once per request and guaranteed unique
// for the request's lifetime. It anchors per-request typed state
// (ContextProperty) without requiring any shared mutable map keyed by the
// request pointer itself — the design notes call this out explicitly as the
// systems-language replacement for a per-request "expando" keyed by object
// identity.
type Token uint64

var tokenCounter atomic.Uint64

// NewToken allocates a fresh, process-unique request token.
func NewToken() Token {
	return Token(tokenCounter.Add(1))
}
