package routecore

import "context"

// ResultKind discriminates the three shapes a Handler may produce. Modeled
// as a tagged struct rather than an interface hierarchy (Response, Hijack,
// WebSocketUpgrade are not substitutable for one another; there is no
// meaningful polymorphic method between them), per the design notes'
// instruction to avoid inheritance for this sum type.
type ResultKind uint8

const (
	ResultResponse ResultKind = iota
	ResultHijack
	ResultWebSocketUpgrade
)

// HijackFunc is the callback of a Hijack result. App.serve calls it with no
// arguments after the handler returns and writes no response of its own;
// the function is not handed the transport connection, and the adapter
// keeps managing that connection. Grounded on the teacher's
// own engine.Request/Response Hijacker-style escape hatch for non-HTTP
// protocols layered on the same listener.
type HijackFunc func() error

// WebSocketUpgrade describes a request that wants to switch protocols.
// Subprotocol may be empty. App.serve does not perform the handshake for
// this result: it logs a warning and answers 501 Not Implemented, and no
// adapter in this module calls Accept. engine/standard.Server.Upgrade
// performs a gorilla/websocket handshake for a caller that holds the
// net/http ResponseWriter and Request.
type WebSocketUpgrade struct {
	Subprotocol string
	Accept      func(conn interface{}) error
}

// Result is the outcome of running a Handler: exactly one of Response,
// Hijack, or Upgrade is meaningful, selected by Kind.
type Result struct {
	Kind     ResultKind
	Response *Response
	Hijack   HijackFunc
	Upgrade  *WebSocketUpgrade
}

// NewResponseResult wraps a Response as a Result.
func NewResponseResult(r *Response) Result { return Result{Kind: ResultResponse, Response: r} }

// NewHijackResult wraps a HijackFunc as a Result.
func NewHijackResult(h HijackFunc) Result { return Result{Kind: ResultHijack, Hijack: h} }

// NewWebSocketResult wraps a WebSocketUpgrade as a Result.
func NewWebSocketResult(u *WebSocketUpgrade) Result {
	return Result{Kind: ResultWebSocketUpgrade, Upgrade: u}
}

// Handler is a pure function from a Request (plus a context.Context for
// cancellation/deadlines, following the teacher's net/http-idiomatic use of
// context for blocking operations) to a Result.
type Handler func(ctx context.Context, req *Request) (Result, error)

// Middleware wraps a Handler to produce a new Handler. Composition is
// outermost-first on the way in: Compose(a, b, c)(h) == a(b(c(h))), so a is
// the first to see the request and the last to see the result on the way
// back out.
type Middleware func(next Handler) Handler

// Compose builds a single Handler by wrapping inner with each middleware in
// mw, applied so that mw[0] is outermost (registration order on the way in,
// reverse order on the way out) — matching the teacher's own
// middleware-chaining order in Group/Use.
func Compose(inner Handler, mw ...Middleware) Handler {
	h := inner
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// RoutingOutcome is recorded as a ContextProperty by the routing middleware
// so downstream handlers/middleware can introspect how the request was
// routed (matched pattern, path parameters) without re-running the lookup.
type RoutingOutcome struct {
	Pattern    string
	Parameters map[string]string
	Matched    NormalizedPath
	Remaining  NormalizedPath
}

// RoutingOutcomeProperty is the well-known ContextProperty the routing
// middleware populates on every matched request.
var RoutingOutcomeProperty = NewContextProperty[RoutingOutcome]()

// RoutingMiddleware builds the routing core's own middleware: given a
// Router of Handler values, it normalizes the incoming request path
// (reusing the router's own cache), performs a lookup, and either:
//
//   - PathMiss: delegates to next unchanged, so a routing middleware can be
//     stacked in front of a further fallback chain (e.g. static file
//     serving) without the router having the final word on 404.
//   - MethodMiss: responds 405 with the precomputed Allow header, without
//     calling next.
//   - InvalidPath (raw path fails to normalize): responds 400 directly,
//     distinguished from a genuine PathMiss by normalizing ourselves before
//     ever calling into the router — mirrors the router's own two-lookup-API
//     split (Lookup vs LookupNormalized).
//   - Match: records a RoutingOutcome, composes the route's own middleware
//     around its Handler value, and invokes it.
//
// This is the routing core's realization of section 4.6's "routing
// middleware" algorithm, grounded on the teacher's own echo.ServeHTTP
// dispatch loop (normalize once, look up once, run middleware chain).
func RoutingMiddleware(router *Router[Handler]) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (Result, error) {
			path, err := router.Cache().Normalize(req.Path())
			if err != nil {
				resp, rerr := TextResponse(400, "invalid path")
				if rerr != nil {
					return Result{}, rerr
				}
				return NewResponseResult(resp), nil
			}

			result := router.LookupNormalized(req.Method(), path, true)
			switch result.Kind {
			case LookupPathMiss:
				return next(ctx, req)

			case LookupMethodMiss:
				resp, rerr := TextResponse(405, "method not allowed")
				if rerr != nil {
					return Result{}, rerr
				}
				resp.Header().Set("Allow", result.AllowHeader)
				return NewResponseResult(resp), nil

			case LookupMatch:
				RoutingOutcomeProperty.Set(req.Token(), RoutingOutcome{
					Pattern:    result.Pattern,
					Parameters: result.Parameters,
					Matched:    result.Matched,
					Remaining:  result.Remaining,
				})
				h := Compose(result.Value, result.Middleware...)
				return h(ctx, req)

			default:
				return next(ctx, req)
			}
		}
	}
}

// Recover is a Middleware that converts a handler panic into a 500
// HandlerError result instead of letting it escape to the adapter.
// Grounded on the teacher's middleware/recover.go, generalized from the
// teacher's echo.Context-based signature to this module's Handler shape.
func Recover() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (result Result, err error) {
			defer func() {
				if r := recover(); r != nil {
					var cause error
					if e, ok := r.(error); ok {
						cause = e
					} else {
						cause = HandlerError(nil)
					}
					err = HandlerError(cause)
					result = Result{}
				}
			}()
			return next(ctx, req)
		}
	}
}
