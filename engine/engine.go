// Package engine declares the adapter contract that decouples the routing
// core from any one concrete transport. The root routecore package depends
// only on this package; a concrete transport (see engine/standard)
// implements it without importing routecore, and routecore's App translates
// the adapter's wire-level requests into routecore.Request/Response, so the
// core never knows a net.Conn exists. Grounded on the teacher's own engine/engine.go split between
// engine (the contract) and engine/standard, engine/fasthttp (the
// implementations).
package engine

import (
	"context"
	"io"
	"net"
	"time"
)

type (
	// Type identifies a concrete Adapter implementation, for diagnostics.
	Type uint8

	// HandlerFunc adapts a plain function to the Handler interface.
	HandlerFunc func(Request, Response)

	// Handler is the transport-facing callback an Adapter invokes once per
	// incoming request. The App shell supplies one that translates Request
	// into a routecore.Request, runs the composed routing handler, and
	// writes the result back through Response.
	Handler interface {
		ServeRequest(Request, Response)
	}

	// Adapter is a running or startable server bound to one transport. Start
	// blocks until the adapter stops serving (or fails to start); Stop
	// begins an orderly shutdown by no longer accepting new connections,
	// and an adapter that supports graceful drain lets in-flight requests
	// finish within its own drain timeout.
	Adapter interface {
		SetHandler(Handler)
		SetLogger(Logger)
		Start() error
		Stop() error
	}

	// Logger is the minimal logging surface an Adapter needs; App binds this
	// to the routing core's own Logger (see logger.go).
	Logger interface {
		Printf(format string, args ...interface{})
	}

	// Request is the adapter's view of an inbound request, wide enough for
	// the standard-library and fasthttp-style adapters alike.
	//
	// Scheme/Host/IsTLS are reported directly by the adapter rather than read
	// off URL(): a server-side request's parsed URL carries neither scheme
	// nor host (net/http leaves both empty for a non-proxy request), so
	// reconstructing an absolute request URL needs the adapter's own view of
	// the connection, not the request line's URL.
	Request interface {
		Header() Header
		RemoteAddress() string
		Method() string
		URI() string
		URL() URL
		Scheme() string
		Host() string
		IsTLS() bool
		Body() io.ReadCloser
		FormValue(string) string

		// Context returns the request's cancellation context, so peer
		// disconnects surface to handlers instead of being swallowed at the
		// App shell boundary.
		Context() context.Context
	}

	// Response is the adapter's view of the outbound response writer.
	Response interface {
		Header() Header
		WriteHeader(int)
		Write(b []byte) (int, error)
		Status() int
		Size() int64
		Committed() bool
	}

	// Header is a transport-agnostic view over request/response headers.
	Header interface {
		Add(string, string)
		Del(string)
		Get(string) string
		Set(string, string)

		// Each calls fn once per key with all of that key's values, so a
		// caller can enumerate the full header set instead of probing it
		// key by key — needed to copy a request's headers wholesale into
		// the routing core's own Request without the adapter leaking its
		// concrete type.
		Each(fn func(key string, values []string))
	}

	// URL is a transport-agnostic view over a request URL.
	URL interface {
		Scheme() string
		SetPath(string)
		Path() string
		Host() string
		QueryValue(string) string
	}

	// Config is the set of knobs common to every Adapter implementation.
	Config struct {
		Address      string
		Listener     net.Listener
		TLSCertFile  string
		TLSKeyFile   string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		DisableHTTP2 bool
	}
)

const (
	Standard Type = iota
	FastHTTP
)

func (f HandlerFunc) ServeRequest(req Request, res Response) { f(req, res) }
