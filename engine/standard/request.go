package standard

import (
	"context"
	"io"
	"net/http"

	"github.com/trafficstars/routecore/engine"
)

// Request adapts *net/http.Request to engine.Request, pooled and reset per
// request by Server.
type Request struct {
	*http.Request
	header *Header
	url    *URL
}

func (r *Request) reset(req *http.Request, h *Header, u *URL) {
	r.Request = req
	r.header = h
	r.url = u
}

func (r *Request) Header() engine.Header    { return r.header }
func (r *Request) URL() engine.URL          { return r.url }
func (r *Request) RemoteAddress() string    { return r.Request.RemoteAddr }
func (r *Request) Method() string           { return r.Request.Method }
func (r *Request) URI() string              { return r.Request.RequestURI }
func (r *Request) Body() io.ReadCloser      { return r.Request.Body }
func (r *Request) FormValue(name string) string {
	return r.Request.FormValue(name)
}

// IsTLS reports whether the connection this request arrived on is TLS.
func (r *Request) IsTLS() bool { return r.Request.TLS != nil }

// Scheme implements engine.Request#Scheme. Grounded on the teacher's own
// engine/standard/request.go Scheme(): r.Request.URL.Scheme can't be used
// here, since net/http leaves it empty for a non-proxy server request.
func (r *Request) Scheme() string {
	if r.IsTLS() {
		return "https"
	}
	return "http"
}

// Host implements engine.Request#Host.
func (r *Request) Host() string { return r.Request.Host }

// Context implements engine.Request#Context, delegating to the underlying
// *http.Request so a peer disconnect cancels everything downstream.
func (r *Request) Context() context.Context { return r.Request.Context() }
