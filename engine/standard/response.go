package standard

import (
	"bufio"
	"net"
	"net/http"

	"github.com/trafficstars/routecore/engine"
)

// Response adapts net/http.ResponseWriter to engine.Response, tracking
// whether headers have been committed and how many bytes have been written
// so the routing core's adapters can answer Committed()/Size() without the
// underlying ResponseWriter exposing either. Pooled and reset per request.
type Response struct {
	http.ResponseWriter
	header    *Header
	status    int
	size      int64
	committed bool
	adapter   *responseAdapter
}

func (r *Response) reset(w http.ResponseWriter, adapter *responseAdapter, h *Header) {
	r.ResponseWriter = w
	r.adapter = adapter
	r.header = h
	r.status = http.StatusOK
	r.size = 0
	r.committed = false
}

func (r *Response) Header() engine.Header { return r.header }

func (r *Response) WriteHeader(code int) {
	if r.committed {
		return
	}
	r.status = code
	r.ResponseWriter.WriteHeader(code)
	r.committed = true
}

func (r *Response) Write(b []byte) (int, error) {
	if !r.committed {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += int64(n)
	return n, err
}

func (r *Response) Status() int     { return r.status }
func (r *Response) Size() int64     { return r.size }
func (r *Response) Committed() bool { return r.committed }

// Hijack exposes the underlying connection through http.Hijacker, for
// protocols (raw TCP handoff) layered on the same listener. App.serve does
// not call it when a handler returns a Hijack result.
func (r *Response) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}

// responseAdapter presents Response back as a plain http.ResponseWriter, for
// WrapHandler/WrapMiddleware interop with ordinary net/http middleware.
type responseAdapter struct {
	response *Response
}

func (a *responseAdapter) reset(r *Response) { a.response = r }

func (a *responseAdapter) Header() http.Header        { return a.response.header.Header }
func (a *responseAdapter) Write(b []byte) (int, error) { return a.response.Write(b) }
func (a *responseAdapter) WriteHeader(code int)       { a.response.WriteHeader(code) }
