package routecore

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficstars/routecore/engine"
)

type fakeHeader struct{ h http.Header }

func (f *fakeHeader) Add(k, v string) { f.h.Add(k, v) }
func (f *fakeHeader) Del(k string)    { f.h.Del(k) }
func (f *fakeHeader) Get(k string) string { return f.h.Get(k) }
func (f *fakeHeader) Set(k, v string) { f.h.Set(k, v) }
func (f *fakeHeader) Each(fn func(key string, values []string)) {
	for k, v := range f.h {
		fn(k, v)
	}
}

type fakeURL struct{ u *url.URL }

func (f *fakeURL) Scheme() string          { return f.u.Scheme }
func (f *fakeURL) SetPath(p string)        { f.u.Path = p }
func (f *fakeURL) Path() string            { return f.u.Path }
func (f *fakeURL) Host() string            { return f.u.Host }
func (f *fakeURL) QueryValue(n string) string { return f.u.Query().Get(n) }

type fakeRequest struct {
	method string
	uri    string
	url    *fakeURL
	header *fakeHeader
	body   io.ReadCloser
	ctx    context.Context
}

func (r *fakeRequest) Header() engine.Header      { return r.header }
func (r *fakeRequest) RemoteAddress() string      { return "127.0.0.1" }
func (r *fakeRequest) Method() string              { return r.method }
func (r *fakeRequest) URI() string                 { return r.uri }
func (r *fakeRequest) URL() engine.URL             { return r.url }
func (r *fakeRequest) Scheme() string              { return r.url.Scheme() }
func (r *fakeRequest) Host() string                { return r.url.Host() }
func (r *fakeRequest) IsTLS() bool                 { return false }
func (r *fakeRequest) Body() io.ReadCloser         { return r.body }
func (r *fakeRequest) FormValue(string) string     { return "" }
func (r *fakeRequest) Context() context.Context {
	if r.ctx != nil {
		return r.ctx
	}
	return context.Background()
}

type fakeResponse struct {
	header    *fakeHeader
	status    int
	buf       bytes.Buffer
	committed bool
}

func (r *fakeResponse) Header() engine.Header { return r.header }
func (r *fakeResponse) WriteHeader(code int)  { r.status = code; r.committed = true }
func (r *fakeResponse) Write(b []byte) (int, error) { return r.buf.Write(b) }
func (r *fakeResponse) Status() int           { return r.status }
func (r *fakeResponse) Size() int64           { return int64(r.buf.Len()) }
func (r *fakeResponse) Committed() bool       { return r.committed }

type fakeAdapter struct {
	handler engine.Handler
	logger  engine.Logger
}

func (a *fakeAdapter) SetHandler(h engine.Handler) { a.handler = h }
func (a *fakeAdapter) SetLogger(l engine.Logger)   { a.logger = l }
func (a *fakeAdapter) Start() error                { return nil }
func (a *fakeAdapter) Stop() error                 { return nil }

func TestAppServesMatchedRoute(t *testing.T) {
	router := New[Handler]()
	_, err := router.Add(MethodGet, "/hello/:name", func(ctx context.Context, req *Request) (Result, error) {
		outcome, _ := RoutingOutcomeProperty.Get(req.Token())
		resp, err := TextResponse(http.StatusOK, "hi "+outcome.Parameters["name"])
		if err != nil {
			return Result{}, err
		}
		return NewResponseResult(resp), nil
	})
	require.NoError(t, err)

	adapter := &fakeAdapter{}
	app := NewApp(router, adapter, nil)
	_ = app

	u, _ := url.Parse("http://example.com/hello/world")
	req := &fakeRequest{
		method: "GET",
		uri:    "/hello/world",
		url:    &fakeURL{u: u},
		header: &fakeHeader{h: make(http.Header)},
		body:   io.NopCloser(bytes.NewReader(nil)),
	}
	res := &fakeResponse{header: &fakeHeader{h: make(http.Header)}}

	adapter.handler.ServeRequest(req, res)

	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "hi world", res.buf.String())
}

func TestAppServesNotFoundForUnmatchedRoute(t *testing.T) {
	router := New[Handler]()
	adapter := &fakeAdapter{}
	NewApp(router, adapter, nil)

	u, _ := url.Parse("http://example.com/missing")
	req := &fakeRequest{
		method: "GET",
		uri:    "/missing",
		url:    &fakeURL{u: u},
		header: &fakeHeader{h: make(http.Header)},
		body:   io.NopCloser(bytes.NewReader(nil)),
	}
	res := &fakeResponse{header: &fakeHeader{h: make(http.Header)}}

	adapter.handler.ServeRequest(req, res)
	assert.Equal(t, http.StatusNotFound, res.status)
}

// TestAppCopiesRequestHeaders guards against translateRequest silently
// dropping the inbound header set: CORS (Origin) and JWT auth
// (Authorization) both depend on routecore.Request.Header() reflecting what
// the adapter actually received.
func TestAppCopiesRequestHeaders(t *testing.T) {
	router := New[Handler]()
	_, err := router.Add(MethodGet, "/echo", func(ctx context.Context, req *Request) (Result, error) {
		resp, err := TextResponse(http.StatusOK, req.Header().Get("Authorization")+"|"+req.Header().Get("Origin"))
		if err != nil {
			return Result{}, err
		}
		return NewResponseResult(resp), nil
	})
	require.NoError(t, err)

	adapter := &fakeAdapter{}
	NewApp(router, adapter, nil)

	u, _ := url.Parse("http://example.com/echo")
	header := &fakeHeader{h: make(http.Header)}
	header.Set("Authorization", "Bearer xyz")
	header.Set("Origin", "https://example.org")
	req := &fakeRequest{
		method: "GET",
		uri:    "/echo",
		url:    &fakeURL{u: u},
		header: header,
		body:   io.NopCloser(bytes.NewReader(nil)),
	}
	res := &fakeResponse{header: &fakeHeader{h: make(http.Header)}}

	adapter.handler.ServeRequest(req, res)

	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Bearer xyz|https://example.org", res.buf.String())
}

// TestAppThreadsRequestContext guards against App.serve discarding the
// adapter request's own context, which would make peer-disconnect
// cancellation unobservable to handlers.
func TestAppThreadsRequestContext(t *testing.T) {
	router := New[Handler]()
	var sawCanceled bool
	_, err := router.Add(MethodGet, "/ctx", func(ctx context.Context, req *Request) (Result, error) {
		<-ctx.Done()
		sawCanceled = true
		resp, err := TextResponse(http.StatusOK, "done")
		if err != nil {
			return Result{}, err
		}
		return NewResponseResult(resp), nil
	})
	require.NoError(t, err)

	adapter := &fakeAdapter{}
	NewApp(router, adapter, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u, _ := url.Parse("http://example.com/ctx")
	req := &fakeRequest{
		method: "GET",
		uri:    "/ctx",
		url:    &fakeURL{u: u},
		header: &fakeHeader{h: make(http.Header)},
		body:   io.NopCloser(bytes.NewReader(nil)),
		ctx:    ctx,
	}
	res := &fakeResponse{header: &fakeHeader{h: make(http.Header)}}

	adapter.handler.ServeRequest(req, res)

	assert.True(t, sawCanceled)
	assert.Equal(t, http.StatusOK, res.status)
}
