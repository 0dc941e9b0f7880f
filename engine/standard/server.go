// Package standard implements the engine.Adapter contract on top of
// net/http, net.Listener pooling and graceful shutdown, grounded on the
// teacher's own engine/standard/server.go.
package standard

import (
	"crypto/tls"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/facebookgo/grace/gracehttp"
	"github.com/gorilla/websocket"
	"github.com/tylerb/graceful"

	"github.com/trafficstars/routecore/engine"
)

type (
	// Server implements engine.Adapter over net/http.
	Server struct {
		*http.Server
		config   engine.Config
		handler  engine.Handler
		logger   engine.Logger
		pool     *pool
		upgrader websocket.Upgrader
		drain    time.Duration
	}

	pool struct {
		request         sync.Pool
		response        sync.Pool
		responseAdapter sync.Pool
		header          sync.Pool
		url             sync.Pool
	}
)

// New returns a Server listening on addr.
func New(addr string) *Server {
	return WithConfig(engine.Config{Address: addr})
}

// WithTLS returns a Server configured for TLS.
func WithTLS(addr, certFile, keyFile string) *Server {
	return WithConfig(engine.Config{Address: addr, TLSCertFile: certFile, TLSKeyFile: keyFile})
}

// WithConfig returns a Server built from an explicit engine.Config.
func WithConfig(c engine.Config) (s *Server) {
	s = &Server{
		Server: new(http.Server),
		config: c,
		drain:  15 * time.Second,
		pool: &pool{
			request:         sync.Pool{New: func() interface{} { return &Request{} }},
			response:        sync.Pool{New: func() interface{} { return &Response{} }},
			responseAdapter: sync.Pool{New: func() interface{} { return &responseAdapter{} }},
			header:          sync.Pool{New: func() interface{} { return &Header{} }},
			url:             sync.Pool{New: func() interface{} { return &URL{} }},
		},
		handler: engine.HandlerFunc(func(req engine.Request, res engine.Response) {
			panic("standard: handler not set, call Server.SetHandler first")
		}),
		upgrader: websocket.Upgrader{},
	}
	s.ReadTimeout = c.ReadTimeout
	s.WriteTimeout = c.WriteTimeout
	s.Addr = c.Address
	s.Handler = s
	return
}

// SetHandler implements engine.Adapter.
func (s *Server) SetHandler(h engine.Handler) { s.handler = h }

// SetLogger implements engine.Adapter.
func (s *Server) SetLogger(l engine.Logger) { s.logger = l }

// SetDrainTimeout sets how long Start lets in-flight requests finish, once
// Stop has closed the listener, before forcing connections closed. Start
// reads it when it begins serving, so a later call does not affect a server
// that is already running.
func (s *Server) SetDrainTimeout(d time.Duration) { s.drain = d }

func (s *Server) listener() (net.Listener, error) {
	if s.config.Listener != nil {
		return s.config.Listener, nil
	}
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return nil, err
	}
	wrapped := tcpKeepAliveListener{ln.(*net.TCPListener)}
	if s.config.TLSCertFile != "" && s.config.TLSKeyFile != "" {
		cfg := &tls.Config{}
		if !s.config.DisableHTTP2 {
			cfg.NextProtos = append(cfg.NextProtos, "h2")
		}
		cert, err := tls.LoadX509KeyPair(s.config.TLSCertFile, s.config.TLSKeyFile)
		if err != nil {
			return nil, err
		}
		cfg.Certificates = []tls.Certificate{cert}
		s.config.Listener = tls.NewListener(wrapped, cfg)
		return s.config.Listener, nil
	}
	s.config.Listener = wrapped
	return s.config.Listener, nil
}

// Start implements engine.Adapter: it serves until Stop is called or the
// listener fails, draining in-flight requests for s.drain on shutdown. This
// is the tylerb/graceful-backed single-process path; see StartGrace for the
// facebookgo/grace socket-inheriting multi-worker path used for zero
// downtime binary upgrades.
func (s *Server) Start() error {
	ln, err := s.listener()
	if err != nil {
		return err
	}
	gs := &graceful.Server{Server: s.Server, Timeout: s.drain}
	return gs.Serve(ln)
}

// StartGrace runs the server under facebookgo/grace's gracehttp, which
// inherits listening sockets across a binary restart (SIGUSR2) instead of
// closing and reopening them, so no connection is ever refused during a
// deploy. Intended for the multi-worker/zero-downtime-restart deployment
// mode; single-process embedding should use Start instead.
func (s *Server) StartGrace() error {
	return gracehttp.Serve(s.Server)
}

// Stop implements engine.Adapter.
func (s *Server) Stop() error {
	if s.config.Listener == nil {
		return nil
	}
	return s.config.Listener.Close()
}

// ServeHTTP implements http.Handler, translating the pooled adapter values
// into the engine.Handler callback.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := s.pool.request.Get().(*Request)
	reqHdr := s.pool.header.Get().(*Header)
	reqURL := s.pool.url.Get().(*URL)
	reqHdr.reset(r.Header)
	reqURL.reset(r.URL)
	req.reset(r, reqHdr, reqURL)

	res := s.pool.response.Get().(*Response)
	resAdpt := s.pool.responseAdapter.Get().(*responseAdapter)
	resHdr := s.pool.header.Get().(*Header)
	resHdr.reset(w.Header())
	res.reset(w, resAdpt, resHdr)
	resAdpt.reset(res)

	s.handler.ServeRequest(req, res)

	s.pool.request.Put(req)
	s.pool.header.Put(reqHdr)
	s.pool.url.Put(reqURL)
	s.pool.response.Put(res)
	s.pool.header.Put(resHdr)
	s.pool.responseAdapter.Put(resAdpt)
}

// Upgrade promotes the connection behind w/r to a WebSocket connection,
// wiring the routing core's WebSocketUpgrade result to gorilla/websocket.
func (s *Server) Upgrade(w http.ResponseWriter, r *http.Request, subprotocol string) (*websocket.Conn, error) {
	header := http.Header{}
	if subprotocol != "" {
		header.Set("Sec-WebSocket-Protocol", subprotocol)
	}
	return s.upgrader.Upgrade(w, r, header)
}

// WrapHandler adapts a plain http.Handler to engine.Handler, for embedding
// ordinary net/http handlers (e.g. a static file server) behind the routing
// core's own fallback chain.
func WrapHandler(h http.Handler) engine.HandlerFunc {
	return func(req engine.Request, res engine.Response) {
		r, ok1 := req.(*Request)
		w, ok2 := res.(*Response)
		if !ok1 || !ok2 {
			return
		}
		h.ServeHTTP(w.adapter, r.Request)
	}
}

// tcpKeepAliveListener sets TCP keep-alive timeouts on accepted
// connections, so dead connections (e.g. a closed laptop lid mid-download)
// eventually go away instead of pinning a goroutine forever.
type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (c net.Conn, err error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return
	}
	tc.SetKeepAlive(true)
	tc.SetKeepAlivePeriod(3 * time.Minute)
	return tc, nil
}
