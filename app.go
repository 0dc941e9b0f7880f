package routecore

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/trafficstars/routecore/engine"
)

// App binds a Router to a transport Adapter, translating between the
// adapter's wire-level Request/Response and the routing core's own
// immutable Request/Response/Handler model. Grounded on the teacher's own
// server.go, which played the same binding role between echo.Echo and
// engine.Server — generalized here so any engine.Adapter (not just the
// standard net/http one) can drive the same Router.
type App struct {
	router  *Router[Handler]
	adapter engine.Adapter
	logger  Logger
	drain   time.Duration
}

// NewApp constructs an App around router, to be served through adapter.
func NewApp(router *Router[Handler], adapter engine.Adapter, logger Logger) *App {
	if logger == nil {
		logger = NewLogger("routecore")
	}
	app := &App{router: router, adapter: adapter, logger: logger, drain: 15 * time.Second}
	adapter.SetLogger(logger)
	adapter.SetHandler(engine.HandlerFunc(app.serve))
	return app
}

// Router returns the App's Router, for registering routes before Run.
func (a *App) Router() *Router[Handler] { return a.router }

type drainable interface {
	SetDrainTimeout(time.Duration)
}

// SetDrainTimeout passes d on to adapters that support a drain timeout (like
// engine/standard.Server). Close itself does not wait for in-flight
// requests: it only calls the adapter's Stop, and the draining happens in
// the adapter's Start.
func (a *App) SetDrainTimeout(d time.Duration) {
	a.drain = d
	if da, ok := a.adapter.(drainable); ok {
		da.SetDrainTimeout(d)
	}
}

// Run starts the adapter and blocks until it stops serving or returns an
// error — mirroring the teacher's own StartConfig.start() + Echo.Run, which
// likewise blocked on engine.Server#Start.
func (a *App) Run() error {
	return a.adapter.Start()
}

// Close begins graceful shutdown of the adapter. Grounded on the teacher's
// gracefulShutdown(), which stopped accepting new connections and let
// in-flight ones finish; here the actual draining is delegated to the
// engine/standard adapter's tylerb/graceful-backed Start, and Close simply
// asks the adapter's listener to stop accepting.
func (a *App) Close(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- a.adapter.Stop() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// serve is the engine.HandlerFunc bound to the adapter: it translates the
// wire request, runs it through the router-as-handler, and writes the
// result back.
func (a *App) serve(ereq engine.Request, eres engine.Response) {
	req, err := translateRequest(ereq)
	if err != nil {
		writeError(eres, err)
		return
	}
	defer RoutingOutcomeProperty.Clear(req.Token())

	fallback := notFoundHandler
	if fb, ok := a.router.Fallback(); ok {
		fallback = fb
	}
	ctx := ereq.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	handler := RoutingMiddleware(a.router)(fallback)
	result, err := handler(ctx, req)
	if err != nil {
		writeError(eres, err)
		return
	}

	switch result.Kind {
	case ResultResponse:
		writeResponse(eres, result.Response)
	case ResultHijack:
		if result.Hijack != nil {
			if herr := result.Hijack(); herr != nil {
				a.logger.Errorf("hijack failed: %v", herr)
			}
		}
	case ResultWebSocketUpgrade:
		a.logger.Warnf("websocket upgrade requested but adapter does not support direct upgrade from App.serve; use the adapter's Upgrade method from within a handler instead")
		eres.WriteHeader(http.StatusNotImplemented)
	}
}

// notFoundHandler is the default innermost Handler the routing middleware
// falls back to when the router reports PathMiss and no Fallback (see
// Router.SetFallback) was configured — section 6's "404 Not Found only when
// the router's fallback handler is the default 'not found'".
func notFoundHandler(ctx context.Context, req *Request) (Result, error) {
	resp, err := TextResponse(http.StatusNotFound, "not found")
	if err != nil {
		return Result{}, err
	}
	return NewResponseResult(resp), nil
}

func translateRequest(ereq engine.Request) (*Request, error) {
	raw := ereq.Scheme() + "://" + ereq.Host() + ereq.URI()

	header := make(http.Header)
	if h := ereq.Header(); h != nil {
		h.Each(func(key string, values []string) {
			for _, v := range values {
				header.Add(key, v)
			}
		})
	}

	var body *Body
	if rc := ereq.Body(); rc != nil {
		body = NewBody(rc, nil, nil)
	}

	return NewRequest(Method(ereq.Method()), raw, "HTTP/1.1", header, body)
}

func writeResponse(eres engine.Response, resp *Response) {
	for key, values := range resp.Header() {
		for _, v := range values {
			eres.Header().Add(key, v)
		}
	}
	eres.WriteHeader(resp.Status())
	r, err := resp.Body().Read()
	if err != nil {
		return
	}
	defer r.Close()
	io.Copy(writerFunc(eres.Write), r)
}

func writeError(eres engine.Response, err error) {
	status := ResolveStatus(err)
	eres.WriteHeader(status)
	io.Copy(writerFunc(eres.Write), strings.NewReader(http.StatusText(status)))
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) { return f(b) }
