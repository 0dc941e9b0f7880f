package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime"

	glog "github.com/labstack/gommon/log"

	"github.com/trafficstars/routecore"
)

// LogErrorFunc customizes how Recover logs a recovered panic.
type LogErrorFunc func(req *routecore.Request, err error, stack []byte)

// RecoverConfig defines the config for the Recover middleware.
type RecoverConfig struct {
	Skipper           Skipper
	StackSize         int
	DisableStackAll   bool
	DisablePrintStack bool
	LogLevel          glog.Lvl
	LogErrorFunc      LogErrorFunc
	Logger            routecore.Logger
}

// DefaultRecoverConfig is the default Recover middleware config.
var DefaultRecoverConfig = RecoverConfig{
	Skipper:   DefaultSkipper,
	StackSize: 4 << 10,
}

// Recover returns a Middleware that turns a handler panic into a 500
// HandlerError result and logs the recovered value plus a stack trace.
// Generalized from the teacher's own middleware/recover.go, which handed
// the recovered error to echo's centralized HTTPErrorHandler; here it is
// returned as the Handler's error, to be resolved the same way any other
// HandlerError is (see errors.go's ResolveStatus).
func Recover() routecore.Middleware {
	return RecoverWithConfig(DefaultRecoverConfig)
}

// RecoverWithConfig returns a Recover Middleware built from config.
func RecoverWithConfig(config RecoverConfig) routecore.Middleware {
	if config.Skipper == nil {
		config.Skipper = DefaultRecoverConfig.Skipper
	}
	if config.StackSize == 0 {
		config.StackSize = DefaultRecoverConfig.StackSize
	}
	logger := config.Logger
	if logger == nil {
		logger = routecore.NewLogger("recover")
	}

	return func(next routecore.Handler) routecore.Handler {
		return func(ctx context.Context, req *routecore.Request) (result routecore.Result, returnErr error) {
			if config.Skipper(req) {
				return next(ctx, req)
			}

			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}

				var stack []byte
				if !config.DisablePrintStack {
					buf := make([]byte, config.StackSize)
					n := runtime.Stack(buf, !config.DisableStackAll)
					stack = buf[:n]
				}

				if config.LogErrorFunc != nil {
					config.LogErrorFunc(req, err, stack)
				} else if !config.DisablePrintStack {
					msg := fmt.Sprintf("[PANIC RECOVER] %v %s\n", err, stack)
					switch config.LogLevel {
					case glog.DEBUG:
						logger.Debug(msg)
					case glog.INFO:
						logger.Info(msg)
					case glog.WARN:
						logger.Warn(msg)
					case glog.ERROR:
						logger.Error(msg)
					case glog.OFF:
					default:
						logger.Printf(msg)
					}
				}

				result = routecore.Result{}
				returnErr = routecore.HandlerError(err)
			}()

			return next(ctx, req)
		}
	}
}
