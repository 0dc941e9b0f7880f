package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/trafficstars/routecore"
)

// CORSConfig defines the config for CORS middleware. Grounded on the
// teacher's own middleware/cors.go, generalized from echo.Context to this
// module's Handler/Request/Result model.
type CORSConfig struct {
	Skipper Skipper

	// AllowOrigins determines the value of the Access-Control-Allow-Origin
	// response header. Wildcard "*" must be set explicitly.
	AllowOrigins []string

	// UnsafeAllowOriginFunc, if set, overrides AllowOrigins entirely.
	UnsafeAllowOriginFunc func(req *routecore.Request, origin string) (allowedOrigin string, allowed bool, err error)

	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
	ExposeHeaders    []string
	MaxAge           int
}

// CORS returns a Cross-Origin Resource Sharing Middleware allowing the
// given origins.
func CORS(allowOrigins ...string) routecore.Middleware {
	mw, err := (CORSConfig{AllowOrigins: allowOrigins}).ToMiddleware()
	if err != nil {
		panic(err)
	}
	return mw
}

// CORSWithConfig returns a CORS Middleware from config, panicking on an
// invalid configuration (mirrors the teacher's own panicking convenience
// wrapper around ToMiddleware).
func CORSWithConfig(config CORSConfig) routecore.Middleware {
	mw, err := config.ToMiddleware()
	if err != nil {
		panic(err)
	}
	return mw
}

// ToMiddleware converts a CORSConfig into a Middleware, or returns an error
// for an invalid configuration (e.g. AllowCredentials with a "*" origin).
func (config CORSConfig) ToMiddleware() (routecore.Middleware, error) {
	if config.Skipper == nil {
		config.Skipper = DefaultSkipper
	}
	hasCustomAllowMethods := len(config.AllowMethods) > 0
	if !hasCustomAllowMethods {
		config.AllowMethods = []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete}
	}

	allowMethods := strings.Join(config.AllowMethods, ",")
	allowHeaders := strings.Join(config.AllowHeaders, ",")
	exposeHeaders := strings.Join(config.ExposeHeaders, ",")

	maxAge := "0"
	if config.MaxAge > 0 {
		maxAge = strconv.Itoa(config.MaxAge)
	}

	allowOriginFunc := config.UnsafeAllowOriginFunc
	if allowOriginFunc == nil {
		if len(config.AllowOrigins) == 0 {
			return nil, errors.New("at least one AllowOrigins is required or UnsafeAllowOriginFunc must be provided")
		}
		allowOriginFunc = config.defaultAllowOriginFunc
		for _, origin := range config.AllowOrigins {
			if origin == "*" {
				if config.AllowCredentials {
					return nil, fmt.Errorf("* as allowed origin and AllowCredentials=true is insecure and not allowed, use UnsafeAllowOriginFunc")
				}
				allowOriginFunc = config.starAllowOriginFunc
				break
			}
		}
		config.AllowOrigins = append([]string(nil), config.AllowOrigins...)
	}

	return func(next routecore.Handler) routecore.Handler {
		return func(ctx context.Context, req *routecore.Request) (routecore.Result, error) {
			if config.Skipper(req) {
				return next(ctx, req)
			}

			origin := req.Header().Get("Origin")
			preflight := req.Method() == routecore.MethodOptions
			routerAllowMethods := ""

			if origin == "" {
				if preflight {
					return noContent(), nil
				}
				return next(ctx, req)
			}

			allowedOrigin, allowed, err := allowOriginFunc(req, origin)
			if err != nil {
				return routecore.Result{}, err
			}
			if !allowed {
				if preflight {
					return noContent(), nil
				}
				return next(ctx, req)
			}

			if preflight {
				resp := noContentResponse()
				applyCORSHeaders(resp, allowedOrigin, config, allowMethods, allowHeaders, exposeHeaders, routerAllowMethods, hasCustomAllowMethods, maxAge, preflight)
				return routecore.NewResponseResult(resp), nil
			}

			result, err := next(ctx, req)
			if err != nil || result.Kind != routecore.ResultResponse || result.Response == nil {
				return result, err
			}

			applyCORSHeaders(result.Response, allowedOrigin, config, allowMethods, allowHeaders, exposeHeaders, routerAllowMethods, hasCustomAllowMethods, maxAge, preflight)
			return result, nil
		}
	}, nil
}

func applyCORSHeaders(resp *routecore.Response, allowedOrigin string, config CORSConfig, allowMethods, allowHeaders, exposeHeaders, routerAllowMethods string, hasCustomAllowMethods bool, maxAge string, preflight bool) {
	h := resp.Header()
	h.Add("Vary", "Origin")
	h.Set("Access-Control-Allow-Origin", allowedOrigin)
	if config.AllowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	if !preflight {
		if exposeHeaders != "" {
			h.Set("Access-Control-Expose-Headers", exposeHeaders)
		}
		return
	}
	h.Add("Vary", "Access-Control-Request-Method")
	h.Add("Vary", "Access-Control-Request-Headers")
	if !hasCustomAllowMethods && routerAllowMethods != "" {
		h.Set("Access-Control-Allow-Methods", routerAllowMethods)
	} else {
		h.Set("Access-Control-Allow-Methods", allowMethods)
	}
	if allowHeaders != "" {
		h.Set("Access-Control-Allow-Headers", allowHeaders)
	}
	if config.MaxAge != 0 {
		h.Set("Access-Control-Max-Age", maxAge)
	}
}

func noContentResponse() *routecore.Response {
	resp, err := routecore.NewResponse(http.StatusNoContent, nil, nil)
	if err != nil {
		panic(err)
	}
	return resp
}

func noContent() routecore.Result {
	return routecore.NewResponseResult(noContentResponse())
}

func (config CORSConfig) starAllowOriginFunc(req *routecore.Request, origin string) (string, bool, error) {
	return "*", true, nil
}

func (config CORSConfig) defaultAllowOriginFunc(req *routecore.Request, origin string) (string, bool, error) {
	for _, allowedOrigin := range config.AllowOrigins {
		if strings.EqualFold(allowedOrigin, origin) {
			return allowedOrigin, true, nil
		}
	}
	return "", false, nil
}
