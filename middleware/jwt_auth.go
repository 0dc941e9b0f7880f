package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dgrijalva/jwt-go"

	"github.com/trafficstars/routecore"
)

type (
	// JWTAuthConfig defines the config for JWT auth middleware.
	JWTAuthConfig struct {
		// SigningKey is the key to validate token. Required.
		SigningKey []byte

		// SigningMethod is used to check token signing method. Optional,
		// with default value as `HS256`.
		SigningMethod string

		// Extractor is a function that extracts the raw token string from
		// the request. Optional, with default value JWTFromHeader.
		Extractor JWTExtractor
	}

	// JWTExtractor takes a Request and returns either a token or an error.
	JWTExtractor func(*routecore.Request) (string, error)
)

const bearer = "Bearer"

// Algorithms
const AlgorithmHS256 = "HS256"

// DefaultJWTAuthConfig is the default JWT auth middleware config.
var DefaultJWTAuthConfig = JWTAuthConfig{
	SigningMethod: AlgorithmHS256,
	Extractor:     JWTFromHeader,
}

// ClaimsProperty is the well-known ContextProperty JWTAuth populates with
// the validated *jwt.Token, so downstream handlers can read claims without
// re-parsing the bearer token.
var ClaimsProperty = routecore.NewContextProperty[*jwt.Token]()

// JWTAuth returns a JSON Web Token (JWT) auth Middleware.
//
// For a valid token, it stores the parsed token under ClaimsProperty and
// calls next. For an invalid token, it responds 401. For an empty or
// malformed Authorization header, it responds 400.
//
// Generalized from the teacher's own middleware/jwt_auth.go, which wrote
// the token into an echo.Context string-keyed store instead of a typed
// ContextProperty.
//
// See https://jwt.io/introduction
func JWTAuth(key []byte) routecore.Middleware {
	c := DefaultJWTAuthConfig
	c.SigningKey = key
	return JWTAuthWithConfig(c)
}

// JWTAuthWithConfig returns a JWT auth Middleware from config. See JWTAuth.
func JWTAuthWithConfig(config JWTAuthConfig) routecore.Middleware {
	if config.SigningKey == nil {
		panic("jwt middleware requires signing key")
	}
	if config.SigningMethod == "" {
		config.SigningMethod = DefaultJWTAuthConfig.SigningMethod
	}
	if config.Extractor == nil {
		config.Extractor = DefaultJWTAuthConfig.Extractor
	}

	return func(next routecore.Handler) routecore.Handler {
		return func(ctx context.Context, req *routecore.Request) (routecore.Result, error) {
			auth, err := config.Extractor(req)
			if err != nil {
				resp, rerr := routecore.TextResponse(http.StatusBadRequest, err.Error())
				if rerr != nil {
					return routecore.Result{}, rerr
				}
				return routecore.NewResponseResult(resp), nil
			}

			token, err := jwt.Parse(auth, func(t *jwt.Token) (interface{}, error) {
				if t.Method.Alg() != config.SigningMethod {
					return nil, fmt.Errorf("unexpected jwt signing method=%v", t.Header["alg"])
				}
				return config.SigningKey, nil
			})
			if err != nil || !token.Valid {
				resp, rerr := routecore.TextResponse(http.StatusUnauthorized, "invalid or expired token")
				if rerr != nil {
					return routecore.Result{}, rerr
				}
				return routecore.NewResponseResult(resp), nil
			}

			ClaimsProperty.Set(req.Token(), token)
			defer ClaimsProperty.Clear(req.Token())
			return next(ctx, req)
		}
	}
}

// JWTFromHeader is a JWTExtractor that extracts the bearer token from the
// Authorization request header.
func JWTFromHeader(req *routecore.Request) (string, error) {
	auth := req.Header().Get("Authorization")
	l := len(bearer)
	if len(auth) > l+1 && auth[:l] == bearer {
		return auth[l+1:], nil
	}
	return "", fmt.Errorf("empty or invalid authorization header=%s", auth)
}

// JWTFromQuery returns a JWTExtractor that extracts the token from the
// named query parameter.
func JWTFromQuery(param string) JWTExtractor {
	return func(req *routecore.Request) (string, error) {
		return req.URL().Query().Get(param), nil
	}
}
