package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficstars/routecore"
)

func okHandler(ctx context.Context, req *routecore.Request) (routecore.Result, error) {
	resp, err := routecore.TextResponse(http.StatusOK, "ok")
	if err != nil {
		return routecore.Result{}, err
	}
	return routecore.NewResponseResult(resp), nil
}

func newReq(t *testing.T, method routecore.Method, origin string) *routecore.Request {
	t.Helper()
	header := make(http.Header)
	if origin != "" {
		header.Set("Origin", origin)
	}
	req, err := routecore.NewRequest(method, "http://example.com/a", "HTTP/1.1", header, nil)
	require.NoError(t, err)
	return req
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	mw := CORS("https://allowed.example")
	h := mw(okHandler)

	req := newReq(t, routecore.MethodGet, "https://allowed.example")
	result, err := h(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, routecore.ResultResponse, result.Kind)
	assert.Equal(t, "https://allowed.example", result.Response.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWithoutOriginHeaderPassesThrough(t *testing.T) {
	mw := CORS("https://allowed.example")
	h := mw(okHandler)

	req := newReq(t, routecore.MethodGet, "")
	result, err := h(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, result.Response.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightRespondsNoContent(t *testing.T) {
	mw := CORS("https://allowed.example")
	h := mw(okHandler)

	req := newReq(t, routecore.MethodOptions, "https://allowed.example")
	result, err := h(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, result.Response.Status())
}

func TestCORSRejectsWildcardWithCredentials(t *testing.T) {
	_, err := (CORSConfig{AllowOrigins: []string{"*"}, AllowCredentials: true}).ToMiddleware()
	require.Error(t, err)
}
