package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficstars/routecore"
)

func TestRecoverConvertsPanicToError(t *testing.T) {
	panicky := func(ctx context.Context, req *routecore.Request) (routecore.Result, error) {
		panic("kaboom")
	}
	h := Recover()(panicky)
	req := newReq(t, routecore.MethodGet, "")

	_, err := h(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestRecoverSkipperBypassesPanicHandling(t *testing.T) {
	cfg := DefaultRecoverConfig
	cfg.Skipper = func(*routecore.Request) bool { return true }
	panicky := func(ctx context.Context, req *routecore.Request) (routecore.Result, error) {
		panic("kaboom")
	}
	h := RecoverWithConfig(cfg)(panicky)
	req := newReq(t, routecore.MethodGet, "")

	assert.Panics(t, func() {
		h(context.Background(), req)
	})
}
