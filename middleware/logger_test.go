package middleware

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficstars/routecore"
)

func TestLoggerWritesConfiguredFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig
	cfg.Output = &buf
	cfg.Format = "${method} ${path} ${status}\n"

	h := LoggerWithConfig(cfg)(okHandler)
	req := newReq(t, routecore.MethodGet, "")

	_, err := h(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "GET /a 200\n", buf.String())
}

func TestLoggerSkipperBypassesLogging(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig
	cfg.Output = &buf
	cfg.Skipper = func(*routecore.Request) bool { return true }

	h := LoggerWithConfig(cfg)(okHandler)
	req := newReq(t, routecore.MethodGet, "")

	_, err := h(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
