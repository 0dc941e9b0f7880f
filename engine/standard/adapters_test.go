package standard

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderAdapter(t *testing.T) {
	raw := make(http.Header)
	h := &Header{}
	h.reset(raw)
	h.Set("X-Test", "1")
	assert.Equal(t, "1", h.Get("X-Test"))
	h.Add("X-Test", "2")
	h.Del("X-Test")
	assert.Empty(t, h.Get("X-Test"))
}

func TestHeaderAdapterEachEnumeratesAllValues(t *testing.T) {
	raw := make(http.Header)
	raw.Add("X-Multi", "a")
	raw.Add("X-Multi", "b")
	raw.Set("X-Single", "c")
	h := &Header{}
	h.reset(raw)

	seen := map[string][]string{}
	h.Each(func(key string, values []string) {
		seen[key] = values
	})

	assert.ElementsMatch(t, []string{"a", "b"}, seen["X-Multi"])
	assert.Equal(t, []string{"c"}, seen["X-Single"])
}

func TestRequestAdapterContextDelegatesToHTTPRequest(t *testing.T) {
	httpReq := httptest.NewRequest(http.MethodGet, "http://example.com/a", nil)
	r := &Request{}
	r.reset(httpReq, &Header{}, &URL{})
	assert.Equal(t, httpReq.Context(), r.Context())
}

func TestURLAdapter(t *testing.T) {
	raw, err := url.Parse("http://example.com/a/b?x=1")
	assert.NoError(t, err)
	u := &URL{}
	u.reset(raw)
	assert.Equal(t, "http", u.Scheme())
	assert.Equal(t, "/a/b", u.Path())
	assert.Equal(t, "example.com", u.Host())
	assert.Equal(t, "1", u.QueryValue("x"))
	u.SetPath("/c")
	assert.Equal(t, "/c", u.Path())
}
