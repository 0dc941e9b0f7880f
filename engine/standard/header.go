package standard

import "net/http"

// Header adapts net/http.Header to engine.Header. Pooled and reset per
// request by Server, grounded on the teacher's own engine/standard/header.go
// pool-and-reset pattern.
type Header struct {
	http.Header
}

func (h *Header) reset(hdr http.Header) { h.Header = hdr }

func (h *Header) Add(key, val string) { h.Header.Add(key, val) }
func (h *Header) Del(key string)      { h.Header.Del(key) }
func (h *Header) Get(key string) string { return h.Header.Get(key) }
func (h *Header) Set(key, val string) { h.Header.Set(key, val) }

// Each implements engine.Header#Each over the underlying net/http.Header map.
func (h *Header) Each(fn func(key string, values []string)) {
	for key, values := range h.Header {
		fn(key, values)
	}
}
