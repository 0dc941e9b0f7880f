package standard

import "net/url"

// URL adapts net/url.URL to engine.URL, pooled and reset per request.
type URL struct {
	*url.URL
}

func (u *URL) reset(raw *url.URL) { u.URL = raw }

func (u *URL) Scheme() string { return u.URL.Scheme }
func (u *URL) SetPath(p string) { u.URL.Path = p }
func (u *URL) Path() string { return u.URL.Path }
func (u *URL) Host() string { return u.URL.Host }
func (u *URL) QueryValue(name string) string { return u.URL.Query().Get(name) }
