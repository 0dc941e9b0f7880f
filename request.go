package routecore

import (
	"net/http"
	"net/url"
)

// Request is an immutable request value, sharing its token and Body with any
// value produced by CopyWith. Construction validates that the URL is
// absolute, has no fragment, and parses without error.
type Request struct {
	method   Method
	url      *url.URL
	protocol string
	header   http.Header
	body     *Body
	token    Token
}

// NewRequest constructs a Request, validating the URL per section 4.5:
// rejects a non-absolute URL, a URL carrying a fragment, or one with
// syntactically invalid components.
func NewRequest(method Method, rawURL, protocol string, header http.Header, body *Body) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errInvalidPath("request URL does not parse", err)
	}
	if !u.IsAbs() {
		return nil, errInvalidPath("request URL must be absolute", nil)
	}
	if u.Fragment != "" {
		return nil, errInvalidPath("request URL must not carry a fragment", nil)
	}
	if header == nil {
		header = make(http.Header)
	}
	if body == nil {
		body = Empty()
	}
	return &Request{
		method:   method,
		url:      u,
		protocol: protocol,
		header:   header,
		body:     body,
		token:    NewToken(),
	}, nil
}

func (r *Request) Method() Method       { return r.method }
func (r *Request) URL() *url.URL        { return r.url }
func (r *Request) Protocol() string     { return r.protocol }
func (r *Request) Header() http.Header  { return r.header }
func (r *Request) Body() *Body          { return r.body }
func (r *Request) Token() Token         { return r.token }
func (r *Request) Path() string         { return r.url.Path }

// CopyWith produces a new Request sharing the receiver's token and body
// stream, with the given fields overridden, so a rewritten
// method/path/header can be presented without duplicating the body stream
// or minting a new token (the token identifies the underlying request, not
// any one view of it).
func (r *Request) CopyWith(method *Method, rawURL *string, header http.Header) (*Request, error) {
	next := *r
	if method != nil {
		next.method = *method
	}
	if rawURL != nil {
		u, err := url.Parse(*rawURL)
		if err != nil {
			return nil, errInvalidPath("request URL does not parse", err)
		}
		if !u.IsAbs() {
			return nil, errInvalidPath("request URL must be absolute", nil)
		}
		if u.Fragment != "" {
			return nil, errInvalidPath("request URL must not carry a fragment", nil)
		}
		next.url = u
	}
	if header != nil {
		next.header = header
	}
	return &next, nil
}
