package routecore

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Response is an immutable response value: status code, headers, and body.
// Construction rejects status codes below 100.
type Response struct {
	status int
	header http.Header
	body   *Body
}

// NewResponse constructs a Response. Status 413 (Request Entity Too Large)
// additionally forces Connection: close, matching the routing core's
// contract with adapters about payloads it has already decided to reject.
func NewResponse(status int, header http.Header, body *Body) (*Response, error) {
	if status < 100 {
		return nil, errInvalidArgument(fmt.Sprintf("invalid response status %d", status))
	}
	if header == nil {
		header = make(http.Header)
	}
	if body == nil {
		body = Empty()
	}
	if status == http.StatusRequestEntityTooLarge {
		header.Set("Connection", "close")
	}
	return &Response{status: status, header: header, body: body}, nil
}

func (r *Response) Status() int        { return r.status }
func (r *Response) Header() http.Header { return r.header }
func (r *Response) Body() *Body        { return r.body }

// ForbidsChunkedTransfer reports whether the routing core's contract with
// adapters prohibits adding chunked transfer-encoding for this response:
// 1xx, 204, 304, and multipart/byteranges responses must never be chunked.
// This is advisory: the routing core has no transport layer of its own to
// enforce it on, and neither App.writeResponse nor engine/standard calls it.
func (r *Response) ForbidsChunkedTransfer() bool {
	switch {
	case r.status >= 100 && r.status < 200:
		return true
	case r.status == http.StatusNoContent, r.status == http.StatusNotModified:
		return true
	}
	ct := r.header.Get("Content-Type")
	return len(ct) >= len("multipart/byteranges") && ct[:len("multipart/byteranges")] == "multipart/byteranges"
}

// WithStatus returns a copy of r with the status and Connection/413 handling
// re-applied.
func (r *Response) WithStatus(status int) (*Response, error) {
	return NewResponse(status, r.header.Clone(), r.body)
}

// TextResponse builds a plain-text Response, a small convenience mirroring
// the teacher's ResponseWriter.String helper without pulling the routing
// core into content-negotiation concerns (explicitly a non-goal).
func TextResponse(status int, text string) (*Response, error) {
	header := make(http.Header)
	header.Set("Content-Type", "text/plain; charset=utf-8")
	body := NewBody(io.NopCloser(strings.NewReader(text)), int64Ptr(int64(len(text))), &BodyType{MIME: "text/plain", Charset: "utf-8"})
	return NewResponse(status, header, body)
}

func int64Ptr(v int64) *int64 { return &v }
