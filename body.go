package routecore

import (
	"io"
	"sync"
)

// BodyType describes a body's content type, when known.
type BodyType struct {
	MIME    string
	Charset string
}

// Body is a single-shot stream of byte chunks. Read returns the one and
// only consumer view of the stream; any subsequent call fails with
// ErrBodyAlreadyConsumed. A nil/zero ContentLength of 0 implies an empty
// stream and forbids chunked transfer — adapters must honor that when
// writing the wire representation.
type Body struct {
	mu            sync.Mutex
	reader        io.ReadCloser
	consumed      bool
	contentLength *int64
	bodyType      *BodyType
}

// NewBody wraps a transport-level stream as a Body. contentLength nil means
// "unknown length"; pass a pointer to 0 for a known-empty body.
func NewBody(r io.ReadCloser, contentLength *int64, bodyType *BodyType) *Body {
	if r == nil {
		r = io.NopCloser(noBytesReader{})
	}
	return &Body{reader: r, contentLength: contentLength, bodyType: bodyType}
}

type noBytesReader struct{}

func (noBytesReader) Read([]byte) (int, error) { return 0, io.EOF }

// ContentLength returns the declared length, or (0, false) when unknown.
func (b *Body) ContentLength() (int64, bool) {
	if b.contentLength == nil {
		return 0, false
	}
	return *b.contentLength, true
}

// Type returns the declared BodyType, or nil when unknown.
func (b *Body) Type() *BodyType { return b.bodyType }

// Read returns the underlying stream on the first call. Every subsequent
// call returns ErrBodyAlreadyConsumed instead of the stream, satisfying the
// "body one-shot" testable property: a second call to read() always fails.
func (b *Body) Read() (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.consumed {
		return nil, ErrBodyAlreadyConsumed
	}
	b.consumed = true
	return b.reader, nil
}

// Consumed reports whether Read has already been called.
func (b *Body) Consumed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.consumed
}

// Empty returns a Body representing a zero-length stream.
func Empty() *Body {
	zero := int64(0)
	return NewBody(nil, &zero, nil)
}
