package routecore

import (
	"strings"
	"unicode/utf8"
)

// Segment is a single non-empty path component between '/' separators. It
// never contains the separator itself.
type Segment string

// NormalizedPath is an ordered sequence of Segment. The zero value is the
// canonical root ("/").
type NormalizedPath struct {
	segments []Segment
}

// Root is the canonical root path, equivalent to the zero NormalizedPath.
var Root = NormalizedPath{}

// Segments returns a defensive copy of the path's segments.
func (p NormalizedPath) Segments() []Segment {
	if len(p.segments) == 0 {
		return nil
	}
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// Len reports the number of segments.
func (p NormalizedPath) Len() int { return len(p.segments) }

// IsRoot reports whether the path is the empty sequence (i.e. "/").
func (p NormalizedPath) IsRoot() bool { return len(p.segments) == 0 }

// String renders the path back to its canonical "/"-joined form.
func (p NormalizedPath) String() string {
	if len(p.segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')
		b.WriteString(string(s))
	}
	return b.String()
}

// Equal reports whether two normalized paths have identical segment
// sequences.
func (p NormalizedPath) Equal(o NormalizedPath) bool {
	if len(p.segments) != len(o.segments) {
		return false
	}
	for i, s := range p.segments {
		if s != o.segments[i] {
			return false
		}
	}
	return true
}

// join returns a new NormalizedPath with suffix segments appended after the
// receiver's.
func (p NormalizedPath) join(suffix []Segment) NormalizedPath {
	out := make([]Segment, 0, len(p.segments)+len(suffix))
	out = append(out, p.segments...)
	out = append(out, suffix...)
	return NormalizedPath{segments: out}
}

// Normalize canonicalizes an already percent-decoded raw path string into a
// NormalizedPath. Rules, applied in order: split on '/'; drop empty pieces
// produced by leading/trailing/duplicate separators; drop "." pieces; for
// ".." pop the last accumulated segment, failing if the stack is empty
// (traversal escape). Normalize never percent-decodes; a caller that passes
// raw percent-escapes through unchanged will see them as literal segment
// bytes, which is the correct boundary per the routing core's contract —
// percent-decoding failures are the adapter's concern and surface as
// InvalidPath before Normalize is ever called.
func Normalize(raw string) (NormalizedPath, error) {
	if !utf8.ValidString(raw) {
		return NormalizedPath{}, errInvalidPath("path is not valid UTF-8", nil)
	}
	if strings.IndexByte(raw, 0) >= 0 {
		return NormalizedPath{}, errInvalidPath("path contains a NUL byte", nil)
	}

	pieces := strings.Split(raw, "/")
	segments := make([]Segment, 0, len(pieces))
	for _, piece := range pieces {
		switch piece {
		case "":
			continue
		case ".":
			continue
		case "..":
			if len(segments) == 0 {
				return NormalizedPath{}, errInvalidPath("path traverses above root", nil)
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, Segment(piece))
		}
	}
	if len(segments) == 0 {
		return Root, nil
	}
	return NormalizedPath{segments: segments}, nil
}
