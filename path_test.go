package routecore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBasic(t *testing.T) {
	p, err := Normalize("/users/42/posts")
	require.NoError(t, err)
	assert.Equal(t, []Segment{"users", "42", "posts"}, p.Segments())
	assert.Equal(t, "/users/42/posts", p.String())
}

func TestNormalizeCollapsesSeparatorsAndDotSegments(t *testing.T) {
	p, err := Normalize("//users//./42/")
	require.NoError(t, err)
	assert.Equal(t, []Segment{"users", "42"}, p.Segments())
}

func TestNormalizeRoot(t *testing.T) {
	p, err := Normalize("/")
	require.NoError(t, err)
	assert.True(t, p.IsRoot())
	assert.Equal(t, Root, p)

	p2, err := Normalize("")
	require.NoError(t, err)
	assert.True(t, p2.IsRoot())
}

func TestNormalizeDotDotPopsSegment(t *testing.T) {
	p, err := Normalize("/users/42/../43")
	require.NoError(t, err)
	assert.Equal(t, []Segment{"users", "43"}, p.Segments())
}

func TestNormalizeDotDotAboveRootFails(t *testing.T) {
	_, err := Normalize("/../escape")
	require.Error(t, err)
	var coreErr *Error
	require.ErrorAs(t, err, &coreErr)
	assert.Equal(t, KindInvalidPath, coreErr.Kind)
}

func TestNormalizeRejectsNulByte(t *testing.T) {
	_, err := Normalize("/users/\x00")
	require.Error(t, err)
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := "/a/b/../c/./d/"
	p1, err := Normalize(raw)
	require.NoError(t, err)
	p2, err := Normalize(p1.String())
	require.NoError(t, err)
	assert.True(t, p1.Equal(p2))
}
