package routecore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestValidatesAbsoluteURL(t *testing.T) {
	_, err := NewRequest(MethodGet, "/relative/path", "HTTP/1.1", nil, nil)
	require.Error(t, err)
}

func TestNewRequestRejectsFragment(t *testing.T) {
	_, err := NewRequest(MethodGet, "http://example.com/path#frag", "HTTP/1.1", nil, nil)
	require.Error(t, err)
}

func TestNewRequestAccessors(t *testing.T) {
	req, err := NewRequest(MethodPost, "http://example.com/a/b?x=1", "HTTP/1.1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, MethodPost, req.Method())
	assert.Equal(t, "/a/b", req.Path())
	assert.NotZero(t, req.Token())
}

func TestRequestCopyWithSharesTokenAndBody(t *testing.T) {
	req, err := NewRequest(MethodGet, "http://example.com/a", "HTTP/1.1", nil, nil)
	require.NoError(t, err)

	newMethod := MethodPut
	newURL := "http://example.com/b"
	copy, err := req.CopyWith(&newMethod, &newURL, nil)
	require.NoError(t, err)

	assert.Equal(t, req.Token(), copy.Token())
	assert.Equal(t, req.Body(), copy.Body())
	assert.Equal(t, MethodPut, copy.Method())
	assert.Equal(t, "/b", copy.Path())
	assert.Equal(t, "/a", req.Path(), "original request is unmodified")
}
