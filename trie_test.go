package routecore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPattern(t *testing.T, raw string) Pattern {
	t.Helper()
	p, err := ParsePattern(raw)
	require.NoError(t, err)
	return p
}

func mustPath(t *testing.T, raw string) NormalizedPath {
	t.Helper()
	p, err := Normalize(raw)
	require.NoError(t, err)
	return p
}

func TestTrieLiteralBeatsParameter(t *testing.T) {
	n := NewTrieNode[string]()
	require.NoError(t, n.Insert(mustPattern(t, "/users/me"), "literal"))
	require.NoError(t, n.Insert(mustPattern(t, "/users/:id"), "param"))

	m, ok := n.Lookup(mustPath(t, "/users/me"), true)
	require.True(t, ok)
	assert.Equal(t, "literal", m.Value)

	m, ok = n.Lookup(mustPath(t, "/users/7"), true)
	require.True(t, ok)
	assert.Equal(t, "param", m.Value)
	assert.Equal(t, "7", m.Parameters["id"])
}

func TestTrieParameterBeatsWildcard(t *testing.T) {
	n := NewTrieNode[string]()
	require.NoError(t, n.Insert(mustPattern(t, "/a/:id"), "param"))
	require.NoError(t, n.Insert(mustPattern(t, "/a/*"), "wild"))

	m, ok := n.Lookup(mustPath(t, "/a/x"), true)
	require.True(t, ok)
	assert.Equal(t, "param", m.Value)
}

func TestTrieWildcardBeatsTail(t *testing.T) {
	n := NewTrieNode[string]()
	require.NoError(t, n.Insert(mustPattern(t, "/a/*"), "wild"))
	require.NoError(t, n.Insert(mustPattern(t, "/a/**"), "tail"))

	m, ok := n.Lookup(mustPath(t, "/a/x"), true)
	require.True(t, ok)
	assert.Equal(t, "wild", m.Value)

	m, ok = n.Lookup(mustPath(t, "/a/x/y/z"), true)
	require.True(t, ok)
	assert.Equal(t, "tail", m.Value)
}

func TestTrieBacktrackingFindsDeeperMatch(t *testing.T) {
	n := NewTrieNode[string]()
	require.NoError(t, n.Insert(mustPattern(t, "/a/:id/specific"), "specific"))
	require.NoError(t, n.Insert(mustPattern(t, "/a/*"), "generic"))

	// "/a/x" only matches via the wildcard, not the deeper pattern.
	m, ok := n.Lookup(mustPath(t, "/a/x"), true)
	require.True(t, ok)
	assert.Equal(t, "generic", m.Value)

	m, ok = n.Lookup(mustPath(t, "/a/x/specific"), true)
	require.True(t, ok)
	assert.Equal(t, "specific", m.Value)
}

func TestTrieNoBacktrackStopsAtFirstCandidate(t *testing.T) {
	n := NewTrieNode[string]()
	require.NoError(t, n.Insert(mustPattern(t, "/a/:id/specific"), "specific"))
	require.NoError(t, n.Insert(mustPattern(t, "/a/*"), "generic"))

	// With backtracking disabled, the parameter candidate is tried first (it
	// has priority over wildcard) and its subtree fails to terminate for
	// "/a/x" (no value at depth 1 under :id), so the whole lookup misses
	// instead of falling through to the wildcard.
	_, ok := n.Lookup(mustPath(t, "/a/x"), false)
	assert.False(t, ok)
}

func TestTrieDuplicateInsertFails(t *testing.T) {
	n := NewTrieNode[string]()
	require.NoError(t, n.Insert(mustPattern(t, "/a/b"), "one"))
	err := n.Insert(mustPattern(t, "/a/b"), "two")
	require.Error(t, err)
	var coreErr *Error
	require.ErrorAs(t, err, &coreErr)
	assert.Equal(t, KindDuplicateRoute, coreErr.Kind)
}

func TestTrieParameterNameConflictAtSameDepth(t *testing.T) {
	n := NewTrieNode[string]()
	require.NoError(t, n.Insert(mustPattern(t, "/a/:id"), "one"))
	err := n.Insert(mustPattern(t, "/a/:slug"), "two")
	require.Error(t, err)
	var coreErr *Error
	require.ErrorAs(t, err, &coreErr)
	assert.Equal(t, KindParameterNameConflict, coreErr.Kind)
}

func TestTrieNamedTailCapturesRemainder(t *testing.T) {
	n := NewTrieNode[string]()
	require.NoError(t, n.Insert(mustPattern(t, "/static/:rest**"), "static"))

	m, ok := n.Lookup(mustPath(t, "/static/js/app.js"), true)
	require.True(t, ok)
	assert.Equal(t, "js/app.js", m.Parameters["rest"])
}

func TestTrieAttachSplicesSubtree(t *testing.T) {
	n := NewTrieNode[string]()
	require.NoError(t, n.Insert(mustPattern(t, "/root"), "root"))

	sub := NewTrieNode[string]()
	require.NoError(t, sub.Insert(mustPattern(t, "/inner"), "inner"))

	require.NoError(t, n.Attach(mustPath(t, "/mounted"), sub))

	m, ok := n.Lookup(mustPath(t, "/mounted/inner"), true)
	require.True(t, ok)
	assert.Equal(t, "inner", m.Value)

	_, ok = n.Lookup(mustPath(t, "/root"), true)
	assert.True(t, ok)
}

func TestTrieMatchedAndRemainingSplit(t *testing.T) {
	n := NewTrieNode[string]()
	require.NoError(t, n.Insert(mustPattern(t, "/a/:id**"), "tail"))

	m, ok := n.Lookup(mustPath(t, "/a/1/2/3"), true)
	require.True(t, ok)
	assert.Equal(t, "/a", m.Matched.String())
}
