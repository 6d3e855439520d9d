package model

import (
	"github.com/stretchr/testify/require"
	"testing"
)

// TestEntry_Is matches both hash and path.
func TestEntry_Is(t *testing.T) {
	e := NewEntry("/a", "node", 1)

	require.True(t, e.Is(NewKey("/a"), "/a"))
	require.False(t, e.Is(NewKey("/b"), "/b"))
	require.False(t, e.Is(NewKey("/a"), "/b"), "path mismatch under equal hash")
}

// TestEntry_RefUnref counts references and never goes negative.
func TestEntry_RefUnref(t *testing.T) {
	e := NewEntry("/a", nil, 1)
	require.False(t, e.IsReferenced())

	require.Equal(t, int64(1), e.Ref())
	require.Equal(t, int64(2), e.Ref())
	require.True(t, e.IsReferenced())

	require.Equal(t, int64(1), e.Unref())
	require.Equal(t, int64(0), e.Unref())
	require.Equal(t, int64(0), e.Unref())
	require.False(t, e.IsReferenced())
}

// TestEntry_NilKey returns nil for a nil entry.
func TestEntry_NilKey(t *testing.T) {
	var e *Entry
	require.Nil(t, e.Key())
}
