package db

import (
	"github.com/Borislavv/go-ash-nodecache/internal/cache/db/model"
	"github.com/stretchr/testify/require"
	"testing"
)

func lruPaths(m *Map) []string {
	var paths []string
	m.WalkLRU(func(e *model.Entry) bool {
		paths = append(paths, e.Path())
		return true
	})
	return paths
}

// TestLRU_InsertAddsToFront lists new entries as most recently used.
func TestLRU_InsertAddsToFront(t *testing.T) {
	m := NewMap(0)
	m.Set("/a", nil)
	m.Set("/b", nil)
	m.Set("/c", nil)

	require.Equal(t, []string{"/c", "/b", "/a"}, lruPaths(m))
}

// TestLRU_TouchMovesToFront promotes accessed entries.
func TestLRU_TouchMovesToFront(t *testing.T) {
	m := NewMap(0)
	a, _ := m.Set("/a", nil)
	m.Set("/b", nil)
	m.Set("/c", nil)

	m.Touch(a)
	require.Equal(t, []string{"/a", "/c", "/b"}, lruPaths(m))

	m.Touch(a)
	require.Equal(t, []string{"/a", "/c", "/b"}, lruPaths(m), "touching the front is a no-op")
}

// TestLRU_ReplacePromotes promotes an entry whose node was replaced.
func TestLRU_ReplacePromotes(t *testing.T) {
	m := NewMap(0)
	m.Set("/a", 1)
	m.Set("/b", 1)
	m.Set("/a", 2)

	require.Equal(t, []string{"/a", "/b"}, lruPaths(m))
}

// TestLRU_ReferencedNotListed keeps referenced entries out of the candidates.
func TestLRU_ReferencedNotListed(t *testing.T) {
	m := NewMap(0)
	a, _ := m.Set("/a", nil)
	m.Set("/b", nil)
	m.Ref(a)

	require.Equal(t, []string{"/b"}, lruPaths(m))

	m.Touch(a)
	require.Equal(t, []string{"/b"}, lruPaths(m), "touching a referenced entry does not list it")

	m.Unref(a)
	require.Equal(t, []string{"/a", "/b"}, lruPaths(m), "released entry becomes most recently used")
}

// TestLRU_PeekVictim returns the least recently used candidate.
func TestLRU_PeekVictim(t *testing.T) {
	m := NewMap(0)
	_, found := m.PeekVictim(nil)
	require.False(t, found)

	a, _ := m.Set("/a", nil)
	m.Set("/b", nil)

	victim, found := m.PeekVictim(nil)
	require.True(t, found)
	require.Same(t, a, victim)

	v, found := m.PeekVictim(a)
	require.True(t, found)
	require.Equal(t, "/b", v.Path(), "skip excludes the tail")
}

// TestLRU_WalkStops stops when fn returns false.
func TestLRU_WalkStops(t *testing.T) {
	m := NewMap(0)
	m.Set("/a", nil)
	m.Set("/b", nil)

	var n int
	m.WalkLRU(func(*model.Entry) bool {
		n++
		return false
	})
	require.Equal(t, 1, n)
}
