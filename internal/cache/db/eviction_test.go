package db

import (
	"fmt"
	"github.com/Borislavv/go-ash-nodecache/internal/cache/db/model"
	"github.com/stretchr/testify/require"
	"testing"
)

// TestEviction_OldestFirst evicts in insertion order when nothing was touched.
func TestEviction_OldestFirst(t *testing.T) {
	m := NewMap(0)
	for i := 0; i < 5; i++ {
		m.Set(fmt.Sprintf("/n%d", i), nil)
	}

	var victims []string
	evicted := m.EvictUntilWithinLimit(2, nil, func(e *model.Entry) { victims = append(victims, e.Path()) })

	require.Equal(t, int64(3), evicted)
	require.Equal(t, []string{"/n0", "/n1", "/n2"}, victims)
	require.Equal(t, int64(2), m.Len())
}

// TestEviction_SkipsReferenced never picks a referenced entry.
func TestEviction_SkipsReferenced(t *testing.T) {
	m := NewMap(0)
	a, _ := m.Set("/a", nil)
	m.Set("/b", nil)
	m.Ref(a)
	m.Set("/c", nil)

	evicted := m.EvictUntilWithinLimit(2, nil, nil)

	require.Equal(t, int64(1), evicted)
	_, found := m.Get("/a")
	require.True(t, found)
	_, found = m.Get("/b")
	require.False(t, found)
	_, found = m.Get("/c")
	require.True(t, found)
}

// TestEviction_StopsWhenOnlyProtectedRemain stops above the limit rather than touching protected entries.
func TestEviction_StopsWhenOnlyProtectedRemain(t *testing.T) {
	m := NewMap(0)
	a, _ := m.Set("/a", nil)
	b, _ := m.Set("/b", nil)
	m.Ref(a)
	m.Ref(b)
	c, _ := m.Set("/c", nil)

	evicted := m.EvictUntilWithinLimit(1, c, nil)

	require.Equal(t, int64(0), evicted)
	require.Equal(t, int64(3), m.Len())
	require.Equal(t, int64(1), m.Unreferenced())
}

// TestEviction_WithinLimitNoop does nothing under the limit.
func TestEviction_WithinLimitNoop(t *testing.T) {
	m := NewMap(0)
	m.Set("/a", nil)

	require.Equal(t, int64(0), m.EvictUntilWithinLimit(1, nil, nil))
	require.Equal(t, int64(1), m.Len())
}
