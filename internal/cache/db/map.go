// Package db implements the storage of the node cache: a hash index over node paths
// and an intrusive LRU list of the entries that may be evicted.
//
// Nothing here is synchronized; the owning cache serializes every call.
// All operations are O(1) except Clear and walks.
package db

import "github.com/Borislavv/go-ash-nodecache/internal/cache/db/model"

// Map indexes loaded nodes by path. Referenced entries stay in the index but are unlinked
// from the LRU list, so the list holds exactly the eviction candidates.
type Map struct {
	items map[uint64]*model.Entry // bucket heads; collisions are chained via Entry.chain
	lru   model.List              // unreferenced entries only, MRU at front

	len  int64  // number of indexed entries
	refd int64  // number of referenced entries
	seq  uint64 // last assigned insertion sequence
}

func NewMap(capHint int) *Map {
	if capHint < 0 {
		capHint = 0
	}
	return &Map{items: make(map[uint64]*model.Entry, capHint)}
}

func (m *Map) Len() int64          { return m.len }
func (m *Map) Referenced() int64   { return m.refd }
func (m *Map) Unreferenced() int64 { return int64(m.lru.Len()) }

// Get finds the entry of path without touching the LRU order.
func (m *Map) Get(path string) (*model.Entry, bool) {
	k := model.NewKey(path)
	for e := m.items[k.Value()]; e != nil; e = e.Chain() {
		if e.Is(k, path) {
			return e, true
		}
	}
	return nil, false
}

// Set inserts path as the most recently used entry or replaces the node of the existing one
// (which keeps its references and is promoted).
func (m *Map) Set(path string, node any) (entry *model.Entry, inserted bool) {
	if e, found := m.Get(path); found {
		e.SetNode(node)
		m.Touch(e)
		return e, false
	}

	m.seq++
	e := model.NewEntry(path, node, m.seq)
	k := e.Key().Value()
	e.SetChain(m.items[k])
	m.items[k] = e
	m.lruOnInsert(e)
	m.len++
	return e, true
}

// Touch promotes an unreferenced entry to most recently used.
func (m *Map) Touch(e *model.Entry) {
	m.lruOnAccess(e)
}

// Ref increments the references of e; the first reference removes it from the eviction candidates.
func (m *Map) Ref(e *model.Entry) int64 {
	refs := e.Ref()
	if refs == 1 {
		m.lruOnDelete(e)
		m.refd++
	}
	return refs
}

// Unref decrements the references of e; on the last one e becomes the most recently used candidate.
func (m *Map) Unref(e *model.Entry) int64 {
	if !e.IsReferenced() {
		return 0
	}
	refs := e.Unref()
	if refs == 0 {
		m.refd--
		m.lruOnInsert(e)
	}
	return refs
}

// Remove deletes the entry of path whatever its references.
func (m *Map) Remove(path string) (*model.Entry, bool) {
	e, found := m.Get(path)
	if !found {
		return nil, false
	}
	m.RemoveEntry(e)
	return e, true
}

// RemoveEntry deletes e from the index and the LRU list.
func (m *Map) RemoveEntry(e *model.Entry) {
	k := e.Key().Value()

	var prev *model.Entry
	for cur := m.items[k]; cur != nil; prev, cur = cur, cur.Chain() {
		if cur != e {
			continue
		}
		if prev == nil {
			if next := cur.Chain(); next != nil {
				m.items[k] = next
			} else {
				delete(m.items, k)
			}
		} else {
			prev.SetChain(cur.Chain())
		}
		cur.SetChain(nil)

		m.lruOnDelete(e)
		if e.IsReferenced() {
			m.refd--
		}
		m.len--
		return
	}
}

// Clear drops every entry and returns how many were removed.
func (m *Map) Clear() (items int64) {
	items = m.len
	m.items = make(map[uint64]*model.Entry)
	m.lru.Init()
	m.len, m.refd = 0, 0
	return items
}

// Walk iterates every entry in index order. fn returning false stops the walk.
func (m *Map) Walk(fn func(e *model.Entry) bool) {
	for _, head := range m.items {
		for e := head; e != nil; e = e.Chain() {
			if !fn(e) {
				return
			}
		}
	}
}
