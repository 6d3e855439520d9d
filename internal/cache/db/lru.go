package db

import "github.com/Borislavv/go-ash-nodecache/internal/cache/db/model"

func (m *Map) lruOnInsert(e *model.Entry) {
	if e.IsReferenced() || e.Listed() {
		return
	}
	m.lru.PushFront(e)
}

func (m *Map) lruOnAccess(e *model.Entry) {
	m.lru.MoveToFront(e)
}

func (m *Map) lruOnDelete(e *model.Entry) {
	m.lru.Remove(e)
}

// WalkLRU iterates eviction candidates from most to least recently used.
func (m *Map) WalkLRU(fn func(e *model.Entry) bool) {
	for e := m.lru.Front(); e != nil; e = e.Next() {
		if !fn(e) {
			return
		}
	}
}

// PeekVictim returns the least recently used candidate other than skip (nil skips nothing).
func (m *Map) PeekVictim(skip *model.Entry) (*model.Entry, bool) {
	for e := m.lru.Back(); e != nil; e = e.Prev() {
		if e != skip {
			return e, true
		}
	}
	return nil, false
}
