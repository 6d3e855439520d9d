package model

// SetMapKeyForTests overrides the index hash of e so tests can force bucket collisions.
// The hi/lo parts are kept, entries with different paths still never compare equal.
func (e *Entry) SetMapKeyForTests(v uint64) *Entry {
	e.key = &Key{v: v, hi: e.key.hi, lo: e.key.lo}
	return e
}
