package model

// Entry is a loaded node held by the node cache.
// Entries are not safe for concurrent use: the owning cache serializes every access.
type Entry struct {
	key  *Key
	path string
	node any

	refs int64  // live external handles; > 0 excludes the entry from eviction
	seq  uint64 // insertion sequence, identifies this incarnation of path

	// intrusive LRU links, both nil while the entry is not listed
	prev, next *Entry
	listed     bool

	// next entry in the same index bucket (hash collision chain)
	chain *Entry
}

func NewEntry(path string, node any, seq uint64) *Entry {
	return &Entry{key: NewKey(path), path: path, node: node, seq: seq}
}

func (e *Entry) Key() *Key {
	if e == nil {
		return nil
	}
	return e.key
}

func (e *Entry) Path() string       { return e.path }
func (e *Entry) Node() any          { return e.node }
func (e *Entry) SetNode(node any)   { e.node = node }
func (e *Entry) Seq() uint64        { return e.seq }
func (e *Entry) Refs() int64        { return e.refs }
func (e *Entry) IsReferenced() bool { return e.refs > 0 }
func (e *Entry) Listed() bool       { return e.listed }

// Is reports whether e was built for path (hash and path both match).
func (e *Entry) Is(key *Key, path string) bool {
	return e.key.IsTheSame(key) && e.path == path
}

// Ref increments the reference counter and returns the new value.
func (e *Entry) Ref() int64 {
	e.refs++
	return e.refs
}

// Unref decrements the reference counter (never below zero) and returns the new value.
func (e *Entry) Unref() int64 {
	if e.refs > 0 {
		e.refs--
	}
	return e.refs
}

// Prev returns the next more recently used entry of the list e belongs to.
func (e *Entry) Prev() *Entry { return e.prev }

// Next returns the next less recently used entry of the list e belongs to.
func (e *Entry) Next() *Entry { return e.next }

func (e *Entry) Chain() *Entry        { return e.chain }
func (e *Entry) SetChain(next *Entry) { e.chain = next }
