package model

import (
	"github.com/zeebo/xxh3"
	"sync"
	"unsafe"
)

// Key is the hashed form of a node path: 64 bit xxh for the index plus hi/lo for collision checks.
type Key struct {
	v  uint64
	hi uint64
	lo uint64
}

func NewKey(path string) *Key {
	return buildKey(unsafe.Slice(unsafe.StringData(path), len(path)))
}

func (k *Key) Value() uint64 {
	return k.v
}

func (k *Key) IsTheSame(key *Key) (same bool) {
	return k.v == key.v && k.hi == key.hi && k.lo == key.lo
}

var hasherPool = sync.Pool{New: func() any { return xxh3.New() }}

func buildKey(path []byte) *Key {
	// acquire reusable hasher
	hasher := hasherPool.Get().(*xxh3.Hasher)
	hasher.Reset()

	_, _ = hasher.Write(path)

	u128 := hasher.Sum128()
	k := &Key{
		v:  hasher.Sum64(),
		hi: u128.Hi,
		lo: u128.Lo,
	}

	// release hasher after use
	hasherPool.Put(hasher)

	return k
}
