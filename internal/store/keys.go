package store

import "sync"

// keyPool provides reusable byte slices for building database keys,
// which keeps the library replace path (hundreds of item keys per
// sync) off the allocator.
var keyPool = sync.Pool{
	New: func() any {
		// 128 bytes covers every prefix plus a NanoID suffix.
		return make([]byte, 0, 128)
	},
}

// buildKey constructs a database key from prefix and suffix using a
// pooled buffer. Callers must call releaseKey when done.
func buildKey(prefix, suffix string) []byte {
	buf, _ := keyPool.Get().([]byte)
	buf = buf[:0]
	buf = append(buf, prefix...)
	buf = append(buf, suffix...)
	return buf
}

// releaseKey returns a key buffer to the pool. The slice must not be
// used afterwards.
func releaseKey(key []byte) {
	if cap(key) <= 256 {
		keyPool.Put(key[:0])
	}
}
