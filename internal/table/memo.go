package table

// Memo caches the last result of a pure function keyed by its full input.
// The key must capture every input the function reads.
type Memo[K comparable, V any] struct {
	fn  func(K) V
	key K
	val V
	ok  bool
}

func NewMemo[K comparable, V any](fn func(K) V) *Memo[K, V] {
	return &Memo[K, V]{fn: fn}
}

// Get returns fn(key), recomputing only when key differs from the last call.
func (m *Memo[K, V]) Get(key K) V {
	if !m.ok || m.key != key {
		m.key, m.val, m.ok = key, m.fn(key), true
	}
	return m.val
}
