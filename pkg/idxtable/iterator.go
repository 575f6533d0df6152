package idxtable

import "github.com/henderiw/idxrange/pkg/interval"

// Iterator walks a snapshot of table entries in lower cut order.
type Iterator[T, V any] struct {
	current int
	entries Entries[T, V]
}

func NewIterator[T, V any](entries Entries[T, V]) *Iterator[T, V] {
	return &Iterator[T, V]{current: -1, entries: entries}
}

func (r *Iterator[T, V]) Value() Entry[T, V] {
	return r.entries[r.current]
}

func (r *Iterator[T, V]) Range() interval.Range[T] {
	return r.entries[r.current].Range()
}

func (r *Iterator[T, V]) Next() bool {
	r.current++
	return r.current < len(r.entries)
}

// IsConsecutive reports whether the current entry starts exactly where the
// previous one ends, with no gap between them.
func (r *Iterator[T, V]) IsConsecutive() bool {
	if r.current < 1 || r.current >= len(r.entries) {
		return false
	}
	return r.entries[r.current-1].Range().Upper().Equal(r.entries[r.current].Range().Lower())
}
