package idxtable

import (
	"github.com/google/btree"
	"github.com/henderiw/idxrange/pkg/interval"
)

const degree = 32

// MatchFn selects stored ranges in a window lookup.
type MatchFn[T any] func(stored, key interval.Range[T]) bool

// Overlapping matches stored ranges that share at least one value with key.
func Overlapping[T any](stored, key interval.Range[T]) bool { return stored.Overlaps(key) }

// Connected matches stored ranges that overlap or touch key.
func Connected[T any](stored, key interval.Range[T]) bool { return stored.IsConnected(key) }

// Table is an index of entries ordered by the lower cut of their range.
// The caller keeps stored ranges from overlapping; Insert does not check.
// A Table is not safe for concurrent mutation.
type Table[T, V any] struct {
	tree *btree.BTreeG[Entry[T, V]]
}

func less[T, V any](a, b Entry[T, V]) bool {
	return a.Range().Lower().Less(b.Range().Lower())
}

func New[T, V any]() *Table[T, V] {
	return &Table[T, V]{
		tree: btree.NewG[Entry[T, V]](degree, less[T, V]),
	}
}

// pivot builds a search key positioned at cut c.
func pivot[T, V any](c interval.Cut[T]) Entry[T, V] {
	var d V
	return entry[T, V]{rng: rangeAt(c), data: d}
}

func rangeAt[T any](c interval.Cut[T]) interval.Range[T] {
	r, _ := interval.NewRange(c, c)
	return r
}

func (r *Table[T, V]) Len() int { return r.tree.Len() }

// Insert places e without looking at its neighbours; an entry with the
// same lower cut is replaced.
func (r *Table[T, V]) Insert(e Entry[T, V]) {
	r.tree.ReplaceOrInsert(e)
}

// Delete removes the entry whose lower cut equals rng's lower cut.
func (r *Table[T, V]) Delete(rng interval.Range[T]) (Entry[T, V], bool) {
	return r.tree.Delete(pivot[T, V](rng.Lower()))
}

// Floor returns the entry with the greatest lower cut not above c.
func (r *Table[T, V]) Floor(c interval.Cut[T]) (Entry[T, V], bool) {
	var found Entry[T, V]
	ok := false
	r.tree.DescendLessOrEqual(pivot[T, V](c), func(e Entry[T, V]) bool {
		found, ok = e, true
		return false
	})
	return found, ok
}

// Window returns, in order, the stored entries matching key. Only the
// predecessor of key's lower cut and the entries starting up to key's
// upper cut are visited.
func (r *Table[T, V]) Window(key interval.Range[T], match MatchFn[T]) Entries[T, V] {
	start := key.Lower()
	if prev, ok := r.Floor(start); ok {
		start = prev.Range().Lower()
	}
	var entries Entries[T, V]
	r.tree.AscendGreaterOrEqual(pivot[T, V](start), func(e Entry[T, V]) bool {
		if key.Upper().Less(e.Range().Lower()) {
			return false
		}
		if match(e.Range(), key) {
			entries = append(entries, e)
		}
		return true
	})
	return entries
}

// Get returns the entry whose range contains v.
func (r *Table[T, V]) Get(v T) (Entry[T, V], bool) {
	e, ok := r.Floor(interval.BelowValue(r.domainOf(), v))
	if !ok || !e.Range().Contains(v) {
		return nil, false
	}
	return e, true
}

// domainOf returns the domain of any stored entry; a Get on an empty table
// never reaches the comparison.
func (r *Table[T, V]) domainOf() interval.Domain[T] {
	if first, ok := r.tree.Min(); ok {
		return first.Range().Domain()
	}
	return interval.Domain[T]{}
}

// Entries returns all entries in order.
func (r *Table[T, V]) Entries() Entries[T, V] {
	entries := make(Entries[T, V], 0, r.tree.Len())
	r.tree.Ascend(func(e Entry[T, V]) bool {
		entries = append(entries, e)
		return true
	})
	return entries
}

func (r *Table[T, V]) Iterate() *Iterator[T, V] {
	return NewIterator(r.Entries())
}

// Span returns the range from the first lower cut to the last upper cut.
func (r *Table[T, V]) Span() (interval.Range[T], bool) {
	first, ok := r.tree.Min()
	if !ok {
		return interval.Range[T]{}, false
	}
	last, _ := r.tree.Max()
	span, err := first.Range().Span(last.Range())
	if err != nil {
		return interval.Range[T]{}, false
	}
	return span, true
}

func (r *Table[T, V]) Clone() *Table[T, V] {
	return &Table[T, V]{tree: r.tree.Clone()}
}

func (r *Table[T, V]) Clear() {
	r.tree.Clear(false)
}
