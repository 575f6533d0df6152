package bucketmap

import (
	"iter"

	"github.com/henderiw/idxrange/pkg/idxtable"
	"github.com/henderiw/idxrange/pkg/interval"
)

// run tracks a value over consecutive entries that all hold it.
type run[T any, V comparable] struct {
	value V
	span  interval.Range[T]
}

// Items yields (sub-range, value) pairs covering window, ordered by where
// each pair ends, then by where it starts, then by the printed value. A value
// held by consecutive touching entries is yielded once, over the span of
// those entries clipped to window. The sequence snapshots the map each time
// it is ranged over.
func (r *bucketMap[T, V]) Items(window interval.Range[T]) iter.Seq2[interval.Range[T], V] {
	return func(yield func(interval.Range[T], V) bool) {
		if window.IsZero() {
			return
		}
		r.m.RLock()
		entries := r.table.Window(window, idxtable.Overlapping[T])
		r.m.RUnlock()

		emit := func(ru *run[T, V]) bool {
			sub, err := ru.span.Intersection(window)
			if err != nil || sub.IsEmpty() {
				return true
			}
			return yield(sub, ru.value)
		}

		var active []*run[T, V]
		open := map[V]*run[T, V]{}
		it := idxtable.NewIterator(entries)
		for it.Next() {
			e := it.Value()
			consecutive := it.IsConsecutive()

			var next []*run[T, V]
			for _, ru := range active {
				if consecutive && e.Data().Has(ru.value) {
					ru.span, _ = ru.span.Span(e.Range())
					next = append(next, ru)
					continue
				}
				delete(open, ru.value)
				if !emit(ru) {
					return
				}
			}
			for _, v := range sortedValues(e.Data()) {
				if _, ok := open[v]; ok {
					continue
				}
				ru := &run[T, V]{value: v, span: e.Range()}
				open[v] = ru
				next = append(next, ru)
			}
			active = next
		}
		for _, ru := range active {
			if !emit(ru) {
				return
			}
		}
	}
}

// All is Items over the span of the whole map.
func (r *bucketMap[T, V]) All() iter.Seq2[interval.Range[T], V] {
	return func(yield func(interval.Range[T], V) bool) {
		span, ok := r.Span()
		if !ok {
			return
		}
		for rng, v := range r.Items(span) {
			if !yield(rng, v) {
				return
			}
		}
	}
}
