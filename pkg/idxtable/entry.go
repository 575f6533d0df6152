package idxtable

import (
	"fmt"

	"github.com/henderiw/idxrange/pkg/interval"
)

type Entry[T, V any] interface {
	Range() interval.Range[T]
	Data() V
	String() string
}

type entry[T, V any] struct {
	rng  interval.Range[T]
	data V
}

type Entries[T, V any] []Entry[T, V]

func (r entry[T, V]) Range() interval.Range[T] { return r.rng }
func (r entry[T, V]) Data() V                  { return r.data }
func (r entry[T, V]) String() string           { return fmt.Sprintf("%s: %v", r.rng, r.data) }

func NewEntry[T, V any](rng interval.Range[T], d V) Entry[T, V] {
	return entry[T, V]{
		rng:  rng,
		data: d,
	}
}

// Ranges returns the ranges of the entries, in order.
func (r Entries[T, V]) Ranges() []interval.Range[T] {
	ranges := make([]interval.Range[T], 0, len(r))
	for _, e := range r {
		ranges = append(ranges, e.Range())
	}
	return ranges
}
