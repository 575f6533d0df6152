package interval

import (
	"cmp"

	"github.com/pkg/errors"
)

// Closed returns [lo,hi].
func (d Domain[T]) Closed(lo, hi T) (Range[T], error) {
	return NewRange(BelowValue(d, lo), AboveValue(d, hi))
}

// Open returns (lo,hi). (v,v) is rejected: it would be inverted.
func (d Domain[T]) Open(lo, hi T) (Range[T], error) {
	if d.IsZero() {
		return Range[T]{}, errors.Wrap(ErrNotRange, "missing domain")
	}
	if d.compare(lo, hi) == 0 {
		return Range[T]{}, errors.Wrapf(ErrInvertedBounds, "open range (%v,%v) is degenerate", lo, hi)
	}
	return NewRange(AboveValue(d, lo), BelowValue(d, hi))
}

// ClosedOpen returns [lo,hi).
func (d Domain[T]) ClosedOpen(lo, hi T) (Range[T], error) {
	return NewRange(BelowValue(d, lo), BelowValue(d, hi))
}

// OpenClosed returns (lo,hi].
func (d Domain[T]) OpenClosed(lo, hi T) (Range[T], error) {
	return NewRange(AboveValue(d, lo), AboveValue(d, hi))
}

// LessThan returns (-inf,v).
func (d Domain[T]) LessThan(v T) Range[T] {
	return Range[T]{lower: BelowAll(d), upper: BelowValue(d, v)}
}

// AtMost returns (-inf,v].
func (d Domain[T]) AtMost(v T) Range[T] {
	return Range[T]{lower: BelowAll(d), upper: AboveValue(d, v)}
}

// GreaterThan returns (v,+inf).
func (d Domain[T]) GreaterThan(v T) Range[T] {
	return Range[T]{lower: AboveValue(d, v), upper: AboveAll(d)}
}

// AtLeast returns [v,+inf).
func (d Domain[T]) AtLeast(v T) Range[T] {
	return Range[T]{lower: BelowValue(d, v), upper: AboveAll(d)}
}

// Singleton returns [v,v].
func (d Domain[T]) Singleton(v T) Range[T] {
	return Range[T]{lower: BelowValue(d, v), upper: AboveValue(d, v)}
}

// All returns (-inf,+inf).
func (d Domain[T]) All() Range[T] {
	return Range[T]{lower: BelowAll(d), upper: AboveAll(d)}
}

func Closed[T cmp.Ordered](lo, hi T) (Range[T], error)     { return Ordered[T]().Closed(lo, hi) }
func Open[T cmp.Ordered](lo, hi T) (Range[T], error)       { return Ordered[T]().Open(lo, hi) }
func ClosedOpen[T cmp.Ordered](lo, hi T) (Range[T], error) { return Ordered[T]().ClosedOpen(lo, hi) }
func OpenClosed[T cmp.Ordered](lo, hi T) (Range[T], error) { return Ordered[T]().OpenClosed(lo, hi) }
func LessThan[T cmp.Ordered](v T) Range[T]                 { return Ordered[T]().LessThan(v) }
func AtMost[T cmp.Ordered](v T) Range[T]                   { return Ordered[T]().AtMost(v) }
func GreaterThan[T cmp.Ordered](v T) Range[T]              { return Ordered[T]().GreaterThan(v) }
func AtLeast[T cmp.Ordered](v T) Range[T]                  { return Ordered[T]().AtLeast(v) }
func Singleton[T cmp.Ordered](v T) Range[T]                { return Ordered[T]().Singleton(v) }
func All[T cmp.Ordered]() Range[T]                         { return Ordered[T]().All() }
