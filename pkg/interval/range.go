package interval

import (
	"fmt"
	"iter"
	"strings"

	"github.com/pkg/errors"
)

// Range is an interval between a lower and an upper cut. A closed bound at
// v is stored as BelowValue(v) on the lower side and AboveValue(v) on the
// upper side; an open bound flips the side.
type Range[T any] struct {
	lower Cut[T]
	upper Cut[T]
}

func NewRange[T any](lower, upper Cut[T]) (Range[T], error) {
	if lower.IsZero() || upper.IsZero() {
		return Range[T]{}, errors.Wrap(ErrNotRange, "range requires two initialized cuts")
	}
	if !lower.domain.Compatible(upper.domain) {
		return Range[T]{}, errors.Wrapf(ErrTypeMismatch, "lower domain %s, upper domain %s", lower.domain, upper.domain)
	}
	if upper.Less(lower) {
		return Range[T]{}, errors.Wrapf(ErrInvertedBounds, "lower %s is above upper %s", lower, upper)
	}
	d := narrower(lower.domain, upper.domain)
	lower.domain, upper.domain = d, d
	return Range[T]{lower: lower, upper: upper}, nil
}

// Must panics on err; it is meant for ranges built from literals.
func Must[T any](r Range[T], err error) Range[T] {
	if err != nil {
		panic(err)
	}
	return r
}

func (r Range[T]) Lower() Cut[T]     { return r.lower }
func (r Range[T]) Upper() Cut[T]     { return r.upper }
func (r Range[T]) Domain() Domain[T] { return r.lower.domain }

// IsZero reports whether r is the zero value, which is not a usable range.
func (r Range[T]) IsZero() bool { return r.lower.IsZero() || r.upper.IsZero() }

// IsEmpty reports whether r is degenerate, e.g. [3,3).
func (r Range[T]) IsEmpty() bool { return r.lower.Equal(r.upper) }

func (r Range[T]) Contains(v T) bool {
	return r.lower.IsLessThan(v) && r.upper.IsGreaterThan(v)
}

// ContainsAll stops at the first value outside r.
func (r Range[T]) ContainsAll(values iter.Seq[T]) bool {
	for v := range values {
		if !r.Contains(v) {
			return false
		}
	}
	return true
}

// ContainsValue is Contains for values that arrive untyped.
func (r Range[T]) ContainsValue(v any) (bool, error) {
	t, err := r.lower.typed(v)
	if err != nil {
		return false, err
	}
	return r.Contains(t), nil
}

func (r Range[T]) HasLowerBound() bool { return !r.lower.IsBelowAll() }
func (r Range[T]) HasUpperBound() bool { return !r.upper.IsAboveAll() }

func (r Range[T]) LowerEndpoint() (T, error) {
	if !r.HasLowerBound() {
		var zero T
		return zero, errors.Wrapf(ErrUnboundedAccess, "range %s has no lower endpoint", r)
	}
	return r.lower.point, nil
}

func (r Range[T]) UpperEndpoint() (T, error) {
	if !r.HasUpperBound() {
		var zero T
		return zero, errors.Wrapf(ErrUnboundedAccess, "range %s has no upper endpoint", r)
	}
	return r.upper.point, nil
}

func (r Range[T]) IsLowerBoundClosed() (bool, error) {
	if !r.HasLowerBound() {
		return false, errors.Wrapf(ErrUnboundedAccess, "range %s has no lower bound", r)
	}
	return r.lower.side == Below, nil
}

func (r Range[T]) IsUpperBoundClosed() (bool, error) {
	if !r.HasUpperBound() {
		return false, errors.Wrapf(ErrUnboundedAccess, "range %s has no upper bound", r)
	}
	return r.upper.side == Above, nil
}

// Encloses reports whether o lies entirely within r.
func (r Range[T]) Encloses(o Range[T]) bool {
	return r.lower.Compare(o.lower) <= 0 && r.upper.Compare(o.upper) >= 0
}

// IsConnected reports whether some, possibly empty, range is enclosed by
// both r and o. Ranges that only touch are connected.
func (r Range[T]) IsConnected(o Range[T]) bool {
	return r.lower.Compare(o.upper) <= 0 && o.lower.Compare(r.upper) <= 0
}

// Overlaps reports whether r and o share at least one value.
func (r Range[T]) Overlaps(o Range[T]) bool {
	return maxCut(r.lower, o.lower).Less(minCut(r.upper, o.upper))
}

// Intersection returns the range enclosed by both r and o. It fails with
// ErrInvertedBounds when the ranges are not connected and may be empty when
// they only touch.
func (r Range[T]) Intersection(o Range[T]) (Range[T], error) {
	if err := r.checkDomain(o); err != nil {
		return Range[T]{}, err
	}
	lower, upper := maxCut(r.lower, o.lower), minCut(r.upper, o.upper)
	if upper.Less(lower) {
		return Range[T]{}, errors.Wrapf(ErrInvertedBounds, "ranges %s and %s are not connected", r, o)
	}
	return Range[T]{lower: lower, upper: upper}, nil
}

// Span returns the smallest range enclosing both r and o.
func (r Range[T]) Span(o Range[T]) (Range[T], error) {
	if err := r.checkDomain(o); err != nil {
		return Range[T]{}, err
	}
	return Range[T]{lower: minCut(r.lower, o.lower), upper: maxCut(r.upper, o.upper)}, nil
}

func (r Range[T]) checkDomain(o Range[T]) error {
	if r.IsZero() || o.IsZero() {
		return errors.Wrap(ErrNotRange, "zero range operand")
	}
	if !r.Domain().Compatible(o.Domain()) {
		return errors.Wrapf(ErrTypeMismatch, "domain %s is not compatible with %s", r.Domain(), o.Domain())
	}
	return nil
}

// Overlap classifies how a key range overlaps a stored range.
type Overlap uint8

const (
	// OverlapNone: the ranges share no value.
	OverlapNone Overlap = iota
	// OverlapCovers: the key covers all of the stored range.
	OverlapCovers
	// OverlapInterior: the key is inside the stored range, touching neither edge.
	OverlapInterior
	// OverlapStart: the key covers the start of the stored range, but not all of it.
	OverlapStart
	// OverlapEnd: the key covers the end of the stored range, but not all of it.
	OverlapEnd
)

func (o Overlap) String() string {
	switch o {
	case OverlapCovers:
		return "covers"
	case OverlapInterior:
		return "interior"
	case OverlapStart:
		return "start"
	case OverlapEnd:
		return "end"
	}
	return "none"
}

// OverlapOf returns how key overlaps r.
func (r Range[T]) OverlapOf(key Range[T]) Overlap {
	switch {
	case !r.Overlaps(key):
		//   key        r
		// l-----u   l-----u
		return OverlapNone
	case key.Encloses(r):
		//       key
		// l-------------u
		//    l------u
		//       r
		return OverlapCovers
	case r.lower.Less(key.lower) && key.upper.Less(r.upper):
		//        r
		// l-------------u
		//    l------u
		//      key
		return OverlapInterior
	case key.lower.Compare(r.lower) <= 0:
		//   key
		// l------u
		//    l------u
		//       r
		return OverlapStart
	default:
		//           key
		//        l------u
		//    l------u
		//       r
		return OverlapEnd
	}
}

// Minus returns the non-empty parts of r not covered by key, in order.
func (r Range[T]) Minus(key Range[T]) []Range[T] {
	switch r.OverlapOf(key) {
	case OverlapNone:
		if r.IsEmpty() {
			return nil
		}
		return []Range[T]{r}
	case OverlapCovers:
		return nil
	case OverlapInterior:
		return []Range[T]{
			{lower: r.lower, upper: key.lower},
			{lower: key.upper, upper: r.upper},
		}
	case OverlapStart:
		return []Range[T]{{lower: key.upper, upper: r.upper}}
	default:
		return []Range[T]{{lower: r.lower, upper: key.lower}}
	}
}

// Min returns the lower endpoint regardless of closure, or the zero value
// when r has no lower bound.
func (r Range[T]) Min() T { return r.lower.point }

// Max returns the upper endpoint regardless of closure, or the zero value
// when r has no upper bound.
func (r Range[T]) Max() T { return r.upper.point }

// Length returns Max - Min for numeric domains.
func (r Range[T]) Length() (float64, error) {
	if !r.HasLowerBound() || !r.HasUpperBound() {
		return 0, errors.Wrapf(ErrUnboundedAccess, "range %s has no length", r)
	}
	return defaultDistance(r.lower.point, r.upper.point)
}

func (r Range[T]) String() string {
	var sb strings.Builder
	switch {
	case r.lower.IsBelowAll():
		sb.WriteString("(-inf")
	case r.lower.side == Below:
		fmt.Fprintf(&sb, "[%v", r.lower.point)
	default:
		fmt.Fprintf(&sb, "(%v", r.lower.point)
	}
	sb.WriteByte(',')
	switch {
	case r.upper.IsAboveAll():
		sb.WriteString("+inf)")
	case r.upper.side == Above:
		fmt.Fprintf(&sb, "%v]", r.upper.point)
	default:
		fmt.Fprintf(&sb, "%v)", r.upper.point)
	}
	return sb.String()
}
