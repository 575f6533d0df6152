package interval

import (
	"cmp"
	"fmt"

	"github.com/pkg/errors"
)

// Side tells whether a bounded cut sits infinitesimally below or above its
// point.
type Side uint8

const (
	Below Side = iota
	Above
)

func (s Side) String() string {
	if s == Above {
		return "above"
	}
	return "below"
}

type kind uint8

const (
	belowAll kind = iota
	bounded
	aboveAll
)

// Cut is a boundary point of a domain. The order is
// below-all < bounded < above-all; bounded cuts compare by point and a
// Below cut sorts before an Above cut at the same point.
type Cut[T any] struct {
	kind   kind
	point  T
	side   Side
	domain Domain[T]
}

// CutSpec describes a cut for NewCut. Exactly one of BelowAll, AboveAll or
// Point must be set.
type CutSpec[T any] struct {
	Domain   Domain[T]
	BelowAll bool
	AboveAll bool
	Point    *T
	Side     Side
}

func NewCut[T any](s CutSpec[T]) (Cut[T], error) {
	n := 0
	for _, set := range []bool{s.BelowAll, s.AboveAll, s.Point != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return Cut[T]{}, errors.Wrapf(ErrInvalidCutSpec, "expected exactly one of below-all, above-all or point, got %d", n)
	}
	if s.Domain.IsZero() {
		return Cut[T]{}, errors.Wrap(ErrInvalidCutSpec, "missing domain")
	}
	switch {
	case s.BelowAll:
		return BelowAll(s.Domain), nil
	case s.AboveAll:
		return AboveAll(s.Domain), nil
	}
	if s.Side > Above {
		return Cut[T]{}, errors.Wrapf(ErrInvalidCutSpec, "unknown side %d", s.Side)
	}
	return Cut[T]{kind: bounded, point: *s.Point, side: s.Side, domain: s.Domain}, nil
}

func BelowAll[T any](d Domain[T]) Cut[T] { return Cut[T]{kind: belowAll, domain: d} }

func AboveAll[T any](d Domain[T]) Cut[T] { return Cut[T]{kind: aboveAll, domain: d} }

// BelowValue returns the cut just below v.
func BelowValue[T any](d Domain[T], v T) Cut[T] {
	return Cut[T]{kind: bounded, point: v, side: Below, domain: d}
}

// AboveValue returns the cut just above v.
func AboveValue[T any](d Domain[T], v T) Cut[T] {
	return Cut[T]{kind: bounded, point: v, side: Above, domain: d}
}

// BelowValueOf is BelowValue in the natural domain of v's type.
func BelowValueOf[T cmp.Ordered](v T) Cut[T] { return BelowValue(Ordered[T](), v) }

// AboveValueOf is AboveValue in the natural domain of v's type.
func AboveValueOf[T cmp.Ordered](v T) Cut[T] { return AboveValue(Ordered[T](), v) }

func (c Cut[T]) IsZero() bool      { return c.domain.IsZero() }
func (c Cut[T]) IsBounded() bool   { return c.kind == bounded }
func (c Cut[T]) IsBelowAll() bool  { return c.kind == belowAll }
func (c Cut[T]) IsAboveAll() bool  { return c.kind == aboveAll }
func (c Cut[T]) Domain() Domain[T] { return c.domain }

// Point returns the point of a bounded cut.
func (c Cut[T]) Point() (T, error) {
	if c.kind != bounded {
		var zero T
		return zero, errors.Wrapf(ErrUnboundedAccess, "cut %s has no point", c)
	}
	return c.point, nil
}

// Side returns the side of a bounded cut.
func (c Cut[T]) Side() (Side, error) {
	if c.kind != bounded {
		return 0, errors.Wrapf(ErrUnboundedAccess, "cut %s has no side", c)
	}
	return c.side, nil
}

func (c Cut[T]) Compare(o Cut[T]) int {
	if c.kind != o.kind {
		return cmp.Compare(c.kind, o.kind)
	}
	if c.kind != bounded {
		return 0
	}
	if n := c.domain.compare(c.point, o.point); n != 0 {
		return n
	}
	return cmp.Compare(c.side, o.side)
}

func (c Cut[T]) Less(o Cut[T]) bool  { return c.Compare(o) < 0 }
func (c Cut[T]) Equal(o Cut[T]) bool { return c.Compare(o) == 0 }

// IsLessThan reports whether the cut lies below v.
func (c Cut[T]) IsLessThan(v T) bool {
	switch c.kind {
	case belowAll:
		return true
	case aboveAll:
		return false
	}
	n := c.domain.compare(c.point, v)
	return n < 0 || (n == 0 && c.side == Below)
}

// IsGreaterThan reports whether the cut lies above v.
func (c Cut[T]) IsGreaterThan(v T) bool {
	switch c.kind {
	case belowAll:
		return false
	case aboveAll:
		return true
	}
	n := c.domain.compare(c.point, v)
	return n > 0 || (n == 0 && c.side == Above)
}

// IsLessThanValue is IsLessThan for values that arrive untyped.
func (c Cut[T]) IsLessThanValue(v any) (bool, error) {
	t, err := c.typed(v)
	if err != nil {
		return false, err
	}
	return c.IsLessThan(t), nil
}

// IsGreaterThanValue is IsGreaterThan for values that arrive untyped.
func (c Cut[T]) IsGreaterThanValue(v any) (bool, error) {
	t, err := c.typed(v)
	if err != nil {
		return false, err
	}
	return c.IsGreaterThan(t), nil
}

func (c Cut[T]) typed(v any) (T, error) {
	t, ok := v.(T)
	if !ok {
		return t, errors.Wrapf(ErrTypeMismatch, "value %v of type %T does not belong to domain %s", v, v, c.domain)
	}
	return t, nil
}

func (c Cut[T]) String() string {
	switch c.kind {
	case belowAll:
		return "-inf"
	case aboveAll:
		return "+inf"
	}
	return fmt.Sprintf("%s(%v)", c.side, c.point)
}

func minCut[T any](a, b Cut[T]) Cut[T] {
	if b.Less(a) {
		return b
	}
	return a
}

func maxCut[T any](a, b Cut[T]) Cut[T] {
	if a.Less(b) {
		return b
	}
	return a
}
