package interval

import (
	"math"

	"github.com/pkg/errors"
)

// DistanceFunc measures the distance between two points of a domain.
type DistanceFunc[T any] func(a, b T) float64

type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// AbsDiff is the absolute difference of two numbers.
func AbsDiff[T Number](a, b T) float64 {
	return math.Abs(float64(a) - float64(b))
}

func defaultDistance[T any](a, b T) (float64, error) {
	switch x := any(a).(type) {
	case int:
		return AbsDiff(x, any(b).(int)), nil
	case int8:
		return AbsDiff(x, any(b).(int8)), nil
	case int16:
		return AbsDiff(x, any(b).(int16)), nil
	case int32:
		return AbsDiff(x, any(b).(int32)), nil
	case int64:
		return AbsDiff(x, any(b).(int64)), nil
	case uint:
		return AbsDiff(x, any(b).(uint)), nil
	case uint8:
		return AbsDiff(x, any(b).(uint8)), nil
	case uint16:
		return AbsDiff(x, any(b).(uint16)), nil
	case uint32:
		return AbsDiff(x, any(b).(uint32)), nil
	case uint64:
		return AbsDiff(x, any(b).(uint64)), nil
	case float32:
		return AbsDiff(x, any(b).(float32)), nil
	case float64:
		return AbsDiff(x, any(b).(float64)), nil
	}
	return 0, errors.Wrapf(ErrTypeMismatch, "no default distance for %T", a)
}

func (r Range[T]) distance(fn DistanceFunc[T], a, b T) (float64, error) {
	if fn != nil {
		return fn(a, b), nil
	}
	return defaultDistance(a, b)
}

func (r Range[T]) requireClosed() error {
	lc, err := r.IsLowerBoundClosed()
	if err != nil {
		return err
	}
	uc, err := r.IsUpperBoundClosed()
	if err != nil {
		return err
	}
	if !lc || !uc {
		return errors.Wrapf(ErrUnboundedAccess, "distance requires a closed range, got %s", r)
	}
	return nil
}

// DistanceFromPoint returns 0 when v lies in r, otherwise the distance from
// v to the nearest endpoint. A nil fn uses the absolute difference.
func (r Range[T]) DistanceFromPoint(v T, fn DistanceFunc[T]) (float64, error) {
	if err := r.requireClosed(); err != nil {
		return 0, err
	}
	if r.Contains(v) {
		return 0, nil
	}
	lo, err := r.distance(fn, r.lower.point, v)
	if err != nil {
		return 0, err
	}
	hi, err := r.distance(fn, r.upper.point, v)
	if err != nil {
		return 0, err
	}
	return math.Min(lo, hi), nil
}

// DistanceFromRange returns 0 when r and o are connected, otherwise the
// smallest distance between facing endpoints.
func (r Range[T]) DistanceFromRange(o Range[T], fn DistanceFunc[T]) (float64, error) {
	if err := r.checkDomain(o); err != nil {
		return 0, err
	}
	if err := r.requireClosed(); err != nil {
		return 0, err
	}
	if err := o.requireClosed(); err != nil {
		return 0, err
	}
	if r.IsConnected(o) {
		return 0, nil
	}
	a, err := r.distance(fn, r.lower.point, o.upper.point)
	if err != nil {
		return 0, err
	}
	b, err := r.distance(fn, r.upper.point, o.lower.point)
	if err != nil {
		return 0, err
	}
	return math.Min(a, b), nil
}
