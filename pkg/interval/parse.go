package interval

import (
	"cmp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Parse reads the notation produced by Range.String, e.g. "[1,5)",
// "(-inf,3]" or "[2,+inf)".
func (d Domain[T]) Parse(s string, parse func(string) (T, error)) (Range[T], error) {
	s = strings.TrimSpace(s)
	if len(s) < 3 {
		return Range[T]{}, errors.Wrapf(ErrNotRange, "range %q is too short", s)
	}
	lb, rb := s[0], s[len(s)-1]
	if (lb != '[' && lb != '(') || (rb != ']' && rb != ')') {
		return Range[T]{}, errors.Wrapf(ErrNotRange, "range %q must be enclosed in brackets", s)
	}
	c := strings.IndexByte(s, ',')
	if c == -1 {
		return Range[T]{}, errors.Wrapf(ErrNotRange, "no comma in range %q", s)
	}
	from, to := strings.TrimSpace(s[1:c]), strings.TrimSpace(s[c+1:len(s)-1])

	var lower, upper Cut[T]
	switch from {
	case "-inf", "-∞":
		lower = BelowAll(d)
	default:
		v, err := parse(from)
		if err != nil {
			return Range[T]{}, errors.Wrapf(ErrNotRange, "invalid lower endpoint %q in range %q: %v", from, s, err)
		}
		if lb == '[' {
			lower = BelowValue(d, v)
		} else {
			lower = AboveValue(d, v)
		}
	}
	switch to {
	case "+inf", "inf", "+∞", "∞":
		upper = AboveAll(d)
	default:
		v, err := parse(to)
		if err != nil {
			return Range[T]{}, errors.Wrapf(ErrNotRange, "invalid upper endpoint %q in range %q: %v", to, s, err)
		}
		if rb == ']' {
			upper = AboveValue(d, v)
		} else {
			upper = BelowValue(d, v)
		}
	}
	return NewRange(lower, upper)
}

// ParseRange parses a range in the natural domain of T.
func ParseRange[T cmp.Ordered](s string, parse func(string) (T, error)) (Range[T], error) {
	return Ordered[T]().Parse(s, parse)
}

func ParseIntRange(s string) (Range[int], error) {
	return ParseRange(s, strconv.Atoi)
}

func ParseFloatRange(s string) (Range[float64], error) {
	return ParseRange(s, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}
