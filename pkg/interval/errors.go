package interval

import "github.com/pkg/errors"

var (
	// ErrInvalidCutSpec is returned when a cut is specified with zero or more
	// than one of below-all, above-all or a point.
	ErrInvalidCutSpec = errors.New("invalid cut spec")
	// ErrTypeMismatch is returned when a value or operand does not belong to
	// a compatible domain.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrInvertedBounds is returned when the lower cut of a range would be
	// greater than its upper cut.
	ErrInvertedBounds = errors.New("inverted bounds")
	// ErrNotRange is returned when a zero or unparsable range is supplied
	// where a range is required.
	ErrNotRange = errors.New("not a range")
	// ErrUnboundedAccess is returned when an endpoint, its closure or a
	// distance is requested on an unbounded side.
	ErrUnboundedAccess = errors.New("unbounded access")
	// ErrNotFound is returned by lookups that match no stored range.
	ErrNotFound = errors.New("not found")
	// ErrValueNotComparable is returned when a bucket value cannot be used
	// as a set member.
	ErrValueNotComparable = errors.New("value not comparable")
)
