package interval

import (
	"cmp"
	"fmt"
	"strings"
)

// Domain names an ordered value space and carries its comparison. Cuts and
// ranges only combine when their domains are compatible.
type Domain[T any] struct {
	name    string
	compare func(a, b T) int
}

// NewDomain returns a domain for any type with an explicit comparison,
// e.g. NewDomain("netip.Addr", netip.Addr.Compare).
func NewDomain[T any](name string, compare func(a, b T) int) Domain[T] {
	return Domain[T]{name: name, compare: compare}
}

// Ordered returns the natural domain of T, named after the type.
func Ordered[T cmp.Ordered]() Domain[T] {
	var zero T
	return Domain[T]{name: fmt.Sprintf("%T", zero), compare: cmp.Compare[T]}
}

func (d Domain[T]) Name() string { return d.name }

func (d Domain[T]) IsZero() bool { return d.compare == nil }

// Sub derives a sub-domain, which stays compatible with d.
func (d Domain[T]) Sub(name string) Domain[T] {
	return Domain[T]{name: d.name + "." + name, compare: d.compare}
}

func (d Domain[T]) Compatible(o Domain[T]) bool {
	return CompatibleNames(d.name, o.name)
}

func (d Domain[T]) String() string { return d.name }

// CompatibleNames reports whether two domain names are identical or one is
// a sub-domain of the other.
func CompatibleNames(a, b string) bool {
	return a == b || strings.HasPrefix(a, b+".") || strings.HasPrefix(b, a+".")
}

// narrower returns the more specific of two compatible domains.
func narrower[T any](a, b Domain[T]) Domain[T] {
	if a.IsZero() || len(b.name) > len(a.name) {
		return b
	}
	return a
}
