package rangeset

import (
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/henderiw/idxrange/pkg/idxtable"
	"github.com/henderiw/idxrange/pkg/interval"
	"github.com/pkg/errors"
)

// RangeSet is a set of pairwise disconnected ranges. Adding a range merges
// it with every stored range it is connected to.
type RangeSet[T any] interface {
	Add(r interval.Range[T]) error
	Remove(r interval.Range[T]) error

	Contains(v T) bool
	Encloses(r interval.Range[T]) bool
	Overlaps(r interval.Range[T]) bool
	WhichOverlaps(r interval.Range[T]) []interval.Range[T]

	Difference(other RangeSet[T]) (RangeSet[T], error)
	Intersection(other RangeSet[T]) (RangeSet[T], error)
	Union(other RangeSet[T]) (RangeSet[T], error)
	Complement() (RangeSet[T], error)

	Ranges() []interval.Range[T]
	Len() int
	Span() (interval.Range[T], bool)
	Domain() string
	Clone() RangeSet[T]
	String() string
}

type Option = idxtable.Option

func WithLogger(l logr.Logger) Option { return idxtable.WithLogger(l) }

// WithDomain declares the domain every added range must be compatible with.
func WithDomain(name string) Option { return idxtable.WithDomain(name) }

func New[T any](opts ...Option) RangeSet[T] {
	return newRangeSet[T](idxtable.NewConfig(opts...))
}

// From returns a set holding the union of ranges.
func From[T any](ranges []interval.Range[T], opts ...Option) (RangeSet[T], error) {
	s := newRangeSet[T](idxtable.NewConfig(opts...))
	for _, rng := range ranges {
		if err := s.Add(rng); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func newRangeSet[T any](cfg *idxtable.Config) *rangeSet[T] {
	return &rangeSet[T]{
		m:     new(sync.RWMutex),
		table: idxtable.New[T, struct{}](),
		cfg:   cfg,
	}
}

type rangeSet[T any] struct {
	m      *sync.RWMutex
	table  *idxtable.Table[T, struct{}]
	cfg    *idxtable.Config
	domain interval.Domain[T]
}

func (r *rangeSet[T]) validate(rng interval.Range[T]) error {
	if err := idxtable.CheckRange(r.cfg, rng); err != nil {
		return err
	}
	r.cfg.Declare(rng.Domain().Name())
	if r.domain.IsZero() {
		r.domain = rng.Domain()
	}
	return nil
}

func (r *rangeSet[T]) Add(rng interval.Range[T]) error {
	r.m.Lock()
	defer r.m.Unlock()

	if err := r.validate(rng); err != nil {
		return err
	}
	r.add(rng)
	return nil
}

func (r *rangeSet[T]) add(rng interval.Range[T]) {
	if rng.IsEmpty() {
		return
	}
	connected := r.table.Window(rng, idxtable.Connected[T])
	merged := rng
	for _, e := range connected {
		// domains were validated on the way in
		merged, _ = merged.Span(e.Range())
		r.table.Delete(e.Range())
	}
	if log := r.cfg.Logger.V(1); len(connected) > 0 && log.Enabled() {
		log.Info("merge", "range", rng.String(), "merged", merged.String(), "absorbed", len(connected))
	}
	r.table.Insert(idxtable.NewEntry(merged, struct{}{}))
}

func (r *rangeSet[T]) Remove(rng interval.Range[T]) error {
	r.m.Lock()
	defer r.m.Unlock()

	if err := idxtable.CheckRange(r.cfg, rng); err != nil {
		return err
	}
	r.remove(rng)
	return nil
}

func (r *rangeSet[T]) remove(rng interval.Range[T]) {
	for _, e := range r.table.Window(rng, idxtable.Overlapping[T]) {
		stored := e.Range()
		if log := r.cfg.Logger.V(1); log.Enabled() {
			log.Info("carve", "stored", stored.String(), "removed", rng.String(), "overlap", stored.OverlapOf(rng).String())
		}
		r.table.Delete(stored)
		// remainders lie inside stored and stay disconnected from the rest
		for _, rest := range stored.Minus(rng) {
			r.table.Insert(idxtable.NewEntry(rest, struct{}{}))
		}
	}
}

func (r *rangeSet[T]) Contains(v T) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	_, ok := r.table.Get(v)
	return ok
}

func (r *rangeSet[T]) Encloses(rng interval.Range[T]) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	if rng.IsZero() {
		return false
	}
	for _, e := range r.table.Window(rng, idxtable.Connected[T]) {
		if e.Range().Encloses(rng) {
			return true
		}
	}
	return false
}

func (r *rangeSet[T]) Overlaps(rng interval.Range[T]) bool {
	return len(r.WhichOverlaps(rng)) > 0
}

func (r *rangeSet[T]) WhichOverlaps(rng interval.Range[T]) []interval.Range[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	if rng.IsZero() {
		return nil
	}
	return r.table.Window(rng, idxtable.Overlapping[T]).Ranges()
}

func (r *rangeSet[T]) checkOther(other RangeSet[T]) error {
	if other == nil {
		return errors.Wrap(interval.ErrNotRange, "nil range set")
	}
	a, b := r.Domain(), other.Domain()
	if a != "" && b != "" && !interval.CompatibleNames(a, b) {
		return errors.Wrapf(interval.ErrTypeMismatch, "range set domain %s, other domain %s", a, b)
	}
	return nil
}

// result returns an empty set sharing the domain and logger of r.
func (r *rangeSet[T]) result(other RangeSet[T]) *rangeSet[T] {
	domain := r.Domain()
	if domain == "" {
		domain = other.Domain()
	}

	r.m.RLock()
	defer r.m.RUnlock()

	s := newRangeSet[T](&idxtable.Config{Logger: r.cfg.Logger, Domain: domain})
	s.domain = r.domain
	return s
}

// Difference returns the values of r that are not in other.
func (r *rangeSet[T]) Difference(other RangeSet[T]) (RangeSet[T], error) {
	if err := r.checkOther(other); err != nil {
		return nil, err
	}
	s := r.result(other)
	for _, a := range r.Ranges() {
		pieces := []interval.Range[T]{a}
		for _, b := range other.WhichOverlaps(a) {
			var next []interval.Range[T]
			for _, p := range pieces {
				next = append(next, p.Minus(b)...)
			}
			pieces = next
		}
		for _, p := range pieces {
			s.add(p)
		}
	}
	return s, nil
}

func (r *rangeSet[T]) Intersection(other RangeSet[T]) (RangeSet[T], error) {
	if err := r.checkOther(other); err != nil {
		return nil, err
	}
	s := r.result(other)
	for _, a := range r.Ranges() {
		for _, b := range other.WhichOverlaps(a) {
			i, err := a.Intersection(b)
			if err != nil {
				return nil, err
			}
			s.add(i)
		}
	}
	return s, nil
}

func (r *rangeSet[T]) Union(other RangeSet[T]) (RangeSet[T], error) {
	if err := r.checkOther(other); err != nil {
		return nil, err
	}
	s := r.result(other)
	for _, rng := range r.Ranges() {
		s.add(rng)
	}
	for _, rng := range other.Ranges() {
		if err := s.validate(rng); err != nil {
			return nil, err
		}
		s.add(rng)
	}
	return s, nil
}

// Complement returns every value of the domain not in r. The domain must
// be known, i.e. r must have held a range.
func (r *rangeSet[T]) Complement() (RangeSet[T], error) {
	r.m.RLock()
	domain := r.domain
	r.m.RUnlock()

	if domain.IsZero() {
		return nil, errors.Wrap(interval.ErrTypeMismatch, "complement of a range set without domain")
	}
	s := newRangeSet[T](&idxtable.Config{Logger: r.cfg.Logger, Domain: domain.Name()})
	s.domain = domain
	s.add(domain.All())
	for _, rng := range r.Ranges() {
		s.remove(rng)
	}
	return s, nil
}

func (r *rangeSet[T]) Ranges() []interval.Range[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.table.Entries().Ranges()
}

func (r *rangeSet[T]) Len() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.table.Len()
}

func (r *rangeSet[T]) Span() (interval.Range[T], bool) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.table.Span()
}

func (r *rangeSet[T]) Domain() string {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.cfg.Domain
}

func (r *rangeSet[T]) Clone() RangeSet[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	cfg := *r.cfg
	return &rangeSet[T]{
		m:      new(sync.RWMutex),
		table:  r.table.Clone(),
		cfg:    &cfg,
		domain: r.domain,
	}
}

func (r *rangeSet[T]) String() string {
	ranges := r.Ranges()
	parts := make([]string, 0, len(ranges))
	for _, rng := range ranges {
		parts = append(parts, rng.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
