package rangemap

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/henderiw/idxrange/pkg/idxtable"
	"github.com/henderiw/idxrange/pkg/interval"
	"github.com/pkg/errors"
)

// RangeMap maps pairwise non-overlapping ranges to values. Putting a range
// overwrites whatever it overlaps; partially covered entries keep their
// uncovered remainders with the original value.
type RangeMap[T, V any] interface {
	Put(r interval.Range[T], v V) error
	Remove(r interval.Range[T]) error

	Get(v T) (V, error)
	GetEntry(v T) (idxtable.Entry[T, V], error)
	GetRange(r interval.Range[T]) ([]V, error)
	Overlaps(r interval.Range[T]) bool
	WhichOverlaps(r interval.Range[T]) []interval.Range[T]

	Entries() idxtable.Entries[T, V]
	Iterate() *idxtable.Iterator[T, V]
	Len() int
	Span() (interval.Range[T], bool)
	Domain() string
	String() string
}

type Option = idxtable.Option

func WithLogger(l logr.Logger) Option { return idxtable.WithLogger(l) }

// WithDomain declares the domain every key range must be compatible with.
func WithDomain(name string) Option { return idxtable.WithDomain(name) }

func New[T, V any](opts ...Option) RangeMap[T, V] {
	return &rangeMap[T, V]{
		m:     new(sync.RWMutex),
		table: idxtable.New[T, V](),
		cfg:   idxtable.NewConfig(opts...),
	}
}

type rangeMap[T, V any] struct {
	m     *sync.RWMutex
	table *idxtable.Table[T, V]
	cfg   *idxtable.Config
}

func (r *rangeMap[T, V]) Put(rng interval.Range[T], v V) error {
	r.m.Lock()
	defer r.m.Unlock()

	if err := idxtable.CheckRange(r.cfg, rng); err != nil {
		return err
	}
	r.cfg.Declare(rng.Domain().Name())
	if rng.IsEmpty() {
		return nil
	}
	remainders := r.carve(rng)
	r.table.Insert(idxtable.NewEntry(rng, v))
	for _, e := range remainders {
		r.table.Insert(e)
	}
	return nil
}

func (r *rangeMap[T, V]) Remove(rng interval.Range[T]) error {
	r.m.Lock()
	defer r.m.Unlock()

	if err := idxtable.CheckRange(r.cfg, rng); err != nil {
		return err
	}
	for _, e := range r.carve(rng) {
		r.table.Insert(e)
	}
	return nil
}

// carve deletes every entry overlapping key and returns the parts of them
// key does not cover, each with its original value. The returned entries
// are disjoint from key and from each other.
func (r *rangeMap[T, V]) carve(key interval.Range[T]) idxtable.Entries[T, V] {
	var remainders idxtable.Entries[T, V]
	for _, e := range r.table.Window(key, idxtable.Overlapping[T]) {
		stored := e.Range()
		if log := r.cfg.Logger.V(1); log.Enabled() {
			log.Info("carve", "stored", stored.String(), "key", key.String(), "overlap", stored.OverlapOf(key).String())
		}

		r.table.Delete(stored)
		// covered entries leave nothing, edge overlaps one piece, interior two
		for _, rest := range stored.Minus(key) {
			remainders = append(remainders, idxtable.NewEntry(rest, e.Data()))
		}
	}
	return remainders
}

func (r *rangeMap[T, V]) Get(v T) (V, error) {
	e, err := r.GetEntry(v)
	if err != nil {
		var zero V
		return zero, err
	}
	return e.Data(), nil
}

func (r *rangeMap[T, V]) GetEntry(v T) (idxtable.Entry[T, V], error) {
	r.m.RLock()
	defer r.m.RUnlock()

	e, ok := r.table.Get(v)
	if !ok {
		return nil, errors.Wrapf(interval.ErrNotFound, "no range contains %v", v)
	}
	return e, nil
}

// GetRange returns the values of every entry overlapping rng, in range
// order. A value appears once per entry holding it.
func (r *rangeMap[T, V]) GetRange(rng interval.Range[T]) ([]V, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	if err := idxtable.CheckRange(r.cfg, rng); err != nil {
		return nil, err
	}
	entries := r.table.Window(rng, idxtable.Overlapping[T])
	if len(entries) == 0 {
		return nil, errors.Wrapf(interval.ErrNotFound, "no range overlaps %s", rng)
	}
	values := make([]V, 0, len(entries))
	for _, e := range entries {
		values = append(values, e.Data())
	}
	return values, nil
}

func (r *rangeMap[T, V]) Overlaps(rng interval.Range[T]) bool {
	return len(r.WhichOverlaps(rng)) > 0
}

func (r *rangeMap[T, V]) WhichOverlaps(rng interval.Range[T]) []interval.Range[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	if rng.IsZero() {
		return nil
	}
	return r.table.Window(rng, idxtable.Overlapping[T]).Ranges()
}

func (r *rangeMap[T, V]) Entries() idxtable.Entries[T, V] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.table.Entries()
}

func (r *rangeMap[T, V]) Iterate() *idxtable.Iterator[T, V] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.table.Iterate()
}

func (r *rangeMap[T, V]) Len() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.table.Len()
}

func (r *rangeMap[T, V]) Span() (interval.Range[T], bool) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.table.Span()
}

func (r *rangeMap[T, V]) Domain() string {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.cfg.Domain
}

func (r *rangeMap[T, V]) String() string {
	entries := r.Entries()
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s=%v", e.Range(), e.Data()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
