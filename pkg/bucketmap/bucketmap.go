package bucketmap

import (
	"fmt"
	"iter"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/henderiw/idxrange/pkg/idxtable"
	"github.com/henderiw/idxrange/pkg/interval"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/sets"
)

// BucketMap maps pairwise non-overlapping ranges to sets of values. Where a
// put overlaps stored entries the value sets are united instead of
// overwritten.
type BucketMap[T any, V comparable] interface {
	Put(r interval.Range[T], v V) error
	PutSet(r interval.Range[T], values sets.Set[V]) error
	Remove(r interval.Range[T]) error

	Get(v T) (sets.Set[V], error)
	GetRange(r interval.Range[T]) (sets.Set[V], error)
	Overlaps(r interval.Range[T]) bool
	WhichOverlaps(r interval.Range[T]) []interval.Range[T]

	Items(window interval.Range[T]) iter.Seq2[interval.Range[T], V]
	All() iter.Seq2[interval.Range[T], V]

	Entries() idxtable.Entries[T, sets.Set[V]]
	Len() int
	Span() (interval.Range[T], bool)
	Domain() string
	String() string
}

type Option = idxtable.Option

func WithLogger(l logr.Logger) Option { return idxtable.WithLogger(l) }

// WithDomain declares the domain every key range must be compatible with.
func WithDomain(name string) Option { return idxtable.WithDomain(name) }

func New[T any, V comparable](opts ...Option) BucketMap[T, V] {
	return &bucketMap[T, V]{
		m:     new(sync.RWMutex),
		table: idxtable.New[T, sets.Set[V]](),
		cfg:   idxtable.NewConfig(opts...),
	}
}

type bucketMap[T any, V comparable] struct {
	m     *sync.RWMutex
	table *idxtable.Table[T, sets.Set[V]]
	cfg   *idxtable.Config
}

func (r *bucketMap[T, V]) Put(rng interval.Range[T], v V) error {
	if err := checkComparable(v); err != nil {
		return err
	}
	return r.PutSet(rng, sets.New(v))
}

func (r *bucketMap[T, V]) PutSet(rng interval.Range[T], values sets.Set[V]) error {
	r.m.Lock()
	defer r.m.Unlock()

	if err := idxtable.CheckRange(r.cfg, rng); err != nil {
		return err
	}
	for v := range values {
		if err := checkComparable(v); err != nil {
			return err
		}
	}
	r.cfg.Declare(rng.Domain().Name())
	if rng.IsEmpty() || values.Len() == 0 {
		return nil
	}
	for _, e := range r.carve(rng, values) {
		r.table.Insert(e)
	}
	return nil
}

// checkComparable rejects values that would panic as map keys, e.g. an
// interface holding a slice.
func checkComparable[V comparable](v V) error {
	rv := reflect.ValueOf(v)
	if rv.IsValid() && !rv.Comparable() {
		return errors.Wrapf(interval.ErrValueNotComparable, "value of type %T", v)
	}
	return nil
}

// carve deletes every entry overlapping key and returns the disjoint
// fragments replacing key and those entries: the parts of an entry outside
// key keep its set, the part inside key gets the union with values, and
// parts of key no entry covered get values alone.
func (r *bucketMap[T, V]) carve(key interval.Range[T], values sets.Set[V]) idxtable.Entries[T, sets.Set[V]] {
	var fragments idxtable.Entries[T, sets.Set[V]]
	gaps := []interval.Range[T]{key}
	for _, e := range r.table.Window(key, idxtable.Overlapping[T]) {
		stored := e.Range()
		if log := r.cfg.Logger.V(1); log.Enabled() {
			log.Info("carve", "stored", stored.String(), "key", key.String(), "overlap", stored.OverlapOf(key).String())
		}

		r.table.Delete(stored)
		for _, rest := range stored.Minus(key) {
			fragments = append(fragments, idxtable.NewEntry(rest, e.Data().Clone()))
		}
		within, err := stored.Intersection(key)
		if err == nil {
			fragments = append(fragments, idxtable.NewEntry(within, e.Data().Union(values)))
		}

		var next []interval.Range[T]
		for _, gap := range gaps {
			next = append(next, gap.Minus(stored)...)
		}
		gaps = next
	}
	for _, gap := range gaps {
		fragments = append(fragments, idxtable.NewEntry(gap, values.Clone()))
	}
	return fragments
}

func (r *bucketMap[T, V]) Remove(rng interval.Range[T]) error {
	r.m.Lock()
	defer r.m.Unlock()

	if err := idxtable.CheckRange(r.cfg, rng); err != nil {
		return err
	}
	for _, e := range r.table.Window(rng, idxtable.Overlapping[T]) {
		stored := e.Range()
		if log := r.cfg.Logger.V(1); log.Enabled() {
			log.Info("remove", "stored", stored.String(), "key", rng.String(), "overlap", stored.OverlapOf(rng).String())
		}
		r.table.Delete(stored)
		for _, rest := range stored.Minus(rng) {
			r.table.Insert(idxtable.NewEntry(rest, e.Data().Clone()))
		}
	}
	return nil
}

// Get returns a copy of the set stored at v.
func (r *bucketMap[T, V]) Get(v T) (sets.Set[V], error) {
	r.m.RLock()
	defer r.m.RUnlock()

	e, ok := r.table.Get(v)
	if !ok {
		return nil, errors.Wrapf(interval.ErrNotFound, "no range contains %v", v)
	}
	return e.Data().Clone(), nil
}

// GetRange returns the union of the sets of all entries overlapping rng.
func (r *bucketMap[T, V]) GetRange(rng interval.Range[T]) (sets.Set[V], error) {
	r.m.RLock()
	defer r.m.RUnlock()

	if err := idxtable.CheckRange(r.cfg, rng); err != nil {
		return nil, err
	}
	entries := r.table.Window(rng, idxtable.Overlapping[T])
	if len(entries) == 0 {
		return nil, errors.Wrapf(interval.ErrNotFound, "no range overlaps %s", rng)
	}
	values := sets.New[V]()
	for _, e := range entries {
		values.Insert(e.Data().UnsortedList()...)
	}
	return values, nil
}

func (r *bucketMap[T, V]) Overlaps(rng interval.Range[T]) bool {
	return len(r.WhichOverlaps(rng)) > 0
}

func (r *bucketMap[T, V]) WhichOverlaps(rng interval.Range[T]) []interval.Range[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	if rng.IsZero() {
		return nil
	}
	return r.table.Window(rng, idxtable.Overlapping[T]).Ranges()
}

func (r *bucketMap[T, V]) Entries() idxtable.Entries[T, sets.Set[V]] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.table.Entries()
}

func (r *bucketMap[T, V]) Len() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.table.Len()
}

func (r *bucketMap[T, V]) Span() (interval.Range[T], bool) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.table.Span()
}

func (r *bucketMap[T, V]) Domain() string {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.cfg.Domain
}

func (r *bucketMap[T, V]) String() string {
	entries := r.Entries()
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s=%s", e.Range(), setString(e.Data())))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// sortedValues returns the values of s ordered by their printed form.
func sortedValues[V comparable](s sets.Set[V]) []V {
	values := s.UnsortedList()
	sort.SliceStable(values, func(i, j int) bool {
		return fmt.Sprint(values[i]) < fmt.Sprint(values[j])
	})
	return values
}

func setString[V comparable](s sets.Set[V]) string {
	values := make([]string, 0, s.Len())
	for _, v := range sortedValues(s) {
		values = append(values, fmt.Sprint(v))
	}
	return "{" + strings.Join(values, ",") + "}"
}
