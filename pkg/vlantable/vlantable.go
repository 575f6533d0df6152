package vlantable

import (
	"sync"

	"github.com/go-logr/logr"
	"github.com/henderiw/idxrange/pkg/idxtable"
	"github.com/henderiw/idxrange/pkg/interval"
	"github.com/henderiw/idxrange/pkg/rangemap"
	"github.com/henderiw/idxrange/pkg/rangeset"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/util/sets"
)

// VLANTable allocates VLAN IDs out of 0..4095. Claims are stored as
// half-open ranges [lo, hi) so that adjacent ids coalesce in the free pool.
type VLANTable interface {
	Get(id int64) (labels.Set, error)
	Claim(id int64, d labels.Set) error
	ClaimRange(r interval.Range[int64], d labels.Set) error
	ClaimSize(size int64, d labels.Set) (interval.Range[int64], error)
	ClaimDynamic(d labels.Set) (int64, error)
	Release(id int64) error
	ReleaseRange(r interval.Range[int64]) error
	Update(id int64, d labels.Set) error

	Count() int
	Has(id int64) bool

	IsFree(id int64) bool
	FindFree(size int64) (interval.Range[int64], error)
	Free() []interval.Range[int64]

	GetAll() map[int64]labels.Set
	GetByLabel(selector labels.Selector) map[int64]labels.Set
}

const maxVLAN int64 = 4095

var vlanDomain = interval.Ordered[int64]().Sub("vlan")

var initEntries = map[int64]labels.Set{
	0:       map[string]string{"type": "untagged", "status": "reserved"},
	1:       map[string]string{"type": "untagged", "status": "reserved"},
	maxVLAN: map[string]string{"type": "untagged", "status": "reserved"},
}

func validate(id int64) error {
	switch id {
	case 0:
		return errors.Errorf("VLAN %d is the untagged VLAN, cannot be added to the database", id)
	case 1:
		return errors.Errorf("VLAN %d is the default VLAN, cannot be added to the database", id)
	case maxVLAN:
		return errors.Errorf("VLAN %d is reserved, cannot be added to the database", id)
	}
	return nil
}

type Option = idxtable.Option

func WithLogger(l logr.Logger) Option { return idxtable.WithLogger(l) }

func New(opts ...Option) (VLANTable, error) {
	opts = append([]Option{idxtable.WithDomain(vlanDomain.Name())}, opts...)
	r := &vlanTable{
		m:      new(sync.RWMutex),
		claims: rangemap.New[int64, labels.Set](opts...),
		free:   rangeset.New[int64](opts...),
	}
	if err := r.free.Add(interval.Must(vlanDomain.ClosedOpen(0, maxVLAN+1))); err != nil {
		return nil, err
	}
	for _, id := range sets.List(sets.KeySet(initEntries)) {
		rng := idRange(id)
		if err := r.claims.Put(rng, initEntries[id]); err != nil {
			return nil, err
		}
		if err := r.free.Remove(rng); err != nil {
			return nil, err
		}
	}
	return r, nil
}

type vlanTable struct {
	m      *sync.RWMutex
	claims rangemap.RangeMap[int64, labels.Set]
	free   rangeset.RangeSet[int64]
}

func (r *vlanTable) Get(id int64) (labels.Set, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.m.RLock()
	defer r.m.RUnlock()

	return r.claims.Get(id)
}

func (r *vlanTable) Claim(id int64, d labels.Set) error {
	if err := checkID(id); err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()

	return r.claim(idRange(id), d)
}

func (r *vlanTable) ClaimRange(rng interval.Range[int64], d labels.Set) error {
	ids, err := span(rng)
	if err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()

	return r.claim(ids, d)
}

func (r *vlanTable) ClaimSize(size int64, d labels.Set) (interval.Range[int64], error) {
	r.m.Lock()
	defer r.m.Unlock()

	ids, err := r.findFree(size)
	if err != nil {
		return interval.Range[int64]{}, err
	}
	if err := r.claim(ids, d); err != nil {
		return interval.Range[int64]{}, err
	}
	return ids, nil
}

func (r *vlanTable) ClaimDynamic(d labels.Set) (int64, error) {
	ids, err := r.ClaimSize(1, d)
	if err != nil {
		return -1, err
	}
	return ids.Min(), nil
}

func (r *vlanTable) claim(ids interval.Range[int64], d labels.Set) error {
	if err := checkReserved(ids); err != nil {
		return err
	}
	if !r.free.Encloses(ids) {
		return errors.Errorf("vlan range %s is already claimed", ids)
	}
	if err := r.claims.Put(ids, d); err != nil {
		return err
	}
	return r.free.Remove(ids)
}

func (r *vlanTable) Release(id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()

	return r.release(idRange(id))
}

// ReleaseRange returns every id of rng to the free pool. Ids that were not
// claimed are left untouched.
func (r *vlanTable) ReleaseRange(rng interval.Range[int64]) error {
	ids, err := span(rng)
	if err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()

	return r.release(ids)
}

func (r *vlanTable) release(ids interval.Range[int64]) error {
	if err := checkReserved(ids); err != nil {
		return err
	}
	if err := r.claims.Remove(ids); err != nil {
		return err
	}
	return r.free.Add(ids)
}

// Update replaces the labels of a claimed id. When the id is part of a
// larger claim, only the id itself gets the new labels.
func (r *vlanTable) Update(id int64, d labels.Set) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := validate(id); err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()

	if _, err := r.claims.Get(id); err != nil {
		return errors.Wrapf(err, "update failed, id %d not claimed", id)
	}
	return r.claims.Put(idRange(id), d)
}

// Count returns the number of claimed ids, reserved ids included.
func (r *vlanTable) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	count := 0
	for _, e := range r.claims.Entries() {
		lo, hi := bounds(e.Range())
		count += int(hi - lo)
	}
	return count
}

func (r *vlanTable) Has(id int64) bool {
	_, err := r.Get(id)
	return err == nil
}

func (r *vlanTable) IsFree(id int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.free.Contains(id)
}

// FindFree returns the lowest block of size consecutive free ids.
func (r *vlanTable) FindFree(size int64) (interval.Range[int64], error) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.findFree(size)
}

func (r *vlanTable) findFree(size int64) (interval.Range[int64], error) {
	if size < 1 {
		return interval.Range[int64]{}, errors.Errorf("invalid size %d", size)
	}
	for _, f := range r.free.Ranges() {
		lo, hi := bounds(f)
		if hi-lo >= size {
			return vlanDomain.ClosedOpen(lo, lo+size)
		}
	}
	return interval.Range[int64]{}, errors.Errorf("no free vlan range of size %d", size)
}

func (r *vlanTable) Free() []interval.Range[int64] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.free.Ranges()
}

func (r *vlanTable) GetAll() map[int64]labels.Set {
	return r.GetByLabel(labels.Everything())
}

func (r *vlanTable) GetByLabel(selector labels.Selector) map[int64]labels.Set {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := map[int64]labels.Set{}
	iter := r.claims.Iterate()
	for iter.Next() {
		d := iter.Value().Data()
		if !selector.Matches(d) {
			continue
		}
		lo, hi := bounds(iter.Range())
		for id := lo; id < hi; id++ {
			entries[id] = d
		}
	}
	return entries
}

func checkID(id int64) error {
	if id < 0 || id > maxVLAN {
		return errors.Errorf("id %d does not fit in the range from 0 to %d", id, maxVLAN)
	}
	return nil
}

func checkReserved(ids interval.Range[int64]) error {
	for _, id := range sets.List(sets.KeySet(initEntries)) {
		if ids.Contains(id) {
			return validate(id)
		}
	}
	return nil
}

func idRange(id int64) interval.Range[int64] {
	return interval.Must(vlanDomain.ClosedOpen(id, id+1))
}

// span returns the ids held by rng as a half-open vlan range.
func span(rng interval.Range[int64]) (interval.Range[int64], error) {
	if rng.IsZero() {
		return rng, errors.Wrap(interval.ErrNotRange, "zero vlan range")
	}
	if !interval.CompatibleNames(rng.Domain().Name(), vlanDomain.Name()) {
		return rng, errors.Wrapf(interval.ErrTypeMismatch, "range %s in domain %s", rng, rng.Domain())
	}
	lo, err := rng.LowerEndpoint()
	if err != nil {
		return rng, err
	}
	hi, err := rng.UpperEndpoint()
	if err != nil {
		return rng, err
	}
	if closed, _ := rng.IsLowerBoundClosed(); !closed {
		lo++
	}
	if closed, _ := rng.IsUpperBoundClosed(); closed {
		hi++
	}
	if lo < 0 || hi > maxVLAN+1 {
		return rng, errors.Errorf("vlan range %s does not fit in the range from 0 to %d", rng, maxVLAN)
	}
	if lo >= hi {
		return rng, errors.Errorf("vlan range %s holds no ids", rng)
	}
	return vlanDomain.ClosedOpen(lo, hi)
}

// bounds returns the endpoints of a range built by span or idRange.
func bounds(rng interval.Range[int64]) (int64, int64) {
	return rng.Min(), rng.Max()
}
