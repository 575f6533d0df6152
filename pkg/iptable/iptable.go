package iptable

import (
	"math"
	"math/big"
	"net/netip"
	"sync"

	"github.com/go-logr/logr"
	"github.com/hansthienpondt/nipam/pkg/table"
	"github.com/henderiw/idxrange/pkg/idxtable"
	"github.com/henderiw/idxrange/pkg/interval"
	"github.com/henderiw/idxrange/pkg/rangemap"
	"github.com/pkg/errors"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

type IPTable interface {
	Get(addr string) (table.Route, error)
	Claim(addr string, d table.Route) error
	ClaimRange(ipRange netipx.IPRange, d table.Route) error
	Release(addr string) error
	ReleaseRange(ipRange netipx.IPRange) error
	Update(addr string, d table.Route) error

	Count() int
	Has(addr string) bool

	IsFree(addr string) bool
	FindFree() (netip.Addr, error)
	Free() []netipx.IPRange

	GetAll() table.Routes
	GetByLabel(selector labels.Selector) table.Routes
}

var addrDomain = interval.NewDomain("netip.Addr", netip.Addr.Compare)

type Option = idxtable.Option

func WithLogger(l logr.Logger) Option { return idxtable.WithLogger(l) }

func New(from, to netip.Addr, opts ...Option) (IPTable, error) {
	ipRange := netipx.IPRangeFrom(from, to)
	if !ipRange.IsValid() {
		return nil, errors.Errorf("invalid ip range from %s to %s", from, to)
	}
	opts = append([]Option{idxtable.WithDomain(addrDomain.Name())}, opts...)
	return &ipTable{
		m:       new(sync.RWMutex),
		claims:  rangemap.New[netip.Addr, table.Route](opts...),
		ipRange: ipRange,
	}, nil
}

type ipTable struct {
	m       *sync.RWMutex
	claims  rangemap.RangeMap[netip.Addr, table.Route]
	ipRange netipx.IPRange
}

func (r *ipTable) Get(addr string) (table.Route, error) {
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return table.Route{}, err
	}
	r.m.RLock()
	defer r.m.RUnlock()

	return r.claims.Get(claimIP)
}

func (r *ipTable) Claim(addr string, d table.Route) error {
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	return r.ClaimRange(netipx.IPRangeFrom(claimIP, claimIP), d)
}

// ClaimRange claims every address of ipRange for d. It fails when any of
// them is claimed already.
func (r *ipTable) ClaimRange(ipRange netipx.IPRange, d table.Route) error {
	rng, err := r.validateRange(ipRange)
	if err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()

	if claimed := r.claims.WhichOverlaps(rng); len(claimed) > 0 {
		return errors.Errorf("claim failed ip range %s overlaps claimed range %s", ipRange, toIPRange(claimed[0]))
	}
	return r.claims.Put(rng, d)
}

func (r *ipTable) Release(addr string) error {
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	return r.ReleaseRange(netipx.IPRangeFrom(claimIP, claimIP))
}

func (r *ipTable) ReleaseRange(ipRange netipx.IPRange) error {
	rng, err := r.validateRange(ipRange)
	if err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()

	return r.claims.Remove(carveKey(rng))
}

// Update replaces the route of a claimed address. When the address is part
// of a larger claim, only the address itself gets the new route.
func (r *ipTable) Update(addr string, d table.Route) error {
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()

	if _, err := r.claims.Get(claimIP); err != nil {
		return errors.Wrapf(err, "update failed ip %s not claimed", addr)
	}
	rng := addrRange(claimIP, claimIP)
	if err := r.claims.Remove(carveKey(rng)); err != nil {
		return err
	}
	return r.claims.Put(rng, d)
}

// Count returns the number of claimed addresses.
func (r *ipTable) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	count := new(big.Int)
	for _, e := range r.claims.Entries() {
		count.Add(count, numIPs(e.Range().Min(), e.Range().Max()))
	}
	if !count.IsInt64() || count.Int64() > math.MaxInt {
		return math.MaxInt
	}
	return int(count.Int64())
}

func (r *ipTable) Has(addr string) bool {
	_, err := r.Get(addr)
	return err == nil
}

func (r *ipTable) IsFree(addr string) bool {
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	r.m.RLock()
	defer r.m.RUnlock()

	return !r.claims.Overlaps(addrRange(claimIP, claimIP))
}

func (r *ipTable) FindFree() (netip.Addr, error) {
	free := r.Free()
	if len(free) == 0 {
		return netip.Addr{}, errors.Errorf("no free address in %s", r.ipRange)
	}
	return free[0].From(), nil
}

// Free returns the unclaimed parts of the table range.
func (r *ipTable) Free() []netipx.IPRange {
	r.m.RLock()
	defer r.m.RUnlock()

	var b netipx.IPSetBuilder
	b.AddRange(r.ipRange)
	for _, e := range r.claims.Entries() {
		b.RemoveRange(toIPRange(e.Range()))
	}
	s, err := b.IPSet()
	if err != nil {
		return nil
	}
	return s.Ranges()
}

func (r *ipTable) GetAll() table.Routes {
	return r.GetByLabel(labels.Everything())
}

// GetByLabel returns one route per claimed address whose route labels match
// selector, in address order.
func (r *ipTable) GetByLabel(selector labels.Selector) table.Routes {
	r.m.RLock()
	defer r.m.RUnlock()

	var routes table.Routes
	iter := r.claims.Iterate()
	for iter.Next() {
		route := iter.Value().Data()
		if !selector.Matches(route.Labels()) {
			continue
		}
		last := iter.Range().Max()
		for addr := iter.Range().Min(); addr.IsValid() && addr.Compare(last) <= 0; addr = addr.Next() {
			routes = append(routes, route)
		}
	}
	return routes
}

func (r *ipTable) validateIP(addr string) (netip.Addr, error) {
	claimIP, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Addr{}, errors.Wrapf(err, "ip address %s is invalid", addr)
	}
	if !r.ipRange.Contains(claimIP) {
		return netip.Addr{}, errors.Errorf("ip address %s, does not fit in the range from %s to %s", addr, r.ipRange.From(), r.ipRange.To())
	}
	return claimIP, nil
}

func (r *ipTable) validateRange(ipRange netipx.IPRange) (interval.Range[netip.Addr], error) {
	if !ipRange.IsValid() {
		return interval.Range[netip.Addr]{}, errors.Errorf("ip range %s is invalid", ipRange)
	}
	if !r.ipRange.Contains(ipRange.From()) || !r.ipRange.Contains(ipRange.To()) {
		return interval.Range[netip.Addr]{}, errors.Errorf("ip range %s, does not fit in the range from %s to %s", ipRange, r.ipRange.From(), r.ipRange.To())
	}
	return addrRange(ipRange.From(), ipRange.To()), nil
}

func addrRange(from, to netip.Addr) interval.Range[netip.Addr] {
	return interval.Must(addrDomain.Closed(from, to))
}

// carveKey widens the closed range rng up to the neighbouring addresses,
// excluding them, so that removing it from a stored closed range leaves
// closed remainders.
func carveKey(rng interval.Range[netip.Addr]) interval.Range[netip.Addr] {
	lower, upper := interval.BelowAll(addrDomain), interval.AboveAll(addrDomain)
	if prev := rng.Min().Prev(); prev.IsValid() {
		lower = interval.AboveValue(addrDomain, prev)
	}
	if next := rng.Max().Next(); next.IsValid() {
		upper = interval.BelowValue(addrDomain, next)
	}
	return interval.Must(interval.NewRange(lower, upper))
}

// toIPRange converts a stored closed range back to the addresses it holds.
func toIPRange(rng interval.Range[netip.Addr]) netipx.IPRange {
	return netipx.IPRangeFrom(rng.Min(), rng.Max())
}

// numIPs returns the number of addresses from startIP to endIP inclusive.
func numIPs(startIP, endIP netip.Addr) *big.Int {
	diff := new(big.Int).Sub(ipToInt(endIP), ipToInt(startIP))
	return diff.Add(diff, big.NewInt(1))
}

func ipToInt(ip netip.Addr) *big.Int {
	bytes := ip.As16()
	return new(big.Int).SetBytes(bytes[:])
}
