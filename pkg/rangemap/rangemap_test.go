package rangemap

import (
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/google/go-cmp/cmp"
	"github.com/henderiw/idxrange/pkg/interval"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type put struct {
	r string
	v string
}

func rng(t *testing.T, s string) interval.Range[float64] {
	t.Helper()
	r, err := interval.ParseFloatRange(s)
	require.NoError(t, err)
	return r
}

func newMap(t *testing.T, puts ...put) RangeMap[float64, string] {
	t.Helper()
	m := New[float64, string](WithLogger(testr.NewWithOptions(t, testr.Options{Verbosity: 1})))
	for _, p := range puts {
		require.NoError(t, m.Put(rng(t, p.r), p.v))
	}
	return m
}

func TestPut(t *testing.T) {
	cases := map[string]struct {
		puts     []put
		expected string
	}{
		"Interior": {
			puts:     []put{{"[1,5]", "a"}, {"[3,4]", "b"}},
			expected: "{[1,3)=a, [3,4]=b, (4,5]=a}",
		},
		"Start": {
			puts:     []put{{"[1,5]", "a"}, {"[0,2)", "b"}},
			expected: "{[0,2)=b, [2,5]=a}",
		},
		"End": {
			puts:     []put{{"[1,5]", "a"}, {"(4,9]", "b"}},
			expected: "{[1,4]=a, (4,9]=b}",
		},
		"Covers": {
			puts:     []put{{"[1,2]", "a"}, {"[3,4]", "b"}, {"[0,10]", "c"}},
			expected: "{[0,10]=c}",
		},
		"Same": {
			puts:     []put{{"[1,5]", "a"}, {"[1,5]", "b"}},
			expected: "{[1,5]=b}",
		},
		"Straddle": {
			puts:     []put{{"[1,3]", "a"}, {"[5,7]", "b"}, {"[2,6]", "c"}},
			expected: "{[1,2)=a, [2,6]=c, (6,7]=b}",
		},
		"Touching": {
			puts:     []put{{"[1,3)", "a"}, {"[3,5]", "b"}},
			expected: "{[1,3)=a, [3,5]=b}",
		},
		"Empty": {
			puts:     []put{{"[1,5]", "a"}, {"[3,3)", "b"}},
			expected: "{[1,5]=a}",
		},
		"Unbounded": {
			puts:     []put{{"(-inf,+inf)", "a"}, {"[0,1]", "b"}},
			expected: "{(-inf,0)=a, [0,1]=b, (1,+inf)=a}",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			m := newMap(t, tc.puts...)
			if diff := cmp.Diff(tc.expected, m.String()); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestGet(t *testing.T) {
	m := newMap(t, put{"[1,5]", "a"}, put{"[3,4]", "b"})
	assert.Equal(t, 3, m.Len())

	v, err := m.Get(2)
	assert.NoError(t, err)
	assert.Equal(t, "a", v)
	v, err = m.Get(3.5)
	assert.NoError(t, err)
	assert.Equal(t, "b", v)
	v, err = m.Get(4.5)
	assert.NoError(t, err)
	assert.Equal(t, "a", v)

	_, err = m.Get(6)
	assert.True(t, errors.Is(err, interval.ErrNotFound))

	e, err := m.GetEntry(3)
	assert.NoError(t, err)
	assert.Equal(t, "[3,4]", e.Range().String())

	values, err := m.GetRange(rng(t, "[2,4.5]"))
	assert.NoError(t, err)
	if diff := cmp.Diff([]string{"a", "b", "a"}, values); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}
	_, err = m.GetRange(rng(t, "(5,6]"))
	assert.True(t, errors.Is(err, interval.ErrNotFound))
}

func TestRoundTrip(t *testing.T) {
	puts := []put{{"[0,10)", "a"}, {"[2,3]", "b"}, {"(8,12]", "c"}, {"[20,30]", "d"}}
	m := newMap(t, puts...)
	points := map[string][]float64{
		"a": {0, 1, 4, 8},
		"b": {2, 2.5, 3},
		"c": {9, 12},
		"d": {20, 30},
	}
	for want, vs := range points {
		for _, p := range vs {
			got, err := m.Get(p)
			if assert.NoError(t, err, "point %v", p) {
				assert.Equal(t, want, got, "point %v", p)
			}
		}
	}
}

func TestRemove(t *testing.T) {
	cases := map[string]struct {
		puts     []put
		remove   string
		expected string
	}{
		"Interior": {
			puts:     []put{{"[1,5]", "a"}},
			remove:   "[3,4]",
			expected: "{[1,3)=a, (4,5]=a}",
		},
		"Several": {
			puts:     []put{{"[1,3]", "a"}, {"[5,7]", "b"}},
			remove:   "(2,6)",
			expected: "{[1,2]=a, [6,7]=b}",
		},
		"Exact": {
			puts:     []put{{"[1,3]", "a"}},
			remove:   "[1,3]",
			expected: "{}",
		},
		"Miss": {
			puts:     []put{{"[1,3]", "a"}},
			remove:   "(3,4]",
			expected: "{[1,3]=a}",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			m := newMap(t, tc.puts...)
			r := rng(t, tc.remove)
			assert.NoError(t, m.Remove(r))
			assert.False(t, m.Overlaps(r))
			if diff := cmp.Diff(tc.expected, m.String()); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestPutRemoveInverse(t *testing.T) {
	m := newMap(t, put{"[0,2]", "x"}, put{"[4,6]", "y"})
	r := rng(t, "[1,5)")
	require.NoError(t, m.Put(r, "a"))
	assert.True(t, m.Overlaps(r))
	require.NoError(t, m.Remove(r))
	assert.False(t, m.Overlaps(r))
	assert.Equal(t, "{[0,1)=x, [5,6]=y}", m.String())
}

func TestWhichOverlaps(t *testing.T) {
	m := newMap(t, put{"[1,3)", "a"}, put{"[3,4]", "b"}, put{"[10,11]", "c"})
	got := []string{}
	for _, r := range m.WhichOverlaps(rng(t, "[2,10]")) {
		got = append(got, r.String())
	}
	if diff := cmp.Diff([]string{"[1,3)", "[3,4]", "[10,11]"}, got); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}
	assert.False(t, m.Overlaps(rng(t, "(4,10)")))
}

func TestDomainMismatch(t *testing.T) {
	celsius := interval.Ordered[float64]().Sub("celsius")
	kelvin := interval.Ordered[float64]().Sub("kelvin")

	m := New[float64, string](WithDomain(celsius.Name()))
	require.NoError(t, m.Put(interval.Must(celsius.Closed(0, 100)), "liquid"))

	err := m.Put(interval.Must(kelvin.Closed(0, 273)), "cold")
	assert.True(t, errors.Is(err, interval.ErrTypeMismatch))
	err = m.Remove(interval.Must(kelvin.Closed(0, 273)))
	assert.True(t, errors.Is(err, interval.ErrTypeMismatch))
	assert.Equal(t, 1, m.Len())

	err = m.Put(interval.Range[float64]{}, "zero")
	assert.True(t, errors.Is(err, interval.ErrNotRange))
}
