package interval

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContains(t *testing.T) {
	cases := map[string]struct {
		r        Range[int]
		contains []int
		excludes []int
	}{
		"Closed": {
			r:        Must(Closed(1, 5)),
			contains: []int{1, 3, 5},
			excludes: []int{0, 6},
		},
		"Open": {
			r:        Must(Open(1, 5)),
			contains: []int{2, 4},
			excludes: []int{1, 5},
		},
		"ClosedOpen": {
			r:        Must(ClosedOpen(1, 5)),
			contains: []int{1, 4},
			excludes: []int{5},
		},
		"OpenClosed": {
			r:        Must(OpenClosed(1, 5)),
			contains: []int{2, 5},
			excludes: []int{1},
		},
		"LessThan": {
			r:        LessThan(5),
			contains: []int{-100, 4},
			excludes: []int{5},
		},
		"AtMost": {
			r:        AtMost(5),
			contains: []int{5},
			excludes: []int{6},
		},
		"GreaterThan": {
			r:        GreaterThan(5),
			contains: []int{6, 1000},
			excludes: []int{5},
		},
		"AtLeast": {
			r:        AtLeast(5),
			contains: []int{5},
			excludes: []int{4},
		},
		"All": {
			r:        All[int](),
			contains: []int{-1 << 40, 0, 1 << 40},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			for _, v := range tc.contains {
				assert.True(t, tc.r.Contains(v), "%s should contain %d", tc.r, v)
			}
			for _, v := range tc.excludes {
				assert.False(t, tc.r.Contains(v), "%s should not contain %d", tc.r, v)
			}
			assert.True(t, tc.r.ContainsAll(slices.Values(tc.contains)))
			if len(tc.excludes) > 0 {
				assert.False(t, tc.r.ContainsAll(slices.Values(append(tc.contains, tc.excludes...))))
			}
		})
	}
}

func TestBuilderErrors(t *testing.T) {
	_, err := Closed(5, 1)
	assert.True(t, errors.Is(err, ErrInvertedBounds))
	_, err = Open(3, 3)
	assert.True(t, errors.Is(err, ErrInvertedBounds))
	_, err = NewRange(Cut[int]{}, AboveValueOf(3))
	assert.True(t, errors.Is(err, ErrNotRange))

	var zero Domain[int]
	_, err = zero.Open(1, 3)
	assert.True(t, errors.Is(err, ErrNotRange))
	_, err = zero.Closed(1, 3)
	assert.True(t, errors.Is(err, ErrNotRange))

	r, err := Closed(3, 3)
	assert.NoError(t, err)
	assert.False(t, r.IsEmpty())
	r, err = ClosedOpen(3, 3)
	assert.NoError(t, err)
	assert.True(t, r.IsEmpty())
}

func TestEndpoints(t *testing.T) {
	r := Must(ClosedOpen(1, 5))
	lo, err := r.LowerEndpoint()
	assert.NoError(t, err)
	assert.Equal(t, 1, lo)
	hi, err := r.UpperEndpoint()
	assert.NoError(t, err)
	assert.Equal(t, 5, hi)
	closed, err := r.IsLowerBoundClosed()
	assert.NoError(t, err)
	assert.True(t, closed)
	closed, err = r.IsUpperBoundClosed()
	assert.NoError(t, err)
	assert.False(t, closed)

	u := AtLeast(3)
	assert.True(t, u.HasLowerBound())
	assert.False(t, u.HasUpperBound())
	_, err = u.UpperEndpoint()
	assert.True(t, errors.Is(err, ErrUnboundedAccess))
	_, err = u.IsUpperBoundClosed()
	assert.True(t, errors.Is(err, ErrUnboundedAccess))
	_, err = LessThan(3).LowerEndpoint()
	assert.True(t, errors.Is(err, ErrUnboundedAccess))
}

func TestRelations(t *testing.T) {
	cases := map[string]struct {
		a, b         Range[int]
		connected    bool
		overlaps     bool
		encloses     bool
		intersection string
		span         string
	}{
		"Overlapping": {
			a:            Must(Closed(1, 5)),
			b:            Must(Closed(3, 7)),
			connected:    true,
			overlaps:     true,
			intersection: "[3,5]",
			span:         "[1,7]",
		},
		"Touching": {
			a:            Must(Closed(1, 3)),
			b:            Must(Closed(3, 5)),
			connected:    true,
			overlaps:     true,
			intersection: "[3,3]",
			span:         "[1,5]",
		},
		"Adjacent": {
			a:            Must(ClosedOpen(1, 3)),
			b:            Must(Closed(3, 5)),
			connected:    true,
			intersection: "[3,3)",
			span:         "[1,5]",
		},
		"Disjoint": {
			a:    Must(Closed(1, 2)),
			b:    Must(Closed(3, 5)),
			span: "[1,5]",
		},
		"Gap": {
			a:    Must(Closed(1, 5)),
			b:    Must(Closed(7, 9)),
			span: "[1,9]",
		},
		"Enclosing": {
			a:            Must(Closed(1, 9)),
			b:            Must(Open(3, 5)),
			connected:    true,
			overlaps:     true,
			encloses:     true,
			intersection: "(3,5)",
			span:         "[1,9]",
		},
		"Unbounded": {
			a:            AtMost(4),
			b:            GreaterThan(2),
			connected:    true,
			overlaps:     true,
			intersection: "(2,4]",
			span:         "(-inf,+inf)",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.connected, tc.a.IsConnected(tc.b))
			assert.Equal(t, tc.connected, tc.b.IsConnected(tc.a))
			assert.Equal(t, tc.overlaps, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.encloses, tc.a.Encloses(tc.b))

			i, err := tc.a.Intersection(tc.b)
			if tc.connected {
				require.NoError(t, err)
				if diff := cmp.Diff(tc.intersection, i.String()); diff != "" {
					t.Errorf("%s: -want, +got:\n%s", name, diff)
				}
			} else {
				assert.True(t, errors.Is(err, ErrInvertedBounds))
			}

			s, err := tc.a.Span(tc.b)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.span, s.String()); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestOverlapOf(t *testing.T) {
	stored := Must(Closed(1, 5))
	cases := map[string]struct {
		key      Range[int]
		expected Overlap
		minus    []string
	}{
		"None":      {key: Must(Closed(6, 8)), expected: OverlapNone, minus: []string{"[1,5]"}},
		"Covers":    {key: Must(Closed(0, 8)), expected: OverlapCovers},
		"Exact":     {key: Must(Closed(1, 5)), expected: OverlapCovers},
		"Interior":  {key: Must(Closed(3, 4)), expected: OverlapInterior, minus: []string{"[1,3)", "(4,5]"}},
		"Start":     {key: Must(Closed(0, 2)), expected: OverlapStart, minus: []string{"(2,5]"}},
		"StartEdge": {key: Must(ClosedOpen(1, 2)), expected: OverlapStart, minus: []string{"[2,5]"}},
		"End":       {key: Must(Open(4, 9)), expected: OverlapEnd, minus: []string{"[1,4]"}},
		"Empty":     {key: Must(ClosedOpen(3, 3)), expected: OverlapNone, minus: []string{"[1,5]"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stored.OverlapOf(tc.key))
			var got []string
			for _, r := range stored.Minus(tc.key) {
				got = append(got, r.String())
			}
			if diff := cmp.Diff(tc.minus, got); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	r := Must(Closed(1, 5))

	d, err := r.DistanceFromPoint(3, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, d)
	d, err = r.DistanceFromPoint(8, nil)
	assert.NoError(t, err)
	assert.Equal(t, 3.0, d)
	d, err = r.DistanceFromPoint(-1, func(a, b int) float64 { return float64((a - b) * (a - b)) })
	assert.NoError(t, err)
	assert.Equal(t, 4.0, d)

	d, err = r.DistanceFromRange(Must(Closed(8, 9)), nil)
	assert.NoError(t, err)
	assert.Equal(t, 3.0, d)
	d, err = r.DistanceFromRange(Must(Closed(5, 9)), nil)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, d)

	_, err = AtLeast(1).DistanceFromPoint(0, nil)
	assert.True(t, errors.Is(err, ErrUnboundedAccess))
	_, err = Must(Open(1, 5)).DistanceFromPoint(0, nil)
	assert.True(t, errors.Is(err, ErrUnboundedAccess))
	_, err = r.DistanceFromRange(AtMost(0), nil)
	assert.True(t, errors.Is(err, ErrUnboundedAccess))

	_, err = Must(Closed("a", "c")).DistanceFromPoint("z", nil)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestConsumerSurface(t *testing.T) {
	r := Must(Open(0.5, 2.0))
	assert.Equal(t, 0.5, r.Min())
	assert.Equal(t, 2.0, r.Max())
	l, err := r.Length()
	assert.NoError(t, err)
	assert.Equal(t, 1.5, l)
	assert.Equal(t, "(0.5,2)", r.String())

	_, err = AtLeast(1.0).Length()
	assert.True(t, errors.Is(err, ErrUnboundedAccess))
}

func TestContainsValue(t *testing.T) {
	r := Must(Closed(1, 5))
	ok, err := r.ContainsValue(3)
	assert.NoError(t, err)
	assert.True(t, ok)
	_, err = r.ContainsValue(int64(3))
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestParse(t *testing.T) {
	cases := map[string]struct {
		input       string
		expected    string
		expectedErr error
	}{
		"Closed":     {input: "[1,5]", expected: "[1,5]"},
		"Spaces":     {input: " ( 1 , 5 ] ", expected: "(1,5]"},
		"LowerInf":   {input: "(-inf,3)", expected: "(-inf,3)"},
		"UpperInf":   {input: "[2,+inf)", expected: "[2,+inf)"},
		"Inverted":   {input: "[5,1]", expectedErr: ErrInvertedBounds},
		"NoBrackets": {input: "1-5", expectedErr: ErrNotRange},
		"NoComma":    {input: "[15]", expectedErr: ErrNotRange},
		"BadNumber":  {input: "[a,5]", expectedErr: ErrNotRange},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := ParseIntRange(tc.input)
			if tc.expectedErr != nil {
				assert.True(t, errors.Is(err, tc.expectedErr), "got %v", err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, r.String())
		})
	}
}
