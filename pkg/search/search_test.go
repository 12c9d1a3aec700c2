package search

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
)

func integerPoints(from, to int) []Point[int] {
	var points []Point[int]
	for v := from; v <= to; v++ {
		points = append(points, Point[int]{Value: float64(v), Content: v})
	}
	return points
}

func searchers(t *testing.T, tol core.Tolerance) map[string]Searcher[int] {
	t.Helper()
	binary, err := NewBinarySearch[int](tol)
	require.NoError(t, err)
	bucket, err := NewBucketSearch[int](tol)
	require.NoError(t, err)
	return map[string]Searcher[int]{"binary": binary, "bucket": bucket}
}

func TestSearchDaltonWindow(t *testing.T) {
	tol := core.Tolerance{Kind: core.Dalton, Value: 20}

	for name, s := range searchers(t, tol) {
		t.Run(name, func(t *testing.T) {
			s.Init(integerPoints(2, 99), true)

			require.True(t, s.Match(50, 50))

			got := s.Search(40, 40)
			sort.Ints(got)
			var want []int
			for v := 21; v <= 59; v++ {
				want = append(want, v)
			}
			require.Len(t, got, 39)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Search(40) mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchBoundaryExcluded(t *testing.T) {
	tests := []struct {
		name   string
		tol    core.Tolerance
		value  float64
		target float64
	}{
		{"above", core.Tolerance{Kind: core.Dalton, Value: 0.5}, 100.5, 100},
		{"below", core.Tolerance{Kind: core.Dalton, Value: 0.5}, 99.5, 100},
		{"integer window", core.Tolerance{Kind: core.Dalton, Value: 20}, 60, 40},
	}

	for _, tt := range tests {
		for name, s := range searchers(t, tt.tol) {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				s.Init([]Point[int]{{Value: tt.value, Content: 1}}, true)
				require.False(t, s.Match(tt.target, tt.target))
				require.Empty(t, s.Search(tt.target, tt.target))
			})
		}
	}
}

func TestSearchEmpty(t *testing.T) {
	for name, s := range searchers(t, core.Tolerance{Kind: core.PPM, Value: 10}) {
		t.Run(name, func(t *testing.T) {
			s.Init(nil, false)
			require.False(t, s.Match(500, 500))
			require.Empty(t, s.Search(500, 500))
		})
	}
}

func TestSearchNonPositivePPMTarget(t *testing.T) {
	points := []Point[int]{{Value: 1, Content: 1}, {Value: 2, Content: 2}, {Value: 3, Content: 3}}
	for name, s := range searchers(t, core.Tolerance{Kind: core.PPM, Value: 10}) {
		t.Run(name, func(t *testing.T) {
			s.Init(points, true)
			for _, target := range []float64{-1, 0} {
				if got := s.Search(target, target); len(got) != 0 {
					t.Errorf("Search(%v, %v) = %v, want none", target, target, got)
				}
				if s.Match(target, target) {
					t.Errorf("Match(%v, %v) = true, want false", target, target)
				}
			}
		})
	}
}

func TestInvalidTolerance(t *testing.T) {
	_, err := NewBucketSearch[int](core.Tolerance{Kind: core.PPM, Value: 0})
	require.ErrorIs(t, err, ErrInvalidTolerance)

	_, err = NewBinarySearch[int](core.Tolerance{Kind: core.Dalton, Value: -1})
	require.ErrorIs(t, err, ErrInvalidTolerance)

	_, err = New[int]("linear", core.Tolerance{Kind: core.Dalton, Value: 1})
	require.Error(t, err)
}

func TestBucketMatchesBinary(t *testing.T) {
	tests := []struct {
		name  string
		tol   core.Tolerance
		scale float64 // base mass relative to target
	}{
		{"dalton", core.Tolerance{Kind: core.Dalton, Value: 0.02}, 1},
		{"ppm", core.Tolerance{Kind: core.PPM, Value: 10}, 1},
		{"ppm with larger base", core.Tolerance{Kind: core.PPM, Value: 10}, 3},
		{"wide dalton", core.Tolerance{Kind: core.Dalton, Value: 5}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(7))
			points := make([]Point[int], 2000)
			for i := range points {
				points[i] = Point[int]{Value: 200 + rng.Float64()*3000, Content: i}
			}

			binary, err := NewBinarySearch[int](tt.tol)
			require.NoError(t, err)
			bucket, err := NewBucketSearch[int](tt.tol)
			require.NoError(t, err)
			binary.Init(points, false)
			bucket.Init(points, false)

			for q := 0; q < 500; q++ {
				var target float64
				if q%2 == 0 {
					// Land close to an indexed value
					target = points[rng.Intn(len(points))].Value + (rng.Float64()-0.5)*0.05
				} else {
					target = 150 + rng.Float64()*3100
				}
				base := target * tt.scale

				want := binary.Search(target, base)
				got := bucket.Search(target, base)
				sort.Ints(want)
				sort.Ints(got)
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("Search(%v, %v) mismatch (-binary +bucket):\n%s", target, base, diff)
				}
				require.Equal(t, binary.Match(target, base), bucket.Match(target, base))
			}
		})
	}
}

func TestBucketAdd(t *testing.T) {
	bucket, err := NewBucketSearch[string](core.Tolerance{Kind: core.Dalton, Value: 0.1})
	require.NoError(t, err)

	bucket.Add(Point[string]{Value: 500.0, Content: "a"})
	require.Equal(t, []string{"a"}, bucket.Search(500.05, 500.05))

	// Inside and outside the current range
	bucket.Add(Point[string]{Value: 499.5, Content: "b"})
	bucket.Add(Point[string]{Value: 900.0, Content: "c"})
	bucket.Add(Point[string]{Value: 100.0, Content: "d"})

	require.Equal(t, []string{"b"}, bucket.Search(499.45, 499.45))
	require.Equal(t, []string{"c"}, bucket.Search(900.0, 900.0))
	require.Equal(t, []string{"d"}, bucket.Search(99.95, 99.95))
	require.Equal(t, 4, bucket.Len())

	bucket.Reset()
	require.Equal(t, 0, bucket.Len())
	require.False(t, bucket.Match(900.0, 900.0))
}
