package search

import (
	"math"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
)

// BucketSearch partitions the key range into buckets one tolerance wide
// (log-scaled for PPM) and answers queries by scanning the buckets that
// cover the window plus one neighbour on each side.
type BucketSearch[T any] struct {
	tol    core.Tolerance
	points []Point[T]
	data   [][]Point[T]
	lower  float64
	upper  float64
	stale  bool
}

// NewBucketSearch creates an empty bucket index
func NewBucketSearch[T any](tol core.Tolerance) (*BucketSearch[T], error) {
	if err := validate(tol); err != nil {
		return nil, err
	}
	return &BucketSearch[T]{tol: tol}, nil
}

// Init replaces the index contents
func (b *BucketSearch[T]) Init(points []Point[T], sorted bool) {
	b.points = make([]Point[T], len(points))
	copy(b.points, points)
	if !sorted {
		sortPoints(b.points)
	}
	b.rebuild()
}

// Add inserts one point. Points outside the current key range mark the
// index stale; it is rebuilt on the next query.
func (b *BucketSearch[T]) Add(p Point[T]) {
	b.points = append(b.points, p)
	if b.stale || len(b.data) == 0 || p.Value < b.lower || p.Value > b.upper {
		b.stale = true
		return
	}
	idx := b.index(p.Value)
	if idx < 0 || idx >= len(b.data) {
		b.stale = true
		return
	}
	b.data[idx] = append(b.data[idx], p)
}

// Reset empties the index while keeping allocated storage
func (b *BucketSearch[T]) Reset() {
	b.points = b.points[:0]
	b.data = b.data[:0]
	b.stale = false
}

// Len returns the number of indexed points
func (b *BucketSearch[T]) Len() int {
	return len(b.points)
}

// Search returns every payload within tolerance of target
func (b *BucketSearch[T]) Search(target, base float64) []T {
	var result []T
	b.scan(target, base, func(p Point[T]) bool {
		result = append(result, p.Content)
		return true
	})
	return result
}

// Match reports whether any point lies within tolerance of target
func (b *BucketSearch[T]) Match(target, base float64) bool {
	found := false
	b.scan(target, base, func(Point[T]) bool {
		found = true
		return false
	})
	return found
}

// scan visits matching points until visit returns false
func (b *BucketSearch[T]) scan(target, base float64, visit func(Point[T]) bool) {
	if b.stale {
		b.rebuild()
	}
	if len(b.data) == 0 {
		return
	}

	delta := b.tol.Delta(base)
	first, ok := b.clampedIndex(target - delta)
	if !ok {
		return
	}
	last, ok := b.clampedIndex(target + delta)
	if !ok {
		return
	}
	first = max(first-1, 0)
	last = min(last+1, len(b.data)-1)

	for i := first; i <= last; i++ {
		for _, p := range b.data[i] {
			if b.tol.Within(target, p.Value, base) && !visit(p) {
				return
			}
		}
	}
}

// clampedIndex maps a key onto the bucket range
func (b *BucketSearch[T]) clampedIndex(value float64) (int, bool) {
	if b.tol.Kind == core.PPM && value <= 0 {
		return 0, true
	}
	f := b.indexFloat(value)
	switch {
	case math.IsNaN(f):
		return 0, false
	case f < 0:
		return 0, true
	case f >= float64(len(b.data)):
		return len(b.data) - 1, true
	default:
		return int(f), true
	}
}

func (b *BucketSearch[T]) indexFloat(value float64) float64 {
	if b.tol.Kind == core.Dalton {
		return math.Floor((value - b.lower) / b.tol.Value)
	}
	return math.Floor(math.Log(value/b.lower) / math.Log1p(b.tol.Value/1e6))
}

func (b *BucketSearch[T]) index(value float64) int {
	return int(b.indexFloat(value))
}

func (b *BucketSearch[T]) rebuild() {
	b.stale = false
	b.data = b.data[:0]

	// Logarithmic buckets only cover positive keys
	lo, hi, found := 0.0, 0.0, false
	for _, p := range b.points {
		if b.tol.Kind == core.PPM && p.Value <= 0 {
			continue
		}
		if !found {
			lo, hi, found = p.Value, p.Value, true
			continue
		}
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	if !found {
		return
	}
	b.lower = lo - 1
	if b.tol.Kind == core.PPM && b.lower <= 0 {
		b.lower = lo / 2
	}
	b.upper = hi

	size := b.index(b.upper) + 1
	for len(b.data) < size {
		b.data = append(b.data, nil)
	}
	b.data = b.data[:size]
	for i := range b.data {
		b.data[i] = b.data[i][:0]
	}
	for _, p := range b.points {
		if p.Value < b.lower || p.Value > b.upper {
			continue
		}
		b.data[b.index(p.Value)] = append(b.data[b.index(p.Value)], p)
	}
}
