package search

import "github.com/ruizhang84/GlycoHybridSeq/pkg/core"

// BinarySearch keeps points in a sorted slice and locates matches by bisection
type BinarySearch[T any] struct {
	tol  core.Tolerance
	data []Point[T]
}

// NewBinarySearch creates an empty binary search index
func NewBinarySearch[T any](tol core.Tolerance) (*BinarySearch[T], error) {
	if err := validate(tol); err != nil {
		return nil, err
	}
	return &BinarySearch[T]{tol: tol}, nil
}

// Init replaces the index contents
func (b *BinarySearch[T]) Init(points []Point[T], sorted bool) {
	b.data = make([]Point[T], len(points))
	copy(b.data, points)
	if !sorted {
		sortPoints(b.data)
	}
}

// Len returns the number of indexed points
func (b *BinarySearch[T]) Len() int {
	return len(b.data)
}

// Search returns every payload within tolerance of target
func (b *BinarySearch[T]) Search(target, base float64) []T {
	hit := b.probe(target, base)
	if hit < 0 {
		return nil
	}

	// Expand both ways from the probe while the window holds
	lo, hi := hit, hit
	for lo > 0 && b.tol.Within(target, b.data[lo-1].Value, base) {
		lo--
	}
	for hi < len(b.data)-1 && b.tol.Within(target, b.data[hi+1].Value, base) {
		hi++
	}

	result := make([]T, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		result = append(result, b.data[i].Content)
	}
	return result
}

// Match reports whether any point lies within tolerance of target
func (b *BinarySearch[T]) Match(target, base float64) bool {
	return b.probe(target, base) >= 0
}

// probe returns the index of one point inside the window, or -1
func (b *BinarySearch[T]) probe(target, base float64) int {
	start, end := 0, len(b.data)-1
	for start <= end {
		mid := start + (end-start)/2
		value := b.data[mid].Value
		switch {
		case b.tol.Within(target, value, base):
			return mid
		case value < target:
			start = mid + 1
		default:
			end = mid - 1
		}
	}
	return -1
}
