// Package search provides tolerance-indexed lookup of values by mass.
package search

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
)

// ErrInvalidTolerance is returned when an index is built with an unusable tolerance
var ErrInvalidTolerance = errors.New("search: invalid tolerance")

// Point attaches a payload to a numeric key
type Point[T any] struct {
	Value   float64
	Content T
}

// Searcher finds every payload whose key lies within tolerance of a target
type Searcher[T any] interface {
	// Init replaces the index contents. sorted asserts points are already
	// in ascending Value order.
	Init(points []Point[T], sorted bool)
	// Search returns payloads of all points within tolerance of target.
	// base is the reference mass of a PPM window and is ignored for Dalton.
	Search(target, base float64) []T
	// Match reports whether any point lies within tolerance of target.
	Match(target, base float64) bool
}

// New returns the searcher implementation selected by name ("bucket" or "binary")
func New[T any](name string, tol core.Tolerance) (Searcher[T], error) {
	switch name {
	case "", "bucket":
		return NewBucketSearch[T](tol)
	case "binary":
		return NewBinarySearch[T](tol)
	default:
		return nil, fmt.Errorf("unknown searcher '%s'", name)
	}
}

func validate(tol core.Tolerance) error {
	if err := tol.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTolerance, err)
	}
	return nil
}

func sortPoints[T any](points []Point[T]) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Value < points[j].Value
	})
}
