// Package fragment scores glycopeptide candidates against the fragment
// peaks of one MS/MS scan.
package fragment

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
)

// Evidence is a set of matched peak indices
type Evidence map[int]struct{}

// Add inserts peak indices
func (e Evidence) Add(peaks ...int) {
	for _, p := range peaks {
		e[p] = struct{}{}
	}
}

// Union inserts every index of other
func (e Evidence) Union(other Evidence) {
	for p := range other {
		e[p] = struct{}{}
	}
}

// Clone returns an independent copy
func (e Evidence) Clone() Evidence {
	c := make(Evidence, len(e))
	c.Union(e)
	return c
}

// Indices returns the peak indices in ascending order
func (e Evidence) Indices() []int {
	out := make([]int, 0, len(e))
	for p := range e {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// Score sums the log intensities of the indexed peaks. Peaks without
// positive intensity contribute nothing.
func Score(peaks []core.Peak, indices []int) float64 {
	logs := make([]float64, 0, len(indices))
	for _, i := range indices {
		if peaks[i].Intensity > 0 {
			logs = append(logs, math.Log(peaks[i].Intensity))
		}
	}
	return floats.Sum(logs)
}

// score is Score over an evidence set
func (e Evidence) score(peaks []core.Peak) float64 {
	return Score(peaks, e.Indices())
}
