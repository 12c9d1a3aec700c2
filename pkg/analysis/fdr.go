package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidRate is returned for a false discovery rate outside [0, 1]
var ErrInvalidRate = errors.New("invalid false discovery rate")

// FDRFilter accepts target results above the score cutoff at which the
// estimated false discovery rate first drops to the configured rate.
type FDRFilter struct {
	rate    float64
	targets []SearchResult
	decoys  []SearchResult
	cutoff  float64
	hasCut  bool
}

// NewFDRFilter creates a filter for the given rate
func NewFDRFilter(rate float64) (*FDRFilter, error) {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}
	return &FDRFilter{rate: rate}, nil
}

// Init loads the target and decoy pools and computes the cutoff. A scan
// found in both pools stays only in the pool with the higher best score;
// on a tie the decoy keeps it.
func (f *FDRFilter) Init(targets, decoys []SearchResult) {
	bestTarget := bestByScan(targets)
	bestDecoy := bestByScan(decoys)

	f.targets = nil
	for _, r := range targets {
		if d, ok := bestDecoy[r.Scan]; ok && d >= bestTarget[r.Scan] {
			continue
		}
		f.targets = append(f.targets, r)
	}
	f.decoys = nil
	for _, r := range decoys {
		if t, ok := bestTarget[r.Scan]; ok && t > bestDecoy[r.Scan] {
			continue
		}
		f.decoys = append(f.decoys, r)
	}

	f.computeCutoff()
}

func (f *FDRFilter) computeCutoff() {
	f.cutoff, f.hasCut = 0, false
	if len(f.decoys) == 0 {
		return
	}
	f.hasCut = true

	targetScores := scores(f.targets)
	decoyScores := scores(f.decoys)
	thresholds := distinct(append(append([]float64{}, targetScores...), decoyScores...))

	for _, s := range thresholds {
		t := countAtLeast(targetScores, s)
		d := countAtLeast(decoyScores, s)
		if float64(d)/float64(t+d) <= f.rate {
			f.cutoff = s
			return
		}
	}
	f.cutoff = math.Inf(1)
}

// Cutoff returns the score threshold. ok is false when there were no decoys
// to estimate a rate from, in which case every target is accepted.
func (f *FDRFilter) Cutoff() (cutoff float64, ok bool) {
	return f.cutoff, f.hasCut
}

// Filter returns the accepted targets ordered by scan
func (f *FDRFilter) Filter() []SearchResult {
	var accepted []SearchResult
	for _, r := range f.targets {
		if !f.hasCut || r.Score >= f.cutoff {
			accepted = append(accepted, r)
		}
	}
	SortByScan(accepted)
	return accepted
}

// Targets and Decoys return the pools after scan competition
func (f *FDRFilter) Targets() []SearchResult { return f.targets }
func (f *FDRFilter) Decoys() []SearchResult  { return f.decoys }

func scores(results []SearchResult) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Score
	}
	sort.Float64s(out)
	return out
}

func distinct(values []float64) []float64 {
	sort.Float64s(values)
	var out []float64
	for _, v := range values {
		if len(out) == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// countAtLeast counts sorted values >= s
func countAtLeast(sorted []float64, s float64) int {
	return len(sorted) - sort.SearchFloat64s(sorted, s)
}
