package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a score distribution
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Median float64
	Max    float64
}

// Summarize computes score statistics. StdDev is zero for fewer than two
// results.
func Summarize(results []SearchResult) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	s := make([]float64, len(results))
	for i, r := range results {
		s[i] = r.Score
	}
	sort.Float64s(s)

	sum := Summary{
		Count:  len(s),
		Mean:   stat.Mean(s, nil),
		Min:    floats.Min(s),
		Median: stat.Quantile(0.5, stat.Empirical, s, nil),
		Max:    floats.Max(s),
	}
	if len(s) > 1 {
		sum.StdDev = stat.StdDev(s, nil)
	}
	return sum
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.4f sd=%.4f min=%.4f median=%.4f max=%.4f",
		s.Count, s.Mean, s.StdDev, s.Min, s.Median, s.Max)
}
