// Package analysis turns per-spectrum matches into scored identifications
// and controls their false discovery rate with a target-decoy strategy.
package analysis

import "sort"

// SearchResult is one identified glycopeptide for a spectrum
type SearchResult struct {
	Scan       int
	Retention  float64
	Peptide    string
	ModifySite int // zero-based glycosite position in Peptide
	Glycan     string
	GlycanName string
	Score      float64
	Decoy      bool
}

// SortByScan orders results by scan, then by descending score. The sort is
// stable so equal results keep their relative order.
func SortByScan(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Scan != results[j].Scan {
			return results[i].Scan < results[j].Scan
		}
		return results[i].Score > results[j].Score
	})
}

// Split separates target and decoy results
func Split(results []SearchResult) (targets, decoys []SearchResult) {
	for _, r := range results {
		if r.Decoy {
			decoys = append(decoys, r)
		} else {
			targets = append(targets, r)
		}
	}
	return targets, decoys
}

// bestByScan returns the highest score per scan
func bestByScan(results []SearchResult) map[int]float64 {
	best := make(map[int]float64)
	for _, r := range results {
		if s, ok := best[r.Scan]; !ok || r.Score > s {
			best[r.Scan] = r.Score
		}
	}
	return best
}
