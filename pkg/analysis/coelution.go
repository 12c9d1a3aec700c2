package analysis

import "math"

// singletonFactor scales peptides identified in a single spectrum
const singletonFactor = 0.3

// CoElution rescales scores by how often the same peptide is identified at
// nearby retention times.
type CoElution struct {
	window float64
}

// NewCoElution creates a rescorer with a retention window in minutes.
// Non-positive windows fall back to one minute.
func NewCoElution(window float64) *CoElution {
	if window <= 0 {
		window = 1
	}
	return &CoElution{window: window}
}

// Update multiplies each score by the share of the peptide's results that
// fall in its own or an adjacent retention bucket
func (c *CoElution) Update(results []SearchResult) {
	if len(results) == 0 {
		return
	}

	start, end := math.Inf(1), math.Inf(-1)
	total := make(map[string]int)
	for _, r := range results {
		start = math.Min(start, r.Retention)
		end = math.Max(end, r.Retention)
		total[r.Peptide]++
	}

	size := int(math.Ceil((end-start+1)/c.window)) + 1
	buckets := make([]map[string]int, size)
	for i := range buckets {
		buckets[i] = make(map[string]int)
	}
	for _, r := range results {
		buckets[c.index(r.Retention, start)][r.Peptide]++
	}

	for i := range results {
		r := &results[i]
		if total[r.Peptide] == 1 {
			r.Score *= singletonFactor
			continue
		}

		index := c.index(r.Retention, start)
		count := buckets[index][r.Peptide]
		if index > 0 {
			count += buckets[index-1][r.Peptide]
		}
		if index < size-1 {
			count += buckets[index+1][r.Peptide]
		}
		r.Score *= float64(count) / float64(total[r.Peptide])
	}
}

func (c *CoElution) index(retention, start float64) int {
	return int(math.Floor((retention - start) / c.window))
}
