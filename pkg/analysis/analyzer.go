package analysis

import (
	"math"
	"sort"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/fragment"
)

// Analyzer picks the best glycopeptide explanations of a spectrum from the
// glycan and backbone evidence. It is read-only after construction and may
// be shared between workers.
type Analyzer struct {
	decoys map[string]bool
}

// NewAnalyzer creates an analyzer. Peptides listed in decoys are reported
// as decoy results.
func NewAnalyzer(decoys []string) *Analyzer {
	a := &Analyzer{decoys: make(map[string]bool, len(decoys))}
	for _, p := range decoys {
		a.decoys[p] = true
	}
	return a
}

// IsDecoy reports whether a peptide came from the decoy database
func (a *Analyzer) IsDecoy(peptide string) bool {
	return a.decoys[peptide]
}

// Analyze scores every (peptide, site, glycan) supported by both backbone
// and glycan evidence and keeps the highest scoring ones. Ties are kept.
func (a *Analyzer) Analyze(spectrum *core.Spectrum, glycans []fragment.Match, backbone fragment.Backbone) []SearchResult {
	if len(glycans) == 0 || len(backbone) == 0 {
		return nil
	}

	all := make([]int, len(spectrum.Peaks))
	for i := range all {
		all[i] = i
	}
	total := fragment.Score(spectrum.Peaks, all)
	if total <= 0 {
		total = 1
	}

	var results []SearchResult
	best := 0.0
	for _, match := range glycans {
		sites, ok := backbone[match.Peptide]
		if !ok {
			continue
		}
		for site, evidence := range sites {
			peptideScore := fragment.Score(spectrum.Peaks, evidence.Indices())
			score := combinedScore(peptideScore, match.Score, total)
			if score <= 0 || score < best {
				continue
			}
			if score > best {
				best = score
				results = results[:0]
			}
			results = append(results, SearchResult{
				Scan:       spectrum.Scan,
				Retention:  spectrum.Retention,
				Peptide:    match.Peptide,
				ModifySite: site,
				Glycan:     match.Glycan.ID,
				GlycanName: match.Glycan.Name(),
				Score:      score,
				Decoy:      a.IsDecoy(match.Peptide),
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		x, y := results[i], results[j]
		if x.Peptide != y.Peptide {
			return x.Peptide < y.Peptide
		}
		if x.ModifySite != y.ModifySite {
			return x.ModifySite < y.ModifySite
		}
		return x.Glycan < y.Glycan
	})
	return results
}

// combinedScore is the geometric mean of the backbone and glycan scores
// normalized by the log intensity of the whole spectrum
func combinedScore(peptide, glycan, total float64) float64 {
	if peptide <= 0 || glycan <= 0 {
		return 0
	}
	return math.Sqrt(peptide*glycan) / total
}
