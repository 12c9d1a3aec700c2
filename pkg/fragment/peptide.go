package fragment

import (
	"sort"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/glycan"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/precursor"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/protein"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/search"
)

// Backbone maps peptide and glycosite position to matched peak indices
type Backbone map[string]map[int]Evidence

// Sites returns the glycosites of a peptide that matched at least one peak
func (b Backbone) Sites(peptide string) []int {
	var sites []int
	for site, e := range b[peptide] {
		if len(e) > 0 {
			sites = append(sites, site)
		}
	}
	sort.Ints(sites)
	return sites
}

// PeptideMatcher matches peptide backbone fragments (b, c, y and z ions).
// Fragments that retain the glycosite carry the mean mass of the candidate
// glycans. Not safe for concurrent use.
type PeptideMatcher struct {
	index *search.BucketSearch[int]
}

// NewPeptideMatcher creates a backbone matcher with the fragment tolerance
func NewPeptideMatcher(tol core.Tolerance) (*PeptideMatcher, error) {
	index, err := search.NewBucketSearch[int](tol)
	if err != nil {
		return nil, err
	}
	return &PeptideMatcher{index: index}, nil
}

// Search matches every glycosite of every candidate peptide against the
// peaks at charges 1..maxCharge
func (m *PeptideMatcher) Search(peaks []core.Peak, maxCharge int, candidates precursor.Candidates) Backbone {
	backbone := make(Backbone)
	if len(peaks) == 0 || len(candidates) == 0 {
		return backbone
	}
	if maxCharge < 1 {
		maxCharge = 1
	}

	m.index.Reset()
	for i, p := range peaks {
		for z := 1; z <= maxCharge; z++ {
			m.index.Add(search.Point[int]{Value: core.NeutralMass(p.MZ, z), Content: i})
		}
	}

	for _, peptide := range candidates.Peptides() {
		shift := meanMass(candidates[peptide])
		for _, site := range protein.NGlycosites(peptide) {
			evidence := make(Evidence)
			for _, mass := range BackboneIons(peptide, site, shift) {
				evidence.Add(m.index.Search(mass, mass)...)
			}
			if len(evidence) == 0 {
				continue
			}
			if backbone[peptide] == nil {
				backbone[peptide] = make(map[int]Evidence)
			}
			backbone[peptide][site] = evidence
		}
	}
	return backbone
}

// BackboneIons returns the neutral masses of the b, c, y and z fragments of
// a peptide. Fragments containing position site gain shift.
func BackboneIons(peptide string, site int, shift float64) []float64 {
	residues := []rune(peptide)
	n := len(residues)
	if n < 2 {
		return nil
	}

	prefix := make([]float64, n+1)
	for i, aa := range residues {
		prefix[i+1] = prefix[i] + core.ResidueMass(aa)
	}

	ions := make([]float64, 0, 4*(n-1))
	for i := 1; i < n; i++ {
		b := prefix[i]
		if site < i {
			b += shift
		}
		y := prefix[n] - prefix[i] + core.WaterMass
		if site >= i {
			y += shift
		}
		ions = append(ions,
			b,
			b+core.AmmoniaMass,
			y,
			y-core.AmmoniaMass+core.MassH,
		)
	}
	return ions
}

func meanMass(glycans []*glycan.Glycan) float64 {
	if len(glycans) == 0 {
		return 0
	}
	total := 0.0
	for _, g := range glycans {
		total += g.Mass
	}
	return total / float64(len(glycans))
}
