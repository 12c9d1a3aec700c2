// Package precursor pairs peptides with glycans whose combined neutral mass
// explains an observed precursor ion.
package precursor

import (
	"sort"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/glycan"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/search"
)

// Candidates maps a peptide sequence to the glycans that complete its
// precursor mass, in ascending glycan mass order.
type Candidates map[string][]*glycan.Glycan

// Peptides returns the candidate peptides in sorted order
func (c Candidates) Peptides() []string {
	peptides := make([]string, 0, len(c))
	for p := range c {
		peptides = append(peptides, p)
	}
	sort.Strings(peptides)
	return peptides
}

// Pairs returns the number of peptide-glycan combinations
func (c Candidates) Pairs() int {
	n := 0
	for _, gs := range c {
		n += len(gs)
	}
	return n
}

// Matcher indexes peptide masses for precursor lookups. A Matcher is not
// safe for concurrent use; give each worker its own.
type Matcher struct {
	index    *search.BucketSearch[string]
	masses   *core.MassCache
	universe *glycan.Universe
}

// New creates a matcher with the precursor (MS1) tolerance. masses may be
// shared between matchers; nil allocates a private cache.
func New(tol core.Tolerance, masses *core.MassCache) (*Matcher, error) {
	index, err := search.NewBucketSearch[string](tol)
	if err != nil {
		return nil, err
	}
	if masses == nil {
		masses = core.NewMassCache()
	}
	return &Matcher{index: index, masses: masses}, nil
}

// Init indexes the peptides and records the glycan universe
func (m *Matcher) Init(peptides []string, universe *glycan.Universe) {
	seen := make(map[string]bool, len(peptides))
	points := make([]search.Point[string], 0, len(peptides))
	for _, p := range peptides {
		if seen[p] {
			continue
		}
		seen[p] = true
		points = append(points, search.Point[string]{Value: m.masses.Mass(p), Content: p})
	}
	m.index.Init(points, false)
	m.universe = universe
}

// PeptideMass returns the memoized neutral mass of a peptide
func (m *Matcher) PeptideMass(peptide string) float64 {
	return m.masses.Mass(peptide)
}

// Match returns every peptide whose mass plus a glycan mass lies within
// tolerance of the precursor. The window is measured against the full
// glycopeptide mass.
func (m *Matcher) Match(mz float64, charge int) Candidates {
	candidates := make(Candidates)
	if m.universe == nil {
		return candidates
	}

	neutral := core.NeutralMass(mz, charge)
	for _, mass := range m.universe.Masses() {
		// Empty structures do not make a glycopeptide
		if mass == 0 {
			continue
		}
		target := neutral - mass
		if target <= 0 {
			break
		}

		peptides := m.index.Search(target, neutral)
		if len(peptides) == 0 {
			continue
		}
		ids := m.universe.ByMass(mass)
		for _, p := range peptides {
			for _, id := range ids {
				candidates[p] = append(candidates[p], m.universe.MustGlycan(id))
			}
		}
	}
	return candidates
}
