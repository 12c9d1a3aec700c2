package fragment

import (
	"sort"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/glycan"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/precursor"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/search"
)

// DefaultMissingCeiling bounds how many unmatched extensions in a row a
// path may take before it stops growing.
const DefaultMissingCeiling = 4

// Match is the fragment evidence for one precursor candidate
type Match struct {
	Peptide string
	Glycan  *glycan.Glycan
	Peaks   []int // matched peak indices, ascending
	Score   float64
}

// Option configures a Matcher
type Option func(*Matcher)

// WithMissingCeiling overrides DefaultMissingCeiling
func WithMissingCeiling(n int) Option {
	return func(m *Matcher) {
		m.ceiling = n
	}
}

// WithTrace registers a callback receiving the mass of every node in the
// order nodes leave the frontier.
func WithTrace(fn func(mass float64)) Option {
	return func(m *Matcher) {
		m.trace = fn
	}
}

// WithMassCache shares a peptide mass cache with other components
func WithMassCache(c *core.MassCache) Option {
	return func(m *Matcher) {
		m.masses = c
	}
}

// Matcher walks the glycan fragmentation graph from the Y1 ion upward,
// lightest fragment first, crediting observed peaks to every structure
// consistent with them. A Matcher holds a per-scan peak index and is not
// safe for concurrent use.
type Matcher struct {
	universe *glycan.Universe
	index    *search.BucketSearch[int]
	masses   *core.MassCache
	ceiling  int
	trace    func(float64)
}

// New creates a matcher with the fragment (MS2) tolerance
func New(tol core.Tolerance, universe *glycan.Universe, opts ...Option) (*Matcher, error) {
	index, err := search.NewBucketSearch[int](tol)
	if err != nil {
		return nil, err
	}
	m := &Matcher{
		universe: universe,
		index:    index,
		ceiling:  DefaultMissingCeiling,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.masses == nil {
		m.masses = core.NewMassCache()
	}
	return m, nil
}

// indexPeaks projects every peak to neutral mass at charges 1..maxCharge
func (m *Matcher) indexPeaks(peaks []core.Peak, maxCharge int) {
	m.index.Reset()
	for i, p := range peaks {
		for z := 1; z <= maxCharge; z++ {
			m.index.Add(search.Point[int]{Value: core.NeutralMass(p.MZ, z), Content: i})
		}
	}
}

// Search scores every precursor candidate against the peaks. Results are
// ordered by descending score, then peptide and glycan ID.
func (m *Matcher) Search(peaks []core.Peak, maxCharge int, candidates precursor.Candidates) []Match {
	if len(candidates) == 0 || len(peaks) == 0 {
		return nil
	}
	if maxCharge < 1 {
		maxCharge = 1
	}
	m.indexPeaks(peaks, maxCharge)

	open := newOpenSet()
	for _, peptide := range candidates.Peptides() {
		mass := m.masses.Mass(peptide)
		for _, class := range classesOf(candidates[peptide]) {
			y1, ok := m.universe.Y1(class)
			if !ok {
				continue
			}
			open.pushOrMerge(mass+y1.Mass, 0, peptide, y1.ID, nil)
		}
	}

	var identified []*PeakNode
	for open.Len() > 0 {
		node := open.popMin()
		if m.trace != nil {
			m.trace(node.Mass)
		}

		matched := m.index.Search(node.Mass, node.Mass)
		node.prune(peaks, m.universe)
		if len(matched) > 0 {
			node.addAll(matched)
			node.Missing = 0
			identified = append(identified, node)
		}
		if node.Missing > m.ceiling {
			continue
		}

		for peptide, byGlycan := range node.matches {
			mass := m.masses.Mass(peptide)
			for id, evidence := range byGlycan {
				for _, childID := range m.universe.MustGlycan(id).Children {
					child := m.universe.MustGlycan(childID)
					open.pushOrMerge(child.Mass+mass, node.Missing+1, peptide, childID, evidence)
				}
			}
		}
	}

	return m.collect(peaks, candidates, identified)
}

type candidateKey struct {
	peptide  string
	glycanID string
}

// collect credits the evidence of every identified substructure to each
// precursor candidate that contains it
func (m *Matcher) collect(peaks []core.Peak, candidates precursor.Candidates, identified []*PeakNode) []Match {
	evidence := make(map[candidateKey]Evidence)
	for _, node := range identified {
		for peptide, byGlycan := range node.matches {
			for id, found := range byGlycan {
				part := m.universe.MustGlycan(id)
				for _, cand := range candidates[peptide] {
					if !cand.Subsumes(part) {
						continue
					}
					key := candidateKey{peptide: peptide, glycanID: cand.ID}
					if _, ok := evidence[key]; !ok {
						evidence[key] = make(Evidence)
					}
					evidence[key].Union(found)
				}
			}
		}
	}

	matches := make([]Match, 0, len(evidence))
	for key, found := range evidence {
		indices := found.Indices()
		matches = append(matches, Match{
			Peptide: key.peptide,
			Glycan:  m.universe.MustGlycan(key.glycanID),
			Peaks:   indices,
			Score:   Score(peaks, indices),
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Peptide != b.Peptide {
			return a.Peptide < b.Peptide
		}
		return a.Glycan.ID < b.Glycan.ID
	})
	return matches
}

func classesOf(glycans []*glycan.Glycan) []glycan.Class {
	seen := make(map[glycan.Class]bool)
	var classes []glycan.Class
	for _, g := range glycans {
		if !seen[g.Class] {
			seen[g.Class] = true
			classes = append(classes, g.Class)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}
