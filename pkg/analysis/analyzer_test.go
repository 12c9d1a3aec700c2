package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/fragment"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/glycan"
)

func testGlycans(t *testing.T) (*glycan.Glycan, *glycan.Glycan) {
	t.Helper()
	u, err := glycan.Build(glycan.Bounds{HexNAc: 2, Hex: 3}, glycan.Complex)
	require.NoError(t, err)
	gs := u.Glycans()
	return gs[len(gs)-1], gs[len(gs)-2]
}

func testSpectrum() *core.Spectrum {
	return &core.Spectrum{
		Scan:      42,
		Retention: 12.5,
		Peaks: []core.Peak{
			{MZ: 100, Intensity: math.E},
			{MZ: 200, Intensity: math.E * math.E},
			{MZ: 300, Intensity: math.Pow(math.E, 4)},
		},
	}
}

func TestAnalyze(t *testing.T) {
	g1, g2 := testGlycans(t)
	spectrum := testSpectrum()

	glycans := []fragment.Match{
		{Peptide: "NGTK", Glycan: g1, Score: 4},
		{Peptide: "NGTK", Glycan: g2, Score: 1},
		{Peptide: "NVTR", Glycan: g1, Score: 4},
	}
	backbone := fragment.Backbone{"NGTK": {0: fragment.Evidence{2: {}}}}

	got := NewAnalyzer(nil).Analyze(spectrum, glycans, backbone)
	require.Len(t, got, 1)
	assert.Equal(t, SearchResult{
		Scan:       42,
		Retention:  12.5,
		Peptide:    "NGTK",
		ModifySite: 0,
		Glycan:     g1.ID,
		GlycanName: g1.Name(),
		Score:      got[0].Score,
	}, got[0])
	assert.InDelta(t, 4.0/7.0, got[0].Score, 1e-9)
}

func TestAnalyzeTiesAndDecoys(t *testing.T) {
	g1, g2 := testGlycans(t)
	glycans := []fragment.Match{
		{Peptide: "NGTK", Glycan: g1, Score: 2},
		{Peptide: "NGTK", Glycan: g2, Score: 2},
	}
	backbone := fragment.Backbone{"NGTK": {0: fragment.Evidence{1: {}}}}

	got := NewAnalyzer([]string{"NGTK"}).Analyze(testSpectrum(), glycans, backbone)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.True(t, r.Decoy)
		assert.InDelta(t, 2.0/7.0, r.Score, 1e-9)
	}
	assert.Less(t, got[0].Glycan, got[1].Glycan)
}

func TestAnalyzeRequiresBothEvidence(t *testing.T) {
	g1, _ := testGlycans(t)
	a := NewAnalyzer(nil)
	glycans := []fragment.Match{{Peptide: "NGTK", Glycan: g1, Score: 2}}

	assert.Empty(t, a.Analyze(testSpectrum(), glycans, nil))
	assert.Empty(t, a.Analyze(testSpectrum(), nil, fragment.Backbone{"NGTK": {0: fragment.Evidence{1: {}}}}))
}

func TestCoElution(t *testing.T) {
	results := []SearchResult{
		{Peptide: "A", Retention: 10, Score: 1},
		{Peptide: "A", Retention: 10.5, Score: 1},
		{Peptide: "A", Retention: 30, Score: 1},
		{Peptide: "B", Retention: 20, Score: 1},
	}
	NewCoElution(1).Update(results)

	assert.InDelta(t, 2.0/3.0, results[0].Score, 1e-9)
	assert.InDelta(t, 2.0/3.0, results[1].Score, 1e-9)
	assert.InDelta(t, 1.0/3.0, results[2].Score, 1e-9)
	assert.InDelta(t, singletonFactor, results[3].Score, 1e-9)
}

func TestSummarize(t *testing.T) {
	got := Summarize([]SearchResult{{Score: 3}, {Score: 1}, {Score: 2}})
	assert.Equal(t, 3, got.Count)
	assert.InDelta(t, 2.0, got.Mean, 1e-12)
	assert.InDelta(t, 1.0, got.StdDev, 1e-12)
	assert.Equal(t, 1.0, got.Min)
	assert.Equal(t, 2.0, got.Median)
	assert.Equal(t, 3.0, got.Max)

	assert.Equal(t, Summary{}, Summarize(nil))
	assert.Equal(t, 0.0, Summarize([]SearchResult{{Score: 5}}).StdDev)
}
