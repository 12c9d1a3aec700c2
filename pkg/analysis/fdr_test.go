package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func results(decoy bool, firstScan int, scores ...float64) []SearchResult {
	out := make([]SearchResult, len(scores))
	for i, s := range scores {
		out[i] = SearchResult{Scan: firstScan + i, Score: s, Decoy: decoy}
	}
	return out
}

func TestNewFDRFilter(t *testing.T) {
	tests := []struct {
		rate    float64
		wantErr bool
	}{
		{0, false},
		{0.01, false},
		{1, false},
		{-0.1, true},
		{1.5, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		_, err := NewFDRFilter(tt.rate)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewFDRFilter(%v) error = %v, wantErr %v", tt.rate, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidRate) {
			t.Errorf("NewFDRFilter(%v) error = %v, want ErrInvalidRate", tt.rate, err)
		}
	}
}

func TestFDRFilter(t *testing.T) {
	targets := results(false, 1, 5, 6, 7)
	decoys := results(true, 10, 6, 6)

	tests := []struct {
		rate       float64
		wantCutoff float64
		wantScores []float64
	}{
		{rate: 0.5, wantCutoff: 5, wantScores: []float64{5, 6, 7}},
		{rate: 0.3, wantCutoff: 7, wantScores: []float64{7}},
		{rate: 0, wantCutoff: 7, wantScores: []float64{7}},
	}

	for _, tt := range tests {
		f, err := NewFDRFilter(tt.rate)
		require.NoError(t, err)
		f.Init(targets, decoys)

		cutoff, ok := f.Cutoff()
		require.True(t, ok)
		if cutoff != tt.wantCutoff {
			t.Errorf("rate %v: Cutoff() = %v, want %v", tt.rate, cutoff, tt.wantCutoff)
		}

		var got []float64
		for _, r := range f.Filter() {
			got = append(got, r.Score)
		}
		if diff := cmp.Diff(tt.wantScores, got); diff != "" {
			t.Errorf("rate %v: Filter() mismatch (-want +got):\n%s", tt.rate, diff)
		}
	}
}

func TestFDRFilterNoDecoys(t *testing.T) {
	f, err := NewFDRFilter(0.01)
	require.NoError(t, err)
	f.Init(results(false, 1, 3, 1, 2), nil)

	_, ok := f.Cutoff()
	assert.False(t, ok)
	assert.Len(t, f.Filter(), 3)
}

func TestFDRFilterNothingQualifies(t *testing.T) {
	f, err := NewFDRFilter(0.01)
	require.NoError(t, err)
	f.Init(results(false, 1, 1, 2), results(true, 10, 5))

	cutoff, ok := f.Cutoff()
	assert.True(t, ok)
	assert.True(t, math.IsInf(cutoff, 1))
	assert.Empty(t, f.Filter())
}

func TestFDRFilterScanCompetition(t *testing.T) {
	targets := []SearchResult{
		{Scan: 1, Score: 5},
		{Scan: 2, Score: 4},
		{Scan: 3, Score: 9},
	}
	decoys := []SearchResult{
		{Scan: 1, Score: 6, Decoy: true},
		{Scan: 2, Score: 4, Decoy: true},
		{Scan: 3, Score: 2, Decoy: true},
	}

	f, err := NewFDRFilter(1)
	require.NoError(t, err)
	f.Init(targets, decoys)

	assert.Equal(t, []SearchResult{{Scan: 3, Score: 9}}, f.Targets())
	assert.Equal(t, []SearchResult{
		{Scan: 1, Score: 6, Decoy: true},
		{Scan: 2, Score: 4, Decoy: true},
	}, f.Decoys())
}

func TestFDRFilterMonotonic(t *testing.T) {
	targets := results(false, 1, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	decoys := results(true, 100, 1.5, 2.5, 3.5, 6.5)

	prevCutoff := math.Inf(1)
	prevAccepted := -1
	for _, rate := range []float64{0, 0.05, 0.1, 0.2, 0.3, 0.5, 1} {
		f, err := NewFDRFilter(rate)
		require.NoError(t, err)
		f.Init(targets, decoys)

		cutoff, _ := f.Cutoff()
		accepted := len(f.Filter())
		assert.LessOrEqual(t, cutoff, prevCutoff, "rate %v", rate)
		assert.GreaterOrEqual(t, accepted, prevAccepted, "rate %v", rate)
		prevCutoff, prevAccepted = cutoff, accepted
	}
}

func TestSortByScan(t *testing.T) {
	got := []SearchResult{{Scan: 2, Score: 1}, {Scan: 1, Score: 1}, {Scan: 2, Score: 3}}
	SortByScan(got)
	want := []SearchResult{{Scan: 1, Score: 1}, {Scan: 2, Score: 3}, {Scan: 2, Score: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SortByScan() mismatch (-want +got):\n%s", diff)
	}
}
