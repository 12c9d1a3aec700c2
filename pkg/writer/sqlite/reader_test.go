package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/analysis"
)

func TestReadResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	w, err := NewWriter(path)
	require.NoError(t, err)

	written := []analysis.SearchResult{
		{Scan: 3, Retention: 12.5, Peptide: "NGTK", ModifySite: 0, Glycan: "a", GlycanName: "GlcNAc(2)Man(3)", Score: 0.75},
		{Scan: 4, Retention: 13, Peptide: "KTGN", ModifySite: 3, Glycan: "b", GlycanName: "GlcNAc(2)", Score: 0.25, Decoy: true},
	}
	for _, r := range written {
		require.NoError(t, w.WriteResult(r))
	}
	require.NoError(t, w.WriteParameters(map[string]string{"fdr": "0.05"}))
	require.NoError(t, w.Finalize())

	got, err := ReadResults(path)
	require.NoError(t, err)
	if diff := cmp.Diff(written, got); diff != "" {
		t.Errorf("ReadResults() mismatch (-want +got):\n%s", diff)
	}

	params, err := ReadParameters(path)
	require.NoError(t, err)
	if diff := cmp.Diff(map[string]string{"fdr": "0.05"}, params); diff != "" {
		t.Errorf("ReadParameters() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadResultsMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	_, err := ReadResults(path)
	require.Error(t, err)
}
