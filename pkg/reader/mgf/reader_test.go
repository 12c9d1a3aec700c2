package mgf

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
)

const sample = `COM=test run
BEGIN IONS
TITLE=run.100.100.2
PEPMASS=1014.4567 2500.0
CHARGE=2+
RTINSECONDS=600
SCANS=100
204.0867 1500.5
138.0545 900
366.1395 1200
END IONS

BEGIN IONS
TITLE=untitled scan
PEPMASS=800.25
CHARGE=3+
150.1 10
END IONS
`

func TestReader(t *testing.T) {
	r := NewReader(strings.NewReader(sample))
	spectra, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, spectra, 2)

	want := &core.Spectrum{
		Scan:            100,
		PrecursorMZ:     1014.4567,
		PrecursorCharge: 2,
		Retention:       10,
		Title:           "run.100.100.2",
		SourceFormat:    "mgf",
		Peaks: []core.Peak{
			{MZ: 138.0545, Intensity: 900},
			{MZ: 204.0867, Intensity: 1500.5},
			{MZ: 366.1395, Intensity: 1200},
		},
	}
	if diff := cmp.Diff(want, spectra[0]); diff != "" {
		t.Errorf("first spectrum mismatch (-want +got):\n%s", diff)
	}

	// Numbering continues after the explicit scan
	assert.Equal(t, 101, spectra[1].Scan)
	assert.Equal(t, 3, spectra[1].PrecursorCharge)
	assert.Equal(t, 800.25, spectra[1].PrecursorMZ)
}

func TestReaderImplicitScans(t *testing.T) {
	input := "BEGIN IONS\nPEPMASS=500\nCHARGE=2\n100 1\nEND IONS\nBEGIN IONS\nPEPMASS=600\nCHARGE=2\n100 1\nEND IONS\n"
	spectra, err := NewReader(strings.NewReader(input)).ReadAll()
	require.NoError(t, err)
	require.Len(t, spectra, 2)
	assert.Equal(t, 0, spectra[0].Scan)
	assert.Equal(t, 1, spectra[1].Scan)
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "bad peak",
			input:   "BEGIN IONS\nPEPMASS=500\nabc 1\nEND IONS\n",
			wantErr: "line 3",
		},
		{
			name:    "bad charge",
			input:   "BEGIN IONS\nCHARGE=x+\nEND IONS\n",
			wantErr: "invalid CHARGE",
		},
		{
			name:    "unterminated",
			input:   "BEGIN IONS\nPEPMASS=500\n100 1\n",
			wantErr: "missing END IONS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input))
			for r.Next() {
			}
			require.Error(t, r.Err())
			assert.Contains(t, r.Err().Error(), tt.wantErr)
		})
	}
}

func TestReaderEmpty(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	assert.False(t, r.Next())
	assert.NoError(t, r.Err())
	assert.Nil(t, r.Spectrum())
}
