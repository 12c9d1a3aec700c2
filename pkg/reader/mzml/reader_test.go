package mzml

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
)

func encode64(values []float64) string {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

func encode32Zlib(values []float32) string {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	var z bytes.Buffer
	w := zlib.NewWriter(&z)
	w.Write(buf)
	w.Close()
	return base64.StdEncoding.EncodeToString(z.Bytes())
}

const document = `<?xml version="1.0" encoding="ISO-8859-1"?>
<indexedmzML xmlns="http://psi.hupo.org/ms/mzml">
<mzML xmlns="http://psi.hupo.org/ms/mzml" version="1.1.0">
<run id="run1">
<spectrumList count="2">
<spectrum index="0" id="controllerType=0 controllerNumber=1 scan=7" defaultArrayLength="2">
  <cvParam accession="MS:1000511" name="ms level" value="1"/>
  <binaryDataArrayList count="0"/>
</spectrum>
<spectrum index="1" id="controllerType=0 controllerNumber=1 scan=8" defaultArrayLength="3">
  <cvParam accession="MS:1000511" name="ms level" value="2"/>
  <scanList count="1">
    <scan>
      <cvParam accession="MS:1000016" name="scan start time" value="12.5" unitAccession="UO:0000031"/>
    </scan>
  </scanList>
  <precursorList count="1">
    <precursor>
      <selectedIonList count="1">
        <selectedIon>
          <cvParam accession="MS:1000744" name="selected ion m/z" value="1014.4567"/>
          <cvParam accession="MS:1000041" name="charge state" value="3"/>
        </selectedIon>
      </selectedIonList>
    </precursor>
  </precursorList>
  <binaryDataArrayList count="2">
    <binaryDataArray>
      <cvParam accession="MS:1000523" name="64-bit float"/>
      <cvParam accession="MS:1000576" name="no compression"/>
      <cvParam accession="MS:1000514" name="m/z array"/>
      <binary>%s</binary>
    </binaryDataArray>
    <binaryDataArray>
      <cvParam accession="MS:1000521" name="32-bit float"/>
      <cvParam accession="MS:1000574" name="zlib compression"/>
      <cvParam accession="MS:1000515" name="intensity array"/>
      <binary>%s</binary>
    </binaryDataArray>
  </binaryDataArrayList>
</spectrum>
</spectrumList>
</run>
</mzML>
</indexedmzML>
`

func TestReader(t *testing.T) {
	doc := fmt.Sprintf(document,
		encode64([]float64{366.1395, 204.0867, 528.1923}),
		encode32Zlib([]float32{300, 100, 50}))

	spectra, err := NewReader(strings.NewReader(doc)).ReadAll()
	require.NoError(t, err)
	require.Len(t, spectra, 1)

	want := &core.Spectrum{
		Scan:            8,
		PrecursorMZ:     1014.4567,
		PrecursorCharge: 3,
		Retention:       12.5,
		Title:           "controllerType=0 controllerNumber=1 scan=8",
		SourceFormat:    "mzml",
		Peaks: []core.Peak{
			{MZ: 204.0867, Intensity: 100},
			{MZ: 366.1395, Intensity: 300},
			{MZ: 528.1923, Intensity: 50},
		},
	}
	if diff := cmp.Diff(want, spectra[0]); diff != "" {
		t.Errorf("spectrum mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderNumpress(t *testing.T) {
	doc := `<mzML><run><spectrumList>
<spectrum index="0" id="scan=1">
  <cvParam accession="MS:1000511" value="2"/>
  <binaryDataArrayList>
    <binaryDataArray>
      <cvParam accession="MS:1002312"/>
      <cvParam accession="MS:1000514"/>
      <binary></binary>
    </binaryDataArray>
  </binaryDataArrayList>
</spectrum>
</spectrumList></run></mzML>`

	r := NewReader(strings.NewReader(doc))
	require.False(t, r.Next())
	require.True(t, errors.Is(r.Err(), ErrUnsupportedCompression))
}

func TestReaderArrayMismatch(t *testing.T) {
	doc := fmt.Sprintf(`<mzML><run><spectrumList>
<spectrum index="0" id="scan=1">
  <cvParam accession="MS:1000511" value="2"/>
  <binaryDataArrayList>
    <binaryDataArray>
      <cvParam accession="MS:1000523"/>
      <cvParam accession="MS:1000514"/>
      <binary>%s</binary>
    </binaryDataArray>
  </binaryDataArrayList>
</spectrum>
</spectrumList></run></mzML>`, encode64([]float64{100, 200}))

	r := NewReader(strings.NewReader(doc))
	require.False(t, r.Next())
	require.True(t, errors.Is(r.Err(), ErrArrayLength))
}
