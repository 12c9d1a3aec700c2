package mzml

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
)

var scanNumber = regexp.MustCompile(`scan=(\d+)`)

// Reader streams the MS2 spectra of an mzML document. Spectra of other MS
// levels are skipped.
type Reader struct {
	decoder     *xml.Decoder
	currentSpec *core.Spectrum
	err         error
}

// NewReader creates a reader over an mzML or indexedmzML document
func NewReader(r io.Reader) *Reader {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	return &Reader{decoder: d}
}

// Next advances to the next MS2 spectrum. Returns false when no more spectra or error.
func (r *Reader) Next() bool {
	r.currentSpec = nil
	if r.err != nil {
		return false
	}

	for {
		t, err := r.decoder.Token()
		if err != nil {
			if err != io.EOF {
				r.err = err
			}
			return false
		}

		start, ok := t.(xml.StartElement)
		if !ok || start.Name.Local != "spectrum" {
			continue
		}

		var raw spectrum
		if err := r.decoder.DecodeElement(&raw, &start); err != nil {
			r.err = err
			return false
		}
		if msLevel(raw) != 2 {
			continue
		}

		spec, err := convert(raw)
		if err != nil {
			r.err = fmt.Errorf("spectrum %s: %w", raw.ID, err)
			return false
		}
		r.currentSpec = spec
		return true
	}
}

// Spectrum returns the current spectrum
func (r *Reader) Spectrum() *core.Spectrum {
	return r.currentSpec
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// ReadAll reads every remaining MS2 spectrum
func (r *Reader) ReadAll() ([]*core.Spectrum, error) {
	var spectra []*core.Spectrum
	for r.Next() {
		spectra = append(spectra, r.Spectrum())
	}
	return spectra, r.Err()
}

func msLevel(s spectrum) int {
	p, ok := findParam(s.CvPar, accMSLevel)
	if !ok {
		return 1
	}
	level, err := strconv.Atoi(p.Value)
	if err != nil {
		return 1
	}
	return level
}

func convert(s spectrum) (*core.Spectrum, error) {
	spec := &core.Spectrum{
		Scan:         s.Index,
		Title:        s.ID,
		SourceFormat: "mzml",
	}
	if m := scanNumber.FindStringSubmatch(s.ID); m != nil {
		spec.Scan, _ = strconv.Atoi(m[1])
	}

	for _, sc := range s.ScanList.Scan {
		if p, ok := findParam(sc.CvPar, accScanStartTime); ok {
			rt, err := strconv.ParseFloat(p.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid scan start time '%s': %w", p.Value, err)
			}
			// Retention is kept in minutes
			if p.UnitAccession != unitMinute && p.UnitAccession != unitMinuteMS {
				rt /= 60
			}
			spec.Retention = rt
			break
		}
	}

	if len(s.PrecursorList.Precursor) > 0 && len(s.PrecursorList.Precursor[0].SelectedIon) > 0 {
		ion := s.PrecursorList.Precursor[0].SelectedIon[0]
		if p, ok := findParam(ion.CvPar, accSelectedIonMZ); ok {
			mz, err := strconv.ParseFloat(p.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid selected ion m/z '%s': %w", p.Value, err)
			}
			spec.PrecursorMZ = mz
		}
		if p, ok := findParam(ion.CvPar, accChargeState); ok {
			charge, err := strconv.Atoi(p.Value)
			if err != nil {
				return nil, fmt.Errorf("invalid charge state '%s': %w", p.Value, err)
			}
			spec.PrecursorCharge = charge
		}
	}

	var mzs, intensities []float64
	for _, array := range s.BinaryDataArrayList.BinaryDataArray {
		_, isMZ := findParam(array.CvPar, accMZArray)
		_, isIntensity := findParam(array.CvPar, accIntensityArray)
		if !isMZ && !isIntensity {
			continue
		}
		values, err := decodeArray(array)
		if err != nil {
			return nil, err
		}
		if isMZ {
			mzs = values
		} else {
			intensities = values
		}
	}
	if len(mzs) != len(intensities) {
		return nil, fmt.Errorf("%w: %d m/z and %d intensities", ErrArrayLength, len(mzs), len(intensities))
	}

	spec.Peaks = make([]core.Peak, len(mzs))
	for i := range mzs {
		spec.Peaks[i] = core.Peak{MZ: mzs[i], Intensity: intensities[i]}
	}
	if !spec.ArePeaksSorted() {
		spec.SortPeaks()
	}
	return spec, nil
}

// decodeArray decodes a base64 binary array, zlib compressed or not, of
// 32 or 64 bit little endian floats
func decodeArray(array binaryDataArray) ([]float64, error) {
	zlibCompressed, bits64 := false, false
	for _, p := range array.CvPar {
		switch {
		case p.Accession == accZlib:
			zlibCompressed = true
		case p.Accession == accFloat64:
			bits64 = true
		case p.Accession == accFloat32:
			bits64 = false
		case numpress[p.Accession]:
			return nil, fmt.Errorf("%w: CV term %s", ErrUnsupportedCompression, p.Accession)
		}
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(array.Binary))
	if err != nil {
		return nil, err
	}
	if zlibCompressed {
		z, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer z.Close()
		if data, err = io.ReadAll(z); err != nil {
			return nil, err
		}
	}

	if bits64 {
		values := make([]float64, len(data)/8)
		for i := range values {
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
		}
		return values, nil
	}
	values := make([]float64, len(data)/4)
	for i := range values {
		values[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])))
	}
	return values, nil
}
