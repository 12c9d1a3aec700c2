// Package mgf provides a streaming reader for Mascot Generic Format spectra
package mgf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
)

// Reader provides streaming access to MGF files
type Reader struct {
	scanner     *bufio.Scanner
	lineNum     int
	scan        int // last assigned scan number
	currentSpec *core.Spectrum
	err         error
}

// NewReader creates a new MGF reader. Spectra without a SCANS field are
// numbered from 0 in file order, continuing after the last explicit scan.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &Reader{
		scanner: scanner,
		scan:    -1,
	}
}

// Next advances to the next spectrum. Returns false when no more spectra or error.
func (r *Reader) Next() bool {
	r.currentSpec = nil

	spec, err := r.readSpectrum()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	r.currentSpec = spec
	return true
}

// Spectrum returns the current spectrum
func (r *Reader) Spectrum() *core.Spectrum {
	return r.currentSpec
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// ReadAll reads every remaining spectrum
func (r *Reader) ReadAll() ([]*core.Spectrum, error) {
	var spectra []*core.Spectrum
	for r.Next() {
		spectra = append(spectra, r.Spectrum())
	}
	return spectra, r.Err()
}

// readSpectrum reads one BEGIN IONS ... END IONS block
func (r *Reader) readSpectrum() (*core.Spectrum, error) {
	var spec *core.Spectrum

	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())

		// Skip blank and comment lines
		if line == "" || line[0] == '#' || line[0] == ';' || line[0] == '!' {
			continue
		}

		if spec == nil {
			if line == "BEGIN IONS" {
				r.scan++
				spec = &core.Spectrum{
					Scan:         r.scan,
					SourceFormat: "mgf",
					Peaks:        []core.Peak{},
				}
			}
			// Global parameters outside blocks are ignored
			continue
		}

		if line == "END IONS" {
			if !spec.ArePeaksSorted() {
				spec.SortPeaks()
			}
			return spec, nil
		}

		if key, value, ok := strings.Cut(line, "="); ok {
			if err := r.parseField(spec, key, value); err != nil {
				return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
			}
			continue
		}

		peak, err := parsePeak(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
		}
		spec.Peaks = append(spec.Peaks, peak)
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	if spec != nil {
		return nil, fmt.Errorf("line %d: unterminated spectrum, missing END IONS", r.lineNum)
	}
	return nil, io.EOF
}

// parseField stores a KEY=VALUE header line
func (r *Reader) parseField(spec *core.Spectrum, key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToUpper(strings.TrimSpace(key)) {
	case "TITLE":
		spec.Title = value

	case "PEPMASS":
		// PEPMASS=mz [intensity]
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return fmt.Errorf("empty PEPMASS")
		}
		mz, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fmt.Errorf("invalid PEPMASS '%s': %w", value, err)
		}
		spec.PrecursorMZ = mz

	case "CHARGE":
		charge, err := parseCharge(value)
		if err != nil {
			return err
		}
		spec.PrecursorCharge = charge

	case "RTINSECONDS":
		rt, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid RTINSECONDS '%s': %w", value, err)
		}
		spec.Retention = rt / 60

	case "SCANS":
		// SCANS may be a range such as 100-102; the first scan names the spectrum
		first, _, _ := strings.Cut(value, "-")
		scan, err := strconv.Atoi(strings.TrimSpace(first))
		if err != nil {
			return fmt.Errorf("invalid SCANS '%s': %w", value, err)
		}
		spec.Scan = scan
		r.scan = scan
	}
	return nil
}

// parseCharge reads charges written as "2", "2+" or "2+ and 3+" (first wins)
func parseCharge(value string) (int, error) {
	first := strings.Fields(value)
	if len(first) == 0 {
		return 0, fmt.Errorf("empty CHARGE")
	}
	s := strings.TrimRight(first[0], "+-")
	charge, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid CHARGE '%s': %w", value, err)
	}
	return charge, nil
}

// parsePeak parses a single peak line (format: "mz intensity [charge]")
func parsePeak(line string) (core.Peak, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return core.Peak{}, fmt.Errorf("invalid peak format, expected at least 2 fields")
	}

	mz, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return core.Peak{}, fmt.Errorf("invalid m/z value: %w", err)
	}

	intensity, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return core.Peak{}, fmt.Errorf("invalid intensity value: %w", err)
	}

	return core.Peak{MZ: mz, Intensity: intensity}, nil
}
