// Package core provides the shared models and validation logic for MS/MS
// scans, mass tolerances and peptide chemistry used by the search engine.
package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Spectrum represents a single MS/MS scan with its precursor information.
type Spectrum struct {
	// Required fields
	Scan            int     // Scan number
	PrecursorMZ     float64 // Precursor m/z
	PrecursorCharge int     // Precursor charge state
	Peaks           []Peak  // Fragment peaks

	// Optional metadata
	Retention float64 // Retention time in minutes
	Title     string

	// Internal tracking
	SourceFile   string
	SourceFormat string // mgf, mzml
}

// Peak represents a single m/z, intensity pair.
type Peak struct {
	MZ        float64
	Intensity float64
}

// ValidationError represents an error found during spectrum validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// Validate checks that a spectrum meets all requirements for searching.
func (s *Spectrum) Validate() error {
	var errs []string

	// Required fields
	if s.PrecursorCharge <= 0 {
		errs = append(errs, "precursor charge must be positive")
	}
	if s.PrecursorMZ <= 0 || math.IsNaN(s.PrecursorMZ) || math.IsInf(s.PrecursorMZ, 0) {
		errs = append(errs, "precursor m/z must be positive")
	}
	if len(s.Peaks) == 0 {
		errs = append(errs, "at least one peak is required")
	}

	// Validate peaks
	for i, peak := range s.Peaks {
		if math.IsNaN(peak.MZ) || math.IsInf(peak.MZ, 0) {
			errs = append(errs, fmt.Sprintf("peak %d has invalid m/z", i))
		}
		if math.IsNaN(peak.Intensity) || math.IsInf(peak.Intensity, 0) {
			errs = append(errs, fmt.Sprintf("peak %d has invalid intensity", i))
		}
		if peak.MZ <= 0 {
			errs = append(errs, fmt.Sprintf("peak %d m/z must be positive", i))
		}
		if peak.Intensity < 0 {
			errs = append(errs, fmt.Sprintf("peak %d intensity must be non-negative", i))
		}
	}

	if !s.ArePeaksSorted() {
		errs = append(errs, "peaks must be sorted by m/z")
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   fmt.Sprintf("Spectrum %d", s.Scan),
			Message: strings.Join(errs, "; "),
		}
	}

	return nil
}

// ArePeaksSorted checks if peaks are sorted by m/z in ascending order.
func (s *Spectrum) ArePeaksSorted() bool {
	for i := 1; i < len(s.Peaks); i++ {
		if s.Peaks[i].MZ < s.Peaks[i-1].MZ {
			return false
		}
	}
	return true
}

// SortPeaks sorts peaks by m/z in ascending order.
func (s *Spectrum) SortPeaks() {
	sort.Slice(s.Peaks, func(i, j int) bool {
		return s.Peaks[i].MZ < s.Peaks[j].MZ
	})
}

// PrecursorMass returns the neutral precursor mass.
func (s *Spectrum) PrecursorMass() float64 {
	return NeutralMass(s.PrecursorMZ, s.PrecursorCharge)
}

// MZRange returns the smallest and largest peak m/z.
func (s *Spectrum) MZRange() (float64, float64) {
	if len(s.Peaks) == 0 {
		return 0, 0
	}
	lo, hi := s.Peaks[0].MZ, s.Peaks[0].MZ
	for _, p := range s.Peaks[1:] {
		lo = math.Min(lo, p.MZ)
		hi = math.Max(hi, p.MZ)
	}
	return lo, hi
}

// Name returns the spectrum name in format "scan/charge"
func (s *Spectrum) Name() string {
	return fmt.Sprintf("%d/%d", s.Scan, s.PrecursorCharge)
}
