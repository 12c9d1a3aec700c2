// Package filter trims fragment peaks before a spectrum is searched
package filter

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
)

// Config selects the peak filters. Zero values disable a filter.
type Config struct {
	// keep only the N most intense peaks
	TopN int `mapstructure:"top-n"`

	// drop peaks below this percentage of the base peak
	IntensityCutoff float64 `mapstructure:"intensity-cutoff"`
}

// Validate rejects negative settings and cutoffs above 100%
func (c Config) Validate() error {
	if c.TopN < 0 {
		return fmt.Errorf("top-n must not be negative, got %d", c.TopN)
	}
	if c.IntensityCutoff < 0 || c.IntensityCutoff > 100 {
		return fmt.Errorf("intensity-cutoff must be within [0, 100], got %v", c.IntensityCutoff)
	}
	return nil
}

// Apply filters the peaks of spec in place and leaves them sorted by m/z
func (c Config) Apply(spec *core.Spectrum) {
	RemoveZeroIntensityPeaks(spec)

	if c.IntensityCutoff > 0 && len(spec.Peaks) > 0 {
		threshold := c.IntensityCutoff / 100 * basePeak(spec.Peaks)
		keep(spec, func(p core.Peak) bool { return p.Intensity >= threshold })
	}

	if c.TopN > 0 && len(spec.Peaks) > c.TopN {
		sort.SliceStable(spec.Peaks, func(i, j int) bool {
			return spec.Peaks[i].Intensity > spec.Peaks[j].Intensity
		})
		spec.Peaks = spec.Peaks[:c.TopN]
	}

	spec.SortPeaks()
}

// RemoveZeroIntensityPeaks drops peaks that cannot add to a score
func RemoveZeroIntensityPeaks(spec *core.Spectrum) {
	keep(spec, func(p core.Peak) bool { return p.Intensity > 0 })
}

func basePeak(peaks []core.Peak) float64 {
	intensities := make([]float64, len(peaks))
	for i, p := range peaks {
		intensities[i] = p.Intensity
	}
	return floats.Max(intensities)
}

// keep compacts spec.Peaks to the peaks accepted by ok
func keep(spec *core.Spectrum, ok func(core.Peak) bool) {
	out := spec.Peaks[:0]
	for _, p := range spec.Peaks {
		if ok(p) {
			out = append(out, p)
		}
	}
	spec.Peaks = out
}
