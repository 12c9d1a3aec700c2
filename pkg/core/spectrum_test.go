package core

import (
	"errors"
	"math"
	"testing"
)

func TestSpectrumValidation(t *testing.T) {
	tests := []struct {
		name    string
		spec    *Spectrum
		wantErr bool
	}{
		{
			name: "valid spectrum",
			spec: &Spectrum{
				Scan:            10,
				PrecursorMZ:     900.5,
				PrecursorCharge: 2,
				Peaks: []Peak{
					{MZ: 100.0, Intensity: 1000.0},
					{MZ: 200.0, Intensity: 2000.0},
				},
			},
			wantErr: false,
		},
		{
			name: "zero charge",
			spec: &Spectrum{
				PrecursorMZ:     900.5,
				PrecursorCharge: 0,
				Peaks:           []Peak{{MZ: 100.0, Intensity: 1000.0}},
			},
			wantErr: true,
		},
		{
			name: "missing precursor",
			spec: &Spectrum{
				PrecursorCharge: 2,
				Peaks:           []Peak{{MZ: 100.0, Intensity: 1000.0}},
			},
			wantErr: true,
		},
		{
			name: "no peaks",
			spec: &Spectrum{
				PrecursorMZ:     900.5,
				PrecursorCharge: 2,
				Peaks:           []Peak{},
			},
			wantErr: true,
		},
		{
			name: "unsorted peaks",
			spec: &Spectrum{
				PrecursorMZ:     900.5,
				PrecursorCharge: 2,
				Peaks: []Peak{
					{MZ: 200.0, Intensity: 2000.0},
					{MZ: 100.0, Intensity: 1000.0},
				},
			},
			wantErr: true,
		},
		{
			name: "NaN intensity",
			spec: &Spectrum{
				PrecursorMZ:     900.5,
				PrecursorCharge: 2,
				Peaks:           []Peak{{MZ: 100.0, Intensity: math.NaN()}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("Validate() error type = %T, want *ValidationError", err)
				}
			}
		})
	}
}

func TestSortPeaks(t *testing.T) {
	spec := &Spectrum{
		Peaks: []Peak{
			{MZ: 300.0, Intensity: 1.0},
			{MZ: 100.0, Intensity: 2.0},
			{MZ: 200.0, Intensity: 3.0},
		},
	}

	if spec.ArePeaksSorted() {
		t.Fatal("ArePeaksSorted() = true before sorting, want false")
	}
	spec.SortPeaks()
	if !spec.ArePeaksSorted() {
		t.Errorf("ArePeaksSorted() = false after SortPeaks()")
	}

	lo, hi := spec.MZRange()
	if lo != 100.0 || hi != 300.0 {
		t.Errorf("MZRange() = (%v, %v), want (100, 300)", lo, hi)
	}
}

func TestPrecursorMass(t *testing.T) {
	spec := &Spectrum{PrecursorMZ: MZ(2000.0, 3), PrecursorCharge: 3}
	if got := spec.PrecursorMass(); math.Abs(got-2000.0) > 1e-9 {
		t.Errorf("PrecursorMass() = %v, want 2000", got)
	}
	if got := spec.Name(); got != "0/3" {
		t.Errorf("Name() = %q, want %q", got, "0/3")
	}
}
