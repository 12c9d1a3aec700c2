package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidTolerance is returned when a tolerance is not usable for matching
var ErrInvalidTolerance = errors.New("invalid tolerance")

// ToleranceKind selects how a tolerance window is measured
type ToleranceKind int

const (
	// PPM measures the window relative to a base mass, in parts per million
	PPM ToleranceKind = iota
	// Dalton measures the window as an absolute mass difference
	Dalton
)

func (k ToleranceKind) String() string {
	switch k {
	case PPM:
		return "ppm"
	case Dalton:
		return "dalton"
	default:
		return fmt.Sprintf("ToleranceKind(%d)", int(k))
	}
}

// ParseToleranceKind accepts "ppm", "da" or "dalton" in any case
func ParseToleranceKind(s string) (ToleranceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ppm":
		return PPM, nil
	case "da", "dalton":
		return Dalton, nil
	default:
		return 0, fmt.Errorf("%w: unknown tolerance kind '%s'", ErrInvalidTolerance, s)
	}
}

// Tolerance is a matching window
type Tolerance struct {
	Kind  ToleranceKind
	Value float64
}

// Validate fails on a non-positive, non-finite value or an unknown kind
func (t Tolerance) Validate() error {
	if t.Kind != PPM && t.Kind != Dalton {
		return fmt.Errorf("%w: unknown kind %v", ErrInvalidTolerance, t.Kind)
	}
	if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) || t.Value <= 0 {
		return fmt.Errorf("%w: value %v must be positive", ErrInvalidTolerance, t.Value)
	}
	return nil
}

// Within reports whether observe lies strictly inside the window around
// expect. PPM windows are relative to base and empty for a non-positive
// base; Dalton ignores base.
func (t Tolerance) Within(expect, observe, base float64) bool {
	diff := math.Abs(expect - observe)
	if t.Kind == PPM {
		if base <= 0 {
			return false
		}
		return diff/base*1e6 < t.Value
	}
	return diff < t.Value
}

// Delta returns the absolute half width of the window around base
func (t Tolerance) Delta(base float64) float64 {
	if t.Kind == PPM {
		return math.Abs(base) * t.Value / 1e6
	}
	return t.Value
}

func (t Tolerance) String() string {
	return fmt.Sprintf("%g %s", t.Value, t.Kind)
}
