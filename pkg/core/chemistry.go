// Package core provides chemistry calculations for peptide and glycan masses
package core

import (
	"math"
	"sync"
)

// Atomic masses (monoisotopic)
const (
	MassH = 1.0078250321
	MassC = 12.0000000000
	MassN = 14.0030740052
	MassO = 15.9949146221
	MassS = 31.9720706900

	// Proton mass for charge calculations
	ProtonMass = 1.00727646688
)

// ElementalComposition stores an elemental composition
type ElementalComposition struct {
	C, H, N, O, S int
}

// Mass returns the monoisotopic mass of the composition
func (c ElementalComposition) Mass() float64 {
	return float64(c.C)*MassC +
		float64(c.H)*MassH +
		float64(c.N)*MassN +
		float64(c.O)*MassO +
		float64(c.S)*MassS
}

// Compositions of small neutral groups
var (
	Water   = ElementalComposition{H: 2, O: 1}
	Ammonia = ElementalComposition{H: 3, N: 1}
)

// WaterMass and AmmoniaMass are the monoisotopic masses of H2O and NH3
var (
	WaterMass   = Water.Mass()
	AmmoniaMass = Ammonia.Mass()
)

// AminoAcidCompositions maps amino acid one-letter codes to residue composition
var AminoAcidCompositions = map[rune]ElementalComposition{
	'A': {C: 3, H: 5, N: 1, O: 1},
	'R': {C: 6, H: 12, N: 4, O: 1},
	'N': {C: 4, H: 6, N: 2, O: 2},
	'D': {C: 4, H: 5, N: 1, O: 3},
	'C': {C: 3, H: 5, N: 1, O: 1, S: 1},
	'E': {C: 5, H: 7, N: 1, O: 3},
	'Q': {C: 5, H: 8, N: 2, O: 2},
	'G': {C: 2, H: 3, N: 1, O: 1},
	'H': {C: 6, H: 7, N: 3, O: 1},
	'I': {C: 6, H: 11, N: 1, O: 1},
	'L': {C: 6, H: 11, N: 1, O: 1},
	'K': {C: 6, H: 12, N: 2, O: 1},
	'M': {C: 5, H: 9, N: 1, O: 1, S: 1},
	'F': {C: 9, H: 9, N: 1, O: 1},
	'P': {C: 5, H: 7, N: 1, O: 1},
	'S': {C: 3, H: 5, N: 1, O: 2},
	'T': {C: 4, H: 7, N: 1, O: 2},
	'W': {C: 11, H: 10, N: 2, O: 1},
	'Y': {C: 9, H: 9, N: 1, O: 2},
	'V': {C: 5, H: 9, N: 1, O: 1},
}

// ResidueMass returns the residue mass of an amino acid, including the
// mass shift of a dynamic modification symbol. Unknown residues weigh zero.
func ResidueMass(aa rune) float64 {
	if mod, ok := modificationBySymbol[aa]; ok {
		return AminoAcidCompositions[mod.Origin].Mass() + mod.Mass
	}
	comp, ok := AminoAcidCompositions[aa]
	if !ok {
		return 0
	}
	return comp.Mass()
}

// KnownResidues reports whether every residue of sequence has a mass:
// one of the twenty amino acids or a modification symbol. Ambiguity codes
// such as X, B and Z fail.
func KnownResidues(sequence string) bool {
	for _, aa := range sequence {
		if _, ok := modificationBySymbol[aa]; ok {
			continue
		}
		if _, ok := AminoAcidCompositions[aa]; !ok {
			return false
		}
	}
	return true
}

// PeptideMass computes the neutral monoisotopic mass of a peptide sequence,
// water included. Modified residues are written with their symbol.
func PeptideMass(sequence string) float64 {
	mass := WaterMass
	for _, aa := range sequence {
		mass += ResidueMass(aa)
	}
	return mass
}

// MassCache memoizes peptide masses per unique sequence
type MassCache struct {
	mu     sync.RWMutex
	masses map[string]float64
}

// NewMassCache creates an empty mass cache
func NewMassCache() *MassCache {
	return &MassCache{masses: make(map[string]float64)}
}

// Mass returns the neutral mass of a sequence, computing it on first use
func (c *MassCache) Mass(sequence string) float64 {
	c.mu.RLock()
	mass, ok := c.masses[sequence]
	c.mu.RUnlock()
	if ok {
		return mass
	}

	mass = PeptideMass(sequence)
	c.mu.Lock()
	c.masses[sequence] = mass
	c.mu.Unlock()
	return mass
}

// Len returns the number of memoized sequences
func (c *MassCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.masses)
}

// NeutralMass converts an observed m/z at a charge state to a neutral mass
func NeutralMass(mz float64, charge int) float64 {
	return (mz - ProtonMass) * float64(charge)
}

// MZ converts a neutral mass to m/z at a charge state
func MZ(mass float64, charge int) float64 {
	return (mass + float64(charge)*ProtonMass) / float64(charge)
}

// RoundFloat rounds a float to n decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
