// Package glycan builds the space of N-glycan structures reachable under
// per-monosaccharide bounds, with the fragmentation edges between them.
package glycan

import (
	"fmt"
	"strings"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
)

// Monosaccharide is a sugar residue that can extend a glycan
type Monosaccharide int

const (
	GlcNAc Monosaccharide = iota
	Man
	Gal
	Fuc
	NeuAc
	NeuGc
	numMonosaccharides
)

// Monosaccharides lists every residue in growth order
var Monosaccharides = []Monosaccharide{GlcNAc, Man, Gal, Fuc, NeuAc, NeuGc}

var monosaccharideNames = [numMonosaccharides]string{"GlcNAc", "Man", "Gal", "Fuc", "NeuAc", "NeuGc"}

// Residue compositions (monosaccharide minus water)
var residueCompositions = [numMonosaccharides]core.ElementalComposition{
	GlcNAc: {C: 8, H: 13, N: 1, O: 5},
	Man:    {C: 6, H: 10, O: 5},
	Gal:    {C: 6, H: 10, O: 5},
	Fuc:    {C: 6, H: 10, O: 4},
	NeuAc:  {C: 11, H: 17, N: 1, O: 8},
	NeuGc:  {C: 11, H: 17, N: 1, O: 9},
}

var residueMasses = func() [numMonosaccharides]float64 {
	var m [numMonosaccharides]float64
	for i, comp := range residueCompositions {
		m[i] = comp.Mass()
	}
	return m
}()

// HexNAcMass is the residue mass of GlcNAc
var HexNAcMass = GlcNAc.Mass()

func (m Monosaccharide) String() string {
	if m < 0 || m >= numMonosaccharides {
		return fmt.Sprintf("Monosaccharide(%d)", int(m))
	}
	return monosaccharideNames[m]
}

// Mass returns the residue mass
func (m Monosaccharide) Mass() float64 {
	return residueMasses[m]
}

// Composition counts residues per monosaccharide
type Composition [numMonosaccharides]int

// Mass sums residue masses in a fixed order, so equal compositions give
// bit-identical masses.
func (c Composition) Mass() float64 {
	mass := 0.0
	for i, n := range c {
		mass += float64(n) * residueMasses[i]
	}
	return mass
}

func (c Composition) HexNAc() int { return c[GlcNAc] }
func (c Composition) Hex() int    { return c[Man] + c[Gal] }
func (c Composition) Fuc() int    { return c[Fuc] }
func (c Composition) NeuAc() int  { return c[NeuAc] }
func (c Composition) NeuGc() int  { return c[NeuGc] }

// String renders the non-zero counts, e.g. "GlcNAc(4)Man(3)Gal(2)"
func (c Composition) String() string {
	var b strings.Builder
	for i, n := range c {
		if n > 0 {
			fmt.Fprintf(&b, "%s(%d)", monosaccharideNames[i], n)
		}
	}
	return b.String()
}

// Summary renders the composition by residue class, e.g. "HexNAc(4)Hex(5)Fuc(1)"
func (c Composition) Summary() string {
	var b strings.Builder
	for _, part := range []struct {
		name string
		n    int
	}{
		{"HexNAc", c.HexNAc()},
		{"Hex", c.Hex()},
		{"Fuc", c.Fuc()},
		{"NeuAc", c.NeuAc()},
		{"NeuGc", c.NeuGc()},
	} {
		if part.n > 0 {
			fmt.Fprintf(&b, "%s(%d)", part.name, part.n)
		}
	}
	return b.String()
}
