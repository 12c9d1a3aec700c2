// Package core provides dynamic modification expansion for peptide sequences
package core

import (
	"fmt"
	"sort"
	"strings"
)

// Modification is a dynamic residue modification. Modified residues are
// written in sequences with Symbol in place of Origin.
type Modification struct {
	Name   string
	Origin rune    // Unmodified residue
	Symbol rune    // Residue symbol once modified
	Mass   float64 // Mass shift
	Label  string  // Human readable rendering, e.g. "M*"
}

// Dynamic modifications searched by default
var (
	Oxidation    = Modification{Name: "Oxidation", Origin: 'M', Symbol: '$', Mass: 15.994915, Label: "M*"}
	DeamidationN = Modification{Name: "Deamidated", Origin: 'N', Symbol: '@', Mass: 0.984016, Label: "N^"}
	DeamidationQ = Modification{Name: "Deamidated", Origin: 'Q', Symbol: '#', Mass: 0.984016, Label: "Q^"}
)

// KnownModifications lists every modification symbol understood in sequences
var KnownModifications = []Modification{Oxidation, DeamidationN, DeamidationQ}

var modificationBySymbol = func() map[rune]Modification {
	m := make(map[rune]Modification, len(KnownModifications))
	for _, mod := range KnownModifications {
		m[mod.Symbol] = mod
	}
	return m
}()

// ModificationOptions selects which dynamic modifications are expanded
type ModificationOptions struct {
	Oxidation   bool
	Deamidation bool
}

// Modifications returns the modifications enabled by the options
func (o ModificationOptions) Modifications() []Modification {
	var mods []Modification
	if o.Oxidation {
		mods = append(mods, Oxidation)
	}
	if o.Deamidation {
		mods = append(mods, DeamidationN, DeamidationQ)
	}
	return mods
}

// ExpandModifications returns every variant of the peptides obtained by
// modifying any subset of the candidate residues, the unmodified sequence
// included. Variants rejected by keep are dropped; a nil keep keeps all.
// The result is sorted and free of duplicates.
func ExpandModifications(peptides []string, mods []Modification, keep func(string) bool) []string {
	current := make(map[string]struct{}, len(peptides))
	for _, p := range peptides {
		current[p] = struct{}{}
	}

	for _, mod := range mods {
		next := make(map[string]struct{}, len(current))
		for seq := range current {
			for _, variant := range modifySubsets(seq, mod) {
				next[variant] = struct{}{}
			}
		}
		current = next
	}

	var result []string
	for seq := range current {
		if keep == nil || keep(seq) {
			result = append(result, seq)
		}
	}
	sort.Strings(result)
	return result
}

// modifySubsets enumerates all subsets of mod.Origin positions in seq
func modifySubsets(seq string, mod Modification) []string {
	residues := []rune(seq)
	var sites []int
	for i, aa := range residues {
		if aa == mod.Origin {
			sites = append(sites, i)
		}
	}

	variants := make([]string, 0, 1<<len(sites))
	for mask := 0; mask < 1<<len(sites); mask++ {
		out := make([]rune, len(residues))
		copy(out, residues)
		for bit, pos := range sites {
			if mask&(1<<bit) != 0 {
				out[pos] = mod.Symbol
			}
		}
		variants = append(variants, string(out))
	}
	return variants
}

// Interpret renders modification symbols in a readable form, e.g. "PE$K" -> "PEM*K"
func Interpret(sequence string) string {
	var b strings.Builder
	for _, aa := range sequence {
		if mod, ok := modificationBySymbol[aa]; ok {
			b.WriteString(mod.Label)
			continue
		}
		b.WriteRune(aa)
	}
	return b.String()
}

// Unmodified strips modification symbols back to their origin residue
func Unmodified(sequence string) string {
	return strings.Map(func(aa rune) rune {
		if mod, ok := modificationBySymbol[aa]; ok {
			return mod.Origin
		}
		return aa
	}, sequence)
}

// ParseModificationOptions parses a modification list such as "oxidation,deamidation"
func ParseModificationOptions(list []string) (ModificationOptions, error) {
	var opts ModificationOptions
	for _, name := range list {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
		case "oxidation":
			opts.Oxidation = true
		case "deamidation", "deamidated":
			opts.Deamidation = true
		default:
			return opts, fmt.Errorf("unknown modification '%s'", name)
		}
	}
	return opts, nil
}
