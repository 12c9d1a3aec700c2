// Package protein provides protease digestion, N-glycosylation sequon
// lookup and reversed decoy generation for protein sequences.
package protein

import "strings"

// Protein is one database entry
type Protein struct {
	ID       string
	Sequence string
}

// Reverse returns decoy proteins with reversed sequences
func Reverse(proteins []Protein) []Protein {
	decoys := make([]Protein, len(proteins))
	for i, p := range proteins {
		r := []rune(p.Sequence)
		for a, b := 0, len(r)-1; a < b; a, b = a+1, b-1 {
			r[a], r[b] = r[b], r[a]
		}
		decoys[i] = Protein{ID: "REV_" + p.ID, Sequence: string(r)}
	}
	return decoys
}

// NGlycosites returns the positions of asparagines in an N-X-S/T sequon
// where X is not proline
func NGlycosites(sequence string) []int {
	r := []rune(strings.ToUpper(sequence))
	var sites []int
	for i := 0; i+2 < len(r); i++ {
		if r[i] == 'N' && r[i+1] != 'P' && (r[i+2] == 'S' || r[i+2] == 'T') {
			sites = append(sites, i)
		}
	}
	return sites
}

// ContainsNGlycosite reports whether the sequence has at least one sequon
func ContainsNGlycosite(sequence string) bool {
	return len(NGlycosites(sequence)) > 0
}
