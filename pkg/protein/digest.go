package protein

import (
	"fmt"
	"sort"
	"strings"
)

// Protease selects cleavage rules
type Protease int

const (
	Trypsin Protease = iota
	GluC
	Chymotrypsin
	Pepsin
)

func (p Protease) String() string {
	switch p {
	case Trypsin:
		return "Trypsin"
	case GluC:
		return "GluC"
	case Chymotrypsin:
		return "Chymotrypsin"
	case Pepsin:
		return "Pepsin"
	default:
		return fmt.Sprintf("Protease(%d)", int(p))
	}
}

// ParseProteases reads a protease selection written as letters ("TG") or
// comma-separated names ("trypsin,gluc"). Order is kept.
func ParseProteases(s string) ([]Protease, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty protease selection")
	}

	var out []Protease
	if p, err := parseProteaseName(s); err == nil {
		return []Protease{p}, nil
	}
	if strings.Contains(s, ",") {
		for _, name := range strings.Split(s, ",") {
			p, err := parseProteaseName(name)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	}

	for _, r := range strings.ToUpper(s) {
		switch r {
		case 'T':
			out = append(out, Trypsin)
		case 'G':
			out = append(out, GluC)
		case 'C':
			out = append(out, Chymotrypsin)
		case 'P':
			out = append(out, Pepsin)
		default:
			return nil, fmt.Errorf("unknown protease '%c'", r)
		}
	}
	return out, nil
}

func parseProteaseName(name string) (Protease, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trypsin":
		return Trypsin, nil
	case "gluc", "glu-c":
		return GluC, nil
	case "chymotrypsin":
		return Chymotrypsin, nil
	case "pepsin":
		return Pepsin, nil
	default:
		return 0, fmt.Errorf("unknown protease '%s'", name)
	}
}

// cleavesAfter reports whether the protease cuts between seq[i] and seq[i+1]
func (p Protease) cleavesAfter(seq []rune, i int) bool {
	next := rune(0)
	if i+1 < len(seq) {
		next = seq[i+1]
	}
	switch p {
	case Trypsin:
		return (seq[i] == 'K' || seq[i] == 'R') && next != 'P'
	case GluC:
		return seq[i] == 'E'
	case Chymotrypsin:
		return (seq[i] == 'F' || seq[i] == 'W' || seq[i] == 'Y') && next != 'P'
	case Pepsin:
		return seq[i] == 'F' || seq[i] == 'L'
	default:
		return false
	}
}

// Digester cuts sequences into peptides
type Digester struct {
	Proteases       []Protease
	MissedCleavages int
	MinLength       int // 0 keeps every length
	MaxLength       int // 0 keeps every length
}

// Sequences digests one sequence with a single protease and keeps the
// peptides accepted by keep (nil keeps all)
func (d Digester) Sequences(sequence string, p Protease, keep func(string) bool) []string {
	seq := []rune(sequence)
	if len(seq) == 0 {
		return nil
	}

	// Fragment boundaries, including both ends
	cuts := []int{0}
	for i := 0; i < len(seq)-1; i++ {
		if p.cleavesAfter(seq, i) {
			cuts = append(cuts, i+1)
		}
	}
	cuts = append(cuts, len(seq))

	seen := make(map[string]bool)
	var out []string
	for i := 0; i < len(cuts)-1; i++ {
		for j := i + 1; j < len(cuts) && j-i-1 <= d.MissedCleavages; j++ {
			pep := string(seq[cuts[i]:cuts[j]])
			if seen[pep] || !d.lengthOK(pep) {
				continue
			}
			seen[pep] = true
			if keep == nil || keep(pep) {
				out = append(out, pep)
			}
		}
	}
	return out
}

func (d Digester) lengthOK(pep string) bool {
	n := len([]rune(pep))
	if d.MinLength > 0 && n < d.MinLength {
		return false
	}
	if d.MaxLength > 0 && n > d.MaxLength {
		return false
	}
	return true
}

// Digest cuts the proteins with the first protease, then re-digests the
// resulting peptides with each further protease, keeping all rounds. Only
// peptides accepted by keep survive. The result is sorted.
func (d Digester) Digest(proteins []Protein, keep func(string) bool) []string {
	if len(d.Proteases) == 0 {
		return nil
	}

	peptides := make(map[string]struct{})
	for _, p := range proteins {
		for _, pep := range d.Sequences(p.Sequence, d.Proteases[0], keep) {
			peptides[pep] = struct{}{}
		}
	}

	for _, protease := range d.Proteases[1:] {
		round := make(map[string]struct{})
		for pep := range peptides {
			for _, sub := range d.Sequences(pep, protease, keep) {
				round[sub] = struct{}{}
			}
		}
		for pep := range round {
			peptides[pep] = struct{}{}
		}
	}

	out := make([]string, 0, len(peptides))
	for pep := range peptides {
		out = append(out, pep)
	}
	sort.Strings(out)
	return out
}
