package glycan

import (
	"fmt"
	"strconv"
	"strings"
)

// Class selects the N-glycan family and with it the structural layout
type Class int

const (
	Complex Class = iota
	Hybrid
	HighMannose
)

// AllClasses lists every glycan class
var AllClasses = []Class{Complex, Hybrid, HighMannose}

func (c Class) String() string {
	switch c {
	case Complex:
		return "complex"
	case Hybrid:
		return "hybrid"
	case HighMannose:
		return "highmannose"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// stateLen is the number of structural slots of the class
func (c Class) stateLen() int {
	switch c {
	case Complex:
		return complexStateLen
	case Hybrid:
		return hybridStateLen
	default:
		return highMannoseStateLen
	}
}

// ParseClasses reads a class selection written as letters ("CHM") or
// comma-separated names ("complex,hybrid").
func ParseClasses(s string) ([]Class, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty glycan class selection")
	}

	seen := make(map[Class]bool)
	var classes []Class
	add := func(c Class) {
		if !seen[c] {
			seen[c] = true
			classes = append(classes, c)
		}
	}

	if strings.Contains(s, ",") || len(s) > 3 {
		for _, name := range strings.Split(s, ",") {
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "complex":
				add(Complex)
			case "hybrid":
				add(Hybrid)
			case "highmannose", "high-mannose", "mannose":
				add(HighMannose)
			default:
				return nil, fmt.Errorf("unknown glycan class '%s'", name)
			}
		}
		return classes, nil
	}

	for _, r := range strings.ToUpper(s) {
		switch r {
		case 'C':
			add(Complex)
		case 'H':
			add(Hybrid)
		case 'M':
			add(HighMannose)
		default:
			return nil, fmt.Errorf("unknown glycan class '%c'", r)
		}
	}
	return classes, nil
}

// Glycan is one structure of a class. Two glycans are the same structure
// exactly when their State vectors are equal; ID encodes State.
type Glycan struct {
	Class       Class
	State       []int
	Composition Composition
	ID          string
	Mass        float64
	Children    []string // IDs of one-residue extensions, owned by the Universe
}

// NewRoot returns the empty structure of a class
func NewRoot(class Class) *Glycan {
	state := make([]int, class.stateLen())
	return &Glycan{
		Class: class,
		State: state,
		ID:    encodeID(state),
	}
}

// Name renders the composition, e.g. "GlcNAc(2)Man(3)"
func (g *Glycan) Name() string {
	return g.Composition.String()
}

func (g *Glycan) String() string {
	return fmt.Sprintf("%s %s [%s]", g.Class, g.Name(), g.ID)
}

// Grow returns the structures obtained by attaching one residue of s
func (g *Glycan) Grow(s Monosaccharide) []*Glycan {
	switch g.Class {
	case Complex:
		return growComplex(g, s)
	case Hybrid:
		return growHybrid(g, s)
	case HighMannose:
		return growHighMannose(g, s)
	default:
		return nil
	}
}

// Subsumes reports whether part is a substructure of g: same class, no
// slot larger than in g, and every branch of part that already carries a
// terminal residue has the same galactose count as g on that branch.
func (g *Glycan) Subsumes(part *Glycan) bool {
	if g.Class != part.Class || len(g.State) != len(part.State) {
		return false
	}
	for i := range g.State {
		if part.State[i] > g.State[i] {
			return false
		}
	}

	lay, ok := branchLayouts[g.Class]
	if !ok {
		return true
	}
	for i := 0; i < lay.branches; i++ {
		terminal := part.State[lay.fuc+i] > 0 || part.State[lay.neuAc+i] > 0 || part.State[lay.neuGc+i] > 0
		if terminal && part.State[lay.gal+i] != g.State[lay.gal+i] {
			return false
		}
	}
	return true
}

// Group names the family a glycan competes in when evidence is pruned.
// Hybrid structures compete only with those sharing their mannose arm.
func (g *Glycan) Group() string {
	if g.Class == Hybrid {
		return fmt.Sprintf("hybrid:%d:%d", g.State[hybridManBranch], g.State[hybridManBranch+1])
	}
	return g.Class.String()
}

// extend copies g with slot set to value and one residue of s added
func (g *Glycan) extend(slot int, s Monosaccharide, value int) *Glycan {
	state := make([]int, len(g.State))
	copy(state, g.State)
	state[slot] = value

	comp := g.Composition
	comp[s]++
	return &Glycan{
		Class:       g.Class,
		State:       state,
		Composition: comp,
		ID:          encodeID(state),
		Mass:        comp.Mass(),
	}
}

func encodeID(state []int) string {
	var b strings.Builder
	for i, v := range state {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// ordered reports whether branch i of the slots starting at first may grow:
// each branch stays strictly behind the one before it.
func ordered(state []int, first, i int) bool {
	return i == 0 || state[first+i] < state[first+i-1]
}
