package glycan

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidBounds is returned for negative residue bounds
var ErrInvalidBounds = errors.New("glycan: invalid bounds")

// Bounds caps residue counts per composition class
type Bounds struct {
	HexNAc int `mapstructure:"hexnac"`
	Hex    int `mapstructure:"hex"`
	Fuc    int `mapstructure:"fuc"`
	NeuAc  int `mapstructure:"neuac"`
	NeuGc  int `mapstructure:"neugc"`
}

// Validate rejects negative bounds
func (b Bounds) Validate() error {
	for _, f := range []struct {
		name string
		n    int
	}{
		{"HexNAc", b.HexNAc}, {"Hex", b.Hex}, {"Fuc", b.Fuc}, {"NeuAc", b.NeuAc}, {"NeuGc", b.NeuGc},
	} {
		if f.n < 0 {
			return fmt.Errorf("%w: %s bound %d is negative", ErrInvalidBounds, f.name, f.n)
		}
	}
	return nil
}

// Allows reports whether a composition stays within every bound
func (b Bounds) Allows(c Composition) bool {
	return c.HexNAc() <= b.HexNAc &&
		c.Hex() <= b.Hex &&
		c.Fuc() <= b.Fuc &&
		c.NeuAc() <= b.NeuAc &&
		c.NeuGc() <= b.NeuGc
}

// Universe owns every generated glycan. Glycans reference each other by ID.
// It is read-only once built and safe to share between goroutines.
type Universe struct {
	glycans map[string]*Glycan
	byMass  map[float64][]string
	masses  []float64
	classes []Class
}

// Build enumerates, breadth first, every structure reachable from the empty
// root of each class without exceeding bounds. With no classes given all
// three are built.
func Build(bounds Bounds, classes ...Class) (*Universe, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		classes = AllClasses
	}

	u := &Universe{
		glycans: make(map[string]*Glycan),
		byMass:  make(map[float64][]string),
		classes: classes,
	}

	var queue []*Glycan
	for _, class := range classes {
		root := NewRoot(class)
		if _, ok := u.glycans[root.ID]; ok {
			continue
		}
		u.own(root)
		queue = append(queue, root)
	}

	for len(queue) > 0 {
		g := queue[0]
		queue = queue[1:]

		for _, s := range Monosaccharides {
			for _, child := range g.Grow(s) {
				if !bounds.Allows(child.Composition) {
					continue
				}
				if _, ok := u.glycans[child.ID]; !ok {
					u.own(child)
					queue = append(queue, child)
				}
				addChild(g, child.ID)
			}
		}
	}

	for mass, ids := range u.byMass {
		sort.Strings(ids)
		u.masses = append(u.masses, mass)
	}
	sort.Float64s(u.masses)
	return u, nil
}

func (u *Universe) own(g *Glycan) {
	u.glycans[g.ID] = g
	u.byMass[g.Mass] = append(u.byMass[g.Mass], g.ID)
}

func addChild(g *Glycan, id string) {
	for _, existing := range g.Children {
		if existing == id {
			return
		}
	}
	g.Children = append(g.Children, id)
}

// Glycan looks up a structure by ID
func (u *Universe) Glycan(id string) (*Glycan, bool) {
	g, ok := u.glycans[id]
	return g, ok
}

// MustGlycan looks up a structure that is known to exist. A miss means the
// caller and the universe are out of sync, and panics.
func (u *Universe) MustGlycan(id string) *Glycan {
	g, ok := u.glycans[id]
	if !ok {
		panic(fmt.Sprintf("glycan: unknown id %q", id))
	}
	return g
}

// Len returns the number of distinct structures
func (u *Universe) Len() int {
	return len(u.glycans)
}

// Classes returns the classes the universe was built for
func (u *Universe) Classes() []Class {
	return u.classes
}

// IDs returns every structure ID in sorted order
func (u *Universe) IDs() []string {
	ids := make([]string, 0, len(u.glycans))
	for id := range u.glycans {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Masses returns the distinct structure masses in ascending order
func (u *Universe) Masses() []float64 {
	return u.masses
}

// ByMass returns the IDs of the structures with exactly this mass
func (u *Universe) ByMass(mass float64) []string {
	return u.byMass[mass]
}

// Glycans returns every structure ordered by mass, then ID
func (u *Universe) Glycans() []*Glycan {
	out := make([]*Glycan, 0, len(u.glycans))
	for _, mass := range u.masses {
		for _, id := range u.byMass[mass] {
			out = append(out, u.glycans[id])
		}
	}
	return out
}

// Y1 returns the single-GlcNAc structure of a class, if it was generated
func (u *Universe) Y1(class Class) (*Glycan, bool) {
	y1 := NewRoot(class).extend(coreGlcNAc, GlcNAc, 1)
	return u.Glycan(y1.ID)
}

// CountByClass tallies structures per class
func (u *Universe) CountByClass() map[Class]int {
	counts := make(map[Class]int)
	for _, g := range u.glycans {
		counts[g.Class]++
	}
	return counts
}
