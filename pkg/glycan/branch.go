package glycan

// branchLayout locates the antenna slots of complex and hybrid structures.
// Each field is the first of branches consecutive slots.
type branchLayout struct {
	branches int
	glcNAc   int
	gal      int
	fuc      int
	neuAc    int
	neuGc    int
}

var branchLayouts = map[Class]branchLayout{
	Complex: {branches: 4, glcNAc: 4, gal: 8, fuc: 12, neuAc: 16, neuGc: 20},
	Hybrid:  {branches: 2, glcNAc: 6, gal: 8, fuc: 10, neuAc: 12, neuGc: 14},
}

// Core slots shared by every class
const (
	coreGlcNAc = 0
	coreMan    = 1
	coreFuc    = 2
	bisect     = 3
)

func coreComplete(state []int) bool {
	return state[coreGlcNAc] == 2 && state[coreMan] == 3
}

// growCore attaches GlcNAc or Man to the chitobiose/trimannosyl core.
// ok is false once the core of that residue is complete.
func growCore(g *Glycan, s Monosaccharide) ([]*Glycan, bool) {
	st := g.State
	switch s {
	case GlcNAc:
		if st[coreGlcNAc] < 2 {
			return []*Glycan{g.extend(coreGlcNAc, GlcNAc, st[coreGlcNAc]+1)}, true
		}
	case Man:
		if st[coreGlcNAc] == 2 && st[coreMan] < 3 {
			return []*Glycan{g.extend(coreMan, Man, st[coreMan]+1)}, true
		}
	}
	return nil, false
}

// An antenna takes GlcNAc only once its previous GlcNAc is capped by Gal
// and no terminal residue closes it.
func (lay branchLayout) growGlcNAc(g *Glycan) []*Glycan {
	st := g.State
	var out []*Glycan
	for i := 0; i < lay.branches; i++ {
		if !ordered(st, lay.glcNAc, i) {
			continue
		}
		if st[lay.glcNAc+i] == st[lay.gal+i] && st[lay.fuc+i] == 0 && st[lay.neuAc+i] == 0 && st[lay.neuGc+i] == 0 {
			out = append(out, g.extend(lay.glcNAc+i, GlcNAc, st[lay.glcNAc+i]+1))
		}
	}
	return out
}

func (lay branchLayout) growGal(g *Glycan) []*Glycan {
	st := g.State
	var out []*Glycan
	for i := 0; i < lay.branches; i++ {
		if ordered(st, lay.gal, i) && st[lay.glcNAc+i] == st[lay.gal+i]+1 {
			out = append(out, g.extend(lay.gal+i, Gal, st[lay.gal+i]+1))
		}
	}
	return out
}

func (lay branchLayout) growTerminalFuc(g *Glycan) []*Glycan {
	st := g.State
	var out []*Glycan
	for i := 0; i < lay.branches; i++ {
		if ordered(st, lay.fuc, i) && st[lay.fuc+i] == 0 && st[lay.glcNAc+i] > 0 {
			out = append(out, g.extend(lay.fuc+i, Fuc, 1))
		}
	}
	return out
}

// growSialic caps a galactosylated antenna with NeuAc or NeuGc
func (lay branchLayout) growSialic(g *Glycan, s Monosaccharide) []*Glycan {
	slot := lay.neuAc
	if s == NeuGc {
		slot = lay.neuGc
	}
	st := g.State
	var out []*Glycan
	for i := 0; i < lay.branches; i++ {
		if !ordered(st, slot, i) {
			continue
		}
		if st[lay.glcNAc+i] > 0 && st[lay.glcNAc+i] == st[lay.gal+i] && st[lay.neuAc+i] == 0 && st[lay.neuGc+i] == 0 {
			out = append(out, g.extend(slot+i, s, 1))
		}
	}
	return out
}
