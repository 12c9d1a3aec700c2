package glycan

// Complex layout: 0 core GlcNAc, 1 core Man, 2 core Fuc, 3 bisecting
// GlcNAc, then four antennae of GlcNAc (4-7), Gal (8-11), Fuc (12-15),
// NeuAc (16-19) and NeuGc (20-23).
const complexStateLen = 24

func growComplex(g *Glycan, s Monosaccharide) []*Glycan {
	lay := branchLayouts[Complex]
	st := g.State

	switch s {
	case GlcNAc:
		if out, ok := growCore(g, s); ok {
			return out
		}
		if !coreComplete(st) {
			return nil
		}
		var out []*Glycan
		if st[bisect] == 0 && st[lay.glcNAc] == 0 {
			out = append(out, g.extend(bisect, GlcNAc, 1))
		}
		return append(out, lay.growGlcNAc(g)...)
	case Man:
		out, _ := growCore(g, s)
		return out
	case Gal:
		return lay.growGal(g)
	case Fuc:
		var out []*Glycan
		if st[coreFuc] == 0 {
			out = append(out, g.extend(coreFuc, Fuc, 1))
		}
		return append(out, lay.growTerminalFuc(g)...)
	case NeuAc, NeuGc:
		return lay.growSialic(g, s)
	}
	return nil
}
