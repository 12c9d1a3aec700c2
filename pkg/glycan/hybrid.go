package glycan

// Hybrid layout: 0-3 as complex, 4-5 mannose arm, then two antennae of
// GlcNAc (6-7), Gal (8-9), Fuc (10-11), NeuAc (12-13) and NeuGc (14-15).
const (
	hybridStateLen  = 16
	hybridManBranch = 4
)

func growHybrid(g *Glycan, s Monosaccharide) []*Glycan {
	lay := branchLayouts[Hybrid]
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
		if st[bisect] == 0 && st[hybridManBranch] == 0 {
			out = append(out, g.extend(bisect, GlcNAc, 1))
		}
		return append(out, lay.growGlcNAc(g)...)
	case Man:
		if out, ok := growCore(g, s); ok {
			return out
		}
		if !coreComplete(st) {
			return nil
		}
		var out []*Glycan
		for i := 0; i < 2; i++ {
			if ordered(st, hybridManBranch, i) {
				out = append(out, g.extend(hybridManBranch+i, Man, st[hybridManBranch+i]+1))
			}
		}
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
