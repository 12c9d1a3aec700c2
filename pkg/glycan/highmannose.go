package glycan

// High-mannose layout: 0 core GlcNAc, 1 core Man, 2 core Fuc, 3-5 mannose arms.
const (
	highMannoseStateLen = 6
	highMannoseBranch   = 3
)

func growHighMannose(g *Glycan, s Monosaccharide) []*Glycan {
	st := g.State

	switch s {
	case GlcNAc:
		out, _ := growCore(g, s)
		return out
	case Man:
		if out, ok := growCore(g, s); ok {
			return out
		}
		if !coreComplete(st) {
			return nil
		}
		var out []*Glycan
		for i := 0; i < 3; i++ {
			if ordered(st, highMannoseBranch, i) {
				out = append(out, g.extend(highMannoseBranch+i, Man, st[highMannoseBranch+i]+1))
			}
		}
		return out
	case Fuc:
		// Core fucose only before the mannose core starts
		if st[coreMan] == 0 && st[coreFuc] == 0 {
			return []*Glycan{g.extend(coreFuc, Fuc, 1)}
		}
	}
	return nil
}
