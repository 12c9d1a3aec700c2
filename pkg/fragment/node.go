package fragment

import (
	"container/heap"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/glycan"
)

// PeakNode is one fragment mass under exploration together with every
// (peptide, glycan) labeling that reaches it and the peaks each has matched.
type PeakNode struct {
	Mass    float64
	Missing int // consecutive unmatched extensions along the best path
	matches map[string]map[string]Evidence
}

func newPeakNode(mass float64, missing int) *PeakNode {
	return &PeakNode{
		Mass:    mass,
		Missing: missing,
		matches: make(map[string]map[string]Evidence),
	}
}

// add merges evidence for one labeling
func (n *PeakNode) add(peptide, glycanID string, evidence Evidence) {
	byGlycan, ok := n.matches[peptide]
	if !ok {
		byGlycan = make(map[string]Evidence)
		n.matches[peptide] = byGlycan
	}
	existing, ok := byGlycan[glycanID]
	if !ok {
		existing = make(Evidence, len(evidence))
		byGlycan[glycanID] = existing
	}
	existing.Union(evidence)
}

// addAll credits peaks to every labeling of the node
func (n *PeakNode) addAll(peaks []int) {
	for _, byGlycan := range n.matches {
		for _, evidence := range byGlycan {
			evidence.Add(peaks...)
		}
	}
}

// Labels returns the number of (peptide, glycan) labelings
func (n *PeakNode) Labels() int {
	total := 0
	for _, byGlycan := range n.matches {
		total += len(byGlycan)
	}
	return total
}

// prune keeps, per peptide and per glycan group, only the labelings with
// the highest evidence score. Ties are kept.
func (n *PeakNode) prune(peaks []core.Peak, universe *glycan.Universe) {
	for peptide, byGlycan := range n.matches {
		best := make(map[string]float64)
		scores := make(map[string]float64, len(byGlycan))
		for id, evidence := range byGlycan {
			group := universe.MustGlycan(id).Group()
			score := evidence.score(peaks)
			scores[id] = score
			if current, ok := best[group]; !ok || score > current {
				best[group] = score
			}
		}

		kept := make(map[string]Evidence, len(byGlycan))
		for id, evidence := range byGlycan {
			group := universe.MustGlycan(id).Group()
			if scores[id] >= best[group] {
				kept[id] = evidence
			}
		}
		n.matches[peptide] = kept
	}
}

// openSet is the frontier of unexplored fragment masses. Pushing to a mass
// already present merges into the existing node; popMin yields nodes in
// ascending mass order.
type openSet struct {
	nodes map[float64]*PeakNode
	queue nodeQueue
}

func newOpenSet() *openSet {
	return &openSet{nodes: make(map[float64]*PeakNode)}
}

func (o *openSet) Len() int {
	return o.queue.Len()
}

// pushOrMerge records a labeling reaching mass after missing unmatched steps
func (o *openSet) pushOrMerge(mass float64, missing int, peptide, glycanID string, evidence Evidence) {
	node, ok := o.nodes[mass]
	if !ok {
		node = newPeakNode(mass, missing)
		o.nodes[mass] = node
		heap.Push(&o.queue, node)
	} else {
		node.Missing = min(node.Missing, missing)
	}
	node.add(peptide, glycanID, evidence)
}

func (o *openSet) popMin() *PeakNode {
	node := heap.Pop(&o.queue).(*PeakNode)
	delete(o.nodes, node.Mass)
	return node
}

// nodeQueue implements heap.Interface
type nodeQueue []*PeakNode

func (q nodeQueue) Len() int           { return len(q) }
func (q nodeQueue) Less(i, j int) bool { return q[i].Mass < q[j].Mass }
func (q nodeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) {
	*q = append(*q, x.(*PeakNode))
}
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return node
}
