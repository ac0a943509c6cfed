package passes

import "github.com/talon-vm/talon/internal/hir"

// RedundantPhiElimination replaces phis whose inputs are all the same value
// (modulo self-reference, the loop-carried case) with that value.
// Replacing one phi can make its phi consumers redundant in turn, so those
// are pushed back onto the worklist; the result is maximal regardless of
// iteration order.
type RedundantPhiElimination struct {
	graph    *hir.Graph
	worklist []hir.InstrRef
	queued   *hir.BitVector
}

// NewRedundantPhiElimination creates the pass for g.
func NewRedundantPhiElimination(g *hir.Graph) *RedundantPhiElimination {
	return &RedundantPhiElimination{
		graph:  g,
		queued: hir.NewBitVector(g.NumInstrIDs()),
	}
}

// Run replaces redundant phis until none remain.
func (p *RedundantPhiElimination) Run() {
	g := p.graph
	for _, b := range hir.ReversePostOrder(g) {
		for _, ref := range g.Block(b).Phis {
			p.push(ref)
		}
	}

	for len(p.worklist) > 0 {
		ref := p.worklist[len(p.worklist)-1]
		p.worklist = p.worklist[:len(p.worklist)-1]
		p.queued.Clear(int(ref))

		phi := g.Instr(ref)
		// An earlier replacement may have unlinked this phi already.
		if !phi.IsInBlock() {
			continue
		}
		if phi.NumInputs() == 0 {
			// An unresolved catch phi; nothing to do.
			hir.Assertf(phi.IsCatchPhi(), "non-catch phi %s has no inputs", ref)
			continue
		}

		candidate := phi.InputAt(0)
		redundant := true
		for i := 1; i < phi.NumInputs(); i++ {
			input := phi.InputAt(i)
			if input != candidate && input != ref {
				redundant = false
				break
			}
		}
		if !redundant {
			continue
		}

		// A catch phi's inputs do not arrive over ordinary CFG edges, so
		// equality of inputs alone does not prove the candidate is
		// available; it must dominate the phi outright.
		if phi.IsCatchPhi() && !g.StrictlyDominates(candidate, ref) {
			continue
		}

		for _, use := range phi.Uses() {
			if g.Instr(use.Consumer).IsPhi() {
				p.push(use.Consumer)
			}
		}

		g.ReplaceUsesWith(ref, candidate)
		g.RemovePhi(ref)
	}
}

// push enqueues ref unless it is already queued.
func (p *RedundantPhiElimination) push(ref hir.InstrRef) {
	if !p.queued.Get(int(ref)) {
		p.queued.Set(int(ref))
		p.worklist = append(p.worklist, ref)
	}
}
