package passes

import "github.com/talon-vm/talon/internal/hir"

// DeadPhiElimination removes phis whose values are never observed by a
// non-phi instruction (or, for debuggable graphs, by an environment).
// Liveness is a fixed point: a phi feeding only other phis is still live
// once any of those phis is proven live.
type DeadPhiElimination struct {
	graph    *hir.Graph
	worklist []hir.InstrRef
}

// NewDeadPhiElimination creates the pass for g.
func NewDeadPhiElimination(g *hir.Graph) *DeadPhiElimination {
	return &DeadPhiElimination{graph: g}
}

// Run marks dead phis and then detaches them from the graph. Running the
// pass twice in a row changes nothing the second time.
func (p *DeadPhiElimination) Run() {
	p.markDeadPhis()
	p.eliminateDeadPhis()
}

// markDeadPhis computes the liveness fixed point. Traversal order only
// affects iteration-order stability, not the result.
func (p *DeadPhiElimination) markDeadPhis() {
	g := p.graph
	for _, b := range hir.ReversePostOrder(g) {
		for _, ref := range g.Block(b).Phis {
			phi := g.Instr(ref)
			keepAlive := g.Debuggable() && phi.HasEnvUses()
			if !keepAlive {
				for _, use := range phi.Uses() {
					if !g.Instr(use.Consumer).IsPhi() {
						keepAlive = true
						break
					}
				}
			}
			if keepAlive {
				p.worklist = append(p.worklist, ref)
			} else {
				phi.SetDead()
			}
		}
	}

	// A live phi's phi inputs are live too.
	for len(p.worklist) > 0 {
		ref := p.worklist[len(p.worklist)-1]
		p.worklist = p.worklist[:len(p.worklist)-1]
		phi := g.Instr(ref)
		for i := 0; i < phi.NumInputs(); i++ {
			input := g.Instr(phi.InputAt(i))
			if input.IsPhi() && input.IsDead() {
				input.SetLive()
				p.worklist = append(p.worklist, input.ID())
			}
		}
	}
}

// eliminateDeadPhis detaches every phi still marked dead. Blocks are
// processed in post-order so that a dead phi's consumers in the same or
// descendant blocks are detached first, leaving no dangling use pointers.
func (p *DeadPhiElimination) eliminateDeadPhis() {
	g := p.graph
	for _, b := range hir.PostOrder(g) {
		block := g.Block(b)
		phis := append([]hir.InstrRef(nil), block.Phis...)
		for _, ref := range phis {
			phi := g.Instr(ref)
			if phi.IsLive() {
				continue
			}
			if hir.DebugChecks {
				for _, use := range phi.Uses() {
					user := g.Instr(use.Consumer)
					hir.Assertf(user.IsPhi() && user.IsDead(),
						"dead phi %s still used by live instruction %s", ref, use.Consumer)
				}
			}
			g.ClearEnvUsesOf(ref)
			g.RemovePhi(ref)
		}
	}
}
