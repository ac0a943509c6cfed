package hir

// SSAChecker extends GraphChecker with the invariants that must hold once a
// graph is in SSA form: dominance of uses, critical-edge absence, loop
// shape, phi consistency, and type-kind consistency. Like the base checker
// it never mutates the graph and accumulates every finding it can.
type SSAChecker struct {
	*GraphChecker
}

// NewSSAChecker creates a checker for g.
func NewSSAChecker(g *Graph) *SSAChecker {
	return &SSAChecker{GraphChecker: NewGraphChecker(g)}
}

// Run visits every block, applying the base structural checks followed by
// the SSA checks.
func (c *SSAChecker) Run() {
	for _, b := range c.graph.Blocks() {
		c.visitBasicBlock(b)
		c.checkBlockSSA(b)
	}
}

// checkBlockSSA runs the SSA block- and instruction-level checks for b.
// The base checks have already run, so c.current is b.
func (c *SSAChecker) checkBlockSSA(b *BasicBlock) {
	g := c.graph

	// A block with several successors must not target a block with several
	// predecessors: critical edges complicate phi placement and the
	// simplifier is required to have split them all.
	if len(b.Succs) > 1 {
		for _, s := range b.Succs {
			if g.Block(s).NumPreds() > 1 {
				c.addf(InstrNone, "critical edge from block %s to block %s", b, s)
			}
		}
	}

	if b.IsLoopHeader() {
		c.checkLoop(b)
	}

	for _, ref := range b.Phis {
		c.checkInstructionSSA(g.Instr(ref))
		c.visitPhi(g.Instr(ref))
	}
	for _, ref := range b.Instrs {
		in := g.Instr(ref)
		c.checkInstructionSSA(in)
		switch {
		case in.Op() == OpIf:
			c.visitIf(in)
		case in.Op().IsCondition():
			c.visitCondition(in)
		case in.Op().IsBinary():
			c.visitBinaryOperation(in)
		}
	}
}

// checkLoop verifies the canonical loop-header shape.
func (c *SSAChecker) checkLoop(header *BasicBlock) {
	g := c.graph
	loop := header.Loop

	// The pre-header must be the first predecessor; any in-loop block
	// there means simplification has not canonicalized this loop.
	if header.NumPreds() > 0 && loop.Contains(header.Preds[0]) {
		c.addf(InstrNone, "pre-header is not the first predecessor of loop header %s", header)
	}

	if header.NumPreds() != 2 {
		c.addf(InstrNone, "loop header %s has %d predecessors", header, header.NumPreds())
	} else {
		if loop.IsBackEdge(header.Preds[0]) {
			c.addf(InstrNone, "first predecessor %s of loop header %s is a back edge",
				header.Preds[0], header)
		}
		if !loop.IsBackEdge(header.Preds[1]) {
			c.addf(InstrNone, "second predecessor %s of loop header %s is not a back edge",
				header.Preds[1], header)
		}
	}

	if n := loop.NumBackEdges(); n != 1 {
		c.addf(InstrNone, "loop defined by header %s has %d back edges", header, n)
	}

	loop.Blocks.ForEach(func(i int) {
		if !g.Dominates(header.ID, BlockRef(i)) {
			c.addf(InstrNone, "loop block %s is not dominated by loop header %s",
				BlockRef(i), header)
		}
	})
}

// checkInstructionSSA verifies the dominance invariants of one instruction.
func (c *SSAChecker) checkInstructionSSA(in *Instruction) {
	g := c.graph
	ref := in.ID()

	// A definition must strictly dominate each of its non-phi uses.
	for _, use := range in.Uses() {
		if g.Instr(use.Consumer).IsPhi() {
			continue
		}
		if !g.StrictlyDominates(ref, use.Consumer) {
			c.addf(ref, "instruction %s does not strictly dominate its use %s",
				ref, use.Consumer)
		}
	}

	// Every live environment slot must strictly dominate the holder.
	for i := 0; i < in.EnvSize(); i++ {
		e := in.EnvAt(i)
		if e != InstrNone && !g.StrictlyDominates(e, ref) {
			c.addf(ref, "environment slot %d (%s) does not strictly dominate its holder %s",
				i, e, ref)
		}
	}
}

// visitPhi verifies phi arity, input provenance, and type-kind consistency.
func (c *SSAChecker) visitPhi(phi *Instruction) {
	g := c.graph
	ref := phi.ID()
	b := c.graph.Block(phi.Block())

	// The pre-header-first invariant makes input 0 structurally safe from
	// self-reference; seeing one can only mean corruption.
	if phi.NumInputs() > 0 && phi.InputAt(0) == ref {
		c.addf(ref, "loop phi %s is its own first input", ref)
	}

	if phi.NumInputs() != b.NumPreds() {
		if !(phi.IsCatchPhi() && phi.NumInputs() == 0) {
			c.addf(ref, "phi %s has %d inputs but block %s has %d predecessors",
				ref, phi.NumInputs(), b, b.NumPreds())
		}
	} else {
		// Input i must be defined in predecessor i or a block dominating it.
		for i := 0; i < phi.NumInputs(); i++ {
			input := g.Instr(phi.InputAt(i))
			pred := b.Preds[i]
			if input.Block() != pred && !g.Dominates(input.Block(), pred) {
				c.addf(ref, "input %d (%s) of phi %s is defined in %s, which does not dominate predecessor %s",
					i, input, ref, input.Block(), pred)
			}
		}
	}

	for i := 0; i < phi.NumInputs(); i++ {
		input := g.Instr(phi.InputAt(i))
		if input.Kind().Collapsed() != phi.Kind().Collapsed() {
			c.addf(ref, "input %d (%s) of phi %s has kind %s but the phi has kind %s",
				i, input, ref, input.Kind(), phi.Kind())
		}
	}
}

// visitIf verifies that the condition input is boolean; a constant
// condition must be 0 or 1 even though its static kind is integral.
func (c *SSAChecker) visitIf(in *Instruction) {
	g := c.graph
	if in.NumInputs() != 1 {
		c.addf(in.ID(), "if instruction %s has %d inputs", in, in.NumInputs())
		return
	}
	cond := g.Instr(in.InputAt(0))
	if cond.Op() == OpConstInt {
		if cond.AuxInt != 0 && cond.AuxInt != 1 {
			c.addf(in.ID(), "if condition %s is the constant %d, not 0 or 1",
				cond, cond.AuxInt)
		}
	} else if cond.Kind() != KindBool {
		c.addf(in.ID(), "if condition %s has kind %s, not bool", cond, cond.Kind())
	}
}

// visitCondition verifies comparison-operator kind rules, including the
// restrictions on reference operands.
func (c *SSAChecker) visitCondition(in *Instruction) {
	g := c.graph
	ref := in.ID()

	if in.Kind() != KindBool {
		c.addf(ref, "condition %s %s has result kind %s, not bool", in.Op(), ref, in.Kind())
	}
	if in.NumInputs() != 2 {
		c.addf(ref, "condition %s has %d inputs", ref, in.NumInputs())
		return
	}
	lhs, rhs := g.Instr(in.InputAt(0)), g.Instr(in.InputAt(1))
	if lhs.Kind() == KindRef || rhs.Kind() == KindRef {
		// Only object identity comparisons are allowed on references, and
		// the only allowed literal operand is null (constant 0).
		if in.Op() != OpEq && in.Op() != OpNe {
			c.addf(ref, "condition %s %s compares a reference with a relational operator",
				in.Op(), ref)
		}
		if lhs.Kind() == KindRef && rhs.Op() == OpConstInt && rhs.AuxInt != 0 {
			c.addf(ref, "condition %s %s compares a reference with the nonzero constant %d",
				in.Op(), ref, rhs.AuxInt)
		}
		if rhs.Kind() == KindRef && lhs.Op() == OpConstInt && lhs.AuxInt != 0 {
			c.addf(ref, "condition %s %s compares a reference with the nonzero constant %d",
				in.Op(), ref, lhs.AuxInt)
		}
	} else if lhs.Kind().Collapsed() != rhs.Kind().Collapsed() {
		c.addf(ref, "condition %s %s has operands of differing kinds %s and %s",
			in.Op(), ref, lhs.Kind(), rhs.Kind())
	}
}

// visitBinaryOperation verifies operand and result kind rules for
// non-condition binary ops.
func (c *SSAChecker) visitBinaryOperation(in *Instruction) {
	g := c.graph
	ref := in.ID()
	if in.NumInputs() != 2 {
		c.addf(ref, "binary operation %s has %d inputs", ref, in.NumInputs())
		return
	}
	lhs, rhs := g.Instr(in.InputAt(0)), g.Instr(in.InputAt(1))

	if in.Op().IsShift() {
		// The shift distance is always int-sized, whatever the first
		// operand's kind.
		if rhs.Kind().Collapsed() != KindInt {
			c.addf(ref, "shift operation %s %s has a second operand of kind %s, not int",
				in.Op(), ref, rhs.Kind())
		}
	} else if lhs.Kind().Collapsed() != rhs.Kind().Collapsed() {
		c.addf(ref, "binary operation %s %s has operands of differing kinds %s and %s",
			in.Op(), ref, lhs.Kind(), rhs.Kind())
	}

	if in.Op() == OpCmp {
		if in.Kind().Collapsed() != KindInt {
			c.addf(ref, "compare operation %s has result kind %s, not int", ref, in.Kind())
		}
	} else if in.Kind().Collapsed() != lhs.Kind().Collapsed() {
		c.addf(ref, "binary operation %s %s has result kind %s but first operand kind %s",
			in.Op(), ref, in.Kind(), lhs.Kind())
	}
}
