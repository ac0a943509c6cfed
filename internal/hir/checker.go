package hir

import (
	"fmt"
	"strings"
)

// Finding is one problem discovered by a checker. Instr is InstrNone for
// block-level findings.
type Finding struct {
	Block BlockRef
	Instr InstrRef
	Msg   string
}

// String returns the finding with its block/instruction context.
func (f Finding) String() string {
	if f.Instr == InstrNone {
		return fmt.Sprintf("%s: %s", f.Block, f.Msg)
	}
	return fmt.Sprintf("%s, %s: %s", f.Block, f.Instr, f.Msg)
}

// Findings is an ordered list of checker findings.
type Findings []Finding

// Err combines the findings into a single error, or returns nil if empty.
func (fs Findings) Err() error {
	if len(fs) == 0 {
		return nil
	}
	msgs := make([]string, len(fs))
	for i, f := range fs {
		msgs[i] = f.String()
	}
	return fmt.Errorf("HIR verification failed:\n  %s", strings.Join(msgs, "\n  "))
}

// GraphChecker validates the structural integrity of a graph: edge
// consistency, terminator placement, list segregation, and def-use
// round-trip integrity. It never mutates the graph and never stops early;
// every problem found is retained as a Finding. It is the only checker that
// may run on a graph not in SSA form.
type GraphChecker struct {
	graph    *Graph
	findings Findings
	seen     *BitVector // instruction ids already visited
	current  *BasicBlock
}

// NewGraphChecker creates a checker for g.
func NewGraphChecker(g *Graph) *GraphChecker {
	return &GraphChecker{
		graph: g,
		seen:  NewBitVector(g.NumInstrIDs()),
	}
}

// Run visits every block of the graph in creation order.
func (c *GraphChecker) Run() {
	for _, b := range c.graph.Blocks() {
		c.visitBasicBlock(b)
	}
}

// IsValid reports whether no findings were recorded.
func (c *GraphChecker) IsValid() bool { return len(c.findings) == 0 }

// Findings returns the findings in order of discovery.
func (c *GraphChecker) Findings() Findings { return c.findings }

// addf records a finding against the block currently being visited.
func (c *GraphChecker) addf(instr InstrRef, format string, args ...interface{}) {
	block := BlockNone
	if c.current != nil {
		block = c.current.ID
	}
	c.findings = append(c.findings, Finding{
		Block: block,
		Instr: instr,
		Msg:   fmt.Sprintf(format, args...),
	})
}

// visitBasicBlock runs the structural block checks and then visits every
// instruction in the block.
func (c *GraphChecker) visitBasicBlock(b *BasicBlock) {
	c.current = b
	g := c.graph

	// Predecessor/successor lists must agree by occurrence count, not just
	// by presence: a block may legitimately appear several times on one
	// edge list, and then must appear the same number of times on the
	// neighbor's. The predecessor direction is authoritative; the
	// successor direction only catches neighbors that do not list this
	// block at all, so each broken edge pair yields a single finding.
	forEachDistinct(b.Preds, func(p BlockRef) {
		inPreds := countBlocks(b.Preds, p)
		inSuccs := countBlocks(g.Block(p).Succs, b.ID)
		if inPreds != inSuccs {
			c.addf(InstrNone,
				"block %s occurs %d times in %s's predecessors but %d times in %s's successors",
				p, inPreds, b, inSuccs, p)
		}
	})
	forEachDistinct(b.Succs, func(s BlockRef) {
		inPreds := countBlocks(g.Block(s).Preds, b.ID)
		if inPreds == 0 {
			c.addf(InstrNone,
				"block %s occurs %d times in %s's successors but %d times in %s's predecessors",
				s, countBlocks(b.Succs, s), b, inPreds, s)
		}
	})

	// Every block must end in exactly one control-flow instruction.
	last := b.LastInstr()
	if last == InstrNone || !g.Instr(last).Op().IsControlFlow() {
		c.addf(InstrNone, "block %s does not end with a control-flow instruction", b)
	}
	for _, ref := range b.Instrs[:max(len(b.Instrs)-1, 0)] {
		if g.Instr(ref).Op().IsControlFlow() {
			c.addf(ref, "control-flow instruction %s is not the last instruction of block %s", ref, b)
		}
	}

	// The phi list holds only phis, the instruction list no phis.
	for _, ref := range b.Phis {
		if !g.Instr(ref).IsPhi() {
			c.addf(ref, "non-phi instruction %s in the phi list of block %s", ref, b)
		}
	}
	for _, ref := range b.Instrs {
		if g.Instr(ref).IsPhi() {
			c.addf(ref, "phi %s in the non-phi instruction list of block %s", ref, b)
		}
	}

	for _, ref := range b.Phis {
		c.visitInstruction(g.Instr(ref))
	}
	for _, ref := range b.Instrs {
		c.visitInstruction(g.Instr(ref))
	}
}

// visitInstruction runs the per-instruction structural checks.
func (c *GraphChecker) visitInstruction(in *Instruction) {
	g := c.graph
	ref := in.ID()

	// Ids must be unique; seeing one twice means an instruction is linked
	// into more than one list.
	if c.seen.Get(int(ref)) {
		c.addf(ref, "instruction %s visited more than once (duplicate id)", ref)
	} else {
		c.seen.Set(int(ref))
	}

	// The recorded block must be the block being visited.
	if in.Block() != c.current.ID {
		c.addf(ref, "instruction %s in block %s records enclosing block %s",
			ref, c.current, in.Block())
	}

	// Each input's producer must actually be present in its claimed
	// defining block, in the list matching its phi-ness.
	for i := 0; i < in.NumInputs(); i++ {
		input := in.InputAt(i)
		p := g.Instr(input)
		if p.Block() == BlockNone || !c.inDefiningList(p) {
			c.addf(ref, "input %d of instruction %s is %s, which is not listed in its defining block %s",
				i, ref, input, p.Block())
		}
	}

	// Each consumer in the use-list must be present in its own block.
	for _, use := range in.Uses() {
		u := g.Instr(use.Consumer)
		if u.Block() == BlockNone || !c.inDefiningList(u) {
			c.addf(ref, "use %s of instruction %s is not listed in its block %s",
				use.Consumer, ref, u.Block())
		}
		if int(use.Slot) >= u.NumInputs() || u.InputAt(int(use.Slot)) != ref {
			c.addf(ref, "use-list of instruction %s names %s at input %d, which does not point back",
				ref, use.Consumer, use.Slot)
		}
	}

	// Round-trip integrity: the use node recorded for each input slot must
	// still be linked into the producer's use-list and point back here.
	// This catches dangling use pointers left by an incomplete mutation.
	for i, rec := range in.inputs {
		p := g.Instr(rec.producer)
		if rec.usePos < 0 || int(rec.usePos) >= len(p.uses) ||
			p.uses[rec.usePos] != (Use{Consumer: ref, Slot: int32(i)}) {
			c.addf(ref, "input %d of instruction %s has no matching node in the use-list of %s",
				i, ref, rec.producer)
		}
	}
	for i, slot := range in.env {
		if slot.producer == InstrNone {
			continue
		}
		p := g.Instr(slot.producer)
		if slot.usePos < 0 || int(slot.usePos) >= len(p.envUses) ||
			p.envUses[slot.usePos] != (Use{Consumer: ref, Slot: int32(i)}) {
			c.addf(ref, "environment slot %d of instruction %s has no matching node in the env-use-list of %s",
				i, ref, slot.producer)
		}
	}
}

// inDefiningList reports whether in is present in the appropriate list of
// its recorded block.
func (c *GraphChecker) inDefiningList(in *Instruction) bool {
	b := c.graph.Block(in.Block())
	if in.IsPhi() {
		return containsInstr(b.Phis, in.ID())
	}
	return containsInstr(b.Instrs, in.ID())
}

// forEachDistinct calls fn once per distinct block in list, in first-seen
// order.
func forEachDistinct(list []BlockRef, fn func(BlockRef)) {
	for i, b := range list {
		dup := false
		for _, prev := range list[:i] {
			if prev == b {
				dup = true
				break
			}
		}
		if !dup {
			fn(b)
		}
	}
}

// countBlocks returns the number of occurrences of b in list.
func countBlocks(list []BlockRef, b BlockRef) int {
	n := 0
	for _, x := range list {
		if x == b {
			n++
		}
	}
	return n
}
