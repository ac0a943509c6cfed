package hir

// Graph owns the basic blocks and the instruction arena of one method's HIR.
// Instruction ids are assigned monotonically and never reused; a reference
// is resolved against the arena with Instr.
type Graph struct {
	// Name identifies the method being compiled, for diagnostics.
	Name string

	blocks []*BasicBlock
	instrs []*Instruction

	inSSAForm  bool
	debuggable bool
}

// NewGraph creates an empty graph. The first block created becomes the
// entry block.
func NewGraph(name string) *Graph {
	return &Graph{Name: name}
}

// NewBlock creates a new basic block and appends it to the graph.
func (g *Graph) NewBlock() BlockRef {
	b := &BasicBlock{
		ID:   BlockRef(len(g.blocks)),
		Idom: BlockNone,
	}
	g.blocks = append(g.blocks, b)
	return b.ID
}

// Block resolves a block reference.
func (g *Graph) Block(ref BlockRef) *BasicBlock { return g.blocks[ref] }

// Blocks returns the graph's blocks in creation order.
func (g *Graph) Blocks() []*BasicBlock { return g.blocks }

// NumBlocks returns the number of blocks.
func (g *Graph) NumBlocks() int { return len(g.blocks) }

// Entry returns the entry block reference.
func (g *Graph) Entry() BlockRef {
	if len(g.blocks) == 0 {
		return BlockNone
	}
	return 0
}

// Instr resolves an instruction reference against the arena.
func (g *Graph) Instr(ref InstrRef) *Instruction { return g.instrs[ref] }

// NumInstrIDs returns the size of the instruction-id space, i.e. one past
// the largest id ever assigned.
func (g *Graph) NumInstrIDs() int { return len(g.instrs) }

// SetInSSAForm records whether the graph is in SSA form.
func (g *Graph) SetInSSAForm(v bool) { g.inSSAForm = v }

// InSSAForm reports whether the graph is in SSA form.
func (g *Graph) InSSAForm() bool { return g.inSSAForm }

// SetDebuggable records whether the compiled method must preserve
// local-variable visibility for external inspection (a debugger). When set,
// phis with environment uses are kept alive by dead-phi elimination.
func (g *Graph) SetDebuggable(v bool) { g.debuggable = v }

// Debuggable reports the debuggable flag.
func (g *Graph) Debuggable() bool { return g.debuggable }

// AddEdge records a CFG edge from one block to another, appending to the
// source's successor list and the target's predecessor list. Calling it
// twice for the same pair records the edge twice; multiplicity is
// significant.
func (g *Graph) AddEdge(from, to BlockRef) {
	f, t := g.blocks[from], g.blocks[to]
	f.Succs = append(f.Succs, to)
	t.Preds = append(t.Preds, from)
}

// newInstr allocates an instruction in the arena without linking it into a
// block.
func (g *Graph) newInstr(op Op, kind Kind) *Instruction {
	in := &Instruction{
		id:    InstrRef(len(g.instrs)),
		op:    op,
		kind:  kind,
		block: BlockNone,
		live:  true,
	}
	g.instrs = append(g.instrs, in)
	return in
}

// NewInstr creates a non-phi instruction in block's instruction list with
// the given inputs.
func (g *Graph) NewInstr(block BlockRef, op Op, kind Kind, inputs ...InstrRef) InstrRef {
	in := g.newInstr(op, kind)
	in.block = block
	for _, producer := range inputs {
		g.addInput(in, producer)
	}
	b := g.blocks[block]
	b.Instrs = append(b.Instrs, in.id)
	return in.id
}

// NewConstInt creates an OpConstInt of the given kind and value in block.
func (g *Graph) NewConstInt(block BlockRef, kind Kind, value int64) InstrRef {
	ref := g.NewInstr(block, OpConstInt, kind)
	g.instrs[ref].AuxInt = value
	return ref
}

// NewPhi creates a phi in block's phi list. Phis are constructed live.
func (g *Graph) NewPhi(block BlockRef, kind Kind, inputs ...InstrRef) InstrRef {
	in := g.newInstr(OpPhi, kind)
	in.block = block
	for _, producer := range inputs {
		g.addInput(in, producer)
	}
	b := g.blocks[block]
	b.Phis = append(b.Phis, in.id)
	return in.id
}

// NewCatchPhi creates a catch-block phi, which may start with zero inputs.
func (g *Graph) NewCatchPhi(block BlockRef, kind Kind, inputs ...InstrRef) InstrRef {
	ref := g.NewPhi(block, kind, inputs...)
	g.instrs[ref].catchPhi = true
	return ref
}

// addInput appends producer as the next input of in, linking the use node.
func (g *Graph) addInput(in *Instruction, producer InstrRef) {
	p := g.instrs[producer]
	slot := int32(len(in.inputs))
	in.inputs = append(in.inputs, inputRecord{
		producer: producer,
		usePos:   int32(len(p.uses)),
	})
	p.uses = append(p.uses, Use{Consumer: in.id, Slot: slot})
}

// AddPhiInput appends one more input to an existing phi.
func (g *Graph) AddPhiInput(phi, producer InstrRef) {
	g.addInput(g.instrs[phi], producer)
}

// SetEnvironment attaches deopt state to holder. A slot may be InstrNone.
func (g *Graph) SetEnvironment(holder InstrRef, slots []InstrRef) {
	h := g.instrs[holder]
	h.env = make([]envSlot, len(slots))
	for i, producer := range slots {
		if producer == InstrNone {
			h.env[i] = envSlot{producer: InstrNone}
			continue
		}
		p := g.instrs[producer]
		h.env[i] = envSlot{producer: producer, usePos: int32(len(p.envUses))}
		p.envUses = append(p.envUses, Use{Consumer: holder, Slot: int32(i)})
	}
}

// removeUseAt swap-removes position pos from p's use vector and fixes the
// back-pointer of the node that moved into pos.
func (g *Graph) removeUseAt(p *Instruction, pos int32) {
	last := int32(len(p.uses) - 1)
	if pos != last {
		moved := p.uses[last]
		p.uses[pos] = moved
		g.instrs[moved.Consumer].inputs[moved.Slot].usePos = pos
	}
	p.uses = p.uses[:last]
}

// removeEnvUseAt is removeUseAt for the environment-use vector.
func (g *Graph) removeEnvUseAt(p *Instruction, pos int32) {
	last := int32(len(p.envUses) - 1)
	if pos != last {
		moved := p.envUses[last]
		p.envUses[pos] = moved
		g.instrs[moved.Consumer].env[moved.Slot].usePos = pos
	}
	p.envUses = p.envUses[:last]
}

// RemoveAsUser detaches in from the use-lists of all of its inputs. The
// input records themselves are kept (the instruction still names its
// producers) but no producer lists in as a user afterwards. Idempotent.
func (g *Graph) RemoveAsUser(ref InstrRef) {
	in := g.instrs[ref]
	for i := range in.inputs {
		rec := &in.inputs[i]
		if rec.usePos < 0 {
			continue
		}
		g.removeUseAt(g.instrs[rec.producer], rec.usePos)
		rec.usePos = -1
	}
}

// ClearEnvUsesOf empties every environment slot in the graph that
// references ref.
func (g *Graph) ClearEnvUsesOf(ref InstrRef) {
	in := g.instrs[ref]
	for len(in.envUses) > 0 {
		use := in.envUses[len(in.envUses)-1]
		holder := g.instrs[use.Consumer]
		holder.env[use.Slot] = envSlot{producer: InstrNone}
		in.envUses = in.envUses[:len(in.envUses)-1]
	}
}

// ReplaceUsesWith rewrites every use and environment use of old to refer to
// replacement instead. old's use-lists are empty afterwards.
func (g *Graph) ReplaceUsesWith(old, replacement InstrRef) {
	o, r := g.instrs[old], g.instrs[replacement]
	for len(o.uses) > 0 {
		use := o.uses[len(o.uses)-1]
		o.uses = o.uses[:len(o.uses)-1]
		c := g.instrs[use.Consumer]
		c.inputs[use.Slot] = inputRecord{
			producer: replacement,
			usePos:   int32(len(r.uses)),
		}
		r.uses = append(r.uses, use)
	}
	for len(o.envUses) > 0 {
		use := o.envUses[len(o.envUses)-1]
		o.envUses = o.envUses[:len(o.envUses)-1]
		h := g.instrs[use.Consumer]
		h.env[use.Slot] = envSlot{
			producer: replacement,
			usePos:   int32(len(r.envUses)),
		}
		r.envUses = append(r.envUses, use)
	}
}

// RemovePhi detaches phi from the use-lists of its inputs and unlinks it
// from its block's phi list. Remaining uses of the phi are left to the
// caller (dead-phi elimination asserts they are themselves dead phis;
// redundant-phi elimination rewrites them first).
func (g *Graph) RemovePhi(ref InstrRef) {
	in := g.instrs[ref]
	g.RemoveAsUser(ref)
	if in.block != BlockNone {
		b := g.blocks[in.block]
		for i, p := range b.Phis {
			if p == ref {
				b.Phis = append(b.Phis[:i], b.Phis[i+1:]...)
				break
			}
		}
		in.block = BlockNone
	}
}

// Dominates reports whether block a dominates block b. A block dominates
// itself.
func (g *Graph) Dominates(a, b BlockRef) bool {
	for b != BlockNone {
		if a == b {
			return true
		}
		b = g.blocks[b].Idom
	}
	return false
}

// StrictlyDominates reports whether instruction def strictly dominates
// instruction use: def executes before use on every path, and def != use.
// Within one block, phis precede all non-phi instructions; among the
// instructions of one list, list order decides.
func (g *Graph) StrictlyDominates(def, use InstrRef) bool {
	if def == use {
		return false
	}
	d, u := g.instrs[def], g.instrs[use]
	if d.block != u.block {
		return g.Dominates(d.block, u.block)
	}
	b := g.blocks[d.block]
	if d.IsPhi() {
		if !u.IsPhi() {
			return true
		}
		return instrIndex(b.Phis, def) < instrIndex(b.Phis, use)
	}
	if u.IsPhi() {
		return false
	}
	return instrIndex(b.Instrs, def) < instrIndex(b.Instrs, use)
}

// instrIndex returns the position of ref in list, or -1.
func instrIndex(list []InstrRef, ref InstrRef) int {
	for i, x := range list {
		if x == ref {
			return i
		}
	}
	return -1
}
