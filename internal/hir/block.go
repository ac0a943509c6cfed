package hir

import "fmt"

// BlockRef is the dense index of a basic block within a Graph.
type BlockRef int32

// BlockNone is the null block reference.
const BlockNone BlockRef = -1

// String returns a short string representation (e.g. "b3").
func (r BlockRef) String() string {
	if r == BlockNone {
		return "b?"
	}
	return fmt.Sprintf("b%d", int32(r))
}

// BasicBlock is a node of the control flow graph. It holds phis and non-phi
// instructions in two separate ordered lists; the last non-phi instruction
// is expected to be the block's single control-flow terminator.
//
// Predecessor and successor lists are ordered and multiplicity-significant:
// a block may appear more than once as a predecessor (e.g. after switch
// folding), and phi inputs correspond positionally to predecessors.
type BasicBlock struct {
	// ID is the block's index in the graph's block list.
	ID BlockRef

	// Preds lists the predecessor blocks, in phi-input order.
	Preds []BlockRef

	// Succs lists the successor blocks. For OpIf terminators Succs[0] is
	// the true target and Succs[1] the false target.
	Succs []BlockRef

	// Phis is the ordered list of phi instructions.
	Phis []InstrRef

	// Instrs is the ordered list of non-phi instructions.
	Instrs []InstrRef

	// Loop is the innermost loop containing this block, if any.
	Loop *LoopInfo

	// Idom is the immediate dominator, BlockNone for the entry block and
	// for blocks where dominance has not been computed.
	Idom BlockRef
}

// String returns a short string representation (e.g. "b3").
func (b *BasicBlock) String() string { return b.ID.String() }

// NumPreds returns the number of predecessor edges.
func (b *BasicBlock) NumPreds() int { return len(b.Preds) }

// NumSuccs returns the number of successor edges.
func (b *BasicBlock) NumSuccs() int { return len(b.Succs) }

// LastInstr returns the block's final non-phi instruction, or InstrNone if
// the block is empty.
func (b *BasicBlock) LastInstr() InstrRef {
	if len(b.Instrs) == 0 {
		return InstrNone
	}
	return b.Instrs[len(b.Instrs)-1]
}

// IsLoopHeader reports whether this block is the header of its loop.
func (b *BasicBlock) IsLoopHeader() bool {
	return b.Loop != nil && b.Loop.Header == b.ID
}

// containsInstr reports whether list contains ref.
func containsInstr(list []InstrRef, ref InstrRef) bool {
	for _, x := range list {
		if x == ref {
			return true
		}
	}
	return false
}
