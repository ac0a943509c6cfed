// Package induction implements conservative integer range queries for
// induction variables, used by bounds-check elimination. It consumes the
// classification produced by the induction-variable analysis pass as
// read-only truth and never mutates the graph.
package induction

import "github.com/talon-vm/talon/internal/hir"

// Class describes the shape of an induction classification node.
type Class int

const (
	// ClassInvariant is a loop-invariant expression node; Op is valid.
	ClassInvariant Class = iota
	// ClassLinear is a*i + b over the normalized loop counter; A holds the
	// multiplier expression, B the base.
	ClassLinear
	// ClassWrapAround is a value taking an initial value on the first
	// iteration and another sequence afterwards; A holds the initial, B
	// the wrapped-around sequence.
	ClassWrapAround
	// ClassPeriodic is a value alternating between two sequences; A and B
	// hold the alternatives.
	ClassPeriodic
)

// InvOp is the operation tag of an invariant node.
type InvOp int

const (
	OpNop InvOp = iota // trip-count placeholder; both children hold it
	OpAdd
	OpSub
	OpNeg
	OpMul
	OpDiv
	OpFetch // leaf; Fetch references the graph instruction
)

// Info is one node of an induction classification expression tree. Trees
// are supplied by the induction-variable analysis collaborator and are
// treated as immutable here.
type Info struct {
	Class Class
	Op    InvOp // valid when Class == ClassInvariant
	A, B  *Info
	Fetch hir.InstrRef // valid when Op == OpFetch
}

// NewInvariantOp creates an invariant node combining a and b.
func NewInvariantOp(op InvOp, a, b *Info) *Info {
	return &Info{Class: ClassInvariant, Op: op, A: a, B: b, Fetch: hir.InstrNone}
}

// NewFetch creates an invariant leaf referencing instr.
func NewFetch(instr hir.InstrRef) *Info {
	return &Info{Class: ClassInvariant, Op: OpFetch, Fetch: instr}
}

// NewInduction creates a Linear, WrapAround, or Periodic node over the two
// operand trees.
func NewInduction(class Class, a, b *Info) *Info {
	return &Info{Class: class, A: a, B: b, Fetch: hir.InstrNone}
}

// Map is the (loop, instruction) → Info mapping supplied by the
// classification collaborator. Loops are identified by their header block.
type Map struct {
	m map[mapKey]*Info
}

type mapKey struct {
	header hir.BlockRef
	instr  hir.InstrRef
}

// NewMap creates an empty classification map.
func NewMap() *Map {
	return &Map{m: make(map[mapKey]*Info)}
}

// Put records the classification of instr within loop.
func (m *Map) Put(loop *hir.LoopInfo, instr hir.InstrRef, info *Info) {
	m.m[mapKey{header: loop.Header, instr: instr}] = info
}

// LookupInfo returns the classification of instr within loop, or nil.
func (m *Map) LookupInfo(loop *hir.LoopInfo, instr hir.InstrRef) *Info {
	if loop == nil {
		return nil
	}
	return m.m[mapKey{header: loop.Header, instr: instr}]
}
