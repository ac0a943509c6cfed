package passes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talon-vm/talon/internal/hir"
)

func TestDeadPhiEliminationRemovesUnusedPhi(t *testing.T) {
	g, join, one, two := diamondSkeleton(t)
	kept := g.NewPhi(join, hir.KindInt, one, two)
	dead := g.NewPhi(join, hir.KindInt, two, one)
	g.NewInstr(join, hir.OpReturn, hir.KindVoid, kept)
	finishSSA(g)

	NewDeadPhiElimination(g).Run()

	require.False(t, g.Instr(dead).IsInBlock())
	require.True(t, g.Instr(kept).IsInBlock())
	require.Equal(t, []hir.InstrRef{kept}, g.Block(join).Phis)
	requireValid(t, g)
}

// TestDeadPhiEliminationLivenessThroughPhis builds two merge chains through
// a double diamond: one chain reaches a return, one reaches nothing. A phi
// used only by another phi is live exactly when that phi is.
func TestDeadPhiEliminationLivenessThroughPhis(t *testing.T) {
	g := hir.NewGraph("m")
	b0 := g.NewBlock()
	b1 := g.NewBlock()
	b2 := g.NewBlock()
	b3 := g.NewBlock()
	b4 := g.NewBlock()
	b5 := g.NewBlock()
	b6 := g.NewBlock()
	g.AddEdge(b0, b1)
	g.AddEdge(b0, b2)
	g.AddEdge(b1, b3)
	g.AddEdge(b2, b3)
	g.AddEdge(b3, b4)
	g.AddEdge(b3, b5)
	g.AddEdge(b4, b6)
	g.AddEdge(b5, b6)

	cond := g.NewInstr(b0, hir.OpParam, hir.KindBool)
	one := g.NewConstInt(b0, hir.KindInt, 1)
	two := g.NewConstInt(b0, hir.KindInt, 2)
	g.NewInstr(b0, hir.OpIf, hir.KindVoid, cond)
	g.NewInstr(b1, hir.OpGoto, hir.KindVoid)
	g.NewInstr(b2, hir.OpGoto, hir.KindVoid)

	liveA := g.NewPhi(b3, hir.KindInt, one, two)
	deadA := g.NewPhi(b3, hir.KindInt, two, one)
	g.NewInstr(b3, hir.OpIf, hir.KindVoid, cond)
	g.NewInstr(b4, hir.OpGoto, hir.KindVoid)
	g.NewInstr(b5, hir.OpGoto, hir.KindVoid)

	liveB := g.NewPhi(b6, hir.KindInt, liveA, liveA)
	deadB := g.NewPhi(b6, hir.KindInt, deadA, deadA)
	g.NewInstr(b6, hir.OpReturn, hir.KindVoid, liveB)
	finishSSA(g)

	NewDeadPhiElimination(g).Run()

	require.True(t, g.Instr(liveA).IsInBlock())
	require.True(t, g.Instr(liveB).IsInBlock())
	require.False(t, g.Instr(deadA).IsInBlock())
	require.False(t, g.Instr(deadB).IsInBlock())
	requireValid(t, g)
}

func TestDeadPhiEliminationDebuggableKeepsEnvObservedPhi(t *testing.T) {
	g, join, one, two := diamondSkeleton(t)
	phi := g.NewPhi(join, hir.KindInt, one, two)
	sc := g.NewInstr(join, hir.OpSuspendCheck, hir.KindVoid)
	g.NewInstr(join, hir.OpReturn, hir.KindVoid)
	g.SetEnvironment(sc, []hir.InstrRef{phi})
	g.SetDebuggable(true)
	finishSSA(g)

	NewDeadPhiElimination(g).Run()

	require.True(t, g.Instr(phi).IsInBlock())
	require.Equal(t, phi, g.Instr(sc).EnvAt(0))
	requireValid(t, g)
}

// TestDeadPhiEliminationClearsEnvSlots is the non-debuggable counterpart: an
// environment use does not keep the phi alive, and the slot is emptied when
// the phi goes.
func TestDeadPhiEliminationClearsEnvSlots(t *testing.T) {
	g, join, one, two := diamondSkeleton(t)
	phi := g.NewPhi(join, hir.KindInt, one, two)
	sc := g.NewInstr(join, hir.OpSuspendCheck, hir.KindVoid)
	g.NewInstr(join, hir.OpReturn, hir.KindVoid)
	g.SetEnvironment(sc, []hir.InstrRef{phi})
	finishSSA(g)

	NewDeadPhiElimination(g).Run()

	require.False(t, g.Instr(phi).IsInBlock())
	require.Equal(t, hir.InstrNone, g.Instr(sc).EnvAt(0))
	requireValid(t, g)
}

func TestDeadPhiEliminationKeepsLoopCounter(t *testing.T) {
	g := hir.NewGraph("loop")
	b0 := g.NewBlock()
	b1 := g.NewBlock()
	b2 := g.NewBlock()
	b3 := g.NewBlock()
	b4 := g.NewBlock()
	g.AddEdge(b0, b1)
	g.AddEdge(b1, b2)
	g.AddEdge(b2, b3)
	g.AddEdge(b2, b4)
	g.AddEdge(b3, b2)

	n := g.NewInstr(b0, hir.OpParam, hir.KindInt)
	zero := g.NewConstInt(b0, hir.KindInt, 0)
	one := g.NewConstInt(b0, hir.KindInt, 1)
	g.NewInstr(b0, hir.OpGoto, hir.KindVoid)
	g.NewInstr(b1, hir.OpGoto, hir.KindVoid)
	i := g.NewPhi(b2, hir.KindInt, zero)
	lt := g.NewInstr(b2, hir.OpLt, hir.KindBool, i, n)
	g.NewInstr(b2, hir.OpIf, hir.KindVoid, lt)
	inc := g.NewInstr(b3, hir.OpAdd, hir.KindInt, i, one)
	g.AddPhiInput(i, inc)
	g.NewInstr(b3, hir.OpGoto, hir.KindVoid)
	g.NewInstr(b4, hir.OpReturn, hir.KindVoid)
	finishSSA(g)

	NewDeadPhiElimination(g).Run()

	require.True(t, g.Instr(i).IsInBlock())
	requireValid(t, g)
}

func TestDeadPhiEliminationIdempotent(t *testing.T) {
	g, join, one, two := diamondSkeleton(t)
	g.NewPhi(join, hir.KindInt, two, one) // dead
	kept := g.NewPhi(join, hir.KindInt, one, two)
	g.NewInstr(join, hir.OpReturn, hir.KindVoid, kept)
	finishSSA(g)

	NewDeadPhiElimination(g).Run()
	first := hir.Sprint(g)
	NewDeadPhiElimination(g).Run()
	require.Equal(t, first, hir.Sprint(g))
}
