package hir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// makeDiamond builds a well-formed if/else diamond:
//
//	b0: if p → b1 | b2
//	b3: phi(1, 2); return phi
func makeDiamond(t *testing.T) (*Graph, [4]BlockRef, InstrRef) {
	t.Helper()
	g := NewGraph("diamond")
	b0 := g.NewBlock()
	b1 := g.NewBlock()
	b2 := g.NewBlock()
	b3 := g.NewBlock()
	g.AddEdge(b0, b1)
	g.AddEdge(b0, b2)
	g.AddEdge(b1, b3)
	g.AddEdge(b2, b3)

	cond := g.NewInstr(b0, OpParam, KindBool)
	one := g.NewConstInt(b0, KindInt, 1)
	two := g.NewConstInt(b0, KindInt, 2)
	g.NewInstr(b0, OpIf, KindVoid, cond)
	g.NewInstr(b1, OpGoto, KindVoid)
	g.NewInstr(b2, OpGoto, KindVoid)
	phi := g.NewPhi(b3, KindInt, one, two)
	g.NewInstr(b3, OpReturn, KindVoid, phi)

	g.SetInSSAForm(true)
	ComputeDominance(g)
	AnalyzeLoops(g)
	return g, [4]BlockRef{b0, b1, b2, b3}, phi
}

func runGraphChecker(g *Graph) *GraphChecker {
	c := NewGraphChecker(g)
	c.Run()
	return c
}

func TestGraphCheckerWellFormed(t *testing.T) {
	g, _, _ := makeDiamond(t)
	c := runGraphChecker(g)
	require.True(t, c.IsValid(), "findings: %v", c.Findings())
}

// TestGraphCheckerEdgeMultiplicity deliberately breaks the pred/succ
// multisets: b0 lists the target twice among its successors while the
// target lists b0 once. Exactly one occurrence-mismatch finding must be
// reported.
func TestGraphCheckerEdgeMultiplicity(t *testing.T) {
	g := NewGraph("broken")
	b0 := g.NewBlock()
	b1 := g.NewBlock()
	b2 := g.NewBlock()
	target := g.NewBlock()
	g.AddEdge(b0, target)
	g.AddEdge(b1, target)
	g.AddEdge(b2, target)
	g.NewInstr(b0, OpGoto, KindVoid)
	g.NewInstr(b1, OpGoto, KindVoid)
	g.NewInstr(b2, OpGoto, KindVoid)
	g.NewInstr(target, OpReturn, KindVoid)

	// Corrupt: one extra successor entry on b0 only.
	g.Block(b0).Succs = append(g.Block(b0).Succs, target)

	c := runGraphChecker(g)
	require.False(t, c.IsValid())

	var mismatches []Finding
	for _, f := range c.Findings() {
		if strings.Contains(f.Msg, "occurs") {
			mismatches = append(mismatches, f)
		}
	}
	require.Len(t, mismatches, 1)
	require.Equal(t, target, mismatches[0].Block)
}

// TestGraphCheckerUnlistedSuccessor removes the target's predecessor entry
// entirely; the successor-direction fallback must still catch it.
func TestGraphCheckerUnlistedSuccessor(t *testing.T) {
	g := NewGraph("unlisted")
	b0 := g.NewBlock()
	target := g.NewBlock()
	g.AddEdge(b0, target)
	g.NewInstr(b0, OpGoto, KindVoid)
	g.NewInstr(target, OpReturn, KindVoid)

	g.Block(target).Preds = nil

	c := runGraphChecker(g)
	require.False(t, c.IsValid())
	var mismatches []Finding
	for _, f := range c.Findings() {
		if strings.Contains(f.Msg, "occurs") {
			mismatches = append(mismatches, f)
		}
	}
	require.Len(t, mismatches, 1)
	require.Equal(t, b0, mismatches[0].Block)
}

func TestGraphCheckerMissingTerminator(t *testing.T) {
	g := NewGraph("noterm")
	b0 := g.NewBlock()
	g.NewConstInt(b0, KindInt, 1)

	c := runGraphChecker(g)
	require.False(t, c.IsValid())
	require.Contains(t, c.Findings()[0].Msg, "control-flow")
}

func TestGraphCheckerMisplacedTerminator(t *testing.T) {
	g := NewGraph("midterm")
	b0 := g.NewBlock()
	b1 := g.NewBlock()
	g.AddEdge(b0, b1)
	g.NewInstr(b0, OpGoto, KindVoid)
	g.NewConstInt(b0, KindInt, 1) // after the terminator
	g.NewInstr(b1, OpReturn, KindVoid)

	c := runGraphChecker(g)
	require.False(t, c.IsValid())
	found := false
	for _, f := range c.Findings() {
		if strings.Contains(f.Msg, "not the last instruction") {
			found = true
		}
	}
	require.True(t, found, "findings: %v", c.Findings())
}

// TestGraphCheckerDuplicateID links one instruction into two blocks.
func TestGraphCheckerDuplicateID(t *testing.T) {
	g := NewGraph("dup")
	b0 := g.NewBlock()
	b1 := g.NewBlock()
	g.AddEdge(b0, b1)
	c1 := g.NewConstInt(b0, KindInt, 7)
	g.NewInstr(b0, OpGoto, KindVoid)
	g.NewInstr(b1, OpReturn, KindVoid)

	// Corrupt: splice the constant into b1's list as well.
	b := g.Block(b1)
	b.Instrs = append([]InstrRef{c1}, b.Instrs...)

	c := runGraphChecker(g)
	require.False(t, c.IsValid())
	found := false
	for _, f := range c.Findings() {
		if strings.Contains(f.Msg, "duplicate id") {
			found = true
		}
	}
	require.True(t, found, "findings: %v", c.Findings())
}

func TestGraphCheckerPhiListSegregation(t *testing.T) {
	g, blocks, phi := makeDiamond(t)
	b := g.Block(blocks[3])

	// Corrupt: move the phi into the non-phi list.
	b.Phis = nil
	b.Instrs = append([]InstrRef{phi}, b.Instrs...)

	c := runGraphChecker(g)
	require.False(t, c.IsValid())
	found := false
	for _, f := range c.Findings() {
		if strings.Contains(f.Msg, "phi") && strings.Contains(f.Msg, "non-phi") {
			found = true
		}
	}
	require.True(t, found, "findings: %v", c.Findings())
}

// TestGraphCheckerStaleUsePointer severs one side of a def-use edge by
// hand and expects the round-trip check to notice.
func TestGraphCheckerStaleUsePointer(t *testing.T) {
	g := NewGraph("stale")
	b0 := g.NewBlock()
	p := g.NewInstr(b0, OpParam, KindInt)
	add := g.NewInstr(b0, OpAdd, KindInt, p, p)
	g.NewInstr(b0, OpReturn, KindVoid, add)

	// Corrupt: drop the use node without touching the consumer's input.
	g.Instr(p).uses = g.Instr(p).uses[:1]

	c := runGraphChecker(g)
	require.False(t, c.IsValid())
	found := false
	for _, f := range c.Findings() {
		if strings.Contains(f.Msg, "no matching node") {
			found = true
		}
	}
	require.True(t, found, "findings: %v", c.Findings())
}

func TestGraphCheckerWrongBlockBackPointer(t *testing.T) {
	g := NewGraph("wrongblock")
	b0 := g.NewBlock()
	b1 := g.NewBlock()
	g.AddEdge(b0, b1)
	c1 := g.NewConstInt(b0, KindInt, 3)
	g.NewInstr(b0, OpGoto, KindVoid)
	g.NewInstr(b1, OpReturn, KindVoid)

	// Corrupt: instruction claims to live in b1.
	g.Instr(c1).block = b1

	c := runGraphChecker(g)
	require.False(t, c.IsValid())
}

func TestGraphCheckerRunsOnNonSSAGraph(t *testing.T) {
	// A graph before SSA construction: no phis, a value reused across
	// blocks without dominance computed. Only structural checks apply.
	g := NewGraph("nonssa")
	b0 := g.NewBlock()
	g.NewConstInt(b0, KindInt, 1)
	g.NewInstr(b0, OpReturn, KindVoid)
	g.SetInSSAForm(false)

	c := runGraphChecker(g)
	require.True(t, c.IsValid(), "findings: %v", c.Findings())
}
