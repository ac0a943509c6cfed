package hir

import "testing"

// TestDomSingleBlock verifies that a single-block graph has Idom=BlockNone.
func TestDomSingleBlock(t *testing.T) {
	g := NewGraph("g")
	b0 := g.NewBlock()
	g.NewInstr(b0, OpReturn, KindVoid)

	ComputeDominance(g)

	if got := g.Block(b0).Idom; got != BlockNone {
		t.Errorf("entry Idom = %v, want BlockNone", got)
	}
}

// TestDomLinearChain verifies: b0 → b1 → b2
func TestDomLinearChain(t *testing.T) {
	g := NewGraph("g")
	b0 := g.NewBlock()
	b1 := g.NewBlock()
	b2 := g.NewBlock()
	g.AddEdge(b0, b1)
	g.AddEdge(b1, b2)

	ComputeDominance(g)

	if got := g.Block(b1).Idom; got != b0 {
		t.Errorf("b1.Idom = %v, want %v", got, b0)
	}
	if got := g.Block(b2).Idom; got != b1 {
		t.Errorf("b2.Idom = %v, want %v", got, b1)
	}
}

// TestDomDiamond verifies:
//
//	b0
//	├→ b1 ─┐
//	└→ b2 ─┘
//	   b3
func TestDomDiamond(t *testing.T) {
	g := NewGraph("g")
	b0 := g.NewBlock()
	b1 := g.NewBlock()
	b2 := g.NewBlock()
	b3 := g.NewBlock()
	g.AddEdge(b0, b1)
	g.AddEdge(b0, b2)
	g.AddEdge(b1, b3)
	g.AddEdge(b2, b3)

	ComputeDominance(g)

	for _, tt := range []struct {
		block BlockRef
		want  BlockRef
	}{{b1, b0}, {b2, b0}, {b3, b0}} {
		if got := g.Block(tt.block).Idom; got != tt.want {
			t.Errorf("%v.Idom = %v, want %v", tt.block, got, tt.want)
		}
	}

	if !g.Dominates(b0, b3) {
		t.Error("b0 should dominate b3")
	}
	if g.Dominates(b1, b3) {
		t.Error("b1 should not dominate b3")
	}
	if !g.Dominates(b3, b3) {
		t.Error("a block dominates itself")
	}
}

// TestDomLoop verifies:
//
//	b0 → b1 ⇄ b2
//	     b1 → b3
func TestDomLoop(t *testing.T) {
	g := NewGraph("g")
	b0 := g.NewBlock()
	b1 := g.NewBlock()
	b2 := g.NewBlock()
	b3 := g.NewBlock()
	g.AddEdge(b0, b1)
	g.AddEdge(b1, b2)
	g.AddEdge(b1, b3)
	g.AddEdge(b2, b1)

	ComputeDominance(g)

	if got := g.Block(b1).Idom; got != b0 {
		t.Errorf("b1.Idom = %v, want %v", got, b0)
	}
	if got := g.Block(b2).Idom; got != b1 {
		t.Errorf("b2.Idom = %v, want %v", got, b1)
	}
	if got := g.Block(b3).Idom; got != b1 {
		t.Errorf("b3.Idom = %v, want %v", got, b1)
	}
}

func TestDomUnreachableBlock(t *testing.T) {
	g := NewGraph("g")
	b0 := g.NewBlock()
	b1 := g.NewBlock()
	dead := g.NewBlock()
	g.AddEdge(b0, b1)
	g.AddEdge(dead, b1)

	ComputeDominance(g)

	if got := g.Block(dead).Idom; got != BlockNone {
		t.Errorf("unreachable block Idom = %v, want BlockNone", got)
	}
	// The unreachable predecessor must not perturb b1's dominator.
	if got := g.Block(b1).Idom; got != b0 {
		t.Errorf("b1.Idom = %v, want %v", got, b0)
	}
}

func TestReversePostOrder(t *testing.T) {
	g := NewGraph("g")
	b0 := g.NewBlock()
	b1 := g.NewBlock()
	b2 := g.NewBlock()
	g.AddEdge(b0, b1)
	g.AddEdge(b1, b2)

	rpo := ReversePostOrder(g)
	if len(rpo) != 3 || rpo[0] != b0 || rpo[2] != b2 {
		t.Errorf("RPO = %v, want [%v %v %v]", rpo, b0, b1, b2)
	}

	po := PostOrder(g)
	if len(po) != 3 || po[0] != b2 || po[2] != b0 {
		t.Errorf("post-order = %v, want [%v %v %v]", po, b2, b1, b0)
	}
}
