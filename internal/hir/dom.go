package hir

// PostOrder returns the blocks of g in post-order, starting from the entry
// block. Unreachable blocks are excluded.
func PostOrder(g *Graph) []BlockRef {
	if g.NumBlocks() == 0 {
		return nil
	}
	visited := NewBitVector(g.NumBlocks())
	var order []BlockRef

	var dfs func(b BlockRef)
	dfs = func(b BlockRef) {
		if visited.Get(int(b)) {
			return
		}
		visited.Set(int(b))
		for _, s := range g.Block(b).Succs {
			dfs(s)
		}
		order = append(order, b)
	}
	dfs(g.Entry())
	return order
}

// ReversePostOrder returns the blocks of g in reverse post-order.
// Unreachable blocks are excluded.
func ReversePostOrder(g *Graph) []BlockRef {
	order := PostOrder(g)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// ComputeDominance computes the immediate dominator tree for g using
// Cooper, Harvey, and Kennedy's "A Simple, Fast Dominance Algorithm".
// It populates BasicBlock.Idom for all reachable blocks; the entry block
// and unreachable blocks end up with Idom == BlockNone.
func ComputeDominance(g *Graph) {
	rpo := ReversePostOrder(g)
	if len(rpo) == 0 {
		return
	}

	// Assign RPO numbers.
	rpoNum := make([]int, g.NumBlocks())
	for i := range rpoNum {
		rpoNum[i] = -1
	}
	for i, b := range rpo {
		rpoNum[b] = i
	}

	// intersect finds the closest common dominator.
	intersect := func(b1, b2 BlockRef) BlockRef {
		for b1 != b2 {
			for rpoNum[b1] > rpoNum[b2] {
				b1 = g.Block(b1).Idom
			}
			for rpoNum[b2] > rpoNum[b1] {
				b2 = g.Block(b2).Idom
			}
		}
		return b1
	}

	// Clear old data; the entry dominates itself (sentinel).
	entry := rpo[0]
	for _, b := range g.Blocks() {
		b.Idom = BlockNone
	}
	g.Block(entry).Idom = entry

	// Iterate until convergence.
	changed := true
	for changed {
		changed = false
		for _, b := range rpo[1:] { // skip entry
			newIdom := BlockNone
			for _, p := range g.Block(b).Preds {
				if rpoNum[p] < 0 || g.Block(p).Idom == BlockNone {
					continue
				}
				if newIdom == BlockNone {
					newIdom = p
				} else {
					newIdom = intersect(p, newIdom)
				}
			}
			if newIdom != BlockNone && g.Block(b).Idom != newIdom {
				g.Block(b).Idom = newIdom
				changed = true
			}
		}
	}

	// Fix entry: Idom = BlockNone (was sentinel).
	g.Block(entry).Idom = BlockNone
}
