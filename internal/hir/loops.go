package hir

// LoopInfo describes one natural loop. It is attached to every block of the
// loop body, with the innermost loop winning for nested loops.
type LoopInfo struct {
	// Header is the loop-header block.
	Header BlockRef

	// BackEdges lists the predecessor blocks of the header whose edge
	// closes the loop.
	BackEdges []BlockRef

	// Blocks holds the ids of all blocks in the loop body, including the
	// header and the bodies of nested loops.
	Blocks *BitVector
}

// NumBackEdges returns the number of registered back edges.
func (l *LoopInfo) NumBackEdges() int { return len(l.BackEdges) }

// IsBackEdge reports whether b is a registered back-edge block.
func (l *LoopInfo) IsBackEdge(b BlockRef) bool {
	for _, e := range l.BackEdges {
		if e == b {
			return true
		}
	}
	return false
}

// Contains reports whether b belongs to the loop body.
func (l *LoopInfo) Contains(b BlockRef) bool { return l.Blocks.Get(int(b)) }

// AnalyzeLoops detects natural loops from back edges and attaches LoopInfo
// records to the blocks of each loop body. ComputeDominance must have been
// called first. Existing loop information is discarded.
func AnalyzeLoops(g *Graph) {
	for _, b := range g.Blocks() {
		b.Loop = nil
	}

	// A back edge is an edge whose target dominates its source. Loops are
	// discovered in RPO so outer loops come first; inner loops then
	// overwrite the per-block record, leaving the innermost one attached.
	var loops []*LoopInfo
	for _, h := range ReversePostOrder(g) {
		var loop *LoopInfo
		for _, p := range g.Block(h).Preds {
			if !g.Dominates(h, p) {
				continue
			}
			if loop == nil {
				loop = &LoopInfo{Header: h, Blocks: NewBitVector(g.NumBlocks())}
				loop.Blocks.Set(int(h))
				loops = append(loops, loop)
			}
			loop.BackEdges = append(loop.BackEdges, p)
			populateLoop(g, loop, p)
		}
	}

	for _, loop := range loops {
		loop.Blocks.ForEach(func(i int) {
			g.Block(BlockRef(i)).Loop = loop
		})
	}
}

// populateLoop walks backwards from a back-edge block, adding every block
// on a path to the header into the loop body.
func populateLoop(g *Graph, loop *LoopInfo, from BlockRef) {
	if loop.Blocks.Get(int(from)) {
		return
	}
	loop.Blocks.Set(int(from))
	for _, p := range g.Block(from).Preds {
		populateLoop(g, loop, p)
	}
}
