package hir

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Fprint writes the HIR representation of a graph to w.
//
// Format:
//
//	graph name:
//	  b0: (entry)
//	    i0 = Param <int> [0]
//	    i1 = ConstInt <int> [42]
//	    i2 = Add <int> i0 i1
//	    i3 = Return i2
func Fprint(w io.Writer, g *Graph) {
	fmt.Fprintf(w, "graph %s:\n", g.Name)
	for _, b := range g.Blocks() {
		fprintBlock(w, g, b)
	}
}

// fprintBlock writes a single block to w.
func fprintBlock(w io.Writer, g *Graph, b *BasicBlock) {
	label := ""
	if b.ID == g.Entry() {
		label = " (entry)"
	}
	if b.IsLoopHeader() {
		label += " (loop header)"
	}

	predsStr := ""
	if len(b.Preds) > 0 {
		preds := make([]string, len(b.Preds))
		for i, p := range b.Preds {
			preds[i] = p.String()
		}
		predsStr = " <- " + strings.Join(preds, " ")
	}

	fmt.Fprintf(w, "  %s:%s%s\n", b, label, predsStr)

	for _, ref := range b.Phis {
		fmt.Fprintf(w, "    %s\n", formatInstr(g, g.Instr(ref)))
	}
	for _, ref := range b.Instrs {
		fmt.Fprintf(w, "    %s\n", formatInstr(g, g.Instr(ref)))
	}

	if len(b.Succs) > 0 {
		succs := make([]string, len(b.Succs))
		for i, s := range b.Succs {
			succs[i] = s.String()
		}
		fmt.Fprintf(w, "    -> %s\n", strings.Join(succs, " "))
	}
}

// formatInstr formats one instruction as a string.
func formatInstr(g *Graph, in *Instruction) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s = %s", in, in.Op())
	if in.Kind() != KindVoid {
		fmt.Fprintf(&sb, " <%s>", in.Kind())
	}
	switch in.Op() {
	case OpConstInt, OpParam:
		fmt.Fprintf(&sb, " [%d]", in.AuxInt)
	}
	for i := 0; i < in.NumInputs(); i++ {
		fmt.Fprintf(&sb, " %s", in.InputAt(i))
	}
	if in.IsPhi() && in.IsDead() {
		sb.WriteString(" (dead)")
	}
	if in.HasEnvironment() {
		slots := make([]string, in.EnvSize())
		for i := range slots {
			if e := in.EnvAt(i); e != InstrNone {
				slots[i] = e.String()
			} else {
				slots[i] = "_"
			}
		}
		fmt.Fprintf(&sb, " env[%s]", strings.Join(slots, " "))
	}
	return sb.String()
}

// Sprint returns the HIR representation of a graph as a string.
func Sprint(g *Graph) string {
	var sb strings.Builder
	Fprint(&sb, g)
	return sb.String()
}

// Print writes the HIR representation of a graph to stdout.
func Print(g *Graph) {
	Fprint(os.Stdout, g)
}
