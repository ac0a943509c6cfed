// Command hirdump is a developer utility for inspecting the Talon HIR
// passes. It builds representative sample graphs, optionally runs the phi
// elimination pipeline over them, and dumps the IR and checker findings.
package main

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	flag "github.com/spf13/pflag"

	"github.com/talon-vm/talon/internal/hir"
	"github.com/talon-vm/talon/internal/hir/passes"
)

var (
	graphName  = flag.String("graph", "", "only process the named sample graph")
	listGraphs = flag.Bool("list", false, "list sample graph names and exit")
	runPasses  = flag.Bool("run-passes", false, "run phi elimination before dumping")
	verify     = flag.Bool("verify", false, "verify HIR before/after each pass")
	dumpBefore = flag.String("dump-before", "", "dump HIR before pass (name or \"*\")")
	dumpAfter  = flag.String("dump-after", "", "dump HIR after pass (name or \"*\")")
	check      = flag.Bool("check", false, "run the SSA checker and print findings")
	verbosity  = flag.Int("v", 0, "log verbosity")
)

func main() {
	flag.Parse()

	log := funcr.New(func(prefix, args string) {
		fmt.Fprintln(os.Stderr, prefix, args)
	}, funcr.Options{Verbosity: *verbosity})

	samples := sampleGraphs()
	if *listGraphs {
		for _, g := range samples {
			fmt.Println(g.Name)
		}
		return
	}

	status := 0
	for _, g := range samples {
		if *graphName != "" && g.Name != *graphName {
			continue
		}
		if err := process(g, log); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", g.Name, err)
			status = 1
		}
	}
	os.Exit(status)
}

// process optionally runs the pipeline on g, then dumps it.
func process(g *hir.Graph, log logr.Logger) error {
	if *runPasses {
		pipeline := []passes.Pass{
			{Name: "dead_phi", Fn: func(g *hir.Graph) { passes.NewDeadPhiElimination(g).Run() }},
			{Name: "redundant_phi", Fn: func(g *hir.Graph) { passes.NewRedundantPhiElimination(g).Run() }},
		}
		cfg := passes.Config{
			DumpBefore: *dumpBefore,
			DumpAfter:  *dumpAfter,
			Verify:     *verify,
			Logger:     log,
		}
		if err := passes.Run(g, pipeline, cfg); err != nil {
			return err
		}
	}

	hir.Print(g)

	if *check {
		c := hir.NewSSAChecker(g)
		c.Run()
		for _, f := range c.Findings() {
			fmt.Printf("finding: %s\n", f)
		}
		if c.IsValid() {
			fmt.Println("graph is valid")
		}
	}
	fmt.Println()
	return nil
}

// sampleGraphs builds the demo graphs.
func sampleGraphs() []*hir.Graph {
	return []*hir.Graph{
		diamondGraph(),
		countedLoopGraph(),
	}
}

// diamondGraph is if (c) { x = 1 } else { x = 1 }; return phi(1, 1) — the
// phi is redundant and disappears under the pipeline.
func diamondGraph() *hir.Graph {
	g := hir.NewGraph("diamond")
	entry := g.NewBlock()
	then := g.NewBlock()
	els := g.NewBlock()
	merge := g.NewBlock()
	g.AddEdge(entry, then)
	g.AddEdge(entry, els)
	g.AddEdge(then, merge)
	g.AddEdge(els, merge)

	cond := g.NewInstr(entry, hir.OpParam, hir.KindBool)
	one := g.NewConstInt(entry, hir.KindInt, 1)
	g.NewInstr(entry, hir.OpIf, hir.KindVoid, cond)
	g.NewInstr(then, hir.OpGoto, hir.KindVoid)
	g.NewInstr(els, hir.OpGoto, hir.KindVoid)
	phi := g.NewPhi(merge, hir.KindInt, one, one)
	g.NewInstr(merge, hir.OpReturn, hir.KindVoid, phi)

	g.SetInSSAForm(true)
	hir.ComputeDominance(g)
	hir.AnalyzeLoops(g)
	return g
}

// countedLoopGraph is for (i = 0; i < n; i++) {} with the canonical
// pre-header-first loop shape.
func countedLoopGraph() *hir.Graph {
	g := hir.NewGraph("counted_loop")
	entry := g.NewBlock()
	preHeader := g.NewBlock()
	header := g.NewBlock()
	body := g.NewBlock()
	exit := g.NewBlock()
	g.AddEdge(entry, preHeader)
	g.AddEdge(preHeader, header)
	g.AddEdge(header, body)
	g.AddEdge(header, exit)
	g.AddEdge(body, header)

	n := g.NewInstr(entry, hir.OpParam, hir.KindInt)
	zero := g.NewConstInt(entry, hir.KindInt, 0)
	one := g.NewConstInt(entry, hir.KindInt, 1)
	g.NewInstr(entry, hir.OpGoto, hir.KindVoid)
	g.NewInstr(preHeader, hir.OpGoto, hir.KindVoid)

	i := g.NewPhi(header, hir.KindInt, zero)
	lt := g.NewInstr(header, hir.OpLt, hir.KindBool, i, n)
	g.NewInstr(header, hir.OpIf, hir.KindVoid, lt)
	inc := g.NewInstr(body, hir.OpAdd, hir.KindInt, i, one)
	g.AddPhiInput(i, inc)
	g.NewInstr(body, hir.OpGoto, hir.KindVoid)
	g.NewInstr(exit, hir.OpReturn, hir.KindVoid)

	g.SetInSSAForm(true)
	hir.ComputeDominance(g)
	hir.AnalyzeLoops(g)
	return g
}
