// Package passes implements the HIR optimization passes of the Talon
// compiler and the runner that sequences them.
package passes

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/talon-vm/talon/internal/hir"
)

// Pass describes a single HIR optimization pass.
type Pass struct {
	Name string
	Fn   func(g *hir.Graph)
}

// Config controls pass execution behavior.
type Config struct {
	DumpBefore string      // dump HIR before this pass ("*" for all)
	DumpAfter  string      // dump HIR after this pass ("*" for all)
	Verify     bool        // run the SSA checker before/after each pass
	Logger     logr.Logger // pass tracing; logr.Discard() to silence
}

// Run executes the given passes on g in order. With Verify set, the SSA
// checker gates every pass; its findings become the returned error and the
// remaining passes do not run.
func Run(g *hir.Graph, passes []Pass, cfg Config) error {
	for _, p := range passes {
		if shouldDump(cfg.DumpBefore, p.Name) {
			fmt.Fprintf(os.Stderr, "--- before %s (%s) ---\n", p.Name, g.Name)
			hir.Fprint(os.Stderr, g)
			fmt.Fprintln(os.Stderr)
		}

		if cfg.Verify {
			if err := verify(g); err != nil {
				return fmt.Errorf("verify before %s: %w", p.Name, err)
			}
		}

		cfg.Logger.V(1).Info("running pass", "pass", p.Name, "graph", g.Name)
		p.Fn(g)

		if cfg.Verify {
			if err := verify(g); err != nil {
				return fmt.Errorf("verify after %s: %w", p.Name, err)
			}
		}

		if shouldDump(cfg.DumpAfter, p.Name) {
			fmt.Fprintf(os.Stderr, "--- after %s (%s) ---\n", p.Name, g.Name)
			hir.Fprint(os.Stderr, g)
			fmt.Fprintln(os.Stderr)
		}
	}
	return nil
}

// verify runs the checker matching the graph's current form.
func verify(g *hir.Graph) error {
	if g.InSSAForm() {
		c := hir.NewSSAChecker(g)
		c.Run()
		return c.Findings().Err()
	}
	c := hir.NewGraphChecker(g)
	c.Run()
	return c.Findings().Err()
}

func shouldDump(pattern, name string) bool {
	return pattern == "*" || pattern == name
}
