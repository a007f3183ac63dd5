package xlator

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// InitFunc/FiniFunc are the lifecycle hooks a translator implementation
// supplies, run in graph order by InitGraph/FiniGraph.
type InitFunc func(this *Translator) error
type FiniFunc func(this *Translator)

// Graph is an assembled translator tree (or, with multi-parent
// components like distribute/replicate, DAG) plus the per-translator
// lifecycle functions needed to bring it up and tear it down in the
// right order. Grounded on the original's graph.c, which walks a
// volfile's xlator list twice — once leaf-to-root to init, once
// root-to-leaf to fini — generalized here from a parsed-text volfile to
// a graph built directly by Go code (this module has no volfile parser;
// spec.md's Non-goals exclude one, so graphs are assembled in cmd/* or
// tests by calling Translator.AddChild directly).
type Graph struct {
	Top         *Translator
	order       []*Translator // leaf-to-root, computed by topoOrder
	initFuncs   map[*Translator]InitFunc
	finiFuncs   map[*Translator]FiniFunc
}

// NewGraph computes the init order rooted at top and returns a Graph
// ready for SetInit/SetFini registration.
func NewGraph(top *Translator) *Graph {
	g := &Graph{
		Top:       top,
		initFuncs: make(map[*Translator]InitFunc),
		finiFuncs: make(map[*Translator]FiniFunc),
	}
	seen := make(map[*Translator]bool)
	g.order = topoOrder(top, seen, nil)
	return g
}

// topoOrder performs a post-order DFS so every child appears before the
// parents that depend on it, matching graph.c's init ordering ("xlator
// init's children before itself").
func topoOrder(t *Translator, seen map[*Translator]bool, out []*Translator) []*Translator {
	if seen[t] {
		return out
	}
	seen[t] = true
	for _, c := range t.Children {
		out = topoOrder(c, seen, out)
	}
	return append(out, t)
}

// SetInit registers t's Init hook.
func (g *Graph) SetInit(t *Translator, fn InitFunc) {
	g.initFuncs[t] = fn
}

// SetFini registers t's Fini hook.
func (g *Graph) SetFini(t *Translator, fn FiniFunc) {
	g.finiFuncs[t] = fn
}

// InitGraph runs every registered Init hook in leaf-to-root order,
// stopping and returning the first error (graph.c aborts the whole
// graph bring-up on the first xlator whose init() fails, rather than
// attempting partial operation).
func (g *Graph) InitGraph() error {
	for _, t := range g.order {
		fn, ok := g.initFuncs[t]
		if !ok {
			t.initDone = true
			continue
		}
		if err := fn(t); err != nil {
			logrus.WithFields(logrus.Fields{"xlator": t.Name, "type": t.Type}).
				WithError(err).Error("translator init failed")
			return errors.Wrapf(err, "xlator %q init", t.Name)
		}
		t.initDone = true
	}
	return nil
}

// FiniGraph runs every registered Fini hook in root-to-leaf order, the
// reverse of Init, so a translator is always torn down before the
// children it depends on.
func (g *Graph) FiniGraph() {
	for i := len(g.order) - 1; i >= 0; i-- {
		t := g.order[i]
		if !t.initDone {
			continue
		}
		if fn, ok := g.finiFuncs[t]; ok {
			fn(t)
		}
		t.initDone = false
	}
}

// Translators returns the graph's leaf-to-root traversal order, mainly
// useful for tests and diagnostics.
func (g *Graph) Translators() []*Translator {
	return append([]*Translator(nil), g.order...)
}
