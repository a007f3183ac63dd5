package xlator

import (
	"fmt"
	"sync"

	"github.com/gluster/glusterfs-sub025/dict"
)

// Translator is one node in the graph: a name, a type (which backing
// implementation it loads), its position among siblings, and its FOP
// dispatch table. Grounded on fuse.RawFileSystem implementations being
// assembled into a wrapper chain (MountState wraps a single
// RawFileSystem that may itself wrap another), generalized to an
// arbitrary-arity graph since a translator may have more than one
// child (e.g. replicate, distribute).
type Translator struct {
	Name string
	Type string

	Children []*Translator
	Parents  []*Translator

	Fops Stash[FopFunc]
	Cbks Stash[CbkFunc]

	Options map[string]string

	Private interface{}

	mu        sync.Mutex
	initDone  bool
	notifyFns []NotifyFunc
}

// New constructs a bare Translator. Callers populate Fops/Cbks/Private
// before wiring it into a Graph.
func New(name, typ string, options map[string]string) *Translator {
	return &Translator{
		Name:    name,
		Type:    typ,
		Fops:    NewStash[FopFunc](),
		Cbks:    NewStash[CbkFunc](),
		Options: options,
	}
}

// AddChild wires child below this translator, recording the reverse
// Parents edge too, the way graph.c links an xlator onto its parent's
// children list when parsing a volfile.
func (t *Translator) AddChild(child *Translator) {
	t.Children = append(t.Children, child)
	child.Parents = append(child.Parents, t)
}

// SoleChild returns the translator's only child, panicking if it has
// none or more than one — the common case for filter/cache translators
// that only ever stack 1:1 (spec.md's "pass-through" translators).
func (t *Translator) SoleChild() *Translator {
	if len(t.Children) != 1 {
		panic(fmt.Sprintf("xlator %q: SoleChild called with %d children", t.Name, len(t.Children)))
	}
	return t.Children[0]
}

// Option returns a declared option value and whether it was set,
// without applying any schema default — that's options.Validate's job.
func (t *Translator) Option(key string) (string, bool) {
	v, ok := t.Options[key]
	return v, ok
}

// Dict builds a dict.Dict snapshot of this translator's options, the
// form a getspec/profile FOP response bundles up for a client.
func (t *Translator) Dict() *dict.Dict {
	d := dict.New()
	for k, v := range t.Options {
		d.Set(k, dict.String(v))
	}
	return d
}
