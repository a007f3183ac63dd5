package inode

import (
	"fmt"
	"sync"

	"github.com/gluster/glusterfs-sub025/errkind"
	"github.com/gluster/glusterfs-sub025/iatt"
)

// Table is the per-volume GFID-keyed inode cache.
type Table struct {
	mu    sync.RWMutex
	byGfid map[iatt.Gfid]*Inode
	root  *Inode
}

// NewTable constructs an empty table with its root inode pre-linked,
// mirroring the original itable's eager root allocation.
func NewTable() *Table {
	t := &Table{byGfid: make(map[iatt.Gfid]*Inode)}
	root := newInode(iatt.RootGfid, iatt.TypeDirectory, t)
	root.nlookup = 1
	root.ref = 1
	t.byGfid[iatt.RootGfid] = root
	t.root = root
	return t
}

// Root returns the table's root Inode.
func (t *Table) Root() *Inode {
	return t.root
}

// Find returns the cached Inode for gfid, if present, without touching
// nlookup (the caller already holds a reference another way, e.g. it is
// looking itself up by its own GFID for a getattr).
func (t *Table) Find(gfid iatt.Gfid) (*Inode, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	in, ok := t.byGfid[gfid]
	return in, ok
}

// GetOrCreate returns the cached Inode for gfid, creating and inserting
// a new one of the given type if none exists yet. It does not touch
// nlookup; callers performing an actual kernel Lookup should follow up
// with Link.
func (t *Table) GetOrCreate(gfid iatt.Gfid, typ iatt.Type) *Inode {
	t.mu.Lock()
	defer t.mu.Unlock()
	if in, ok := t.byGfid[gfid]; ok {
		return in
	}
	in := newInode(gfid, typ, t)
	t.byGfid[gfid] = in
	return in
}

// Link records a successful Lookup/Create: it inserts (or reuses) the
// Inode for child, attaches a new Dentry named name under parent,
// increments nlookup, and reports the resulting Inode.
//
// Two distinct merge situations fall out of this:
//
//   - existed is true when child's own GFID was already known under some
//     other dentry (e.g. a second hardlink resolved independently before
//     either carried a full stat) — a same-inode type backfill.
//   - a different inode I1 may already occupy the (parent, name) slot
//     this call is about to claim for child/I2 (a rename-over or relink
//     race: S6). That stale dentry is evicted first, and I1's type
//     observation is folded into I2 via ictxMerge exactly once before I1
//     is retired through the same nlookup/eviction path Unlink uses —
//     without this, I1's refcount bookkeeping would simply be dropped on
//     the floor, violating strong_refcount's invariant.
func (t *Table) Link(parent *Inode, name string, gfid iatt.Gfid, typ iatt.Type) *Inode {
	t.mu.Lock()
	child, existed := t.byGfid[gfid]
	if !existed {
		child = newInode(gfid, typ, t)
		t.byGfid[gfid] = child
	}
	t.mu.Unlock()

	var stale *Dentry
	t.mu.RLock()
	for _, in := range t.byGfid {
		for _, d := range in.Dentries() {
			if in != child && d.Parent == parent && d.Name == name {
				stale = d
			}
		}
	}
	t.mu.RUnlock()
	var evicted *Inode
	if stale != nil {
		evicted = stale.Inode
		evicted.mu.Lock()
		stale.Node.Remove()
		evicted.mu.Unlock()
	}

	d := &Dentry{Name: name, Parent: parent, Inode: child}
	d.Node.Value = d
	child.mu.Lock()
	child.dentries.PushBack(&d.Node)
	child.mu.Unlock()

	if existed {
		ictxMerge(nil, child, typ)
	}
	if evicted != nil {
		ictxMerge(evicted, child, typ)
		t.forgetOne(evicted)
	}
	child.nlookup++
	return child
}

// ictxMerge folds type information into fresh, applying the "present
// fields win, never narrow what's already known" rule. observed is
// whatever type this Link call just learned directly; old, when
// non-nil, is a second Inode being folded into fresh (the S6
// cross-inode case) whose own type observation is folded in too.
// Supplemented from the original's inode_ctx_merge behavior referenced
// in graph.c, generalized here since Go has no per-translator private-
// context array to merge element-by-element — only the type
// classification is shared state at this layer.
func ictxMerge(old, fresh *Inode, observed iatt.Type) {
	if fresh.Type == iatt.TypeUnknown && observed != iatt.TypeUnknown {
		fresh.Type = observed
	}
	if old != nil && fresh.Type == iatt.TypeUnknown && old.Type != iatt.TypeUnknown {
		fresh.Type = old.Type
	}
}

// Unlink removes the Dentry named name under parent, if present, and
// decrements nlookup on the far inode. A missing dentry is reported as an
// errkind.NotFound error so callers can distinguish "no such dentry".
func (t *Table) Unlink(parent *Inode, name string) error {
	var victim *Dentry
	t.mu.RLock()
	for _, in := range t.byGfid {
		for _, d := range in.Dentries() {
			if d.Parent == parent && d.Name == name {
				victim = d
			}
		}
	}
	t.mu.RUnlock()

	if victim == nil {
		return errkind.New(errkind.NotFound, fmt.Sprintf("inode: no dentry %q under parent", name))
	}

	child := victim.Inode
	child.mu.Lock()
	victim.Node.Remove()
	child.mu.Unlock()

	t.forgetOne(child)
	return nil
}

// Forget applies a kernel Forget with the given nlookup decrement,
// evicting the inode from the table once its nlookup balance reaches
// zero and it holds no dentries or open fds.
func (t *Table) Forget(in *Inode, nlookupDec int64) {
	in.nlookup -= nlookupDec
	if in.nlookup <= 0 {
		t.evictIfQuiescent(in)
	}
}

func (t *Table) forgetOne(in *Inode) {
	in.nlookup--
	if in.nlookup <= 0 {
		t.evictIfQuiescent(in)
	}
}

func (t *Table) evictIfQuiescent(in *Inode) {
	in.mu.Lock()
	quiescent := in.dentries.Len() == 0 && in.fds.Len() == 0
	in.mu.Unlock()
	if !quiescent {
		return
	}
	t.mu.Lock()
	delete(t.byGfid, in.Gfid)
	t.mu.Unlock()
}

// Len reports the number of inodes currently cached, for diagnostics
// and tests.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byGfid)
}
