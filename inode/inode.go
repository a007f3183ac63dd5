// Package inode implements the GFID-keyed inode table: the in-memory
// cache of (gfid -> Inode) that every translator above the storage layer
// consults to resolve a Loc into a live object, track dentry linkage,
// and manage the nlookup/refcount lifecycle the kernel's Lookup/Forget
// protocol depends on (spec.md §3 "Inode", "InodeTable").
//
// Grounded on fuse/inode.go's Inode/treeLock/lookupCount/children model,
// generalized from a single-parent tree (FUSE only ever gives an inode
// one parent) to the dentry-list-per-inode model hardlinks require.
package inode

import (
	"sync"
	"sync/atomic"

	"github.com/gluster/glusterfs-sub025/iatt"
	"github.com/gluster/glusterfs-sub025/ilist"
)

// Dentry is one name->inode link. An inode with Nlink > 1 may carry
// several Dentries, one per hardlinked name.
type Dentry struct {
	ilist.Node
	Name   string
	Parent *Inode
	Inode  *Inode
}

// Inode is a cached filesystem object, keyed by GFID in its owning
// Table. ctx is an opaque per-translator context slot, keyed the same
// way the original's inode_ctx array is keyed by translator index; here
// it is a plain map since Go has no fixed xlator-count at compile time.
type Inode struct {
	Gfid iatt.Gfid
	Type iatt.Type

	table *Table

	mu       sync.Mutex
	dentries ilist.List // of *Dentry, via Dentry.Node
	fds      ilist.List // of *Fd, via Fd.Node

	nlookup   int64
	ref       int64
	invalid   bool

	ctxMu sync.Mutex
	ctx   map[string]interface{}
}

// newInode constructs a zero-refcount Inode for gfid, not yet linked
// into any table.
func newInode(gfid iatt.Gfid, typ iatt.Type, t *Table) *Inode {
	in := &Inode{Gfid: gfid, Type: typ, table: t}
	in.dentries.Init()
	in.fds.Init()
	return in
}

// Ref increments the strong reference count (distinct from nlookup,
// which tracks only the kernel's Lookup/Forget balance) and returns the
// same Inode, the idiom used everywhere a handle is stashed past the
// current call.
func (in *Inode) Ref() *Inode {
	atomic.AddInt64(&in.ref, 1)
	return in
}

// Unref drops a strong reference. It does not by itself remove the
// inode from its table; table.Forget (nlookup reaching zero) is what
// triggers eviction, mirroring the original's separation of the two
// counters.
func (in *Inode) Unref() {
	atomic.AddInt64(&in.ref, -1)
}

// RefCount reports the live strong-reference count.
func (in *Inode) RefCount() int64 {
	return atomic.LoadInt64(&in.ref)
}

// Nlookup reports the kernel Lookup/Forget balance.
func (in *Inode) Nlookup() int64 {
	return atomic.LoadInt64(&in.nlookup)
}

// Table returns the Table in holds a cache entry in.
func (in *Inode) Table() *Table {
	return in.table
}

// Ctx returns the per-key translator context value, if set.
func (in *Inode) Ctx(key string) (interface{}, bool) {
	in.ctxMu.Lock()
	defer in.ctxMu.Unlock()
	v, ok := in.ctx[key]
	return v, ok
}

// SetCtx stores a per-key translator context value.
func (in *Inode) SetCtx(key string, v interface{}) {
	in.ctxMu.Lock()
	defer in.ctxMu.Unlock()
	if in.ctx == nil {
		in.ctx = make(map[string]interface{})
	}
	in.ctx[key] = v
}

// Dentries returns a snapshot slice of the inode's current dentry links.
func (in *Inode) Dentries() []*Dentry {
	in.mu.Lock()
	defer in.mu.Unlock()
	var out []*Dentry
	for n := in.dentries.Front(); n != nil; n = n.Next() {
		out = append(out, n.Value.(*Dentry))
	}
	return out
}

// FirstParent returns one arbitrary current parent, or nil if in is
// unlinked (e.g. the root, or an unlinked-but-still-open file).
func (in *Inode) FirstParent() *Inode {
	ds := in.Dentries()
	if len(ds) == 0 {
		return nil
	}
	return ds[0].Parent
}
