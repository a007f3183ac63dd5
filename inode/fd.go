package inode

import "github.com/gluster/glusterfs-sub025/ilist"

// Fd represents one open-file handle against an Inode, generalizing
// fuse/inode.go's openFiles slice (and its Files(mask) filter) into an
// intrusive list entry so a single fd can also sit on a translator's own
// per-fd queue (rda's fill state, for instance) without a second
// allocation.
type Fd struct {
	ilist.Node
	Inode *Inode
	Flags uint32

	// Ctx mirrors Inode.ctx but is scoped to the lifetime of this open
	// file, the way fd_ctx differs from inode_ctx in the original.
	ctx map[string]interface{}
}

// OpenFlags a translator cares about when filtering Files().
const (
	FlagRead  uint32 = 1 << 0
	FlagWrite uint32 = 1 << 1
)

// NewFd creates an Fd against in and links it onto the inode's open-file
// list. The caller owns the returned Fd until Close is called.
func NewFd(in *Inode, flags uint32) *Fd {
	fd := &Fd{Inode: in, Flags: flags}
	fd.Node.Value = fd
	in.mu.Lock()
	in.fds.PushBack(&fd.Node)
	in.mu.Unlock()
	return fd
}

// Close unlinks fd from its inode's open-file list. It is idempotent.
func (fd *Fd) Close() {
	fd.Inode.mu.Lock()
	fd.Node.Remove()
	fd.Inode.mu.Unlock()
}

// Ctx returns the per-key fd-scoped context value, if set.
func (fd *Fd) Ctx(key string) (interface{}, bool) {
	v, ok := fd.ctx[key]
	return v, ok
}

// SetCtx stores a per-key fd-scoped context value.
func (fd *Fd) SetCtx(key string, v interface{}) {
	if fd.ctx == nil {
		fd.ctx = make(map[string]interface{})
	}
	fd.ctx[key] = v
}

// Files returns the inode's currently open fds, optionally filtered to
// those whose Flags intersect mask (mask==0 returns all), mirroring
// fuse/inode.go's Files(mask).
func (in *Inode) Files(mask uint32) []*Fd {
	in.mu.Lock()
	defer in.mu.Unlock()
	var out []*Fd
	for n := in.fds.Front(); n != nil; n = n.Next() {
		fd := n.Value.(*Fd)
		if mask == 0 || fd.Flags&mask != 0 {
			out = append(out, fd)
		}
	}
	return out
}

// AnyFile returns an arbitrary open fd, preferring one opened for write,
// the same preference fuse/inode.go's AnyFile applies — or nil if the
// inode has none open.
func (in *Inode) AnyFile() *Fd {
	in.mu.Lock()
	defer in.mu.Unlock()
	var best *Fd
	for n := in.fds.Front(); n != nil; n = n.Next() {
		fd := n.Value.(*Fd)
		if best == nil || fd.Flags&FlagWrite != 0 {
			best = fd
		}
	}
	return best
}
