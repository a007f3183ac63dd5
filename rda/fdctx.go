package rda

import (
	"sync"

	"github.com/gluster/glusterfs-sub025/dict"
	"github.com/gluster/glusterfs-sub025/inode"
	"github.com/gluster/glusterfs-sub025/loc"
)

// ctxKey is the key FdCtx/InodeCtx are stashed under via inode.Fd.SetCtx
// / inode.Inode.SetCtx, reusing the per-fd/per-inode context slots the
// inode package already provides instead of keeping a parallel map.
const ctxKey = "rda"

// dirEntryOverhead approximates the fixed per-entry bookkeeping cost
// the original's gf_dirent_size() macro charges on top of the name
// length, so FillFromBuffer's request_size accounting behaves the same
// way: a fixed cost plus the name.
const dirEntryOverhead = 32

func directorySize(e loc.Dirent) uint64 {
	return uint64(dirEntryOverhead + len(e.Name))
}

// FdCtx is the per-open-directory-handle prefetch state (struct
// rda_fd_ctx in the original).
type FdCtx struct {
	mu sync.Mutex

	CurOffset  uint64
	CurSize    uint64
	NextOffset uint64
	State      State

	Entries []loc.Dirent

	// PendingStub holds a suspended readdirp request's replay
	// function (ctx->stub in the original); fillSync takes and runs it
	// after each fill. Readdirp never sets it: a caller that finds a
	// fill already running does not park a stub here.
	PendingStub func()

	OpErrno int

	Xattrs               *dict.Dict
	WritesDuringPrefetch *dict.Dict

	Prefetching bool
}

// NewFdCtx returns a freshly reset FdCtx in StateNew.
func NewFdCtx() *FdCtx {
	return &FdCtx{State: StateNew}
}

// Reset clears accumulated entries and returns the ctx to StateNew, the
// rda_reset_ctx behavior triggered when a readdir restarts from offset
// zero after a previous listing completed (EOD with nothing buffered).
func (c *FdCtx) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Entries = nil
	c.CurSize = 0
	c.CurOffset = 0
	c.NextOffset = 0
	c.State = StateNew
	c.WritesDuringPrefetch = nil
}

// CanServe reports whether the buffer already holds enough to answer a
// request of requestSize immediately, mirroring rda_can_serve_readdirp:
// EOD or a latched error can always be served (there's nothing left to
// wait for), an unplugged non-empty buffer can always be served, and a
// plugged buffer can be served once it holds at least requestSize worth
// of entries.
func (c *FdCtx) CanServe(requestSize uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canServeLocked(requestSize)
}

func (c *FdCtx) canServeLocked(requestSize uint64) bool {
	if c.State.Has(StateEOD) || c.State.Has(StateError) {
		return true
	}
	if !c.State.Has(StatePlugged) && c.CurSize > 0 {
		return true
	}
	if requestSize != 0 && c.CurSize >= requestSize {
		return true
	}
	return false
}

// FillFromBuffer pops as many buffered entries as fit within
// requestSize, updates CurSize/CurOffset, and replugs the buffer once
// it has drained to the low watermark — the __rda_fill_readdirp /
// __rda_serve_readdirp pairing in the original, collapsed into one
// locked call since Go's buffer is a plain slice rather than an
// intrusive list needing separate splice bookkeeping.
func (c *FdCtx) FillFromBuffer(requestSize, lowWatermark uint64) (served []loc.Dirent, errno int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var size uint64
	i := 0
	for ; i < len(c.Entries); i++ {
		entrySize := directorySize(c.Entries[i])
		if size+entrySize > requestSize {
			break
		}
		size += entrySize
		c.CurOffset = c.Entries[i].Off
	}

	served = c.Entries[:i]
	c.Entries = c.Entries[i:]
	c.CurSize -= size

	if c.CurSize <= lowWatermark {
		c.State |= StatePlugged
	}

	if len(served) == 0 && c.State.Has(StateError) {
		c.State &^= StateError
		c.State |= StateBypass
		errno = c.OpErrno
		return served, errno
	}
	errno = c.OpErrno
	return served, errno
}

// noRaceGeneration is passed to InodeCtx.UpdateIatt for a dirent that
// did not race a write during this fill: the original passes -1 (all
// bits set) since it has no real generation number to compare against.
// It always passes UpdateIatt's generation check; the ctime-ordering
// check still applies once a stat is cached under a nonzero generation.
const noRaceGeneration = ^uint64(0)

// Append adds freshly fetched entries to the buffer (called once a fill
// completes). It does not touch StatePlugged: fillSync unplugs the
// buffer after Append once CurSize has reached the high watermark.
//
// Every dirent carrying an already-known inode is passed through
// InodeCtx.UpdateIatt so a write racing this fill can't leave the cache
// serving the pre-write stat: rda_fill_fd_cbk (readdir-ahead.c:530-544)
// does this per-dirent, looking up writes_during_prefetch by gfid and
// forcing generation 0 (always stale) for any GFID it finds there.
func (c *FdCtx) Append(fd *inode.Fd, entries []loc.Dirent, eod bool, errno int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tbl := fd.Inode.Table()
	for _, e := range entries {
		c.Entries = append(c.Entries, e)
		c.CurSize += directorySize(e)
		c.NextOffset = e.Off

		if e.Name == "." || e.Name == ".." {
			continue
		}
		child, ok := tbl.Find(e.Gfid)
		if !ok {
			continue
		}
		generation := noRaceGeneration
		if gfidIsDirty(c.WritesDuringPrefetch, e.Gfid) {
			generation = 0
		}
		inodeCtx(child).UpdateIatt(e.Stat, generation)
	}
	c.WritesDuringPrefetch = nil

	if eod {
		c.State |= StateEOD
	}
	if errno != 0 {
		c.State |= StateError
		c.OpErrno = errno
	}
	c.State &^= StateRunning
}

// TakeStub atomically retrieves and clears a pending replay callback,
// used once a fill completes to resume whichever caller was waiting.
func (c *FdCtx) TakeStub() func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.PendingStub
	c.PendingStub = nil
	return s
}

// Lock/Unlock expose the ctx mutex directly for call sites (rda.go)
// that need to read-then-decide across several fields atomically,
// mirroring the original's LOCK(&ctx->lock) spanning several statements.
func (c *FdCtx) Lock()   { c.mu.Lock() }
func (c *FdCtx) Unlock() { c.mu.Unlock() }
