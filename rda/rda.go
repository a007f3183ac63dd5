package rda

import (
	"fmt"
	"sync/atomic"

	"github.com/gluster/glusterfs-sub025/inode"
	"github.com/gluster/glusterfs-sub025/loc"
	"github.com/gluster/glusterfs-sub025/xlator"
	"golang.org/x/sync/singleflight"
)

// Config mirrors struct rda_priv's tunables.
type Config struct {
	RequestSize     uint64
	LowWatermark    uint64
	HighWatermark   uint64
	CacheLimit      uint64
	ParallelReaddir bool
}

// Fetcher performs the actual backend readdirp a Cache prefetches
// ahead of the caller — the thing rda_fill_fd STACK_WINDs to FIRST_CHILD
// for. Decoupling it from xlator.Wind keeps the cache's core state
// machine unit-testable without assembling a full translator graph;
// New below adapts a real child Translator into a Fetcher.
type Fetcher func(fd *inode.Fd, offset, size uint64) (entries []loc.Dirent, eod bool, errno int)

// Cache is the readdir-ahead prefetch engine, one instance per rda
// translator.
type Cache struct {
	cfg   Config
	fetch Fetcher
	sf    singleflight.Group

	// cacheSize accumulates dirent bytes (Σ dirent_size(e)) across every
	// ctx this Cache has ever filled, mirroring priv->rda_cache_size: a
	// process-wide counter, not a per-fd one, so one fd's prefetching can
	// push every other fd on this Cache into Bypass once the total
	// crosses cfg.CacheLimit (spec.md RdaFdCtx invariant (d)).
	cacheSize int64
}

// NewCache builds a Cache that prefetches via fetch.
func NewCache(cfg Config, fetch Fetcher) *Cache {
	return &Cache{cfg: cfg, fetch: fetch}
}

func fdCtx(fd *inode.Fd) *FdCtx {
	if v, ok := fd.Ctx(ctxKey); ok {
		return v.(*FdCtx)
	}
	ctx := NewFdCtx()
	fd.SetCtx(ctxKey, ctx)
	return ctx
}

// Opendir allocates and attaches a fresh FdCtx, the rda_opendir_cbk
// side effect of every successful opendir.
func (c *Cache) Opendir(fd *inode.Fd) {
	fd.SetCtx(ctxKey, NewFdCtx())
}

// Readdirp serves size bytes' worth of entries starting at offset
// against fd, either immediately out of the prefetch buffer or by
// kicking off (or joining) a fill and returning once it completes —
// collapsing rda_readdirp's STACK_WIND-based async flow into a
// synchronous call, since this module has no transport layer of its
// own to yield control back to (spec.md's Non-goals exclude wire
// framing). The offset/cur_offset mismatch and cache-limit bypass
// paths still apply: a reader that skips around defeats the cache and
// falls through to Fetcher directly. A call that finds a fill already
// running does not suspend itself as a stub; it serves whatever the
// buffer holds after its second attempt.
func (c *Cache) Readdirp(fd *inode.Fd, offset, size uint64) (entries []loc.Dirent, errno int) {
	ctx := fdCtx(fd)

	// The state machine only ever needs to fill at most once per call:
	// either the buffer already has enough, or a single fillSync call
	// produces EOD/error/enough-data, any of which CanServe then
	// recognizes. Bound the loop anyway so a misbehaving Fetcher can
	// never wedge a caller in an infinite retry.
	for attempt := 0; attempt < 2; attempt++ {
		ctx.Lock()
		if ctx.State.Has(StateBypass) {
			ctx.Unlock()
			return c.fetch(fd, offset, size)
		}

		// rda_cache_limit = 0 behaves identically to pass-through
		// (spec.md §8), and once the process-wide cache has grown past
		// a configured nonzero limit every fd falls back to the
		// backend directly rather than growing it further — both are
		// the third Bypass condition in spec.md §4.5's RdaFdCtx entry.
		if c.cfg.CacheLimit == 0 || atomic.LoadInt64(&c.cacheSize) > int64(c.cfg.CacheLimit) {
			ctx.State |= StateBypass
			ctx.Unlock()
			return c.fetch(fd, offset, size)
		}

		if offset == 0 && ctx.State.Has(StateEOD) && ctx.CurSize == 0 {
			ctx.Unlock()
			ctx.Reset()
			ctx.Lock()
		}

		freshFd := ctx.CurOffset == 0 && len(ctx.Entries) == 0 && ctx.NextOffset == 0 && ctx.State == StateNew
		if offset != ctx.CurOffset && !(offset == 0 && freshFd) {
			ctx.State |= StateBypass
			ctx.Unlock()
			return c.fetch(fd, offset, size)
		}

		if ctx.canServeLocked(size) {
			ctx.Unlock()
			return ctx.FillFromBuffer(size, c.cfg.LowWatermark)
		}

		alreadyRunning := ctx.State.Has(StateRunning)
		ctx.State |= StateRunning
		ctx.Unlock()

		if !alreadyRunning {
			c.fillSync(fd)
		}
	}

	return ctx.FillFromBuffer(size, c.cfg.LowWatermark)
}

// fillSync performs exactly one fetch-and-append cycle against fd,
// using singleflight so concurrent callers against the same fd collapse
// onto a single in-flight fetch — the "at most one fill in flight"
// invariant rda_fill_fd's RDA_FD_RUNNING bit enforces, expressed here
// via golang.org/x/sync/singleflight instead of a hand-rolled flag
// check (A5, per SPEC_FULL.md §5).
func (c *Cache) fillSync(fd *inode.Fd) {
	ctx := fdCtx(fd)
	key := fmt.Sprintf("%p", fd)

	ctx.Prefetching = true
	_, _, _ = c.sf.Do(key, func() (interface{}, error) {
		entries, eod, errno := c.fetch(fd, ctx.NextOffset, c.cfg.RequestSize)
		var added int64
		for _, e := range entries {
			added += int64(directorySize(e))
		}
		atomic.AddInt64(&c.cacheSize, added)
		ctx.Append(fd, entries, eod, errno)
		return nil, nil
	})
	ctx.Lock()
	ctx.Prefetching = false
	if ctx.CurSize >= c.cfg.HighWatermark {
		ctx.State &^= StatePlugged
	}
	ctx.Unlock()

	if stub := ctx.TakeStub(); stub != nil {
		stub()
	}
}

// New wires a Cache into the translator graph as a single-child
// pass-through translator named "rda": it intercepts FopReaddirp and
// forwards everything else to child unchanged via the default pass-
// through (xlator/defaults.go), the same layering every performance
// translator in the stack uses.
func New(child *xlator.Translator, cfg Config) *xlator.Translator {
	t := xlator.New("rda", "performance/readdir-ahead", map[string]string{
		"rda-request-size":   fmt.Sprint(cfg.RequestSize),
		"rda-low-wmark":      fmt.Sprint(cfg.LowWatermark),
		"rda-high-wmark":     fmt.Sprint(cfg.HighWatermark),
		"rda-cache-limit":    fmt.Sprint(cfg.CacheLimit),
		"parallel-readdir":   fmt.Sprint(cfg.ParallelReaddir),
	})
	t.AddChild(child)

	cache := NewCache(cfg, func(fd *inode.Fd, offset, size uint64) ([]loc.Dirent, bool, int) {
		var result []loc.Dirent
		var eod bool
		var errno int
		frame := xlator.NewFrame(t)
		xlator.Wind(frame, child, xlator.FopReaddirp, xlator.Args{
			Fd: fd, Offset: offset, Size: size,
		}, nil, func(_ *xlator.Frame, _ *xlator.Translator, res xlator.Result) {
			result = res.Dirents
			errno = res.OpErrno
			eod = len(res.Dirents) == 0 && res.OpErrno == 0
		})
		return result, eod, errno
	})
	t.Private = cache

	t.Fops.Set(xlator.FopOpendir, func(frame *xlator.Frame, this *xlator.Translator, args xlator.Args, cbk xlator.CbkFunc) {
		xlator.Wind(frame, child, xlator.FopOpendir, args, nil, func(childFrame *xlator.Frame, _ *xlator.Translator, res xlator.Result) {
			if res.Ok() {
				if fd, ok := args.Fd.(*inode.Fd); ok {
					cache.Opendir(fd)
				}
			}
			cbk(childFrame, this, res)
		})
	})

	t.Fops.Set(xlator.FopReaddirp, func(frame *xlator.Frame, this *xlator.Translator, args xlator.Args, cbk xlator.CbkFunc) {
		fd, ok := args.Fd.(*inode.Fd)
		if !ok {
			cbk(frame, this, xlator.Result{OpErrno: 22}) // EINVAL
			return
		}
		entries, errno := cache.Readdirp(fd, args.Offset, args.Size)
		cbk(frame, this, xlator.Result{Dirents: entries, OpErrno: errno})
	})

	// Write and setattr both invalidate: a write racing a fill in
	// flight must not let that fill cache a now-stale stat for the
	// written inode, so every such FOP marks its target dirty after
	// forwarding, mirroring rda_writev_cbk/rda_mark_inode_dirty.
	invalidatingFops := []xlator.FopName{xlator.FopWrite, xlator.FopSetattr}
	for _, name := range invalidatingFops {
		name := name
		t.Fops.Set(name, func(frame *xlator.Frame, this *xlator.Translator, args xlator.Args, cbk xlator.CbkFunc) {
			xlator.Wind(frame, child, name, args, nil, func(childFrame *xlator.Frame, _ *xlator.Translator, res xlator.Result) {
				if in, ok := args.Loc.Inode.(*inode.Inode); ok {
					MarkDirty(in)
				}
				cbk(childFrame, this, res)
			})
		})
	}

	return t
}
