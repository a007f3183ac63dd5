package rda

import (
	"encoding/hex"
	"sync"

	"github.com/gluster/glusterfs-sub025/dict"
	"github.com/gluster/glusterfs-sub025/iatt"
	"github.com/gluster/glusterfs-sub025/inode"
)

func newGfidSet() *dict.Dict {
	return dict.New()
}

// markGfidDirty flags gfid as having raced a write during this fd's
// current prefetch, keyed by its hex string the way the original keys
// writes_during_prefetch by uuid_utoa'd gfid.
func markGfidDirty(set *dict.Dict, gfid iatt.Gfid) {
	set.Set(hex.EncodeToString(gfid[:]), dict.Bool(true))
}

// gfidIsDirty reports whether gfid was flagged dirty in set.
func gfidIsDirty(set *dict.Dict, gfid iatt.Gfid) bool {
	if set == nil {
		return false
	}
	v, ok := set.Get(hex.EncodeToString(gfid[:]))
	return ok && v.Kind == dict.KindBool && v.Bool
}

// InodeCtx caches the last-known stat for one inode plus the generation
// value it was stored under (UpdateIatt records whatever generation its
// caller passes), the rda_inode_ctx_t pairing in the original. The generation counter is what lets a racing
// write (rda_mark_inode_dirty) tell a fill in flight "the copy you're
// about to cache is already stale" without a second round trip.
type InodeCtx struct {
	mu         sync.Mutex
	stat       iatt.Iatt
	generation uint64
}

// inodeCtx returns the rda InodeCtx stashed on in, creating one on
// first access.
func inodeCtx(in *inode.Inode) *InodeCtx {
	if v, ok := in.Ctx(ctxKey); ok {
		return v.(*InodeCtx)
	}
	ctx := &InodeCtx{}
	in.SetCtx(ctxKey, ctx)
	return ctx
}

// UpdateIatt refreshes the cached stat if the generation passed in is
// not older than what's already stored, mirroring
// __rda_inode_ctx_update_iatts's ctime-ordering guard: a reply that was
// in flight before a newer write landed must not clobber the newer
// stat when it finally arrives.
func (c *InodeCtx) UpdateIatt(newStat iatt.Iatt, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation < c.generation {
		return
	}
	if c.generation != 0 && newStat.Less(c.stat) {
		return
	}
	c.stat = newStat
	c.generation = generation
}

// Iatt returns the currently cached stat.
func (c *InodeCtx) Iatt() iatt.Iatt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stat
}

// Generation returns the current generation counter's value.
func (c *InodeCtx) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// GetIatt returns the cached stat for an inode, grounded on
// rda_inode_ctx_get_iatt; it is a convenience wrapper so fill code
// doesn't need to know about the InodeCtx type directly.
func GetIatt(in *inode.Inode) iatt.Iatt {
	return inodeCtx(in).Iatt()
}

// MarkDirty marks every currently-prefetching fd on in's parent
// directory as needing to invalidate in's cached stat once its fill
// completes — rda_mark_inode_dirty. It records in's gfid into each such
// fd's WritesDuringPrefetch dict rather than cancelling the fill
// outright, so the fill can finish normally; Append then passes
// generation 0 for this one child, which UpdateIatt drops whenever a
// stat is already cached under a nonzero generation.
func MarkDirty(in *inode.Inode) {
	parent := in.FirstParent()
	if parent == nil {
		return
	}
	for _, fd := range parent.Files(0) {
		v, ok := fd.Ctx(ctxKey)
		if !ok {
			continue
		}
		ctx := v.(*FdCtx)
		ctx.Lock()
		if ctx.Prefetching {
			if ctx.WritesDuringPrefetch == nil {
				ctx.WritesDuringPrefetch = newGfidSet()
			}
			markGfidDirty(ctx.WritesDuringPrefetch, in.Gfid)
		}
		ctx.Unlock()
	}
}
