package rda

import (
	"sync/atomic"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/require"

	"github.com/gluster/glusterfs-sub025/iatt"
	"github.com/gluster/glusterfs-sub025/inode"
	"github.com/gluster/glusterfs-sub025/loc"
)

func makeEntries(offsets ...uint64) []loc.Dirent {
	var out []loc.Dirent
	for _, o := range offsets {
		out = append(out, loc.Dirent{Name: "n", Off: o})
	}
	return out
}

func TestReaddirpServesFromSinglePrefetch(t *testing.T) {
	calls := int32(0)
	fetch := func(fd *inode.Fd, offset, size uint64) ([]loc.Dirent, bool, int) {
		atomic.AddInt32(&calls, 1)
		return makeEntries(1, 2, 3), true, 0
	}
	cache := NewCache(Config{RequestSize: 4096, LowWatermark: 0, CacheLimit: 1 << 20}, fetch)

	tbl := inode.NewTable()
	in := tbl.GetOrCreate(iatt.Gfid{1}, iatt.TypeDirectory)
	fd := inode.NewFd(in, 0)
	cache.Opendir(fd)

	entries, errno := cache.Readdirp(fd, 0, 4096)
	require.Zero(t, errno)
	require.Len(t, entries, 3)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestReaddirpBypassesOnOffsetMismatch(t *testing.T) {
	fetch := func(fd *inode.Fd, offset, size uint64) ([]loc.Dirent, bool, int) {
		return makeEntries(offset + 1), true, 0
	}
	cache := NewCache(Config{RequestSize: 4096, CacheLimit: 1 << 20}, fetch)

	tbl := inode.NewTable()
	in := tbl.GetOrCreate(iatt.Gfid{2}, iatt.TypeDirectory)
	fd := inode.NewFd(in, 0)
	cache.Opendir(fd)

	// Ask at a non-zero offset on a fresh ctx: mismatches ctx.CurOffset
	// (0), so this bypasses straight to the fetcher rather than priming
	// the cache.
	entries, _ := cache.Readdirp(fd, 77, 4096)
	require.Len(t, entries, 1)
	require.EqualValues(t, 78, entries[0].Off)

	ctx := fdCtx(fd)
	require.True(t, ctx.State.Has(StateBypass))
}

func TestReaddirpResetsAfterEODWithEmptyBuffer(t *testing.T) {
	gen := 0
	fetch := func(fd *inode.Fd, offset, size uint64) ([]loc.Dirent, bool, int) {
		gen++
		if gen == 1 {
			return makeEntries(1), true, 0
		}
		return makeEntries(10), true, 0
	}
	cache := NewCache(Config{RequestSize: 4096, CacheLimit: 1 << 20}, fetch)

	tbl := inode.NewTable()
	in := tbl.GetOrCreate(iatt.Gfid{3}, iatt.TypeDirectory)
	fd := inode.NewFd(in, 0)
	cache.Opendir(fd)

	first, _ := cache.Readdirp(fd, 0, 4096)
	require.Len(t, first, 1)

	ctx := fdCtx(fd)
	require.True(t, ctx.State.Has(StateEOD))

	second, _ := cache.Readdirp(fd, 0, 4096)
	require.Len(t, second, 1)
	require.EqualValues(t, 10, second[0].Off)
}

func TestCanServeEODOrErrorAlways(t *testing.T) {
	ctx := NewFdCtx()
	ctx.State |= StateEOD
	require.True(t, ctx.CanServe(999999))

	ctx2 := NewFdCtx()
	ctx2.State |= StateError
	require.True(t, ctx2.CanServe(999999))
}

func TestCanServeUnpluggedNonEmptyBuffer(t *testing.T) {
	ctx := NewFdCtx()
	ctx.Entries = makeEntries(1)
	ctx.CurSize = 40
	require.True(t, ctx.CanServe(0))
}

func TestCanServePluggedRequiresWatermark(t *testing.T) {
	ctx := NewFdCtx()
	ctx.State |= StatePlugged
	ctx.CurSize = 10
	require.False(t, ctx.CanServe(100))
	require.True(t, ctx.CanServe(5))
}

func TestMarkDirtyFlagsPrefetchingFd(t *testing.T) {
	tbl := inode.NewTable()
	parent := tbl.Root()
	childGfid := iatt.Gfid{9}
	child := tbl.Link(parent, "f", childGfid, iatt.TypeRegular)

	fd := inode.NewFd(parent, 0)
	ctx := NewFdCtx()
	ctx.Prefetching = true
	fd.SetCtx(ctxKey, ctx)

	MarkDirty(child)

	require.True(t, gfidIsDirty(ctx.WritesDuringPrefetch, childGfid))
}

func TestMarkDirtyIgnoresNonPrefetchingFd(t *testing.T) {
	tbl := inode.NewTable()
	parent := tbl.Root()
	childGfid := iatt.Gfid{11}
	child := tbl.Link(parent, "g", childGfid, iatt.TypeRegular)

	fd := inode.NewFd(parent, 0)
	ctx := NewFdCtx()
	fd.SetCtx(ctxKey, ctx)

	MarkDirty(child)
	require.Nil(t, ctx.WritesDuringPrefetch)
}

func TestReaddirpCacheLimitZeroBehavesAsPassThrough(t *testing.T) {
	calls := int32(0)
	fetch := func(fd *inode.Fd, offset, size uint64) ([]loc.Dirent, bool, int) {
		atomic.AddInt32(&calls, 1)
		return makeEntries(offset + 1), true, 0
	}
	// CacheLimit 0 must behave identically to pass-through (spec.md §8):
	// every Readdirp call goes straight to the fetcher and the ctx is
	// never primed with buffered entries.
	cache := NewCache(Config{RequestSize: 4096}, fetch)

	tbl := inode.NewTable()
	in := tbl.GetOrCreate(iatt.Gfid{4}, iatt.TypeDirectory)
	fd := inode.NewFd(in, 0)
	cache.Opendir(fd)

	entries, errno := cache.Readdirp(fd, 0, 4096)
	require.Zero(t, errno)
	require.Len(t, entries, 1)

	ctx := fdCtx(fd)
	require.True(t, ctx.State.Has(StateBypass))

	// A second call at offset 0 must still bypass straight through
	// rather than ever having cached anything.
	_, _ = cache.Readdirp(fd, 0, 4096)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestReaddirpBypassesOnceCacheLimitExceeded(t *testing.T) {
	fetch := func(fd *inode.Fd, offset, size uint64) ([]loc.Dirent, bool, int) {
		return makeEntries(offset + 1), false, 0
	}
	// dirEntryOverhead(32) + len("n")(1) = 33 bytes per entry, so a
	// limit of 10 lets the first fd's fill through (checked before it
	// runs, against a still-empty cache) but trips for the next fd once
	// that fill's bytes have been added to the process-wide total.
	cache := NewCache(Config{RequestSize: 4096, CacheLimit: 10}, fetch)

	tbl := inode.NewTable()
	in := tbl.GetOrCreate(iatt.Gfid{5}, iatt.TypeDirectory)
	fd1 := inode.NewFd(in, 0)
	cache.Opendir(fd1)

	_, errno := cache.Readdirp(fd1, 0, 4096)
	require.Zero(t, errno)

	// A second, independent fd on the same Cache now finds the
	// process-wide cache size already past the limit and bypasses
	// immediately instead of priming its own buffer.
	fd2 := inode.NewFd(in, 0)
	cache.Opendir(fd2)
	_, _ = cache.Readdirp(fd2, 0, 4096)

	ctx2 := fdCtx(fd2)
	require.True(t, ctx2.State.Has(StateBypass))
}

func TestReaddirpReturnsEntriesInPrefetchedOrder(t *testing.T) {
	want := makeEntries(1, 2, 3)
	fetch := func(fd *inode.Fd, offset, size uint64) ([]loc.Dirent, bool, int) {
		return want, true, 0
	}
	cache := NewCache(Config{RequestSize: 4096, LowWatermark: 0, CacheLimit: 1 << 20}, fetch)

	tbl := inode.NewTable()
	in := tbl.GetOrCreate(iatt.Gfid{2}, iatt.TypeDirectory)
	fd := inode.NewFd(in, 0)
	cache.Opendir(fd)

	got, errno := cache.Readdirp(fd, 0, 4096)
	require.Zero(t, errno)
	if diff := pretty.Compare(want, got); diff != "" {
		t.Fatalf("served entries differ from what was prefetched (-want +got):\n%s", diff)
	}
}
