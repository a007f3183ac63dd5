package inode

import (
	"testing"

	"github.com/gluster/glusterfs-sub025/iatt"
	"github.com/stretchr/testify/require"
)

func TestNewFdLinksOntoInode(t *testing.T) {
	tbl := NewTable()
	in := tbl.GetOrCreate(iatt.Gfid{1}, iatt.TypeRegular)
	fd := NewFd(in, FlagRead)
	require.Len(t, in.Files(0), 1)
	fd.Close()
	require.Len(t, in.Files(0), 0)
}

func TestFilesFiltersByMask(t *testing.T) {
	tbl := NewTable()
	in := tbl.GetOrCreate(iatt.Gfid{2}, iatt.TypeRegular)
	NewFd(in, FlagRead)
	NewFd(in, FlagWrite)

	require.Len(t, in.Files(0), 2)
	require.Len(t, in.Files(FlagWrite), 1)
}

func TestAnyFilePrefersWrite(t *testing.T) {
	tbl := NewTable()
	in := tbl.GetOrCreate(iatt.Gfid{3}, iatt.TypeRegular)
	r := NewFd(in, FlagRead)
	w := NewFd(in, FlagWrite)

	got := in.AnyFile()
	require.Same(t, w, got)
	_ = r
}

func TestFdCtxRoundTrip(t *testing.T) {
	tbl := NewTable()
	in := tbl.GetOrCreate(iatt.Gfid{4}, iatt.TypeRegular)
	fd := NewFd(in, FlagRead)
	fd.SetCtx("gen", 7)
	v, ok := fd.Ctx("gen")
	require.True(t, ok)
	require.Equal(t, 7, v)
}
