// Package xlator implements the translator graph runtime: the stackable
// FOP-dispatch machinery every component below the top-level interfaces
// is built out of (spec.md §2 C4 "Translator graph", C6 "Default FOP
// dispatch"). Grounded on fuse.RawFileSystem's wrapper-of-wrapper model
// (fuse/defaultraw.go, fuse/lockingfs.go, fuse/timingfs.go), generalized
// from FUSE's fixed 30-ish opcode set to a named, extensible FopName.
package xlator

import (
	"github.com/gluster/glusterfs-sub025/dict"
	"github.com/gluster/glusterfs-sub025/iatt"
	"github.com/gluster/glusterfs-sub025/loc"
)

// FopName identifies one filesystem operation in the dispatch table.
type FopName string

const (
	FopLookup     FopName = "lookup"
	FopStat       FopName = "stat"
	FopGetattr    FopName = "getattr"
	FopSetattr    FopName = "setattr"
	FopOpen       FopName = "open"
	FopOpendir    FopName = "opendir"
	FopReaddirp   FopName = "readdirp"
	FopRead       FopName = "read"
	FopWrite      FopName = "writev"
	FopFlush      FopName = "flush"
	FopFsync      FopName = "fsync"
	FopCreate     FopName = "create"
	FopMkdir      FopName = "mkdir"
	FopUnlink     FopName = "unlink"
	FopRmdir      FopName = "rmdir"
	FopRename     FopName = "rename"
	FopLink       FopName = "link"
	FopSymlink    FopName = "symlink"
	FopGetxattr   FopName = "getxattr"
	FopSetxattr   FopName = "setxattr"
	FopRemovexattr FopName = "removexattr"
	FopStatfs     FopName = "statfs"
	FopRelease    FopName = "release"
	FopReleasedir FopName = "releasedir"
)

// Args bundles the arguments a FOP may need. Not every field is
// meaningful for every FopName; this mirrors the original's per-call
// args struct generated by defaults-tmpl.c, collapsed into one type
// since Go has no macro-generated call-specific structs.
type Args struct {
	Loc     loc.Loc
	Loc2    loc.Loc // rename/link's second Loc
	Fd      interface{}
	Name    string
	Offset  uint64
	Size    uint64
	Data    []byte
	Dict    *dict.Dict
	Stat    iatt.Iatt
	ValidMask uint32
	Flags   uint32
}

// Result bundles a FOP's return value. OpErrno is zero on success.
type Result struct {
	OpErrno int
	Stat    iatt.Iatt
	PostStat iatt.Iatt
	Dirents []loc.Dirent
	Data    []byte
	Written uint32
	Dict    *dict.Dict
}

// Ok reports whether the Result represents success.
func (r Result) Ok() bool { return r.OpErrno == 0 }

// CbkFunc is the callback a FOP invokes exactly once, winding back down
// the stack to whichever frame initiated the call.
type CbkFunc func(frame *Frame, this *Translator, res Result)

// FopFunc is a translator's implementation of one dispatch-table entry.
// It must eventually call cbk exactly once.
type FopFunc func(frame *Frame, this *Translator, args Args, cbk CbkFunc)
