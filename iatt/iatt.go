// Package iatt implements the POSIX attribute record carried on every
// FOP that returns a stat (spec.md §3 "Iatt"), plus the ctime-ordering
// rule used by readdir-ahead's staleness checks.
package iatt

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Type enumerates the inode type, carried in Iatt's own Type field
// rather than in Mode, which holds only the permission bits.
type Type uint32

const (
	TypeUnknown Type = iota
	TypeRegular
	TypeDirectory
	TypeSymlink
	TypeBlockDev
	TypeCharDev
	TypeFifo
	TypeSocket
)

// Gfid is the 128-bit identifier stable across renames (spec.md
// "GFID").
type Gfid [16]byte

// RootGfid is the distinguished all-zero GFID with the high-bit root
// marker set, per spec.md §3 invariant (c).
var RootGfid = func() Gfid {
	var g Gfid
	g[0] = 0x80
	return g
}()

// IsRoot reports whether g is the root marker.
func (g Gfid) IsRoot() bool { return g == RootGfid }

func (g Gfid) IsZero() bool {
	var z Gfid
	return g == z
}

// Iatt is the POSIX-attribute snapshot returned with stat-bearing FOPs.
type Iatt struct {
	Gfid  Gfid
	Type  Type
	Mode  uint32
	Nlink uint32
	UID   uint32
	GID   uint32
	RDev  uint64
	Size  uint64
	Blocks uint64

	ATime, ATimeNsec int64
	MTime, MTimeNsec int64
	CTime, CTimeNsec int64
}

// Less implements the ordering invariant used for cache-staleness checks:
// lexicographic comparison of (ctime, ctime_nsec).
func (a Iatt) Less(b Iatt) bool {
	if a.CTime != b.CTime {
		return a.CTime < b.CTime
	}
	return a.CTimeNsec < b.CTimeNsec
}

// Skeleton returns the minimal record retained across an invalidating
// write whose callback carried no fresh stbuf: only gfid and type
// survive (spec.md §4.5 "update_iatts").
func (a Iatt) Skeleton() Iatt {
	return Iatt{Gfid: a.Gfid, Type: a.Type}
}

// FromFileInfo converts a live os.FileInfo (as returned by os.Lstat) into
// an Iatt, reading nanosecond-resolution times off the platform Stat_t.
// Grounded on rclone's backend/local/stat_unix.go stat() helper.
func FromFileInfo(fi os.FileInfo) Iatt {
	var out Iatt
	out.Size = uint64(fi.Size())
	out.Mode = uint32(fi.Mode().Perm())
	switch {
	case fi.IsDir():
		out.Type = TypeDirectory
	case fi.Mode()&os.ModeSymlink != 0:
		out.Type = TypeSymlink
	case fi.Mode()&os.ModeSocket != 0:
		out.Type = TypeSocket
	case fi.Mode()&os.ModeNamedPipe != 0:
		out.Type = TypeFifo
	case fi.Mode()&os.ModeDevice != 0:
		if fi.Mode()&os.ModeCharDevice != 0 {
			out.Type = TypeCharDev
		} else {
			out.Type = TypeBlockDev
		}
	default:
		out.Type = TypeRegular
	}

	if st, ok := fi.Sys().(*unix.Stat_t); ok {
		out.Nlink = uint32(st.Nlink)
		out.UID = st.Uid
		out.GID = st.Gid
		out.RDev = uint64(st.Rdev)
		out.Blocks = uint64(st.Blocks)
		out.ATime, out.ATimeNsec = st.Atim.Sec, int64(st.Atim.Nsec)
		out.MTime, out.MTimeNsec = st.Mtim.Sec, int64(st.Mtim.Nsec)
		out.CTime, out.CTimeNsec = st.Ctim.Sec, int64(st.Ctim.Nsec)
		return out
	}

	mt := fi.ModTime()
	out.MTime, out.MTimeNsec = mt.Unix(), int64(mt.Nanosecond())
	out.CTime, out.CTimeNsec = out.MTime, out.MTimeNsec
	out.ATime, out.ATimeNsec = out.MTime, out.MTimeNsec
	return out
}

// MTimeAsTime reconstructs a time.Time from the mtime fields, a convenience for
// logging and the persisted-state layout.
func (a Iatt) MTimeAsTime() time.Time {
	return time.Unix(a.MTime, a.MTimeNsec)
}
