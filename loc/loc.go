// Package loc implements the path/identity bundle (Loc) passed to every
// path-based FOP, and the directory-listing accumulator (DirentList)
// handed back from readdir-family FOPs (spec.md §3 "Loc", "Dirent").
package loc

import (
	"path/filepath"

	"github.com/gluster/glusterfs-sub025/iatt"
)

// Loc identifies a filesystem object both by path (for lookup against a
// backend that only understands paths) and by the GFID/inode pair that
// stays stable across renames. Exactly one of the two identifications
// need be valid for any given FOP, per spec.md's Loc invariants.
type Loc struct {
	Path   string
	Name   string
	Gfid   iatt.Gfid
	ParGfid iatt.Gfid

	// Inode and ParentInode are opaque handles into the caller's inode
	// table; loc itself does not know their representation.
	Inode       interface{}
	ParentInode interface{}
}

// IsRoot reports whether l identifies the volume root.
func (l Loc) IsRoot() bool {
	return l.Gfid.IsRoot() || l.Path == "/"
}

// Copy returns an independent copy of l. Loc carries no reference-counted
// fields itself (the Inode handle's own refcounting is the inode table's
// responsibility), so this is a plain value copy.
func (l Loc) Copy() Loc {
	return l
}

// Touchup fills in Name and Path from each other when only one was
// supplied by the caller, mirroring the original loc_touchup convenience
// used right after a path-based lookup resolves a GFID.
func (l Loc) Touchup() Loc {
	if l.Path == "" && l.Name != "" {
		l.Path = l.Name
	}
	if l.Name == "" && l.Path != "" {
		l.Name = filepath.Base(l.Path)
	}
	return l
}

// BuildChild derives the Loc for a direct child named name of the
// directory identified by parent, inheriting parent's Gfid as ParGfid.
func BuildChild(parent Loc, name string) Loc {
	child := Loc{
		Name:        name,
		ParGfid:     parent.Gfid,
		ParentInode: parent.Inode,
	}
	if parent.Path != "" {
		child.Path = filepath.Join(parent.Path, name)
	}
	return child
}
