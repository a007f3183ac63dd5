package loc

import "github.com/gluster/glusterfs-sub025/iatt"

// Dirent is a single readdirp-style directory entry: name plus the full
// stat the backend already had in hand, avoiding a second lookup round
// trip (spec.md §3 "Dirent"; grounded on fuse/direntry.go's DirEntry,
// generalized to also carry the stat and a per-entry xattr dict rather
// than only name/ino/mode for on-wire FUSE serialization).
type Dirent struct {
	Name  string
	Off   uint64
	Gfid  iatt.Gfid
	Type  iatt.Type
	Stat  iatt.Iatt
	Dict  map[string][]byte
}

// DirentList accumulates Dirent values returned by one readdirp call, in
// the order they should be replayed to the caller, with an offset cursor
// a subsequent readdirp resumes from — the Go-native analogue of
// fuse/direntry.go's DirEntryList, minus on-wire buffer packing (there is
// no FUSE protocol boundary in this module; callers consume the slice
// directly).
type DirentList struct {
	Entries []Dirent
}

// Add appends e to the list, returning true (capacity is unbounded;
// callers wanting a byte-budget behave like the original's "doesn't
// fit" case by checking Len() against their own limit before calling).
func (l *DirentList) Add(e Dirent) bool {
	l.Entries = append(l.Entries, e)
	return true
}

// Len reports the number of entries accumulated so far.
func (l *DirentList) Len() int { return len(l.Entries) }

// LastOffset returns the Off of the last entry added, or the starting
// offset if the list is still empty. A subsequent readdirp call resumes
// from this value.
func (l *DirentList) LastOffset(start uint64) uint64 {
	if len(l.Entries) == 0 {
		return start
	}
	return l.Entries[len(l.Entries)-1].Off
}
