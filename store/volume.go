// Package store implements the persisted management-daemon layout
// described in spec.md §6: one directory per volume holding a flat
// key=value "info" file, one file per brick under "bricks/", and a
// global "options" file, rewritten whole on every version bump. No
// glusterd-store.c survives in original_source/, so the on-disk
// encoding is this package's own choice (an INI file with no sections,
// which is exactly a flat key=value bag); the directory layout and the
// "read only at bootstrap and on reconfigure" access pattern are
// carried verbatim from spec.md.
package store

import (
	"github.com/google/uuid"
)

// BrickInfo is one entry of a volume's brick list, stored as
// bricks/<host>:<path> with every "/" in the path replaced by "-".
type BrickInfo struct {
	Host string
	Path string

	// UUID is the owning peer's identity, so a brick survives a
	// hostname rename (spec.md's peer hostname-alias carried via
	// peer.Table.Resolve has the same motivation).
	UUID uuid.UUID

	// Online tracks whether this brick's process is currently
	// believed to be running; stop's brick-selection skips bricks
	// that are already down rather than sending them a redundant
	// kill.
	Online bool
}

// FileName is the brick's "<host>:<path>" address, the name brick ops
// carry; the on-disk leaf name is brickDiskName's flattened form.
func (b BrickInfo) FileName() string {
	return b.Host + ":" + b.Path
}

// VolumeInfo is the decoded form of a volume's "info" file plus its
// brick list and options, the in-memory record spec.md §3 calls out as
// the one additional persistent type implied by §6's layout.
type VolumeInfo struct {
	Name    string
	ID      uuid.UUID
	Version int
	Status  VolumeStatus
	Type    string // e.g. "Distribute", "Replicate" - opaque to this core

	Bricks  []BrickInfo
	Options map[string]string

	// ReplicaCount is the number of bricks forming one replica group,
	// consecutive runs of Bricks (1 means no replication). HealVolume's
	// brick-select uses it to pick one participant per group.
	ReplicaCount int
}

// VolumeStatus mirrors the coarse volume lifecycle state persisted in
// the info file.
type VolumeStatus int

const (
	StatusCreated VolumeStatus = iota
	StatusStarted
	StatusStopped
)

func (s VolumeStatus) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusStarted:
		return "started"
	case StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

func parseVolumeStatus(s string) VolumeStatus {
	switch s {
	case "started":
		return StatusStarted
	case "stopped":
		return StatusStopped
	default:
		return StatusCreated
	}
}

// Clone returns a deep copy, used wherever a stage-validate pass needs
// to mutate a candidate without touching the committed record until
// commit_perform actually runs (spec.md's stage/commit split, §4.7).
func (v *VolumeInfo) Clone() *VolumeInfo {
	out := *v
	out.Bricks = make([]BrickInfo, len(v.Bricks))
	copy(out.Bricks, v.Bricks)
	out.Options = make(map[string]string, len(v.Options))
	for k, val := range v.Options {
		out.Options[k] = val
	}
	return &out
}

// BrickByAddress finds a brick by its "host:path" address.
func (v *VolumeInfo) BrickByAddress(host, path string) (BrickInfo, bool) {
	for _, b := range v.Bricks {
		if b.Host == host && b.Path == path {
			return b, true
		}
	}
	return BrickInfo{}, false
}
