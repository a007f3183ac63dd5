// Package ops implements the per-operation plug-in set (C12):
// stage-validate, brick-select, commit-perform and a wire-dict builder
// per opsm.OpKind, looked up by opsm.Driver's local op handlers from a
// registry keyed on the same enum. Grounded on
// original_source/xlators/mgmt/glusterd/src/glusterd-op-sm.c's per-op
// dispatch tables and spec.md §6's CLI surface table
// (ResetVolume/SetVolume/StatsVolume/StatusVolume/SyncVolume).
package ops

import (
	"github.com/gluster/glusterfs-sub025/opsm"
	"github.com/gluster/glusterfs-sub025/store"
)

// Handler is one op's four-function plug-in set.
type Handler struct {
	// StageValidate runs on every participant (originator and peers)
	// before any state changes: it must not mutate the store.
	StageValidate func(ctx *opsm.Context, vol *store.VolumeInfo) error

	// BrickSelect returns the subset of vol's bricks this op's
	// brick-level RPC phase should fan out to. Nil means "all bricks"
	// (the common case); only stop/remove/profile/heal narrow it.
	BrickSelect func(ctx *opsm.Context, vol *store.VolumeInfo) []store.BrickInfo

	// CommitPerform applies the op's effect to a clone of vol and
	// saves it, returning the new record.
	CommitPerform func(ctx *opsm.Context, s *store.Store, vol *store.VolumeInfo) (*store.VolumeInfo, error)

	// BuildDict renders ctx's result back into wire-shaped key/value
	// pairs for the CLI reply.
	BuildDict func(ctx *opsm.Context, vol *store.VolumeInfo) map[string]string
}

// registry is the OpKind -> Handler lookup table, populated by each
// op's init in this package.
var registry = map[opsm.OpKind]Handler{}

func register(kind opsm.OpKind, h Handler) {
	registry[kind] = h
}

// Lookup returns the Handler for kind, falling back to a generic
// pass-through handler for ops spec.md's CLI table doesn't give a
// detailed entry for (create/start/delete/add-brick/replace-brick/
// log-filename/log-rotate/sync-volume's sibling ops/gsync/quota/
// log-level/rebalance/statedump): these still need a complete,
// well-formed plug-in rather than a nil one, just not a bespoke one.
func Lookup(kind opsm.OpKind) Handler {
	if h, ok := registry[kind]; ok {
		return h
	}
	return genericHandler
}

// VolnameOf reads the volname every op's OpCtx carries under the same
// key, for callers outside this package (the glusterd.Daemon driver)
// that need to look a volume up before dispatching into a Handler.
func VolnameOf(ctx *opsm.Context) string {
	return ctx.OpCtx["volname"]
}

func volnameOf(ctx *opsm.Context) string {
	return VolnameOf(ctx)
}
