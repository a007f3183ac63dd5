package ops

import (
	"github.com/gluster/glusterfs-sub025/errkind"
	"github.com/gluster/glusterfs-sub025/opsm"
	"github.com/gluster/glusterfs-sub025/store"
)

func init() {
	register(opsm.OpResetVolume, Handler{
		StageValidate: resetVolumeStageValidate,
		CommitPerform: resetVolumeCommitPerform,
		BuildDict:     genericHandler.BuildDict,
	})
}

// resetVolumeStageValidate requires volname and key (a single option
// key, or the literal string "all"); force is optional and otherwise
// unchecked here (it only affects whether a connected client blocks
// the reset, a transport-layer concern out of this core's scope).
func resetVolumeStageValidate(ctx *opsm.Context, vol *store.VolumeInfo) error {
	if vol == nil {
		return errkind.New(errkind.NotFound, "ops: volume "+volnameOf(ctx)+" not found")
	}
	key := ctx.OpCtx["key"]
	if key == "" {
		return errkind.New(errkind.InvalidArgument, "ops: resetvolume requires key")
	}
	if key != "all" {
		if _, _, ok := volumeOptionSchema.Match(key); !ok {
			return errkind.New(errkind.InvalidArgument, "ops: unrecognized option "+key)
		}
	}
	return nil
}

// resetVolumeCommitPerform removes key from the volume's options dict
// (or clears it entirely for "all") and saves the new version —
// "removes option from volinfo dict ... reconfigures services" per
// spec.md §6, minus the out-of-scope volfile/service reconfiguration.
func resetVolumeCommitPerform(ctx *opsm.Context, s *store.Store, vol *store.VolumeInfo) (*store.VolumeInfo, error) {
	next := vol.Clone()
	key := ctx.OpCtx["key"]
	if key == "all" {
		next.Options = map[string]string{}
	} else {
		delete(next.Options, key)
	}
	if err := s.Save(next); err != nil {
		return nil, err
	}
	return next, nil
}
