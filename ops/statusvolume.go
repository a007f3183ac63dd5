package ops

import (
	"strconv"

	"github.com/gluster/glusterfs-sub025/errkind"
	"github.com/gluster/glusterfs-sub025/opsm"
	"github.com/gluster/glusterfs-sub025/store"
)

func init() {
	register(opsm.OpStatusVolume, Handler{
		StageValidate: statusVolumeStageValidate,
		BrickSelect:   func(ctx *opsm.Context, vol *store.VolumeInfo) []store.BrickInfo { return vol.Bricks },
		CommitPerform: statusVolumeCommitPerform,
		BuildDict:     statusVolumeBuildDict,
	})
}

func statusVolumeStageValidate(ctx *opsm.Context, vol *store.VolumeInfo) error {
	if vol == nil {
		return errkind.New(errkind.NotFound, "ops: volume "+volnameOf(ctx)+" not found")
	}
	return nil
}

// statusVolumeCommitPerform is read-only: status never changes
// persisted state, so it hands back vol unmodified rather than
// bumping the store's version for a query.
func statusVolumeCommitPerform(ctx *opsm.Context, s *store.Store, vol *store.VolumeInfo) (*store.VolumeInfo, error) {
	return vol, nil
}

// statusVolumeBuildDict aggregates per-brick status into the reply
// dict, "brick_count" plus one "brick<i>" entry per participant —
// spec.md §6's "Aggregates per-brick status into reply dict".
func statusVolumeBuildDict(ctx *opsm.Context, vol *store.VolumeInfo) map[string]string {
	dict := map[string]string{
		"volname":     vol.Name,
		"status":      vol.Status.String(),
		"brick_count": strconv.Itoa(len(vol.Bricks)),
	}
	for i, b := range vol.Bricks {
		dict["brick"+strconv.Itoa(i)] = b.FileName()
	}
	return dict
}
