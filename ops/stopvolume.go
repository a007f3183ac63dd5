package ops

import (
	"github.com/gluster/glusterfs-sub025/errkind"
	"github.com/gluster/glusterfs-sub025/opsm"
	"github.com/gluster/glusterfs-sub025/store"
)

func init() {
	register(opsm.OpStopVolume, Handler{
		StageValidate: stopVolumeStageValidate,
		BrickSelect:   stopVolumeBrickSelect,
		CommitPerform: stopVolumeCommitPerform,
		BuildDict:     genericHandler.BuildDict,
	})
}

func stopVolumeStageValidate(ctx *opsm.Context, vol *store.VolumeInfo) error {
	if vol == nil {
		return errkind.New(errkind.NotFound, "ops: volume "+volnameOf(ctx)+" not found")
	}
	if vol.Status != store.StatusStarted && ctx.OpCtx["force"] != "1" {
		return errkind.New(errkind.InvalidArgument, "ops: volume "+vol.Name+" is not started")
	}
	return nil
}

// stopVolumeBrickSelect narrows the brick-op fan-out to only the
// bricks this volume currently believes are running, so stopping an
// already-partially-down volume doesn't redundantly kill processes
// that aren't there.
func stopVolumeBrickSelect(ctx *opsm.Context, vol *store.VolumeInfo) []store.BrickInfo {
	var out []store.BrickInfo
	for _, b := range vol.Bricks {
		if b.Online {
			out = append(out, b)
		}
	}
	return out
}

func stopVolumeCommitPerform(ctx *opsm.Context, s *store.Store, vol *store.VolumeInfo) (*store.VolumeInfo, error) {
	next := vol.Clone()
	next.Status = store.StatusStopped
	for i := range next.Bricks {
		next.Bricks[i].Online = false
	}
	if err := s.Save(next); err != nil {
		return nil, err
	}
	return next, nil
}
