package ops

import (
	"github.com/gluster/glusterfs-sub025/errkind"
	"github.com/gluster/glusterfs-sub025/opsm"
	"github.com/gluster/glusterfs-sub025/store"
)

func init() {
	register(opsm.OpHealVolume, Handler{
		StageValidate: healVolumeStageValidate,
		BrickSelect:   healVolumeBrickSelect,
		CommitPerform: genericHandler.CommitPerform,
		BuildDict:     genericHandler.BuildDict,
	})
}

func healVolumeStageValidate(ctx *opsm.Context, vol *store.VolumeInfo) error {
	if vol == nil {
		return errkind.New(errkind.NotFound, "ops: volume "+volnameOf(ctx)+" not found")
	}
	if vol.ReplicaCount < 2 {
		return errkind.New(errkind.InvalidArgument, "ops: "+vol.Name+" is not a replicated volume")
	}
	return nil
}

// healVolumeBrickSelect picks exactly one participant per replica
// group using a UUID-max-wins rule, so each subvolume is healed by at
// most one node — spec.md §4.7's explicit heal brick-selection rule.
// Bricks are assumed laid out as consecutive runs of ReplicaCount,
// the usual glusterfs replica-set convention.
func healVolumeBrickSelect(ctx *opsm.Context, vol *store.VolumeInfo) []store.BrickInfo {
	if vol.ReplicaCount < 1 {
		return nil
	}
	var selected []store.BrickInfo
	for i := 0; i < len(vol.Bricks); i += vol.ReplicaCount {
		end := i + vol.ReplicaCount
		if end > len(vol.Bricks) {
			end = len(vol.Bricks)
		}
		group := vol.Bricks[i:end]
		winner := group[0]
		for _, b := range group[1:] {
			if uuidGreater(b.UUID[:], winner.UUID[:]) {
				winner = b
			}
		}
		selected = append(selected, winner)
	}
	return selected
}

func uuidGreater(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}
