package ops

import (
	"github.com/gluster/glusterfs-sub025/errkind"
	"github.com/gluster/glusterfs-sub025/opsm"
	"github.com/gluster/glusterfs-sub025/store"
)

// genericHandler backs every OpKind spec.md's CLI table doesn't spell
// out in detail. It requires only that volname name an existing
// volume, selects every brick (no narrowing), bumps the volume's
// version with no field changes, and echoes back volname — the
// minimum a cluster-op transaction needs to complete without special
// casing the op kind.
var genericHandler = Handler{
	StageValidate: func(ctx *opsm.Context, vol *store.VolumeInfo) error {
		if volnameOf(ctx) == "" {
			return errkind.New(errkind.InvalidArgument, "ops: volname is required")
		}
		if vol == nil {
			return errkind.New(errkind.NotFound, "ops: volume "+volnameOf(ctx)+" not found")
		}
		return nil
	},
	BrickSelect: func(ctx *opsm.Context, vol *store.VolumeInfo) []store.BrickInfo {
		return vol.Bricks
	},
	CommitPerform: func(ctx *opsm.Context, s *store.Store, vol *store.VolumeInfo) (*store.VolumeInfo, error) {
		next := vol.Clone()
		if err := s.Save(next); err != nil {
			return nil, err
		}
		return next, nil
	},
	BuildDict: func(ctx *opsm.Context, vol *store.VolumeInfo) map[string]string {
		return map[string]string{"volname": vol.Name}
	},
}
