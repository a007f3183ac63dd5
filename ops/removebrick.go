package ops

import (
	"strconv"
	"strings"

	"github.com/gluster/glusterfs-sub025/errkind"
	"github.com/gluster/glusterfs-sub025/opsm"
	"github.com/gluster/glusterfs-sub025/store"
)

func init() {
	register(opsm.OpRemoveBrick, Handler{
		StageValidate: removeBrickStageValidate,
		BrickSelect:   removeBrickSelect,
		CommitPerform: removeBrickCommitPerform,
		BuildDict:     genericHandler.BuildDict,
	})
}

// removeBrickTargets decodes the count/brick0..brickN "host:path"
// wire encoding into the matching BrickInfo records.
func removeBrickTargets(ctx *opsm.Context, vol *store.VolumeInfo) ([]store.BrickInfo, error) {
	countStr, ok := ctx.OpCtx["count"]
	if !ok {
		return nil, errkind.New(errkind.InvalidArgument, "ops: removebrick requires count")
	}
	count, err := strconv.Atoi(countStr)
	if err != nil || count <= 0 {
		return nil, errkind.New(errkind.InvalidArgument, "ops: removebrick count is not a valid positive integer")
	}

	var targets []store.BrickInfo
	for i := 0; i < count; i++ {
		addr, ok := ctx.OpCtx["brick"+strconv.Itoa(i)]
		if !ok {
			return nil, errkind.New(errkind.InvalidArgument, "ops: removebrick missing brick"+strconv.Itoa(i))
		}
		host, path, found := strings.Cut(addr, ":")
		if !found {
			return nil, errkind.New(errkind.InvalidArgument, "ops: removebrick malformed brick address "+addr)
		}
		b, ok := vol.BrickByAddress(host, path)
		if !ok {
			return nil, errkind.New(errkind.NotFound, "ops: removebrick "+addr+" is not part of "+vol.Name)
		}
		targets = append(targets, b)
	}
	return targets, nil
}

func removeBrickStageValidate(ctx *opsm.Context, vol *store.VolumeInfo) error {
	if vol == nil {
		return errkind.New(errkind.NotFound, "ops: volume "+volnameOf(ctx)+" not found")
	}
	targets, err := removeBrickTargets(ctx, vol)
	if err != nil {
		return err
	}
	if len(targets) >= len(vol.Bricks) {
		return errkind.New(errkind.InvalidArgument, "ops: removebrick cannot remove every brick of "+vol.Name)
	}
	return nil
}

// removeBrickSelect narrows the brick-op fan-out to exactly the named
// bricks — the "non-trivial" selection spec.md §4.7 calls out for
// remove, as opposed to the all-bricks default.
func removeBrickSelect(ctx *opsm.Context, vol *store.VolumeInfo) []store.BrickInfo {
	targets, err := removeBrickTargets(ctx, vol)
	if err != nil {
		return nil
	}
	return targets
}

func removeBrickCommitPerform(ctx *opsm.Context, s *store.Store, vol *store.VolumeInfo) (*store.VolumeInfo, error) {
	targets, err := removeBrickTargets(ctx, vol)
	if err != nil {
		return nil, err
	}
	remove := map[string]bool{}
	for _, t := range targets {
		remove[t.FileName()] = true
	}
	next := vol.Clone()
	kept := next.Bricks[:0]
	for _, b := range next.Bricks {
		if !remove[b.FileName()] {
			kept = append(kept, b)
		}
	}
	next.Bricks = kept
	if err := s.Save(next); err != nil {
		return nil, err
	}
	return next, nil
}
