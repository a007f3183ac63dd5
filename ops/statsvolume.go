package ops

import (
	"sort"
	"strconv"

	"github.com/gluster/glusterfs-sub025/errkind"
	"github.com/gluster/glusterfs-sub025/latency"
	"github.com/gluster/glusterfs-sub025/opsm"
	"github.com/gluster/glusterfs-sub025/store"
)

// StatsOp enumerates the StatsVolume sub-operation, spec.md §6's
// `op` ∈ {None, Start, Stop, Info, Top}.
type StatsOp int

const (
	StatsOpNone StatsOp = iota
	StatsOpStart
	StatsOpStop
	StatsOpInfo
	StatsOpTop
)

// StatsLatencyMap is the shared latency instrumentation StatsVolume
// toggles and reads from. A package-level var (rather than a field
// threaded through opsm.Context) mirrors the original's single
// process-wide profiling state per translator graph.
var StatsLatencyMap = latency.NewMap()

func init() {
	register(opsm.OpProfileVolume, Handler{
		StageValidate: statsVolumeStageValidate,
		BrickSelect:   profileBrickSelect,
		CommitPerform: statsVolumeCommitPerform,
		BuildDict:     statsVolumeBuildDict,
	})
}

func statsVolumeStageValidate(ctx *opsm.Context, vol *store.VolumeInfo) error {
	if vol == nil {
		return errkind.New(errkind.NotFound, "ops: volume "+volnameOf(ctx)+" not found")
	}
	opStr, ok := ctx.OpCtx["op"]
	if !ok {
		return errkind.New(errkind.InvalidArgument, "ops: statsvolume requires op")
	}
	n, err := strconv.Atoi(opStr)
	if err != nil || n < int(StatsOpNone) || n > int(StatsOpTop) {
		return errkind.New(errkind.InvalidArgument, "ops: statsvolume op out of range")
	}
	if StatsOp(n) == StatsOpTop && ctx.OpCtx["brick"] == "" {
		return errkind.New(errkind.InvalidArgument, "ops: statsvolume top requires brick")
	}
	return nil
}

// profileBrickSelect narrows the brick-op fan-out to a single brick
// for Top, and to every brick otherwise — spec.md §4.7's "brick
// selection is non-trivial only for stop/remove/profile/heal".
func profileBrickSelect(ctx *opsm.Context, vol *store.VolumeInfo) []store.BrickInfo {
	opStr := ctx.OpCtx["op"]
	n, _ := strconv.Atoi(opStr)
	if StatsOp(n) != StatsOpTop {
		return vol.Bricks
	}
	target := ctx.OpCtx["brick"]
	for _, b := range vol.Bricks {
		if b.FileName() == target {
			return []store.BrickInfo{b}
		}
	}
	return nil
}

// statsVolumeCommitPerform toggles StatsLatencyMap per op; Info/Top
// only read it, so neither bumps the store's persisted version.
func statsVolumeCommitPerform(ctx *opsm.Context, s *store.Store, vol *store.VolumeInfo) (*store.VolumeInfo, error) {
	n, _ := strconv.Atoi(ctx.OpCtx["op"])
	switch StatsOp(n) {
	case StatsOpStart:
		StatsLatencyMap.Enable()
	case StatsOpStop:
		StatsLatencyMap.Disable()
	}
	return vol, nil
}

// statsVolumeBuildDict reports per-(xlator,fop) counters from this
// node's StatsLatencyMap for Info/Top; Start/Stop just echo the new
// toggle state.
func statsVolumeBuildDict(ctx *opsm.Context, vol *store.VolumeInfo) map[string]string {
	n, _ := strconv.Atoi(ctx.OpCtx["op"])
	dict := map[string]string{"volname": vol.Name, "enabled": strconv.FormatBool(StatsLatencyMap.Enabled())}
	if StatsOp(n) != StatsOpInfo && StatsOp(n) != StatsOpTop {
		return dict
	}
	counts := StatsLatencyMap.Counts()
	xlators := make([]string, 0, len(counts))
	for x := range counts {
		xlators = append(xlators, x)
	}
	sort.Strings(xlators)
	for _, x := range xlators {
		fops := make([]string, 0, len(counts[x]))
		for f := range counts[x] {
			fops = append(fops, f)
		}
		sort.Strings(fops)
		for _, f := range fops {
			dict[x+"."+f+".count"] = strconv.FormatInt(counts[x][f], 10)
		}
	}
	return dict
}
