package ops

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gluster/glusterfs-sub025/opsm"
	"github.com/gluster/glusterfs-sub025/store"
)

func newTestVolume(t *testing.T, replicaCount int, bricks ...store.BrickInfo) *store.VolumeInfo {
	t.Helper()
	return &store.VolumeInfo{
		Name:         "testvol",
		ID:           uuid.New(),
		Status:       store.StatusStarted,
		ReplicaCount: replicaCount,
		Bricks:       bricks,
		Options:      map[string]string{},
	}
}

func TestSetVolumeStageValidateRejectsUnknownKey(t *testing.T) {
	ctx := opsm.NewContext(opsm.OpSetVolume)
	ctx.OpCtx["volname"] = "testvol"
	ctx.OpCtx["count"] = "1"
	ctx.OpCtx["key0"] = "performance.readdir-ahed" // typo
	ctx.OpCtx["value0"] = "on"
	vol := newTestVolume(t, 1)

	h := Lookup(opsm.OpSetVolume)
	err := h.StageValidate(ctx, vol)
	require.Error(t, err)
	require.Contains(t, err.Error(), "did you mean")
}

func TestSetVolumeCommitPerformWritesOption(t *testing.T) {
	dir := t.TempDir()
	s := store.New(dir)
	ctx := opsm.NewContext(opsm.OpSetVolume)
	ctx.OpCtx["volname"] = "testvol"
	ctx.OpCtx["count"] = "1"
	ctx.OpCtx["key0"] = "performance.readdir-ahead"
	ctx.OpCtx["value0"] = "true"
	vol := newTestVolume(t, 1)
	require.NoError(t, s.Save(vol))

	h := Lookup(opsm.OpSetVolume)
	require.NoError(t, h.StageValidate(ctx, vol))
	next, err := h.CommitPerform(ctx, s, vol)
	require.NoError(t, err)
	require.Equal(t, "true", next.Options["performance.readdir-ahead"])
}

func TestStopVolumeBrickSelectSkipsOfflineBricks(t *testing.T) {
	vol := newTestVolume(t, 1,
		store.BrickInfo{Host: "a", Path: "/x", Online: true},
		store.BrickInfo{Host: "b", Path: "/y", Online: false},
	)
	h := Lookup(opsm.OpStopVolume)
	selected := h.BrickSelect(opsm.NewContext(opsm.OpStopVolume), vol)
	require.Len(t, selected, 1)
	require.Equal(t, "a", selected[0].Host)
}

func TestRemoveBrickSelectPicksOnlyNamedBricks(t *testing.T) {
	vol := newTestVolume(t, 1,
		store.BrickInfo{Host: "a", Path: "/x"},
		store.BrickInfo{Host: "b", Path: "/y"},
		store.BrickInfo{Host: "c", Path: "/z"},
	)
	ctx := opsm.NewContext(opsm.OpRemoveBrick)
	ctx.OpCtx["count"] = "1"
	ctx.OpCtx["brick0"] = "b:/y"

	h := Lookup(opsm.OpRemoveBrick)
	require.NoError(t, h.StageValidate(ctx, vol))
	selected := h.BrickSelect(ctx, vol)
	require.Len(t, selected, 1)
	require.Equal(t, "b", selected[0].Host)
}

func TestRemoveBrickStageValidateRejectsRemovingEveryBrick(t *testing.T) {
	vol := newTestVolume(t, 1, store.BrickInfo{Host: "a", Path: "/x"})
	ctx := opsm.NewContext(opsm.OpRemoveBrick)
	ctx.OpCtx["count"] = "1"
	ctx.OpCtx["brick0"] = "a:/x"

	h := Lookup(opsm.OpRemoveBrick)
	err := h.StageValidate(ctx, vol)
	require.Error(t, err)
}

func TestHealVolumeBrickSelectPicksUUIDMaxPerGroup(t *testing.T) {
	low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
	vol := newTestVolume(t, 2,
		store.BrickInfo{Host: "a", Path: "/x", UUID: low},
		store.BrickInfo{Host: "b", Path: "/y", UUID: high},
	)
	h := Lookup(opsm.OpHealVolume)
	require.NoError(t, h.StageValidate(opsm.NewContext(opsm.OpHealVolume), vol))
	selected := h.BrickSelect(opsm.NewContext(opsm.OpHealVolume), vol)
	require.Len(t, selected, 1)
	require.Equal(t, "b", selected[0].Host)
}

func TestHealVolumeRejectsNonReplicatedVolume(t *testing.T) {
	vol := newTestVolume(t, 1, store.BrickInfo{Host: "a", Path: "/x"})
	h := Lookup(opsm.OpHealVolume)
	err := h.StageValidate(opsm.NewContext(opsm.OpHealVolume), vol)
	require.Error(t, err)
}

func TestLookupFallsBackToGenericHandlerForUnlistedOp(t *testing.T) {
	h := Lookup(opsm.OpCreateVolume)
	require.NotNil(t, h.StageValidate)
	require.NotNil(t, h.CommitPerform)
}

func TestStatusVolumeBuildDictListsEveryBrick(t *testing.T) {
	vol := newTestVolume(t, 1,
		store.BrickInfo{Host: "a", Path: "/x"},
		store.BrickInfo{Host: "b", Path: "/y"},
	)
	h := Lookup(opsm.OpStatusVolume)
	dict := h.BuildDict(opsm.NewContext(opsm.OpStatusVolume), vol)
	require.Equal(t, "2", dict["brick_count"])
	require.Equal(t, "a:/x", dict["brick0"])
}
