package glusterd

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gluster/glusterfs-sub025/opsm"
	"github.com/gluster/glusterfs-sub025/peer"
	"github.com/gluster/glusterfs-sub025/store"
	"github.com/gluster/glusterfs-sub025/transport"
)

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	st := store.New(t.TempDir())
	vol := &store.VolumeInfo{
		Name:         "testvol",
		ID:           uuid.New(),
		Status:       store.StatusStarted,
		ReplicaCount: 1,
		Bricks: []store.BrickInfo{
			{Host: "node0", Path: "/bricks/a", Online: true},
		},
		Options: map[string]string{},
	}
	require.NoError(t, st.Save(vol))
	return New("node0", peer.NewTable(), st, transport.NewInProcess())
}

func TestRunOpSetVolumeSucceedsWithNoPeers(t *testing.T) {
	d := newTestDaemon(t)

	result, dict := d.RunOp(opsm.OpSetVolume, map[string]string{
		"volname": "testvol",
		"count":   "1",
		"key0":    "performance.readdir-ahead",
		"value0":  "true",
	})

	require.True(t, result.OK, result.ErrText)
	require.Equal(t, "testvol", dict["volname"])

	vol, ok := d.Store.Get("testvol")
	require.True(t, ok)
	require.Equal(t, "true", vol.Options["performance.readdir-ahead"])
}

func TestRunOpSetVolumeRejectsUnknownKey(t *testing.T) {
	d := newTestDaemon(t)

	result, _ := d.RunOp(opsm.OpSetVolume, map[string]string{
		"volname": "testvol",
		"count":   "1",
		"key0":    "bogus.key",
		"value0":  "on",
	})

	require.False(t, result.OK)
	require.NotEmpty(t, result.ErrText)
}

func TestRunOpStopVolumeMarksBricksOffline(t *testing.T) {
	d := newTestDaemon(t)

	result, _ := d.RunOp(opsm.OpStopVolume, map[string]string{"volname": "testvol"})
	require.True(t, result.OK, result.ErrText)

	vol, ok := d.Store.Get("testvol")
	require.True(t, ok)
	require.Equal(t, store.StatusStopped, vol.Status)
	require.False(t, vol.Bricks[0].Online)
}

func TestRunOpRejectsUnknownVolume(t *testing.T) {
	d := newTestDaemon(t)

	result, _ := d.RunOp(opsm.OpStatusVolume, map[string]string{"volname": "ghost"})
	require.False(t, result.OK)
	require.NotEmpty(t, result.ErrText)
}
