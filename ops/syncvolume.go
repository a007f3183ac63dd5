package ops

import (
	"github.com/gluster/glusterfs-sub025/errkind"
	"github.com/gluster/glusterfs-sub025/opsm"
	"github.com/gluster/glusterfs-sub025/store"
)

// RemoteFetcher pulls volume definitions from a remote peer. The real
// implementation lives on the other side of the transport boundary
// (spec.md §1 keeps wire framing out of scope); SyncVolume's
// CommitPerform calls through this narrow interface so the op stays
// unit-testable against a fake.
type RemoteFetcher interface {
	FetchVolumes(hostname string) ([]*store.VolumeInfo, error)
}

// Fetcher is the RemoteFetcher SyncVolume uses; nil until the
// transport/cmd wiring sets it, since this core has no fetcher of its
// own (the whole point of SyncVolume is to reach outside it).
var Fetcher RemoteFetcher

func init() {
	register(opsm.OpSyncVolume, Handler{
		StageValidate: syncVolumeStageValidate,
		CommitPerform: syncVolumeCommitPerform,
		BuildDict: func(ctx *opsm.Context, vol *store.VolumeInfo) map[string]string {
			return map[string]string{"hostname": ctx.OpCtx["hostname"]}
		},
	})
}

// syncVolumeStageValidate only requires hostname; volname is optional
// (sync either one named volume or every volume known to the peer).
// vol is therefore expected to be nil here — SyncVolume is the one op
// in this package whose StageValidate does not require an existing
// local volume record.
func syncVolumeStageValidate(ctx *opsm.Context, vol *store.VolumeInfo) error {
	if ctx.OpCtx["hostname"] == "" {
		return errkind.New(errkind.InvalidArgument, "ops: syncvolume requires hostname")
	}
	return nil
}

// syncVolumeCommitPerform pulls volume definitions from the named peer
// and persists each one, optionally narrowed to a single volname.
func syncVolumeCommitPerform(ctx *opsm.Context, s *store.Store, vol *store.VolumeInfo) (*store.VolumeInfo, error) {
	if Fetcher == nil {
		return nil, errkind.New(errkind.TransientBackend, "ops: syncvolume has no remote fetcher configured")
	}
	fetched, err := Fetcher.FetchVolumes(ctx.OpCtx["hostname"])
	if err != nil {
		return nil, errkind.Wrap(errkind.TransientBackend, err, "ops: syncvolume fetch")
	}
	want := ctx.OpCtx["volname"]
	var last *store.VolumeInfo
	for _, v := range fetched {
		if want != "" && v.Name != want {
			continue
		}
		if err := s.Save(v); err != nil {
			return nil, err
		}
		last = v
	}
	if want != "" && last == nil {
		return nil, errkind.New(errkind.NotFound, "ops: syncvolume "+want+" not found on peer")
	}
	return last, nil
}
