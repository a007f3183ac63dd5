package ops

import (
	"strconv"

	"github.com/gluster/glusterfs-sub025/errkind"
	"github.com/gluster/glusterfs-sub025/options"
	"github.com/gluster/glusterfs-sub025/opsm"
	"github.com/gluster/glusterfs-sub025/store"
)

// volumeOptionSchema is the set of volume-level options SetVolume
// validates keys/values against — a representative slice of the
// options glusterd's volume-set table exposes, not an exhaustive
// reproduction (spec.md's Non-goals exclude reproducing every
// translator's full option catalog).
var volumeOptionSchema = options.NewSchema(
	options.Descriptor{Key: "performance.readdir-ahead", Type: options.TypeBool},
	options.Descriptor{Key: "performance.cache-size", Type: options.TypeSizeBytes},
	options.Descriptor{Key: "network.ping-timeout", Type: options.TypeTime},
	options.Descriptor{Key: "cluster.quorum-type", Type: options.TypeStringEnum,
		Enum: []string{"none", "auto", "fixed"}},
	options.Descriptor{Key: "diagnostics.latency-measurement", Type: options.TypeBool},
)

func init() {
	register(opsm.OpSetVolume, Handler{
		StageValidate: setVolumeStageValidate,
		CommitPerform: setVolumeCommitPerform,
		BuildDict:     genericHandler.BuildDict,
	})
}

// setVolumeKeyValues decodes the count/key0..keyN/value0..valueN wire
// encoding spec.md §6 gives for SetVolume into an ordered slice of
// pairs.
func setVolumeKeyValues(ctx *opsm.Context) ([][2]string, error) {
	countStr, ok := ctx.OpCtx["count"]
	if !ok {
		return nil, errkind.New(errkind.InvalidArgument, "ops: setvolume requires count")
	}
	count, err := strconv.Atoi(countStr)
	if err != nil || count < 0 {
		return nil, errkind.New(errkind.InvalidArgument, "ops: setvolume count is not a valid non-negative integer")
	}

	pairs := make([][2]string, 0, count)
	for i := 0; i < count; i++ {
		k, kok := ctx.OpCtx["key"+strconv.Itoa(i)]
		v, vok := ctx.OpCtx["value"+strconv.Itoa(i)]
		if !kok || !vok {
			return nil, errkind.New(errkind.InvalidArgument, "ops: setvolume missing key/value pair "+strconv.Itoa(i))
		}
		pairs = append(pairs, [2]string{k, v})
	}
	return pairs, nil
}

// setVolumeStageValidate validates every key against the schema,
// suggesting the closest known key on an unrecognized one — the
// "did you mean" behavior ported from options.c (see options.Suggest).
func setVolumeStageValidate(ctx *opsm.Context, vol *store.VolumeInfo) error {
	if vol == nil {
		return errkind.New(errkind.NotFound, "ops: volume "+volnameOf(ctx)+" not found")
	}
	pairs, err := setVolumeKeyValues(ctx)
	if err != nil {
		return err
	}
	for _, kv := range pairs {
		key, value := kv[0], kv[1]
		desc, _, ok := volumeOptionSchema.Match(key)
		if !ok {
			msg := "ops: unrecognized option " + key
			if suggestion, ok := options.Suggest(volumeOptionSchema, key); ok {
				msg += " (did you mean " + suggestion + "?)"
			}
			return errkind.New(errkind.InvalidArgument, msg)
		}
		if _, err := options.ValidateOne(desc, value); err != nil {
			return errkind.Wrap(errkind.InvalidArgument, err, "ops: setvolume")
		}
	}
	return nil
}

// setVolumeCommitPerform writes every validated key/value into vol's
// persisted options dict and saves the new volinfo version.
func setVolumeCommitPerform(ctx *opsm.Context, s *store.Store, vol *store.VolumeInfo) (*store.VolumeInfo, error) {
	pairs, err := setVolumeKeyValues(ctx)
	if err != nil {
		return nil, err
	}
	next := vol.Clone()
	for _, kv := range pairs {
		desc, _, ok := volumeOptionSchema.Match(kv[0])
		key := kv[0]
		if ok {
			key = desc.Key
		}
		next.Options[key] = kv[1]
	}
	if err := s.Save(next); err != nil {
		return nil, err
	}
	return next, nil
}
