package glusterd

import (
	"strconv"

	"github.com/gluster/glusterfs-sub025/errkind"
	"github.com/gluster/glusterfs-sub025/ops"
	"github.com/gluster/glusterfs-sub025/opsm"
	"github.com/gluster/glusterfs-sub025/transport"
)

// opKindKey is the one payload entry sendRPC adds beyond ctx.OpCtx
// itself: opsm.Context carries its OpKind out of band from OpCtx, so
// it has to be smuggled across the wire separately.
const opKindKey = "__opKind"

func (d *Daemon) annotatedPayload(ctx *opsm.Context) map[string]string {
	payload := make(map[string]string, len(ctx.OpCtx)+1)
	for k, v := range ctx.OpCtx {
		payload[k] = v
	}
	payload[opKindKey] = strconv.Itoa(int(ctx.Op))
	return payload
}

func contextFromPayload(payload map[string]string) *opsm.Context {
	n, _ := strconv.Atoi(payload[opKindKey])
	ctx := opsm.NewContext(opsm.OpKind(n))
	for k, v := range payload {
		if k != opKindKey {
			ctx.OpCtx[k] = v
		}
	}
	return ctx
}

// ServeHandler returns the transport.Handler a peer registers under
// its own address so other Daemons' SendLock/SendStageOp/SendBrickOp/
// SendCommitOp/SendUnlock can reach it — the RPC server side this
// core's Driver otherwise only exercises against itself via RunOp.
func (d *Daemon) ServeHandler() transport.Handler {
	return func(req transport.Request) transport.Response {
		ctx := contextFromPayload(req.Payload)
		var err error
		switch req.Op {
		case "lock":
			err = d.Lock(ctx)
		case "stage":
			err = d.StageOp(ctx)
		case "brick-op":
			err = d.localBrickOp(ctx, req.Payload["brick"])
		case "commit":
			err = d.CommitOp(ctx)
		case "unlock":
			err = d.Unlock(ctx)
		default:
			return transport.Response{ID: req.ID, OK: false, ErrText: "glusterd: unknown rpc " + req.Op}
		}
		if err != nil {
			return transport.Response{ID: req.ID, OK: false, ErrText: err.Error()}
		}
		return transport.Response{ID: req.ID, OK: true, Payload: ctx.OpCtx}
	}
}

// localBrickOp applies the brick-level phase to one brick named by
// "host:path" against this node's own store record — the receiving
// side's counterpart to Daemon.SendBrickOp's originator-side fan-out.
// Nothing in this demo runs a separate brick process to signal, so the
// only local effect is validating the brick actually belongs to the
// volume the RPC named.
func (d *Daemon) localBrickOp(ctx *opsm.Context, brick string) error {
	vol, ok := d.Store.Get(ops.VolnameOf(ctx))
	if !ok || vol == nil {
		return nil
	}
	for _, b := range vol.Bricks {
		if b.FileName() == brick {
			return nil
		}
	}
	return errkind.New(errkind.NotFound, "glusterd: brick "+brick+" is not part of volume "+vol.Name)
}
