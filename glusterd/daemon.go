// Package glusterd wires opsm.Machine to the pieces a real cluster
// member needs: peer.Table for its membership view, store.Store for
// its persisted volume records, ops.Lookup for per-op behavior, and a
// transport.Transport for the RPCs opsm.Driver's Send* methods issue.
// It is the glusterd_op_sm.c dispatch table's runtime counterpart:
// where opsm decides WHEN to call Lock/StageOp/CommitOp/Unlock, Daemon
// decides WHAT each of those calls actually does on this node.
package glusterd

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/gluster/glusterfs-sub025/errkind"
	"github.com/gluster/glusterfs-sub025/ops"
	"github.com/gluster/glusterfs-sub025/opsm"
	"github.com/gluster/glusterfs-sub025/peer"
	"github.com/gluster/glusterfs-sub025/store"
	"github.com/gluster/glusterfs-sub025/transport"
)

// Daemon implements opsm.Driver over a real peer table, a real store
// and a pluggable transport. One Daemon serves one cluster member;
// spec.md's OpInfo is a process-wide singleton, so Daemon only ever
// runs one transaction at a time and RunOp serializes callers behind
// opMu rather than letting two transactions share a Machine.
type Daemon struct {
	SelfAddr  string
	PeerTable *peer.Table
	Store     *store.Store
	Transport transport.Transport

	opMu     sync.Mutex
	mu       sync.Mutex
	locked   bool
	resultCh chan opsm.Result
}

// New returns a Daemon ready to drive transactions for selfAddr.
func New(selfAddr string, peers *peer.Table, st *store.Store, tr transport.Transport) *Daemon {
	return &Daemon{SelfAddr: selfAddr, PeerTable: peers, Store: st, Transport: tr}
}

// addressOf picks the hostname a Transport.Send should dial for p.
// The zero-index hostname is the primary address; a peer created with
// no hostname yields "".
func addressOf(p *peer.Peer) string {
	hosts := p.Hostnames()
	if len(hosts) == 0 {
		return ""
	}
	return hosts[0]
}

// RunOp drives one full lock/stage/brick/commit/unlock transaction to
// completion and returns the CLI-facing result plus whatever BuildDict
// produced, merged back into opCtx.
func (d *Daemon) RunOp(op opsm.OpKind, opCtx map[string]string) (opsm.Result, map[string]string) {
	d.opMu.Lock()
	defer d.opMu.Unlock()

	ctx := opsm.NewContext(op)
	for k, v := range opCtx {
		ctx.OpCtx[k] = v
	}
	ctx.Originator = d.SelfAddr

	done := make(chan opsm.Result, 1)
	d.mu.Lock()
	d.resultCh = done
	d.mu.Unlock()

	m := opsm.New(d)
	m.Inject(opsm.EventStartLock, ctx)
	result := <-done

	return result, ctx.OpCtx
}

// Peers returns every befriended, connected peer this transaction
// should fan out to, as opsm.Driver.Peers describes; a befriended peer
// whose connection is down is left out.
func (d *Daemon) Peers() []*peer.Peer {
	var out []*peer.Peer
	for _, p := range d.PeerTable.Befriended() {
		if p.Connected() {
			out = append(out, p)
		}
	}
	return out
}

func (d *Daemon) sendRPC(ctx context.Context, p *peer.Peer, op string, opCtx *opsm.Context) error {
	payload := d.annotatedPayload(opCtx)
	resp, err := d.Transport.Send(ctx, addressOf(p), transport.Request{ID: op, Op: op, Payload: payload})
	if err != nil {
		return errkind.Wrap(errkind.TransientBackend, err, "glusterd: "+op+" to "+addressOf(p))
	}
	if !resp.OK {
		return errkind.New(errkind.Conflict, resp.ErrText)
	}
	return nil
}

func (d *Daemon) SendLock(p *peer.Peer, ctx *opsm.Context) error {
	return d.sendRPC(context.Background(), p, "lock", ctx)
}

func (d *Daemon) Lock(ctx *opsm.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.locked {
		return errkind.New(errkind.Conflict, "glusterd: another transaction already holds the cluster lock")
	}
	d.locked = true
	return nil
}

func (d *Daemon) SendStageOp(p *peer.Peer, ctx *opsm.Context) error {
	return d.sendRPC(context.Background(), p, "stage", ctx)
}

func (d *Daemon) StageOp(ctx *opsm.Context) error {
	vol, _ := d.Store.Get(ops.VolnameOf(ctx))
	return ops.Lookup(ctx.Op).StageValidate(ctx, vol)
}

// SendBrickOp fans the brick-level phase out to the op's selected
// bricks itself rather than to peer.Table's membership, since brick
// selection (C12's stop/remove/profile/heal narrowing) operates on
// store.BrickInfo, not peer.Peer. A brick hosted on SelfAddr is handled
// in-process by localBrickOp rather than sent over the transport.
func (d *Daemon) SendBrickOp(ctx *opsm.Context) error {
	vol, _ := d.Store.Get(ops.VolnameOf(ctx))
	if vol == nil {
		return nil
	}
	h := ops.Lookup(ctx.Op)
	bricks := vol.Bricks
	if h.BrickSelect != nil {
		bricks = h.BrickSelect(ctx, vol)
	}
	var firstErr error
	for _, b := range bricks {
		if b.Host == d.SelfAddr {
			if err := d.localBrickOp(ctx, b.FileName()); err != nil && firstErr == nil {
				firstErr = err
			}
			continue
		}
		payload := d.annotatedPayload(ctx)
		payload["brick"] = b.FileName()
		resp, err := d.Transport.Send(context.Background(), b.Host, transport.Request{ID: "brick-op", Op: "brick-op", Payload: payload})
		switch {
		case err != nil && firstErr == nil:
			firstErr = errkind.Wrap(errkind.TransientBackend, err, "glusterd: brick-op to "+b.FileName())
		case err == nil && !resp.OK && firstErr == nil:
			firstErr = errkind.New(errkind.Conflict, resp.ErrText)
		}
	}
	return firstErr
}

func (d *Daemon) SendCommitOp(p *peer.Peer, ctx *opsm.Context) error {
	return d.sendRPC(context.Background(), p, "commit", ctx)
}

func (d *Daemon) CommitOp(ctx *opsm.Context) error {
	vol, _ := d.Store.Get(ops.VolnameOf(ctx))
	h := ops.Lookup(ctx.Op)
	next, err := h.CommitPerform(ctx, d.Store, vol)
	if err != nil {
		return err
	}
	if h.BuildDict == nil {
		return nil
	}
	for k, v := range h.BuildDict(ctx, next) {
		ctx.OpCtx[k] = v
	}
	return nil
}

func (d *Daemon) SendUnlock(p *peer.Peer, ctx *opsm.Context) error {
	return d.sendRPC(context.Background(), p, "unlock", ctx)
}

func (d *Daemon) Unlock(ctx *opsm.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.locked = false
	return nil
}

func (d *Daemon) Finish(ctx *opsm.Context, result opsm.Result) {
	logrus.WithFields(logrus.Fields{
		"op": ctx.Op, "ok": result.OK, "err": result.ErrText,
	}).Debug("glusterd: transaction finished")
	d.mu.Lock()
	ch := d.resultCh
	d.resultCh = nil
	d.mu.Unlock()
	if ch != nil {
		ch <- result
	}
}
