package opsm

import (
	"golang.org/x/sync/errgroup"

	"github.com/gluster/glusterfs-sub025/peer"
)

// Driver is the set of RPC/local-effect hooks the transition table
// calls into. An originator (glusterd's cluster-op entry point)
// implements Driver against its peer table and local op handlers; the
// transition table itself stays pure data plus glue, independently
// testable against a fake Driver.
type Driver interface {
	// Peers returns every befriended, connected peer this transaction
	// should fan out to.
	Peers() []*peer.Peer

	// SendLock issues the cluster-lock RPC to p.
	SendLock(p *peer.Peer, ctx *Context) error
	// Lock acquires the local lock.
	Lock(ctx *Context) error
	// SendStageOp issues the stage RPC to p with a deep copy of ctx.OpCtx.
	SendStageOp(p *peer.Peer, ctx *Context) error
	// StageOp runs the local stage-validator.
	StageOp(ctx *Context) error
	// SendBrickOp issues the brick-level RPC to the op's selected bricks.
	SendBrickOp(ctx *Context) error
	// SendCommitOp issues the commit RPC to p.
	SendCommitOp(p *peer.Peer, ctx *Context) error
	// CommitOp runs the local commit.
	CommitOp(ctx *Context) error
	// SendUnlock issues the unlock RPC to p.
	SendUnlock(p *peer.Peer, ctx *Context) error
	// Unlock releases the local lock.
	Unlock(ctx *Context) error
	// Finish delivers the final op_ret/op_errstr back to the CLI caller.
	Finish(ctx *Context, result Result)
}

func acNone(m *Machine, ctx *Context) {}

// fanOut runs send against every peer concurrently via errgroup,
// waits for all of them, and reports whether any rejected — the
// "broadcast RPC to all befriended, connected peers; counts
// outstanding responses" pattern shared by send_lock/send_stage_op/
// send_commit_op/send_unlock, collapsed from the original's async
// per-reply counter into a single synchronous collection point.
func fanOut(m *Machine, ctx *Context, send func(p *peer.Peer) error) (anyRejected bool) {
	peers := m.driver.Peers()
	ctx.setPending(len(peers))
	if len(peers) == 0 {
		return false
	}
	var g errgroup.Group
	for _, p := range peers {
		p := p
		g.Go(func() error { return send(p) })
	}
	if err := g.Wait(); err != nil {
		ctx.RecordError(err.Error())
		return true
	}
	return false
}

// acSendLock broadcasts the cluster-lock RPC to every befriended,
// connected peer — glusterd_op_ac_send_lock.
func acSendLock(m *Machine, ctx *Context) {
	if fanOut(m, ctx, func(p *peer.Peer) error { return m.driver.SendLock(p, ctx) }) {
		m.Inject(EventRcvdRjt, ctx)
		return
	}
	m.Inject(EventAllAcc, ctx)
}

// acLock acquires the local lock and replies — glusterd_op_ac_lock.
func acLock(m *Machine, ctx *Context) {
	_ = m.driver.Lock(ctx)
}

// acRcvdLockAcc, and the other per-reply ac_rcvd_*_acc functions
// below, are no-ops here: fanOut already blocks until every
// peer has replied and injects the single collective event itself.
// They stay as distinct, named table entries (rather than collapsing
// onto acNone) so the transition table still documents which event
// the original associated with which per-reply action, in case a
// future transport wires real per-reply callbacks directly into the
// machine instead of going through Driver's synchronous fan-out.
func acRcvdLockAcc(m *Machine, ctx *Context) {}

// acSendStageOp deep-copies the op context and fans the stage RPC out
// to every peer, running the local stage-validator first —
// glusterd_op_ac_send_stage_op.
func acSendStageOp(m *Machine, ctx *Context) {
	if err := m.driver.StageOp(ctx); err != nil {
		ctx.RecordError(err.Error())
		m.Inject(EventRcvdRjt, ctx)
		return
	}
	if fanOut(m, ctx, func(p *peer.Peer) error { return m.driver.SendStageOp(p, ctx) }) {
		m.Inject(EventRcvdRjt, ctx)
		return
	}
	m.Inject(EventStageAcc, ctx)
}

// acStageOp runs the stage-validator against a remotely-received
// context (the participant side of send_stage_op).
func acStageOp(m *Machine, ctx *Context) {
	if err := m.driver.StageOp(ctx); err != nil {
		ctx.RecordError(err.Error())
		m.Inject(EventRcvdRjt, ctx)
		return
	}
	m.Inject(EventRcvdAcc, ctx)
}

func acRcvdStageOpAcc(m *Machine, ctx *Context) {}

// acStageOpFailed mirrors glusterd_op_ac_stage_op_failed's
// pending_count bookkeeping: the original decrements on every
// arriving reply (success or failure) and injects the collective
// AllAck once none remain outstanding. fanOut already blocked until
// every peer replied before the rejection that led here was even
// detected, so that count is already at zero by construction —
// inject AllAck immediately.
func acStageOpFailed(m *Machine, ctx *Context) {
	m.Inject(EventAllAck, ctx)
}

// acSendBrickOp selects the participating bricks for ctx.Op and fans
// the brick-level RPC out to them. Brick selection itself
// (non-trivial for stop/remove/profile/heal) lives in the ops
// package's OpKind plug-ins; Driver.SendBrickOp is expected to have
// already resolved the brick set via that registry.
func acSendBrickOp(m *Machine, ctx *Context) {
	if err := m.driver.SendBrickOp(ctx); err != nil {
		ctx.RecordError(err.Error())
		m.Inject(EventRcvdRjt, ctx)
		return
	}
	m.Inject(EventAllAck, ctx)
}

func acRcvdBrickOpAcc(m *Machine, ctx *Context) {}

// acBrickOpFailed handles a brick-op rejection. acSendBrickOp has
// already recorded the failing brick's error, and SendBrickOp hears
// from every brick before it returns, so in StateBrickOpFailed it
// injects AllAck at once, handing off to AckDrain the way
// acStageOpFailed does. In StateBrickCommitFailed it does nothing.
func acBrickOpFailed(m *Machine, ctx *Context) {
	if m.State() == StateBrickOpFailed {
		m.Inject(EventAllAck, ctx)
	}
}

// acSendCommitOp fans the commit RPC out to every peer after running
// the local commit.
func acSendCommitOp(m *Machine, ctx *Context) {
	if err := m.driver.CommitOp(ctx); err != nil {
		ctx.RecordError(err.Error())
		m.Inject(EventRcvdRjt, ctx)
		return
	}
	if fanOut(m, ctx, func(p *peer.Peer) error { return m.driver.SendCommitOp(p, ctx) }) {
		m.Inject(EventRcvdRjt, ctx)
		return
	}
	m.Inject(EventCommitAcc, ctx)
}

func acCommitOp(m *Machine, ctx *Context) {
	_ = m.driver.CommitOp(ctx)
}

func acRcvdCommitOpAcc(m *Machine, ctx *Context) {}

// acCommitOpFailed mirrors glusterd_op_ac_commit_op_failed the same
// way acStageOpFailed mirrors its stage counterpart.
func acCommitOpFailed(m *Machine, ctx *Context) {
	m.Inject(EventAllAck, ctx)
}

// acSendCommitFailed unwinds to the CLI with the aggregated
// op_errstr, past the point of no return, while still releasing
// locks — glusterd_op_ac_send_commit_failed.
func acSendCommitFailed(m *Machine, ctx *Context) {
	m.driver.Finish(ctx, Result{OK: false, ErrText: ctx.ErrString()})
	m.Inject(EventAllAck, ctx)
}

// acSendUnlock broadcasts the unlock RPC to every peer.
func acSendUnlock(m *Machine, ctx *Context) {
	fanOut(m, ctx, func(p *peer.Peer) error { return m.driver.SendUnlock(p, ctx) })
	m.Inject(EventAllAcc, ctx)
}

func acRcvdUnlockAcc(m *Machine, ctx *Context) {}

// acUnlockedAll releases the local lock and reports the final result
// to the CLI once every peer has acknowledged the unlock.
func acUnlockedAll(m *Machine, ctx *Context) {
	_ = m.driver.Unlock(ctx)
	m.driver.Finish(ctx, Result{OK: !ctx.Errored(), ErrText: ctx.ErrString()})
}

// acSendUnlockDrain handles the rejection that put the machine into
// AckDrain (and any further RcvdAcc/RcvdRjt that arrive there): since
// no further peer fan-out happens mid-drain, it sends nothing itself
// and just injects AllAck; the table's AckDrain→UnlockSent transition
// then runs acSendUnlock, which broadcasts the unlock —
// glusterd_op_ac_send_unlock_drain.
func acSendUnlockDrain(m *Machine, ctx *Context) {
	m.Inject(EventAllAck, ctx)
}

// acUnlock releases the local lock directly (the Unlock event fired
// from any state on an abrupt cancellation).
func acUnlock(m *Machine, ctx *Context) {
	_ = m.driver.Unlock(ctx)
	m.driver.Finish(ctx, Result{OK: !ctx.Errored(), ErrText: ctx.ErrString()})
}

// acLocalUnlock releases the local lock without waiting for peer
// unlock acknowledgements (the no-response path used when nothing was
// ever sent out).
func acLocalUnlock(m *Machine, ctx *Context) {
	_ = m.driver.Unlock(ctx)
}
