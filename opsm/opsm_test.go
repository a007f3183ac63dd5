package opsm

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gluster/glusterfs-sub025/errkind"
	"github.com/gluster/glusterfs-sub025/peer"
)

func mustUUID() uuid.UUID { return uuid.New() }

func indexOf(trace []State, s State) int {
	for i, v := range trace {
		if v == s {
			return i
		}
	}
	return -1
}

var errRejected = errkind.New(errkind.Conflict, "peer rejected stage")

// fakeDriver is a Driver whose RPCs are plain local function calls,
// letting tests drive the machine deterministically without any real
// transport.
type fakeDriver struct {
	mu      sync.Mutex
	peers   []*peer.Peer
	rejectStage map[*peer.Peer]bool

	result  *Result
	done    chan struct{}
}

func newFakeDriver(n int) *fakeDriver {
	d := &fakeDriver{
		rejectStage: map[*peer.Peer]bool{},
		done:        make(chan struct{}, 1),
	}
	for i := 0; i < n; i++ {
		d.peers = append(d.peers, peer.New(peer.StateBefriended, mustUUID(), "p"))
	}
	return d
}

func (d *fakeDriver) Peers() []*peer.Peer { return d.peers }

func (d *fakeDriver) SendLock(p *peer.Peer, ctx *Context) error      { return nil }
func (d *fakeDriver) Lock(ctx *Context) error                        { return nil }
func (d *fakeDriver) SendStageOp(p *peer.Peer, ctx *Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rejectStage[p] {
		return errRejected
	}
	return nil
}
func (d *fakeDriver) StageOp(ctx *Context) error                     { return nil }
func (d *fakeDriver) SendBrickOp(ctx *Context) error                 { return nil }
func (d *fakeDriver) SendCommitOp(p *peer.Peer, ctx *Context) error  { return nil }
func (d *fakeDriver) CommitOp(ctx *Context) error                    { return nil }
func (d *fakeDriver) SendUnlock(p *peer.Peer, ctx *Context) error    { return nil }
func (d *fakeDriver) Unlock(ctx *Context) error                      { return nil }
func (d *fakeDriver) Finish(ctx *Context, result Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r := result
	d.result = &r
	select {
	case d.done <- struct{}{}:
	default:
	}
}

func TestHappyPathTraceMatchesStopVolumeScenario(t *testing.T) {
	driver := newFakeDriver(2)
	m := New(driver)
	ctx := NewContext(OpStopVolume)
	ctx.OpCtx["volname"] = "V"

	m.Inject(EventStartLock, ctx)
	<-driver.done

	require.Equal(t, []State{
		StateDefault, StateLockSent, StateStageOpSent, StateBrickOpSent,
		StateCommitOpSent, StateUnlockSent, StateDefault,
	}, m.Trace())
	require.True(t, driver.result.OK)
}

func TestStageRejectionDrainsBeforeUnlock(t *testing.T) {
	driver := newFakeDriver(3)
	driver.rejectStage[driver.peers[1]] = true
	m := New(driver)
	ctx := NewContext(OpStopVolume)

	m.Inject(EventStartLock, ctx)
	<-driver.done

	trace := m.Trace()
	require.Contains(t, trace, StateStageOpFailed)
	require.Contains(t, trace, StateAckDrain)
	ackDrainIdx := indexOf(trace, StateAckDrain)
	unlockSentIdx := indexOf(trace, StateUnlockSent)
	require.Less(t, ackDrainIdx, unlockSentIdx, "AckDrain must appear before UnlockSent")
	require.False(t, driver.result.OK)
	require.NotEmpty(t, driver.result.ErrText)
}

func TestContextRecordErrorKeepsFirstNonEmpty(t *testing.T) {
	ctx := NewContext(OpSetVolume)
	ctx.RecordError("first failure")
	ctx.RecordError("second failure")
	require.Equal(t, "first failure", ctx.ErrString())
	require.True(t, ctx.Errored())
}

func TestStateStringsCoverAllStates(t *testing.T) {
	require.Equal(t, "Default", StateDefault.String())
	require.Equal(t, "Ack drain", StateAckDrain.String())
	require.Equal(t, "Invalid", State(999).String())
}
