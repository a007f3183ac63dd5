// Package opsm implements the cluster operation state machine: the
// originator-driven, multi-phase (lock -> stage -> brick-op -> commit
// -> unlock) transaction glusterd runs to apply an administrative
// operation across the trusted pool. Grounded on
// original_source/xlators/mgmt/glusterd/src/glusterd-op-sm.c — its
// state/event name tables, per-state transition arrays (around line
// 2930), and the send_*/rcvd_*_acc/drain action functions.
package opsm

import (
	"sync"
)

// State is a phase of the transaction, ported 1:1 from
// glusterd_op_sm_state_t / glusterd_op_sm_state_names.
type State int

const (
	StateDefault State = iota
	StateLockSent
	StateLocked
	StateStageOpSent
	StateStaged
	StateCommitOpSent
	StateCommitted
	StateUnlockSent
	StateStageOpFailed
	StateCommitOpFailed
	StateBrickOpSent
	StateBrickOpFailed
	StateBrickCommitted
	StateBrickCommitFailed
	StateAckDrain
	stateMax
)

func (s State) String() string {
	names := [...]string{
		"Default", "Lock sent", "Locked", "Stage op sent", "Staged",
		"Commit op sent", "Committed", "Unlock sent", "Stage op failed",
		"Commit op failed", "Brick op sent", "Brick op failed",
		"Brick op Committed", "Brick op Commit failed", "Ack drain",
	}
	if s < 0 || int(s) >= len(names) {
		return "Invalid"
	}
	return names[s]
}

// Event is a transition trigger, ported from glusterd_op_sm_event_type_t.
type Event int

const (
	EventNone Event = iota
	EventStartLock
	EventLock
	EventRcvdAcc
	EventAllAcc
	EventStageAcc
	EventCommitAcc
	EventRcvdRjt
	EventStageOp
	EventCommitOp
	EventUnlock
	EventStartUnlock
	EventAllAck
	EventLocalUnlockNoResp
	eventMax
)

func (e Event) String() string {
	names := [...]string{
		"none", "start-lock", "lock", "rcvd-acc", "all-acc", "stage-acc",
		"commit-acc", "rcvd-rjt", "stage-op", "commit-op", "unlock",
		"start-unlock", "all-ack", "local-unlock-no-resp",
	}
	if e < 0 || int(e) >= len(names) {
		return "invalid"
	}
	return names[e]
}

// OpKind enumerates the supported cluster operations, looked up by
// the ops package's per-op plug-in registry (C12).
type OpKind int

const (
	OpCreateVolume OpKind = iota
	OpStartVolume
	OpStopVolume
	OpDeleteVolume
	OpAddBrick
	OpReplaceBrick
	OpRemoveBrick
	OpSetVolume
	OpResetVolume
	OpLogFilename
	OpLogRotate
	OpSyncVolume
	OpGsyncSet
	OpProfileVolume
	OpQuota
	OpLogLevel
	OpStatusVolume
	OpRebalance
	OpHealVolume
	OpStatedumpVolume
)

// Context is the per-transaction working state carried across the
// state machine's lifetime — the fields of glusterd_op_info_t plus
// the bits each action needs to decide when to self-inject a
// collective event.
type Context struct {
	Op       OpKind
	OpCtx    map[string]string
	Originator string

	mu           sync.Mutex
	pendingPeers int
	errString    string
	errored      bool
	PendingNodes []string
}

func NewContext(op OpKind) *Context {
	return &Context{Op: op, OpCtx: map[string]string{}}
}

// setPending records how many peer replies a fan-out is currently
// waiting on, surfaced for observability/tests; fanOut itself
// collects all replies synchronously via errgroup rather than relying
// on a decrement-to-zero callback.
func (c *Context) setPending(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingPeers = n
}

// PendingPeers returns the outstanding-reply count recorded by the
// most recent fan-out.
func (c *Context) PendingPeers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingPeers
}

// RecordError aggregates a per-peer failure: the first non-empty
// errstr wins, matching "first non-empty errstr wins, subsequent ones
// are freed" (spec.md's error-propagation rule).
func (c *Context) RecordError(errstr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errored = true
	if c.errString == "" {
		c.errString = errstr
	}
}

// Errored reports whether any peer has rejected this transaction so far.
func (c *Context) Errored() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errored
}

// ErrString returns the aggregated error string, or "" if none.
func (c *Context) ErrString() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errString
}

// Result is what the CLI ultimately observes: op_ret/op_errstr.
type Result struct {
	OK      bool
	ErrText string
}

// queuedEvent is one entry of the single FIFO the machine serializes
// all event handling behind (spec.md: "the op-sm serializes events
// behind a single mutex guarding its FIFO queue; handlers run on one
// thread at a time").
type queuedEvent struct {
	event Event
	ctx   *Context
}

// Machine is one running (or idle) transaction driver. It is process-
// wide in the original (a single global opinfo); here it's an
// explicit value so tests can run several independently.
type Machine struct {
	mu         sync.Mutex
	state      State
	queue      []queuedEvent
	processing bool
	driver     Driver

	trace []State // every state entered, for S4/S5-style assertions
	done  chan Result
}

// New returns a machine in StateDefault driven by d.
func New(d Driver) *Machine {
	return &Machine{driver: d, trace: []State{StateDefault}}
}

// State returns the machine's current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Trace returns every state the machine has entered so far, in order
// (used to assert S4/S5's exact trace).
func (m *Machine) Trace() []State {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]State, len(m.trace))
	copy(out, m.trace)
	return out
}

// Inject queues event for processing and drains the queue if nothing
// else is already doing so. Actions call this to self-inject a
// follow-on event (e.g. the collective AllAcc once a per-peer counter
// reaches zero) exactly as glusterd_op_sm_inject_event does.
func (m *Machine) Inject(event Event, ctx *Context) {
	m.mu.Lock()
	m.queue = append(m.queue, queuedEvent{event: event, ctx: ctx})
	if m.processing {
		m.mu.Unlock()
		return
	}
	m.processing = true
	m.mu.Unlock()
	m.drain()
}

func (m *Machine) drain() {
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.processing = false
			m.mu.Unlock()
			return
		}
		qe := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		m.dispatch(qe.event, qe.ctx)
	}
}

func (m *Machine) dispatch(event Event, ctx *Context) {
	m.mu.Lock()
	row, ok := transitionTable[m.state]
	m.mu.Unlock()
	if !ok {
		return
	}
	tr, ok := row[event]
	if !ok {
		return
	}

	m.mu.Lock()
	m.state = tr.Next
	m.trace = append(m.trace, tr.Next)
	m.mu.Unlock()

	if tr.Action != nil {
		tr.Action(m, ctx)
	}
}

