// Package peer implements the trusted-pool membership table: one Peer
// per node the management daemon has probed or been probed by, plus
// the friend state machine tracking how far that relationship has
// progressed. Grounded on
// original_source/xlators/mgmt/glusterd/src/glusterd-peer-utils.{h,c}
// (glusterd_peerinfo_t, glusterd_friend_sm_state_t, the hostname-alias
// list, and glusterd_friend_find_by_uuid/glusterd_chk_peers_connected_befriended).
package peer

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gluster/glusterfs-sub025/errkind"
)

// State is the friend state machine's current phase, ported from
// glusterd_friend_sm_state_t.
type State int

const (
	StateDefault State = iota
	StateReqSent
	StateReqRcvd
	StateBefriended
	StateReqAccepted
	StateReqSentRcvd
	StateRejected
	StateConnectedRcvd
	StateConnectedAccepted
	StateUpdateFriend
)

func (s State) String() string {
	switch s {
	case StateDefault:
		return "Establishing Connection"
	case StateReqSent:
		return "Probe Sent to Peer"
	case StateReqRcvd:
		return "Probe Received from Peer"
	case StateBefriended:
		return "Peer in Cluster"
	case StateReqAccepted:
		return "Accepted peer request"
	case StateReqSentRcvd:
		return "Peer Rejected"
	case StateRejected:
		return "Peer Rejected"
	case StateConnectedRcvd:
		return "Connected to Peer"
	case StateConnectedAccepted:
		return "Peer in Cluster"
	case StateUpdateFriend:
		return "Peer Updating"
	default:
		return "invalid state"
	}
}

// QuorumContrib tracks whether a befriended peer currently counts
// toward quorum, not yet been resolved, or has been excluded.
type QuorumContrib int

const (
	QuorumWaiting QuorumContrib = iota
	QuorumUp
	QuorumDown
	QuorumNone
)

// TransitionLogEntry is one row of a Peer's friend-sm transition log,
// the Go equivalent of glusterd_sm_tr_log_init's ring buffer.
type TransitionLogEntry struct {
	OldState State
	Event    string
	NewState State
}

// Peer is one entry in the trusted pool (glusterd_peerinfo_t).
// Invariants: UUID is immutable once set to a non-nil value; Hostnames
// only grows within a session (see AddHostname); at most one live RPC
// handle is tracked at a time (RPCHandle is replaced wholesale, never
// merged).
type Peer struct {
	mu sync.RWMutex

	uuid      uuid.UUID
	uuidKnown bool

	hostnames []string
	state     State
	connected bool
	quorum    QuorumContrib
	rpcHandle interface{}

	generation uint32
	log        []TransitionLogEntry
}

// New builds a Peer for hostname in the given initial state. A zero
// uuid.UUID means the peer's identity is not yet known (the probe
// hasn't completed its handshake), matching glusterd_peerinfo_new
// being called with a nil uuid pointer.
func New(state State, id uuid.UUID, hostname string) *Peer {
	p := &Peer{state: state}
	if id != uuid.Nil {
		p.uuid = id
		p.uuidKnown = true
	}
	if hostname != "" {
		p.hostnames = append(p.hostnames, hostname)
	}
	if state == StateBefriended {
		p.quorum = QuorumWaiting
	}
	return p
}

// UUID returns the peer's UUID and whether it is known yet
// (glusterd_peerinfo_is_uuid_unknown, inverted).
func (p *Peer) UUID() (uuid.UUID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.uuid, p.uuidKnown
}

// SetUUID fixes the peer's UUID the first time it becomes known. A
// second call with a different UUID is a programming error: the
// invariant is that UUID is immutable once known.
func (p *Peer) SetUUID(id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.uuidKnown && p.uuid != id {
		return errkind.New(errkind.FatalInvariantViolation,
			"peer: cannot change uuid once known")
	}
	p.uuid = id
	p.uuidKnown = true
	return nil
}

// Hostnames returns a copy of the peer's alias list.
func (p *Peer) Hostnames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.hostnames))
	copy(out, p.hostnames)
	return out
}

// HasAddress reports whether address is already one of the peer's
// known aliases (gd_peer_has_address).
func (p *Peer) HasAddress(address string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, h := range p.hostnames {
		if h == address {
			return true
		}
	}
	return false
}

// AddHostname appends address to the peer's alias list if not already
// present (gd_add_address_to_peer). The list is append-only: nothing
// ever removes or reorders an existing alias within a session.
func (p *Peer) AddHostname(address string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, h := range p.hostnames {
		if h == address {
			return
		}
	}
	p.hostnames = append(p.hostnames, address)
}

// State returns the peer's current friend-sm state.
func (p *Peer) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Transition moves the peer to newState, appending to the transition
// log (glusterd_sm_tr_log). event is a free-form label for the log
// entry, not itself interpreted here; opsm drives the actual event
// dispatch.
func (p *Peer) Transition(event string, newState State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log = append(p.log, TransitionLogEntry{OldState: p.state, Event: event, NewState: newState})
	p.state = newState
	if newState == StateBefriended && p.quorum == 0 {
		p.quorum = QuorumWaiting
	}
}

// TransitionLog returns a copy of the peer's recorded transitions.
func (p *Peer) TransitionLog() []TransitionLogEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]TransitionLogEntry, len(p.log))
	copy(out, p.log)
	return out
}

// Connected reports the peer's current RPC connectivity.
func (p *Peer) Connected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connected
}

// SetConnected updates connectivity, as driven by transport connect/
// disconnect events.
func (p *Peer) SetConnected(connected bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = connected
}

// RPCHandle returns the peer's current RPC handle, or nil if it has
// none.
func (p *Peer) RPCHandle() interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rpcHandle
}

// SetRPCHandle replaces the peer's RPC handle wholesale — at most one
// live handle is ever tracked per peer.
func (p *Peer) SetRPCHandle(h interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rpcHandle = h
}

// QuorumContribution returns whether this peer currently counts
// toward quorum.
func (p *Peer) QuorumContribution() QuorumContrib {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.quorum
}

// SetQuorumContribution updates the peer's quorum-contribution flag.
func (p *Peer) SetQuorumContribution(q QuorumContrib) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quorum = q
}

// IsBefriended reports whether the peer has completed the handshake
// and is a full cluster member.
func (p *Peer) IsBefriended() bool {
	return p.State() == StateBefriended
}

var errNotFound = errors.New("peer: not found")

// ErrNotFound is returned by Table lookups that miss.
var ErrNotFound = errNotFound
