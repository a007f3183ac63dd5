package peer

import (
	"sync"

	"github.com/google/uuid"
)

// Table is the trusted-pool membership table, one per management
// daemon process (the glusterd_conf_t.peers list in the original).
type Table struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*Peer
	local []*Peer // peers with no known uuid yet, keyed only by hostname
}

// NewTable returns an empty peer table.
func NewTable() *Table {
	return &Table{byID: make(map[uuid.UUID]*Peer)}
}

// Add registers p in the table. A peer with an already-known uuid is
// indexed by it; one whose identity is still pending (a probe in
// flight) is tracked only by hostname until Resolve fixes it.
func (t *Table) Add(p *Peer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := p.UUID(); ok {
		t.byID[id] = p
		return
	}
	t.local = append(t.local, p)
}

// FindByUUID returns the peer with the given uuid
// (glusterd_friend_find_by_uuid). A nil/zero uuid never matches.
func (t *Table) FindByUUID(id uuid.UUID) (*Peer, bool) {
	if id == uuid.Nil {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.byID[id]
	return p, ok
}

// FindByHostname returns the first peer (known or pending) carrying
// hostname as one of its aliases (glusterd_peerinfo_find_by_hostname).
func (t *Table) FindByHostname(hostname string) (*Peer, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, p := range t.byID {
		if p.HasAddress(hostname) {
			return p, true
		}
	}
	for _, p := range t.local {
		if p.HasAddress(hostname) {
			return p, true
		}
	}
	return nil, false
}

// Find looks up a peer by uuid first, falling back to hostname
// (glusterd_peerinfo_find): a befriended peer is always found by
// whichever identity the caller has on hand.
func (t *Table) Find(id uuid.UUID, hostname string) (*Peer, bool) {
	if p, ok := t.FindByUUID(id); ok {
		return p, true
	}
	if hostname != "" {
		return t.FindByHostname(hostname)
	}
	return nil, false
}

// Resolve promotes a pending (uuid-less) peer to a fully keyed one
// once its identity becomes known — the handshake reply that finally
// supplies a uuid for a peer added by hostname alone.
func (t *Table) Resolve(p *Peer, id uuid.UUID) error {
	if err := p.SetUUID(id); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, lp := range t.local {
		if lp == p {
			t.local = append(t.local[:i], t.local[i+1:]...)
			break
		}
	}
	t.byID[id] = p
	return nil
}

// Remove drops a peer from the table entirely (peer detach).
func (t *Table) Remove(p *Peer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := p.UUID(); ok {
		delete(t.byID, id)
	}
	for i, lp := range t.local {
		if lp == p {
			t.local = append(t.local[:i], t.local[i+1:]...)
			break
		}
	}
}

// All returns every peer currently in the table, known and pending.
func (t *Table) All() []*Peer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Peer, 0, len(t.byID)+len(t.local))
	for _, p := range t.byID {
		out = append(out, p)
	}
	out = append(out, t.local...)
	return out
}

// Count returns the number of peers in the table (glusterd_get_peers_count).
func (t *Table) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID) + len(t.local)
}

// Befriended returns every peer currently in StateBefriended.
func (t *Table) Befriended() []*Peer {
	var out []*Peer
	for _, p := range t.All() {
		if p.IsBefriended() {
			out = append(out, p)
		}
	}
	return out
}

// AllConnectedAndBefriended reports whether every peer in the table —
// except skip, if non-nil — is both connected and befriended
// (glusterd_chk_peers_connected_befriended), the precondition an
// originator checks before starting most cluster transactions.
func (t *Table) AllConnectedAndBefriended(skip *Peer) bool {
	for _, p := range t.All() {
		if p == skip {
			continue
		}
		if !p.Connected() || !p.IsBefriended() {
			return false
		}
	}
	return true
}

// QuorumUpCount returns the number of befriended peers currently
// contributing to quorum (QuorumUp), used by the op-sm to decide
// whether a transaction may proceed under the configured quorum ratio.
func (t *Table) QuorumUpCount() int {
	count := 0
	for _, p := range t.Befriended() {
		if p.QuorumContribution() == QuorumUp {
			count++
		}
	}
	return count
}
