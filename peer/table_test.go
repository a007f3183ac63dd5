package peer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAddAndFindByUUID(t *testing.T) {
	tbl := NewTable()
	id := uuid.New()
	p := New(StateBefriended, id, "node1")
	tbl.Add(p)

	found, ok := tbl.FindByUUID(id)
	require.True(t, ok)
	require.Same(t, p, found)
}

func TestFindByHostnameMatchesAlias(t *testing.T) {
	tbl := NewTable()
	p := New(StateBefriended, uuid.New(), "node1")
	p.AddHostname("10.0.0.1")
	tbl.Add(p)

	found, ok := tbl.FindByHostname("10.0.0.1")
	require.True(t, ok)
	require.Same(t, p, found)
}

func TestResolvePromotesPendingPeer(t *testing.T) {
	tbl := NewTable()
	p := New(StateReqSent, uuid.Nil, "node1")
	tbl.Add(p)
	require.Equal(t, 1, tbl.Count())

	id := uuid.New()
	require.NoError(t, tbl.Resolve(p, id))

	found, ok := tbl.FindByUUID(id)
	require.True(t, ok)
	require.Same(t, p, found)
	require.Equal(t, 1, tbl.Count())
}

func TestRemoveDropsPeer(t *testing.T) {
	tbl := NewTable()
	id := uuid.New()
	p := New(StateBefriended, id, "node1")
	tbl.Add(p)
	tbl.Remove(p)
	require.Equal(t, 0, tbl.Count())
	_, ok := tbl.FindByUUID(id)
	require.False(t, ok)
}

func TestAllConnectedAndBefriendedSkipsGivenPeer(t *testing.T) {
	tbl := NewTable()
	up := New(StateBefriended, uuid.New(), "up")
	up.SetConnected(true)
	down := New(StateReqSent, uuid.New(), "down")
	down.SetConnected(false)
	tbl.Add(up)
	tbl.Add(down)

	require.False(t, tbl.AllConnectedAndBefriended(nil))
	require.True(t, tbl.AllConnectedAndBefriended(down))
}

func TestQuorumUpCountOnlyCountsUpBefriendedPeers(t *testing.T) {
	tbl := NewTable()
	a := New(StateBefriended, uuid.New(), "a")
	a.SetQuorumContribution(QuorumUp)
	b := New(StateBefriended, uuid.New(), "b")
	b.SetQuorumContribution(QuorumDown)
	c := New(StateReqSent, uuid.New(), "c")
	c.SetQuorumContribution(QuorumUp)
	tbl.Add(a)
	tbl.Add(b)
	tbl.Add(c)

	require.Equal(t, 1, tbl.QuorumUpCount())
}
