package peer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutUUIDIsUnknown(t *testing.T) {
	p := New(StateDefault, uuid.Nil, "node1.example.com")
	_, known := p.UUID()
	require.False(t, known)
	require.True(t, p.HasAddress("node1.example.com"))
}

func TestSetUUIDFixesIdentityOnce(t *testing.T) {
	p := New(StateReqSent, uuid.Nil, "node1")
	id := uuid.New()
	require.NoError(t, p.SetUUID(id))
	got, known := p.UUID()
	require.True(t, known)
	require.Equal(t, id, got)

	require.NoError(t, p.SetUUID(id)) // same id again is fine
	require.Error(t, p.SetUUID(uuid.New()))
}

func TestAddHostnameIsAppendOnlyAndDeduped(t *testing.T) {
	p := New(StateDefault, uuid.Nil, "a")
	p.AddHostname("b")
	p.AddHostname("a") // duplicate, ignored
	require.Equal(t, []string{"a", "b"}, p.Hostnames())
}

func TestTransitionRecordsLog(t *testing.T) {
	p := New(StateDefault, uuid.New(), "a")
	p.Transition("rcvd_friend_req", StateReqRcvd)
	p.Transition("rcvd_accept", StateBefriended)

	log := p.TransitionLog()
	require.Len(t, log, 2)
	require.Equal(t, StateDefault, log[0].OldState)
	require.Equal(t, StateReqRcvd, log[0].NewState)
	require.Equal(t, StateBefriended, p.State())
	require.Equal(t, QuorumWaiting, p.QuorumContribution())
}

func TestRPCHandleIsReplacedNotMerged(t *testing.T) {
	p := New(StateDefault, uuid.New(), "a")
	require.Nil(t, p.RPCHandle())
	p.SetRPCHandle("handle-1")
	require.Equal(t, "handle-1", p.RPCHandle())
	p.SetRPCHandle("handle-2")
	require.Equal(t, "handle-2", p.RPCHandle())
}
