package latency

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddIsNoOpWhenDisabled(t *testing.T) {
	m := NewMap()
	m.Add("rda", "readdirp", 1000)
	require.Empty(t, m.Counts())
}

func TestAddAccumulatesWhenEnabled(t *testing.T) {
	m := NewMap()
	m.Enable()
	m.Add("rda", "readdirp", 1000)
	m.Add("rda", "readdirp", 3000)

	counts := m.Counts()
	require.Equal(t, int64(2), counts["rda"]["readdirp"])

	lat := m.AverageLatencies(1e-3)
	require.InDelta(t, 2000/1e6, lat["rda"]["readdirp"], 1e-9)
}

func TestDisableStopsAccumulating(t *testing.T) {
	m := NewMap()
	m.Enable()
	m.Add("rda", "readdirp", 1000)
	m.Disable()
	m.Add("rda", "readdirp", 5000)

	require.Equal(t, int64(1), m.Counts()["rda"]["readdirp"])
}

func TestResetClearsCounters(t *testing.T) {
	m := NewMap()
	m.Enable()
	m.Add("rda", "readdirp", 1000)
	m.Reset()
	require.Empty(t, m.Counts())
}
