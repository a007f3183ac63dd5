package xlator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotifyChildUpPropagatesToParents(t *testing.T) {
	leaf := New("storage", "storage/posix", nil)
	top := New("server", "protocol/server", nil)
	top.AddChild(leaf)

	var seenAt []string
	top.OnNotify(func(this *Translator, event Event, data interface{}) {
		seenAt = append(seenAt, this.Name)
	})

	leaf.Notify(EventChildUp, nil)
	require.Equal(t, []string{"server"}, seenAt)
}

func TestNotifyGenericEventReachesBothDirections(t *testing.T) {
	leaf := New("storage", "storage/posix", nil)
	mid := New("cache", "performance/rda", nil)
	top := New("server", "protocol/server", nil)
	top.AddChild(mid)
	mid.AddChild(leaf)

	var seenAt []string
	leaf.OnNotify(func(this *Translator, event Event, data interface{}) {
		seenAt = append(seenAt, this.Name)
	})
	top.OnNotify(func(this *Translator, event Event, data interface{}) {
		seenAt = append(seenAt, this.Name)
	})

	mid.Notify(EventTransportCleanup, nil)
	require.ElementsMatch(t, []string{"storage", "server"}, seenAt)
}
