package xlator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWindDefaultsToPassThrough(t *testing.T) {
	leaf := New("storage", "storage/posix", nil)
	leaf.Fops.Set(FopStat, func(frame *Frame, this *Translator, args Args, cbk CbkFunc) {
		cbk(frame, this, Result{OpErrno: 0})
	})
	mid := New("filter", "performance/rda", nil)
	mid.AddChild(leaf)

	top := NewFrame(mid)
	var got Result
	Wind(top, mid, FopStat, Args{}, nil, func(frame *Frame, this *Translator, res Result) {
		got = res
	})
	require.True(t, got.Ok())
}

func TestWindWithNoChildrenReturnsEnosys(t *testing.T) {
	leaf := New("storage", "storage/posix", nil)
	top := NewFrame(leaf)
	var got Result
	Wind(top, leaf, FopStat, Args{}, nil, func(frame *Frame, this *Translator, res Result) {
		got = res
	})
	require.False(t, got.Ok())
	require.Equal(t, enosys, got.OpErrno)
}

func TestUnwindRunsRegisteredCbk(t *testing.T) {
	this := New("cache", "performance/rda", nil)
	var seen Result
	this.Cbks.Set(FopStat, func(frame *Frame, this *Translator, res Result) {
		seen = res
	})
	frame := NewFrame(this)
	Unwind(frame, this, FopStat, Result{OpErrno: 5}, func(*Frame, *Translator, Result) {
		t.Fatal("fallback cbk should not run when a Cbk is registered")
	})
	require.Equal(t, 5, seen.OpErrno)
}
