package iobuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewHasRefCountOne(t *testing.T) {
	r := New([]byte("hello"))
	require.EqualValues(t, 1, r.RefCount())
	require.Equal(t, "hello", string(r.Bytes()))
	require.Equal(t, 5, r.Len())
}

func TestRefUnref(t *testing.T) {
	r := New([]byte("x"))
	r.Ref()
	r.Ref()
	require.EqualValues(t, 3, r.RefCount())
	r.Unref()
	require.EqualValues(t, 2, r.RefCount())
	r.Unref()
	r.Unref()
	require.EqualValues(t, 0, r.RefCount())
}

func TestRefReturnsSameHandle(t *testing.T) {
	r := New([]byte("x"))
	require.Same(t, r, r.Ref())
}
