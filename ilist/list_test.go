package ilist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type entry struct {
	Node
	val int
}

func newEntry(v int) *entry {
	e := &entry{val: v}
	e.Node.Value = e
	return e
}

func TestPushBackOrder(t *testing.T) {
	l := NewList()
	a, b, c := newEntry(1), newEntry(2), newEntry(3)
	l.PushBack(&a.Node)
	l.PushBack(&b.Node)
	l.PushBack(&c.Node)

	require.Equal(t, 3, l.Len())

	var got []int
	for n := l.Front(); n != nil; n = n.Next() {
		got = append(got, n.Value.(*entry).val)
	}
	require.Equal(t, []int{1, 2, 3}, got)
}

func TestRemoveIsIdempotent(t *testing.T) {
	l := NewList()
	a := newEntry(1)
	l.PushBack(&a.Node)
	require.Equal(t, 1, l.Len())
	a.Node.Remove()
	require.Equal(t, 0, l.Len())
	a.Node.Remove()
	require.Equal(t, 0, l.Len())
	require.False(t, a.Node.Linked())
}

func TestInsertBeforeAndFrontBack(t *testing.T) {
	l := NewList()
	a, b := newEntry(1), newEntry(2)
	l.PushBack(&a.Node)
	l.InsertBefore(&b.Node, &a.Node)

	require.Equal(t, &b.Node, l.Front())
	require.Equal(t, &a.Node, l.Back())
}

func TestMoveToBack(t *testing.T) {
	l := NewList()
	a, b := newEntry(1), newEntry(2)
	l.PushBack(&a.Node)
	l.PushBack(&b.Node)
	l.MoveToBack(&a.Node)

	require.Equal(t, &b.Node, l.Front())
	require.Equal(t, &a.Node, l.Back())
}
