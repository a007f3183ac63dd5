// Package ilist implements the intrusive doubly-linked list used
// throughout the translator core (dentry lists, fd lists, rda entry
// queues) in place of glusterfs's embedded `struct list_head` (spec.md
// §2 C1). Callers embed Node by value in their own struct and splice it
// onto a List; no separate allocation backs the link.
package ilist

// Node is an intrusive list link. Embed it by value in the element type
// and set Value to a pointer back to the embedding struct so iteration
// can recover it without unsafe pointer arithmetic.
type Node struct {
	next, prev *Node
	list       *List
	Value      interface{}
}

// List is a circular doubly-linked list with a sentinel root node,
// mirroring glusterfs's list_head idiom (the root is never a real
// element; Front()/Back() walk from it).
type List struct {
	root Node
	len  int
}

// Init must be called before first use (or use NewList).
func (l *List) Init() *List {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.len = 0
	return l
}

// NewList returns an initialized empty List.
func NewList() *List {
	return new(List).Init()
}

// Len returns the number of elements currently linked.
func (l *List) Len() int { return l.len }

// lazyInit allows a zero-value List to self-initialize, the way a
// zero-value container/list.List does.
func (l *List) lazyInit() {
	if l.root.next == nil {
		l.Init()
	}
}

// PushBack links n at the tail of the list.
func (l *List) PushBack(n *Node) {
	l.lazyInit()
	n.list = l
	p := l.root.prev
	n.prev = p
	n.next = &l.root
	p.next = n
	l.root.prev = n
	l.len++
}

// PushFront links n at the head of the list.
func (l *List) PushFront(n *Node) {
	l.lazyInit()
	n.list = l
	nx := l.root.next
	n.next = nx
	n.prev = &l.root
	nx.prev = n
	l.root.next = n
	l.len++
}

// InsertBefore links n immediately before mark, which must already be an
// element of l.
func (l *List) InsertBefore(n, mark *Node) {
	n.list = l
	p := mark.prev
	n.prev = p
	n.next = mark
	p.next = n
	mark.prev = n
	l.len++
}

// Remove unlinks n from whatever list it belongs to. It is a no-op if n
// is not currently linked (mirroring list_del_init's idempotence).
func (n *Node) Remove() {
	if n.list == nil {
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	n.list.len--
	n.next = nil
	n.prev = nil
	n.list = nil
}

// Linked reports whether n currently belongs to a list.
func (n *Node) Linked() bool { return n.list != nil }

// Front returns the first node, or nil if the list is empty.
func (l *List) Front() *Node {
	l.lazyInit()
	if l.root.next == &l.root {
		return nil
	}
	return l.root.next
}

// Back returns the last node, or nil if the list is empty.
func (l *List) Back() *Node {
	l.lazyInit()
	if l.root.prev == &l.root {
		return nil
	}
	return l.root.prev
}

// Next returns the node after n, or nil if n is the last element.
func (n *Node) Next() *Node {
	if n.list == nil {
		return nil
	}
	if p := n.next; n.list != nil && p != &n.list.root {
		return p
	}
	return nil
}

// Prev returns the node before n, or nil if n is the first element.
func (n *Node) Prev() *Node {
	if n.list == nil {
		return nil
	}
	if p := n.prev; n.list != nil && p != &n.list.root {
		return p
	}
	return nil
}

// MoveToBack relinks n, already an element of its list, to the tail.
func (l *List) MoveToBack(n *Node) {
	if n.list != l {
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	p := l.root.prev
	n.prev = p
	n.next = &l.root
	p.next = n
	l.root.prev = n
}
