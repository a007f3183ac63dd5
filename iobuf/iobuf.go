// Package iobuf implements the reference-counted I/O buffer ref carried
// on write/read FOPs, grounded on the pool-of-byte-slices idiom in
// fuse/bufferpool.go (generalized here to carry an explicit refcount
// rather than returning to a free-list on close).
package iobuf

import "sync/atomic"

// Ref is a reference-counted handle on a byte buffer (an iobref in the
// original). Multiple translators along the stack may hold a Ref to the
// same underlying bytes without copying.
type Ref struct {
	data []byte
	ref  int32
}

// New wraps data with refcount 1. The caller transfers ownership of data
// to the Ref; it must not be mutated by others afterward.
func New(data []byte) *Ref {
	return &Ref{data: data, ref: 1}
}

// Ref increments the refcount and returns the same Ref.
func (r *Ref) Ref() *Ref {
	atomic.AddInt32(&r.ref, 1)
	return r
}

// Unref decrements the refcount. Callers must not touch Bytes() after a
// call that brings the count to zero.
func (r *Ref) Unref() {
	atomic.AddInt32(&r.ref, -1)
}

// RefCount reports the live reference count.
func (r *Ref) RefCount() int32 {
	return atomic.LoadInt32(&r.ref)
}

// Bytes returns the underlying buffer. Valid only while RefCount() > 0.
func (r *Ref) Bytes() []byte {
	return r.data
}

// Len returns len(Bytes()).
func (r *Ref) Len() int {
	return len(r.data)
}
