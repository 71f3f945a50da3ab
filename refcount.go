package framez

import "sync/atomic"

// refcounted is the atomic-refcount primitive underlying every shared
// value in the engine (spec §3/§4.C). AddRef is relaxed; Release decrements
// with release-ordering semantics and reports whether this was the final
// reference. Go's atomic package doesn't expose separate acquire/release
// memory orders the way the source's C++ does, so the happens-before edge
// here comes from the atomic operation itself — sufficient for the
// reference-counting invariant (no torn reads of the count), with
// destruction handled by the caller once the count reaches zero.
type refcounted struct {
	n atomic.Int32
}

func newRefcounted() refcounted {
	var r refcounted
	r.n.Store(1)
	return r
}

// AddRef increments the reference count. Safe to call concurrently.
func (r *refcounted) AddRef() {
	r.n.Add(1)
}

// Release decrements the reference count and reports true if it reached
// zero (the caller should destroy the underlying resource).
func (r *refcounted) Release() bool {
	return r.n.Add(-1) == 0
}

// RefCount returns the current reference count. Intended for tests and
// diagnostics; not safe to branch scheduling logic on without accounting
// for concurrent AddRef/Release.
func (r *refcounted) RefCount() int32 {
	return r.n.Load()
}

// Unique reports whether this is the only outstanding reference, the
// precondition for try_usurp (spec §4.C).
func (r *refcounted) Unique() bool {
	return r.n.Load() == 1
}

// usurpOrClone implements the copy-on-write mutation hook shared by Frame
// and Table (spec §4.C): if the handle is uniquely referenced, the caller
// may mutate it in place; otherwise a deep copy is produced via Clone and
// the original's reference is left untouched.
//
// v must satisfy Cloner[T] for the usurp-or-clone contract to hold.
func usurpOrClone[T Cloner[T]](unique bool, v T) T {
	if unique {
		return v
	}
	return v.Clone()
}
