package framez

// Name identifies a Filter for debugging, logging, and signal fields.
// Using this type encourages storing names as constants rather than
// scattering inline strings through filter implementations.
type Name = string

// Cloner is implemented by any value that needs a deep copy taken before
// a mutable view of it is handed out, rather than sharing the original
// across goroutines. Frame and Table both implement Cloner so the
// usurp-or-clone refcount convention (see refcount.go) has a uniform way
// to produce a private copy when a shared handle can't be usurped.
type Cloner[T any] interface {
	Clone() T
}
