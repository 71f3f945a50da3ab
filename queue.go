package framez

import (
	"runtime"
	"sync/atomic"
)

// queueNode is the intrusive list node of Queue, equivalent in shape to
// joeycumines-go-utilpkg's eventloop/internal/alternatetwo/ingress.go
// LockFreeIngress node: a value plus an atomic next pointer.
type queueNode[T any] struct {
	value T
	next  atomic.Pointer[queueNode[T]]
}

// Queue is the many-producers/one-consumer lock-free FIFO from spec §4.A:
// a Vyukov-style intrusive linked list with a stub node, an atomic head
// swapped by producers, and a single consumer walking from tail. Wake
// signalling uses a buffered channel instead of a raw OS futex — Go has no
// portable park/wake primitive below sync/channel, and a size-1 channel
// gives the same "arm and park, one-at-a-time wake" behavior the spec
// calls for.
type Queue[T any] struct {
	head    atomic.Pointer[queueNode[T]]
	tail    atomic.Pointer[queueNode[T]]
	length  atomic.Int64
	wake    chan struct{}
	stopped atomic.Bool
}

// NewQueue creates an empty Queue.
func NewQueue[T any]() *Queue[T] {
	stub := &queueNode[T]{}
	q := &Queue[T]{wake: make(chan struct{}, 1)}
	q.head.Store(stub)
	q.tail.Store(stub)
	return q
}

// Push enqueues value. Producers never block (spec §5).
func (q *Queue[T]) Push(value T) {
	q.push(&queueNode[T]{value: value})
}

func (q *Queue[T]) push(n *queueNode[T]) {
	prev := q.head.Swap(n)
	prev.next.Store(n)
	q.length.Add(1)
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// RequestStop sets an out-of-band stop flag and wakes the parked consumer,
// rather than merely queuing a sentinel behind whatever backlog is already
// pending: the consumer observes it on its very next loop iteration and
// abandons the rest of the queue, bounding shutdown to O(1) instead of
// O(backlog) regardless of how much work was posted before Stop was called.
func (q *Queue[T]) RequestStop() {
	q.stopped.Store(true)
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pop removes and returns the oldest value. If wait is true and the queue
// is empty, Pop parks until a value arrives or RequestStop is called. If
// wait is false and the queue is empty, Pop returns ok=false immediately.
//
// The stop flag is checked before the queue on every iteration — once
// RequestStop fires, Pop returns ErrStopRequested immediately rather than
// draining whatever is already queued.
func (q *Queue[T]) Pop(wait bool) (value T, ok bool, err error) {
	for {
		if q.stopped.Load() {
			var zero T
			return zero, false, ErrStopRequested
		}

		tail := q.tail.Load()
		next := tail.next.Load()
		if next != nil {
			q.tail.Store(next)
			q.length.Add(-1)
			v := next.value
			var zero T
			next.value = zero // drop the reference so GC can reclaim it
			return v, true, nil
		}

		if q.head.Load() == tail {
			// Empty.
			if !wait {
				var zero T
				return zero, false, nil
			}
			<-q.wake
			continue
		}

		// A producer is mid-insert: tail.next will appear shortly.
		runtime.Gosched()
	}
}

// Length returns a best-effort count of queued items.
func (q *Queue[T]) Length() int64 { return q.length.Load() }

// IsEmpty reports whether the queue currently holds no items.
func (q *Queue[T]) IsEmpty() bool { return q.head.Load() == q.tail.Load() }
