package framez

import (
	"container/heap"
	"sync"
)

// Ticked is satisfied by anything the PQueue can order: the priority key
// is ascending tick (spec §4.B — smaller tick means created earlier,
// meaning higher priority).
type Ticked interface {
	Tick() uint64
}

// pqHeap adapts a slice of T to container/heap.Interface, ordered by
// ascending Tick().
type pqHeap[T Ticked] []T

func (h pqHeap[T]) Len() int            { return len(h) }
func (h pqHeap[T]) Less(i, j int) bool  { return h[i].Tick() < h[j].Tick() }
func (h pqHeap[T]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *pqHeap[T]) Push(x interface{}) { *h = append(*h, x.(T)) }
func (h *pqHeap[T]) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// PQueue is the thread-safe min-heap with wake/stop signalling from spec
// §4.B: multiple worker goroutines pop the highest-priority (lowest tick)
// instance, guarded by a short critical section rather than a lock-free
// structure, exactly as the spec describes ("standard binary heap guarded
// by a short spin-lock"). Go has no cheap portable spinlock primitive, so
// a sync.Mutex stands in for it — the critical section is always O(log n)
// heap-push/pop, never blocking.
type PQueue[T Ticked] struct {
	mu      sync.Mutex
	cond    *sync.Cond
	heap    pqHeap[T]
	stopped bool
}

// NewPQueue creates an empty PQueue.
func NewPQueue[T Ticked]() *PQueue[T] {
	q := &PQueue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push inserts v and wakes one waiter.
func (q *PQueue[T]) Push(v T) {
	q.mu.Lock()
	heap.Push(&q.heap, v)
	q.mu.Unlock()
	q.cond.Signal()
}

// Pop removes and returns the lowest-tick item. If wait is true and the
// queue is empty, Pop parks until an item arrives or RequestStop is
// called, in which case it returns ErrStopRequested. If wait is false and
// the queue is empty, Pop returns ok=false immediately.
//
// Stop is checked before the heap on every iteration, not after: once
// RequestStop fires, a waking caller abandons whatever is still queued
// instead of draining it, so a worker parked behind a large backlog still
// exits in O(1) rather than O(backlog).
func (q *PQueue[T]) Pop(wait bool) (value T, ok bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if q.stopped {
			var zero T
			return zero, false, ErrStopRequested
		}
		if len(q.heap) > 0 {
			v := heap.Pop(&q.heap).(T)
			return v, true, nil
		}
		if !wait {
			var zero T
			return zero, false, nil
		}
		q.cond.Wait()
	}
}

// RequestStop marks the queue stopped and broadcasts to every waiter, so
// all parked workers unblock and observe ErrStopRequested.
func (q *PQueue[T]) RequestStop() {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Len returns the current number of queued items.
func (q *PQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}
