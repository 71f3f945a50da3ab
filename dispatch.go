package framez

import (
	"context"

	"github.com/zoobzio/capitan"
)

// callbackTask is one queued delivery: a user callback plus the frame or
// error to hand it (spec §4.I).
type callbackTask struct {
	fn    func(*Frame, error)
	frame *Frame
	err   error
}

// Dispatcher is the dedicated callback-delivery thread from spec §4.I: it
// drains a lock-free SC queue of callback triplets in FIFO order,
// isolating user code from the Maintainer and worker goroutines (spec
// invariant I6: callbacks from a single Output are delivered in
// submission order).
type Dispatcher struct {
	inbox  *Queue[callbackTask]
	logger Logger
	done   chan struct{}
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(logger Logger) *Dispatcher {
	return &Dispatcher{
		inbox:  NewQueue[callbackTask](),
		logger: withLogger(logger),
		done:   make(chan struct{}),
	}
}

// Post enqueues a callback delivery. Safe to call from any goroutine.
func (d *Dispatcher) Post(fn func(*Frame, error), frame *Frame, err error) {
	d.inbox.Push(callbackTask{fn: fn, frame: frame, err: err})
}

// Stop requests the dispatcher's run loop to exit.
func (d *Dispatcher) Stop() { d.inbox.RequestStop() }

// Done returns a channel closed once the run loop has exited.
func (d *Dispatcher) Done() <-chan struct{} { return d.done }

// Run drains callback deliveries until Stop is called.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	for {
		t, ok, err := d.inbox.Pop(true)
		if err != nil {
			return // ErrStopRequested
		}
		if !ok {
			continue
		}
		d.deliver(ctx, t)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, t callbackTask) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Log(LevelWarning, "framez: callback panicked", Field{Key: "recover", Value: r})
		}
	}()
	t.fn(t.frame, t.err)
	capitan.Info(ctx, SignalDispatchDelivered, FieldError.Field(errString(t.err)))
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
