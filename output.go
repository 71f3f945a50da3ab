package framez

import (
	"context"

	"github.com/zoobzio/capitan"
)

// Output is the user-facing façade for one Substrate (spec §4.J). Each
// Output owns no state of its own beyond identity: every GetFrame call is
// just a Construct task posted to the shared Maintainer, with delivery
// routed through the shared Dispatcher so callbacks never run on the
// Maintainer or worker goroutines.
type Output struct {
	substrate  *Substrate
	maintainer *Maintainer
	dispatcher *Dispatcher
}

func newOutput(substrate *Substrate, maintainer *Maintainer, dispatcher *Dispatcher) *Output {
	return &Output{substrate: substrate, maintainer: maintainer, dispatcher: dispatcher}
}

// Substrate returns the Substrate this Output was created for.
func (o *Output) Substrate() *Substrate { return o.substrate }

// GetFrame requests frame idx from this Output's substrate. cb is invoked
// exactly once, on the Dispatcher goroutine, with either the produced
// Frame or the error that killed its instance (spec invariant I5). A
// request or delivery still queued when the Engine is closed is abandoned,
// and its cb is not invoked.
//
// GetFrame never blocks: it posts a Construct task and returns immediately.
func (o *Output) GetFrame(ctx context.Context, idx uint64, cb func(frame *Frame, err error)) {
	capitan.Info(ctx, SignalOutputRequested,
		FieldSubstrate.Field(o.substrate.Name()),
		FieldIndex.Field(int(idx)),
	)
	wrapped := func(frame *Frame, err error) {
		o.dispatcher.Post(cb, frame, err)
	}
	o.maintainer.postConstruct(o.substrate, idx, wrapped)
}
