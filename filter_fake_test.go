package framez

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// fakeFilter is a minimal Filter used across this package's tests.
type fakeFilter struct {
	flags    Flags
	info     VideoInfo
	deps     map[uint64][]Dependency
	failAt   map[uint64]bool
	fdFailAt map[uint64]bool // if set for idx, FrameData(idx) errors instead of ProcessFrame running
	delay    chan struct{}   // if non-nil, ProcessFrame blocks on it
	sleep    time.Duration   // if non-zero, ProcessFrame sleeps this long
	calls    atomic.Int32
	drops    atomic.Int32
	cloneOf  *fakeFilter // nil for the canonical instance
}

func newFakeFilter(frameCount uint64) *fakeFilter {
	return &fakeFilter{
		info:     VideoInfo{FrameInfo: gray8(2, 2), FrameCount: frameCount},
		deps:     make(map[uint64][]Dependency),
		failAt:   make(map[uint64]bool),
		fdFailAt: make(map[uint64]bool),
	}
}

func (f *fakeFilter) Flags() Flags        { return f.flags }
func (f *fakeFilter) VideoInfo() VideoInfo { return f.info }

func (f *fakeFilter) FrameData(idx uint64) (FrameData, error) {
	if f.fdFailAt[idx] {
		return FrameData{}, errFakeFrameData
	}
	return FrameData{Dependencies: f.deps[idx]}, nil
}

func (f *fakeFilter) DropFrameData(FrameData) { f.drops.Add(1) }

func (f *fakeFilter) ProcessFrame(ctx context.Context, inputs []*Frame, fd FrameData, idx uint64) (*Frame, error) {
	f.calls.Add(1)
	if f.delay != nil {
		<-f.delay
	}
	if f.sleep > 0 {
		time.Sleep(f.sleep)
	}
	if f.failAt[idx] {
		return nil, errFakeFilter
	}
	frame := NewFrame(f.info.FrameInfo, nil)
	frame.GetPlaneMut(0).Bytes()[0] = byte(idx + 1)
	return frame, nil
}

func (f *fakeFilter) Clone() Filter {
	return &fakeFilter{flags: f.flags, info: f.info, deps: f.deps, failAt: f.failAt, fdFailAt: f.fdFailAt, delay: f.delay, sleep: f.sleep, cloneOf: f}
}

func (f *fakeFilter) CallCount() int32 { return f.calls.Load() }
func (f *fakeFilter) DropCount() int32 { return f.drops.Load() }

var errFakeFilter = errFakeFilterSentinel{}
var errFakeFrameData = errors.New("fakeFilter: induced FrameData failure")

type errFakeFilterSentinel struct{}

func (errFakeFilterSentinel) Error() string { return "fakeFilter: induced failure" }
