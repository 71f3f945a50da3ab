package main

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/framez"
)

func gray8Info(frameCount uint64) framez.VideoInfo {
	format := framez.NewFormat(0, 0, 8, framez.SampleInteger, framez.ColorGray)
	return framez.VideoInfo{
		FrameInfo:  framez.FrameInfo{Format: format, Width: 2, Height: 2},
		Fps:        framez.FpsFraction{Num: 25, Den: 1},
		FrameCount: frameCount,
	}
}

// identityFilter produces a frame whose plane-0 byte 0 equals idx+1, with
// no dependencies (spec scenario S1).
type identityFilter struct {
	info framez.VideoInfo
}

func newIdentityFilter(frameCount uint64) *identityFilter {
	return &identityFilter{info: gray8Info(frameCount)}
}

func (f *identityFilter) Flags() framez.Flags           { return framez.FlagNormal }
func (f *identityFilter) VideoInfo() framez.VideoInfo    { return f.info }
func (f *identityFilter) FrameData(uint64) (framez.FrameData, error) {
	return framez.FrameData{}, nil
}
func (f *identityFilter) DropFrameData(framez.FrameData) {}
func (f *identityFilter) Clone() framez.Filter           { return f }

func (f *identityFilter) ProcessFrame(_ context.Context, _ []*framez.Frame, _ framez.FrameData, idx uint64) (*framez.Frame, error) {
	frame := framez.NewFrame(f.info.FrameInfo, nil)
	frame.GetPlaneMut(0).Bytes()[0] = byte(idx + 1)
	return frame, nil
}

// doublerFilter depends on upstream at the same index and doubles byte 0
// (spec scenario S2).
type doublerFilter struct {
	info     framez.VideoInfo
	upstream *framez.Substrate
}

func newDoublerFilter(frameCount uint64, upstream *framez.Substrate) *doublerFilter {
	return &doublerFilter{info: gray8Info(frameCount), upstream: upstream}
}

func (f *doublerFilter) Flags() framez.Flags        { return framez.FlagNormal }
func (f *doublerFilter) VideoInfo() framez.VideoInfo { return f.info }
func (f *doublerFilter) FrameData(idx uint64) (framez.FrameData, error) {
	return framez.FrameData{Dependencies: []framez.Dependency{{Substrate: f.upstream, Index: idx}}}, nil
}
func (f *doublerFilter) DropFrameData(framez.FrameData) {}
func (f *doublerFilter) Clone() framez.Filter           { return f }

func (f *doublerFilter) ProcessFrame(_ context.Context, inputs []*framez.Frame, _ framez.FrameData, _ uint64) (*framez.Frame, error) {
	frame := framez.NewFrame(f.info.FrameInfo, nil)
	frame.GetPlaneMut(0).Bytes()[0] = inputs[0].GetPlane(0).Bytes()[0] * 2
	return frame, nil
}

// linearFilter sets MAKE_LINEAR with no real dependencies, so the
// Maintainer wires each index as a false dependency of the next (spec
// scenario S3).
type linearFilter struct {
	info framez.VideoInfo
}

func newLinearFilter(frameCount uint64) *linearFilter {
	return &linearFilter{info: gray8Info(frameCount)}
}

func (f *linearFilter) Flags() framez.Flags        { return framez.FlagMakeLinear }
func (f *linearFilter) VideoInfo() framez.VideoInfo { return f.info }
func (f *linearFilter) FrameData(uint64) (framez.FrameData, error) {
	return framez.FrameData{}, nil
}
func (f *linearFilter) DropFrameData(framez.FrameData) {}
func (f *linearFilter) Clone() framez.Filter           { return f }

func (f *linearFilter) ProcessFrame(_ context.Context, _ []*framez.Frame, _ framez.FrameData, idx uint64) (*framez.Frame, error) {
	frame := framez.NewFrame(f.info.FrameInfo, nil)
	frame.GetPlaneMut(0).Bytes()[0] = byte(idx + 1)
	return frame, nil
}

// sleepyFilter sets SINGLE_THREADED and sleeps before returning, forcing
// serialized execution regardless of worker count (spec scenario S4).
type sleepyFilter struct {
	info  framez.VideoInfo
	sleep time.Duration
}

func newSleepyFilter(frameCount uint64, sleep time.Duration) *sleepyFilter {
	return &sleepyFilter{info: gray8Info(frameCount), sleep: sleep}
}

func (f *sleepyFilter) Flags() framez.Flags        { return framez.FlagSingleThreaded }
func (f *sleepyFilter) VideoInfo() framez.VideoInfo { return f.info }
func (f *sleepyFilter) FrameData(uint64) (framez.FrameData, error) {
	return framez.FrameData{}, nil
}
func (f *sleepyFilter) DropFrameData(framez.FrameData) {}
func (f *sleepyFilter) Clone() framez.Filter           { return f }

func (f *sleepyFilter) ProcessFrame(ctx context.Context, _ []*framez.Frame, _ framez.FrameData, idx uint64) (*framez.Frame, error) {
	select {
	case <-time.After(f.sleep):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	frame := framez.NewFrame(f.info.FrameInfo, nil)
	frame.GetPlaneMut(0).Bytes()[0] = byte(idx + 1)
	return frame, nil
}

// upstreamFilter has no dependencies and fails outright at a single
// configured index; a doublerFilter on top of it drives the failure
// cascade in spec scenario S5.
type upstreamFilter struct {
	info      framez.VideoInfo
	failIndex uint64
}

func newUpstreamFilter(frameCount, failIndex uint64) *upstreamFilter {
	return &upstreamFilter{info: gray8Info(frameCount), failIndex: failIndex}
}

func (f *upstreamFilter) Flags() framez.Flags        { return framez.FlagNormal }
func (f *upstreamFilter) VideoInfo() framez.VideoInfo { return f.info }
func (f *upstreamFilter) FrameData(uint64) (framez.FrameData, error) {
	return framez.FrameData{}, nil
}
func (f *upstreamFilter) DropFrameData(framez.FrameData) {}
func (f *upstreamFilter) Clone() framez.Filter           { return f }

func (f *upstreamFilter) ProcessFrame(_ context.Context, _ []*framez.Frame, _ framez.FrameData, idx uint64) (*framez.Frame, error) {
	if idx == f.failIndex {
		return nil, fmt.Errorf("upstreamFilter: induced failure at index %d", idx)
	}
	frame := framez.NewFrame(f.info.FrameInfo, nil)
	frame.GetPlaneMut(0).Bytes()[0] = byte(idx + 1)
	return frame, nil
}
