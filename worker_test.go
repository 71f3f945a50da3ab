package framez

import (
	"context"
	"errors"
	"testing"

	"github.com/zoobzio/clockz"
)

func TestSafeProcessFrameRecoversPanic(t *testing.T) {
	workQueue := NewPQueue[*FrameInstance]()
	m, _ := newTestMaintainer()
	w := NewWorkerPool(m, workQueue, nil, clockz.RealClock, nil, nil)

	filter := newFakeFilter(1)
	w.tracer = m.tracer

	_ = filter
	frame, err := w.safeProcessFrame(context.Background(), panicFilter{}, nil, FrameData{}, 0)
	if frame != nil {
		t.Fatalf("expected nil frame from a panicking filter, got %v", frame)
	}
	var pp *filterPanic
	if !errors.As(err, &pp) {
		t.Fatalf("safeProcessFrame err = %v (%T), want *filterPanic", err, err)
	}
}

func TestSafeProcessFramePassesThroughSuccess(t *testing.T) {
	workQueue := NewPQueue[*FrameInstance]()
	m, _ := newTestMaintainer()
	w := NewWorkerPool(m, workQueue, nil, clockz.RealClock, nil, m.tracer)

	filter := newFakeFilter(1)
	frame, err := w.safeProcessFrame(context.Background(), filter, nil, FrameData{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame == nil {
		t.Fatalf("expected a frame, got nil")
	}
}

type panicFilter struct{}

func (panicFilter) Flags() Flags                     { return FlagNormal }
func (panicFilter) VideoInfo() VideoInfo              { return VideoInfo{} }
func (panicFilter) FrameData(uint64) (FrameData, error) { return FrameData{}, nil }
func (panicFilter) DropFrameData(FrameData)           {}
func (panicFilter) Clone() Filter                     { return panicFilter{} }
func (panicFilter) ProcessFrame(context.Context, []*Frame, FrameData, uint64) (*Frame, error) {
	panic("induced panic")
}
