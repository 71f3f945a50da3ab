// Package testsupport provides test doubles and assertion helpers for
// framez-based applications: a configurable MockFilter, plus helpers for
// waiting on and asserting against its call history.
package testsupport

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/zoobzio/framez"
)

// MockFilter is a configurable framez.Filter double. It tracks every
// ProcessFrame call and lets a test script its return value, induced
// latency, or an induced panic.
type MockFilter struct {
	t     *testing.T
	name  string
	clock clockz.Clock

	mu          sync.RWMutex
	flags       framez.Flags
	info        framez.VideoInfo
	deps        map[uint64][]framez.Dependency
	returnErr   error
	delay       time.Duration
	panicMsg    string
	callHistory []MockCall

	callCount atomic.Int64
}

// MockCall records one ProcessFrame invocation.
type MockCall struct {
	Index     uint64
	Timestamp time.Time
}

// NewMockFilter creates a MockFilter named name. Frames produced by
// ProcessFrame use info's FrameInfo, with byte 0 of plane 0 set to idx+1.
func NewMockFilter(t *testing.T, name string, info framez.VideoInfo) *MockFilter {
	return &MockFilter{
		t:     t,
		name:  name,
		clock: clockz.RealClock,
		info:  info,
		deps:  make(map[uint64][]framez.Dependency),
	}
}

// WithClock overrides the clock used for induced delay (for use with a
// clockz fake clock in deterministic tests).
func (m *MockFilter) WithClock(clock clockz.Clock) *MockFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = clock
	return m
}

// WithFlags sets the Flags ProcessFrame's Filter reports.
func (m *MockFilter) WithFlags(flags framez.Flags) *MockFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags = flags
	return m
}

// WithDependency registers dep as a dependency of frame idx.
func (m *MockFilter) WithDependency(idx uint64, dep framez.Dependency) *MockFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deps[idx] = append(m.deps[idx], dep)
	return m
}

// WithError configures every subsequent ProcessFrame call to fail with err.
func (m *MockFilter) WithError(err error) *MockFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returnErr = err
	return m
}

// WithDelay configures induced latency before ProcessFrame returns.
func (m *MockFilter) WithDelay(d time.Duration) *MockFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	return m
}

// WithPanic configures ProcessFrame to panic with msg.
func (m *MockFilter) WithPanic(msg string) *MockFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panicMsg = msg
	return m
}

// Flags implements framez.Filter.
func (m *MockFilter) Flags() framez.Flags {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags
}

// VideoInfo implements framez.Filter.
func (m *MockFilter) VideoInfo() framez.VideoInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.info
}

// FrameData implements framez.Filter.
func (m *MockFilter) FrameData(idx uint64) (framez.FrameData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return framez.FrameData{Dependencies: m.deps[idx]}, nil
}

// DropFrameData implements framez.Filter.
func (m *MockFilter) DropFrameData(framez.FrameData) {}

// ProcessFrame implements framez.Filter, recording the call and applying
// any configured delay, error, or panic.
func (m *MockFilter) ProcessFrame(ctx context.Context, inputs []*framez.Frame, fd framez.FrameData, idx uint64) (*framez.Frame, error) {
	m.callCount.Add(1)

	m.mu.Lock()
	m.callHistory = append(m.callHistory, MockCall{Index: idx, Timestamp: time.Now()})
	delay := m.delay
	returnErr := m.returnErr
	panicMsg := m.panicMsg
	info := m.info
	m.mu.Unlock()

	if panicMsg != "" {
		panic(panicMsg)
	}

	if delay > 0 {
		select {
		case <-m.clock.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if returnErr != nil {
		return nil, returnErr
	}

	frame := framez.NewFrame(info.FrameInfo, nil)
	plane := frame.GetPlaneMut(0)
	b := plane.Bytes()
	if len(b) > 0 {
		b[0] = byte(idx + 1)
	}
	return frame, nil
}

// Clone implements framez.Filter: MockFilter shares its configuration
// across clones, so per-worker clones observe the same WithX settings.
func (m *MockFilter) Clone() framez.Filter { return m }

// CallCount returns the number of ProcessFrame invocations observed.
func (m *MockFilter) CallCount() int { return int(m.callCount.Load()) }

// CallHistory returns a copy of every recorded ProcessFrame call.
func (m *MockFilter) CallHistory() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]MockCall, len(m.callHistory))
	copy(out, m.callHistory)
	return out
}

// AssertProcessed fails the test unless mock was called exactly n times.
func AssertProcessed(t *testing.T, mock *MockFilter, n int) {
	t.Helper()
	if got := mock.CallCount(); got != n {
		t.Errorf("expected filter %q to be called %d times, got %d", mock.name, n, got)
	}
}

// WaitForCalls polls mock until it has been called at least n times or
// timeout elapses, returning whether the target was reached.
func WaitForCalls(mock *MockFilter, n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if mock.CallCount() >= n {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return mock.CallCount() >= n
}
