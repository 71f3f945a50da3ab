package framez

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// bubble is the shared worker idle-time accumulator from spec §4.G/§4.H:
// nanoseconds spent parked waiting for work, a relaxed/advisory counter.
type bubble struct {
	ns atomic.Int64
}

func (b *bubble) add(d time.Duration) { b.ns.Add(int64(d)) }
func (b *bubble) nanos() int64        { return b.ns.Load() }

// WorkerPool runs config.ThreadCount worker goroutines, each looping on
// the Maintainer's work PQueue (spec §4.H). Grounded on the teacher's
// WorkerPool: the semaphore-style saturation signalling is replaced with
// the engine's claim-via-atomic-flag pattern (FrameInstance.claim), since
// the unit of work here is a graph node, not an arbitrary Chainable, but
// the shared shape — a fixed pool of goroutines, a clock for timing, and
// capitan signal emission around each lifecycle event — carries over.
type WorkerPool struct {
	maintainer *Maintainer
	workQueue  *PQueue[*FrameInstance]

	logger  Logger
	clock   clockz.Clock
	metrics *metricz.Registry
	tracer  *tracez.Tracer

	bubble bubble

	wg        sync.WaitGroup
	active    atomic.Int32
	closeOnce sync.Once
}

// NewWorkerPool creates a WorkerPool that claims work from the
// Maintainer's queue and reports back through it. Start sets how many
// worker goroutines it runs.
func NewWorkerPool(maintainer *Maintainer, workQueue *PQueue[*FrameInstance], logger Logger, clock clockz.Clock, metrics *metricz.Registry, tracer *tracez.Tracer) *WorkerPool {
	if clock == nil {
		clock = clockz.RealClock
	}
	return &WorkerPool{
		maintainer: maintainer,
		workQueue:  workQueue,
		logger:     withLogger(logger),
		clock:      clock,
		metrics:    metrics,
		tracer:     tracer,
	}
}

// Start launches workers worker goroutines, numbered 0..workers-1 so each
// can resolve a stable per-worker Substrate filter clone (spec §4.E).
func (w *WorkerPool) Start(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		w.wg.Add(1)
		go w.loop(ctx, i)
	}
}

// Wait blocks until every worker goroutine has returned (spec §5
// cooperative shutdown: "joins all threads").
func (w *WorkerPool) Wait() { w.wg.Wait() }

// BubbleNanos returns accumulated worker idle time, the raw material for
// the "bubble" health metric (spec §4.G).
func (w *WorkerPool) BubbleNanos() int64 { return w.bubble.nanos() }

// ActiveWorkers returns the number of workers currently running
// ProcessFrame (as opposed to parked on the work queue).
func (w *WorkerPool) ActiveWorkers() int32 { return w.active.Load() }

func (w *WorkerPool) loop(ctx context.Context, workerID int) {
	defer w.wg.Done()
	capitan.Info(ctx, SignalWorkerStarted, FieldWorkerID.Field(workerID))
	defer capitan.Info(context.Background(), SignalWorkerStopped, FieldWorkerID.Field(workerID))

	for {
		waitStart := w.clock.Now()
		fi, ok, err := w.workQueue.Pop(true)
		w.bubble.add(w.clock.Now().Sub(waitStart))
		if err != nil {
			return // ErrStopRequested
		}
		if !ok {
			continue
		}
		w.run(ctx, workerID, fi)
	}
}

func (w *WorkerPool) run(ctx context.Context, workerID int, fi *FrameInstance) {
	if !fi.claim() {
		// Another worker already claimed this instance — benign race,
		// not an error (spec §4.H step 4).
		capitan.Info(ctx, SignalWorkerLost,
			FieldSubstrate.Field(fi.substrate.Name()),
			FieldIndex.Field(int(fi.idx)),
			FieldWorkerID.Field(workerID),
		)
		return
	}

	w.active.Add(1)
	defer w.active.Add(-1)
	if w.metrics != nil {
		w.metrics.Gauge(MetricWorkerPoolActive).Set(float64(w.active.Load()))
	}

	fi.state = StateRunning
	w.maintainer.emitInstanceEvent(fi, EventInstanceRunning)

	inputs := make([]*Frame, len(fi.inputs))
	for i := range fi.inputs {
		// inputs[i].product is guaranteed Some before fi was posted to
		// the work queue (spec invariant I3); the arena lookup is just
		// defensive against an input already torn down by a racing GC,
		// which cannot happen while fi itself is alive with that edge.
		if inFi, ok := w.maintainer.arena.get(fi.inputs[i]); ok {
			inputs[i] = inFi.product
		}
	}

	filter := fi.substrate.WorkerFilter(workerID)

	ctx, span := w.tracer.StartSpan(ctx, SpanProcessFrame)
	span.SetTag(TagSubstrate, fi.substrate.Name())
	span.SetTag(TagIndex, strconv.FormatUint(fi.idx, 10))

	frame, err := w.safeProcessFrame(ctx, filter, inputs, fi.frameData, fi.idx)

	if err != nil {
		span.SetTag(TagError, err.Error())
		span.Finish()
		capitan.Error(ctx, SignalWorkerFault,
			FieldSubstrate.Field(fi.substrate.Name()),
			FieldIndex.Field(int(fi.idx)),
			FieldError.Field(err.Error()),
		)
		ferr := &FilterError{Substrate: fi.substrate.Name(), Index: fi.idx, Err: err, Timestamp: w.clock.Now()}
		w.maintainer.postNotify(fi.self, ferr)
		return
	}

	span.SetTag(TagSuccess, "true")
	span.Finish()
	fi.product = frame
	capitan.Info(ctx, SignalWorkerClaimed,
		FieldSubstrate.Field(fi.substrate.Name()),
		FieldIndex.Field(int(fi.idx)),
		FieldWorkerID.Field(workerID),
	)
	w.maintainer.postNotify(fi.self, nil)
}

// safeProcessFrame recovers a panicking Filter.ProcessFrame into a plain
// error, so one misbehaving filter can't take down a worker goroutine —
// it becomes an ordinary filter failure and enters the kill-tree like any
// other (spec §7.1: "any exception out of process_frame").
func (w *WorkerPool) safeProcessFrame(ctx context.Context, filter Filter, inputs []*Frame, fd FrameData, idx uint64) (frame *Frame, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &filterPanic{value: r}
		}
	}()
	return filter.ProcessFrame(ctx, inputs, fd, idx)
}

type filterPanic struct{ value interface{} }

func (p *filterPanic) Error() string { return "framez: filter panicked: " + toString(p.value) }

func toString(v interface{}) string {
	if e, ok := v.(error); ok {
		return e.Error()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return "unknown panic value"
}

