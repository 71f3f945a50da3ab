package framez

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// taskKind tags a maintainTask as one of the two variants spec §9 calls
// for in place of the source's exception-driven control flow: a closed
// sum type the Maintainer switches on instead of catching.
type taskKind uint8

const (
	taskConstruct taskKind = iota
	taskNotify
)

// maintainTask is the Maintainer's inbox item (spec §4.G): either a
// Construct request from an Output, or a Notify report from a worker.
type maintainTask struct {
	kind taskKind

	// Construct fields.
	substrate *Substrate
	idx       uint64
	callback  pendingCallback

	// Notify fields.
	ref       InstanceRef
	notifyErr error
}

// neckState is the single-threaded backpressure buffer for one substrate
// (spec §4.G "neck"): at most one instance runs at a time, others queue.
type neckState struct {
	busy    bool
	running InstanceRef
	queued  []InstanceRef
}

// historyCap bounds the Maintainer's miss-detection history (spec §4.G).
const historyCap = 65535

// gcPeriodTicks is how often (in Maintainer ticks) the periodic GC sweep
// runs (spec §4.G).
const gcPeriodTicks = 256

// Maintainer is the single-threaded bookkeeper at the heart of the engine
// (spec §4.G). It is the sole writer of instances/neck/history/miss/tick —
// every other subsystem only ever posts tasks to its inbox.
type Maintainer struct {
	inbox     *Queue[maintainTask]
	workQueue *PQueue[*FrameInstance]

	arena     *instanceArena
	instances map[instanceKey]InstanceRef
	neck      map[*Substrate]*neckState
	history   map[instanceKey]struct{}
	miss      map[*Substrate]uint32
	tick      uint64

	logger  Logger
	clock   clockz.Clock
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[InstanceEvent]

	done chan struct{}
}

// newMaintainer builds a Maintainer posting ready work onto workQueue.
func newMaintainer(workQueue *PQueue[*FrameInstance], logger Logger, clock clockz.Clock, metrics *metricz.Registry, tracer *tracez.Tracer, hooks *hookz.Hooks[InstanceEvent]) *Maintainer {
	return &Maintainer{
		inbox:     NewQueue[maintainTask](),
		workQueue: workQueue,
		arena:     newInstanceArena(),
		instances: make(map[instanceKey]InstanceRef),
		neck:      make(map[*Substrate]*neckState),
		history:   make(map[instanceKey]struct{}),
		miss:      make(map[*Substrate]uint32),
		logger:    withLogger(logger),
		clock:     clock,
		metrics:   metrics,
		tracer:    tracer,
		hooks:     hooks,
		done:      make(chan struct{}),
	}
}

// postConstruct enqueues a Construct task, posted by Output.GetFrame.
func (m *Maintainer) postConstruct(substrate *Substrate, idx uint64, callback pendingCallback) {
	m.inbox.Push(maintainTask{kind: taskConstruct, substrate: substrate, idx: idx, callback: callback})
}

// postNotify enqueues a Notify task, posted by a worker after
// ProcessFrame returns (success or failure).
func (m *Maintainer) postNotify(ref InstanceRef, err error) {
	m.inbox.Push(maintainTask{kind: taskNotify, ref: ref, notifyErr: err})
}

// Stop requests the Maintainer's run loop to exit.
func (m *Maintainer) Stop() { m.inbox.RequestStop() }

// Done returns a channel closed once the run loop has exited.
func (m *Maintainer) Done() <-chan struct{} { return m.done }

// Run is the Maintainer's main loop (spec §4.G): park on the inbox, drain
// a batch, handle each task, then post any neck-queued work that became
// eligible once the batch settled.
func (m *Maintainer) Run(ctx context.Context) {
	defer close(m.done)
	var batch []maintainTask
	for {
		first, _, err := m.inbox.Pop(true)
		if err != nil {
			return // ErrStopRequested
		}
		batch = append(batch[:0], first)
		for {
			t, ok, err := m.inbox.Pop(false)
			if err != nil {
				// Stop observed mid-batch: finish the tasks already
				// collected (the backlog behind them is abandoned, not
				// drained — see Queue.RequestStop), then exit.
				for _, task := range batch {
					m.handle(ctx, task)
				}
				m.postNeckWork()
				return
			}
			if !ok {
				break
			}
			batch = append(batch, t)
		}
		for _, task := range batch {
			m.handle(ctx, task)
		}
		m.postNeckWork()
	}
}

func (m *Maintainer) handle(ctx context.Context, t maintainTask) {
	defer func() {
		if r := recover(); r != nil {
			// A panic out of the Maintainer's own bookkeeping is a fatal
			// bug (spec §4.G "Failure semantics"), not a filter failure.
			panicFatal(m.logger, fmt.Sprintf("maintainer panic: %v", r))
		}
	}()

	switch t.kind {
	case taskConstruct:
		before := m.tick
		m.tick++
		if m.metrics != nil {
			m.metrics.Counter(MetricMaintainerTicksTotal).Inc()
		}
		_, _ = m.construct(ctx, t.substrate, t.idx, t.callback, false)
		// construct advances the tick once per new instance, so test for a
		// crossed period boundary rather than an exact multiple.
		if m.tick/gcPeriodTicks != before/gcPeriodTicks {
			m.gc()
		}
	case taskNotify:
		m.notify(ctx, t.ref, t.notifyErr)
	}
}

func (m *Maintainer) nextTick() uint64 {
	m.tick++
	return m.tick
}

// construct implements the Construct path (spec §4.G).
func (m *Maintainer) construct(ctx context.Context, substrate *Substrate, idx uint64, callback pendingCallback, missedIn bool) (InstanceRef, error) {
	ctx, span := m.tracer.StartSpan(ctx, SpanConstruct)
	span.SetTag(TagSubstrate, substrate.Name())
	span.SetTag(TagIndex, fmt.Sprintf("%d", idx))
	defer span.Finish()

	key := instanceKey{substrate, idx}

	if ref, ok := m.instances[key]; ok {
		if fi, ok2 := m.arena.get(ref); ok2 {
			if callback != nil {
				if fi.product != nil {
					callback(fi.product, nil)
				} else {
					fi.callbacks = append(fi.callbacks, callback)
				}
			}
			return ref, nil
		}
	}

	missed := missedIn
	if _, seen := m.history[key]; seen {
		missed = true
		m.miss[substrate]++
		if m.metrics != nil {
			m.metrics.Counter(MetricMaintainerMissTotal).Inc()
		}
		capitan.Info(ctx, SignalMaintainerMiss,
			FieldSubstrate.Field(substrate.Name()),
			FieldIndex.Field(int(idx)),
			FieldMissCount.Field(int(m.miss[substrate])),
		)
	} else {
		m.history[key] = struct{}{}
	}

	fd, err := substrate.Canonical().FrameData(idx)
	if err != nil {
		cerr := &ConstructError{Substrate: substrate.Name(), Index: idx, Err: err, Timestamp: m.clock.Now()}
		span.SetTag(TagError, cerr.Error())
		if callback != nil {
			callback(nil, cerr)
		}
		return InstanceRef{}, cerr
	}

	fi := &FrameInstance{substrate: substrate, idx: idx, frameData: fd, tick: m.nextTick()}
	ref := m.arena.alloc(fi)
	m.instances[key] = ref

	inputs := make([]InstanceRef, 0, len(fd.Dependencies))
	for _, dep := range fd.Dependencies {
		depRef, derr := m.construct(ctx, dep.Substrate, dep.Index, nil, missed)
		if derr != nil {
			m.eraseInstance(fi, ref)
			cerr := &ConstructError{Substrate: substrate.Name(), Index: idx, Err: derr, Timestamp: m.clock.Now()}
			if callback != nil {
				callback(nil, cerr)
			}
			return InstanceRef{}, cerr
		}
		inputs = append(inputs, depRef)
		if depFi, ok := m.arena.get(depRef); ok {
			depFi.outputs = append(depFi.outputs, ref)
		}
	}

	flags := substrate.Canonical().Flags()
	if flags.MakeLinear() && idx > 0 {
		prevKey := instanceKey{substrate, idx - 1}
		// If (substrate, idx-1) was already GC'd, the linearisation edge
		// is silently lost — left as-is per spec §9 open question.
		if prevRef, ok := m.instances[prevKey]; ok {
			if prevFi, ok2 := m.arena.get(prevRef); ok2 {
				inputs = append(inputs, prevRef)
				prevFi.outputs = append(prevFi.outputs, ref)
				fi.falseDep = true
			}
		}
	}
	if flags.SingleThreaded() {
		fi.singleThreaded = true
	}
	fi.indulgence = m.miss[substrate] / 8 // tunable heuristic, preserved verbatim (spec §9)
	fi.inputs = inputs

	if callback != nil {
		fi.callbacks = append(fi.callbacks, callback)
	}

	if m.allInputsReady(fi) {
		m.postWork(fi)
	}

	span.SetTag(TagSuccess, "true")
	return ref, nil
}

func (m *Maintainer) allInputsReady(fi *FrameInstance) bool {
	for _, inRef := range fi.inputs {
		inFi, ok := m.arena.get(inRef)
		if !ok || inFi.product == nil {
			return false
		}
	}
	return true
}

// postWork moves fi from Pending to Ready and either pushes it straight to
// the work queue, or — for single-threaded substrates — into that
// substrate's neck (spec §4.G "Posting work").
func (m *Maintainer) postWork(fi *FrameInstance) {
	fi.state = StateReady
	m.emitInstanceEvent(fi, EventInstanceReady)

	if !fi.singleThreaded {
		m.workQueue.Push(fi)
		return
	}

	neck := m.neckFor(fi.substrate)
	neck.queued = append(neck.queued, fi.self)
	capitan.Info(context.Background(), SignalNeckQueued,
		FieldSubstrate.Field(fi.substrate.Name()),
		FieldIndex.Field(int(fi.idx)),
	)
}

func (m *Maintainer) neckFor(s *Substrate) *neckState {
	n, ok := m.neck[s]
	if !ok {
		n = &neckState{}
		m.neck[s] = n
	}
	return n
}

// postNeckWork posts one queued instance for every idle neck, once the
// current batch of maintain-tasks has drained (spec §4.G "Posting work").
func (m *Maintainer) postNeckWork() {
	for s, n := range m.neck {
		if n.busy || len(n.queued) == 0 {
			continue
		}
		next := n.queued[0]
		n.queued = n.queued[1:]
		if fi, ok := m.arena.get(next); ok {
			n.busy = true
			n.running = next
			m.workQueue.Push(fi)
			capitan.Info(context.Background(), SignalNeckBusy, FieldSubstrate.Field(s.Name()))
		}
	}
}

// notify implements the Notify path (spec §4.G).
func (m *Maintainer) notify(ctx context.Context, ref InstanceRef, ferr error) {
	ctx, span := m.tracer.StartSpan(ctx, SpanNotify)
	defer span.Finish()

	fi, ok := m.arena.get(ref)
	if !ok {
		return // already torn down
	}
	span.SetTag(TagSubstrate, fi.substrate.Name())
	span.SetTag(TagIndex, fmt.Sprintf("%d", fi.idx))

	if fi.singleThreaded {
		if n, ok2 := m.neck[fi.substrate]; ok2 {
			n.busy = false
			n.running = InstanceRef{}
			capitan.Info(ctx, SignalNeckFree, FieldSubstrate.Field(fi.substrate.Name()))
		}
	}

	if ferr == nil {
		fi.state = StateDone
		m.emitInstanceEvent(fi, EventInstanceDone)
		span.SetTag(TagSuccess, "true")

		cbs := fi.callbacks
		fi.callbacks = nil
		for _, cb := range cbs {
			cb(fi.product, nil)
		}

		for _, outRef := range fi.outputs {
			outFi, ok2 := m.arena.get(outRef)
			if !ok2 || outFi.product != nil {
				continue
			}
			if m.allInputsReady(outFi) {
				m.postWork(outFi)
			}
		}
		return
	}

	span.SetTag(TagError, ferr.Error())
	m.killTree(ctx, ref, ferr)
}

// killTree implements the failure cascade (spec §4.G "Failure"): mark the
// instance and every transitively-reachable downstream instance as
// killed, deliver the error to every callback encountered, and erase all
// of them once the cascade completes.
func (m *Maintainer) killTree(ctx context.Context, root InstanceRef, cause error) {
	ctx, span := m.tracer.StartSpan(ctx, SpanKillTree)
	defer span.Finish()

	var toKill []InstanceRef
	visited := make(map[InstanceRef]bool)
	var visit func(ref InstanceRef)
	visit = func(ref InstanceRef) {
		if visited[ref] {
			return
		}
		visited[ref] = true
		fi, ok := m.arena.get(ref)
		if !ok {
			return
		}
		fi.state = StateKilled
		m.emitInstanceEvent(fi, EventInstanceKilled)
		toKill = append(toKill, ref)
		for _, outRef := range fi.outputs {
			visit(outRef)
		}
	}
	visit(root)

	handled := false
	for _, ref := range toKill {
		fi, ok := m.arena.get(ref)
		if !ok {
			continue
		}
		for _, cb := range fi.callbacks {
			cb(nil, cause)
			handled = true
		}
		fi.callbacks = nil

		// Complete cleanup of the neck, per spec §9's resolved open
		// question: drop any queued/running reference to this instance,
		// but leave the substrate's miss counter alone (it's historical
		// recomputation pressure, not tied to this instance).
		if fi.singleThreaded {
			if n, ok2 := m.neck[fi.substrate]; ok2 {
				if n.running == ref {
					n.busy = false
					n.running = InstanceRef{}
				}
				n.queued = removeRef(n.queued, ref)
			}
		}

		m.eraseInstance(fi, ref)
	}

	capitan.Error(ctx, SignalKillTree, FieldError.Field(cause.Error()))

	if !handled {
		capitan.Error(ctx, SignalUnhandledFailure, FieldError.Field(cause.Error()))
		panicFatal(m.logger, "kill-tree cascade reached no callback: "+cause.Error())
	}
}

// eraseInstance tears down fi for good: gives the filter that owns its
// FrameData a chance to release any associated resources (spec §6
// "drop_frame_data is called when the instance is destroyed"), then drops
// it from the instance set and frees its arena slot. Every permanent
// instance-erase point in the Maintainer goes through this, so
// DropFrameData fires exactly once per constructed FrameInstance.
func (m *Maintainer) eraseInstance(fi *FrameInstance, ref InstanceRef) {
	fi.substrate.Canonical().DropFrameData(fi.frameData)
	delete(m.instances, instanceKey{fi.substrate, fi.idx})
	m.arena.release(ref)
}

func removeRef(refs []InstanceRef, target InstanceRef) []InstanceRef {
	out := refs[:0]
	for _, r := range refs {
		if r != target {
			out = append(out, r)
		}
	}
	return out
}

// gc runs the periodic sweep (spec §4.G "Periodic garbage collection").
func (m *Maintainer) gc() {
	removed := 0
	for i := 1; i < len(m.arena.slots); i++ {
		fi := m.arena.slots[i]
		if fi == nil {
			continue
		}
		ref := InstanceRef{idx: uint32(i), gen: m.arena.gens[i]}

		keep := fi.product == nil || len(fi.callbacks) > 0
		if !keep && fi.singleThreaded {
			if n, ok := m.neck[fi.substrate]; ok && n.running == ref {
				keep = true
			}
		}
		if !keep {
			for _, outRef := range fi.outputs {
				if _, ok := m.arena.get(outRef); ok {
					keep = true
					break
				}
			}
		}
		if keep {
			continue
		}

		if fi.indulgence == 0 {
			m.eraseInstance(fi, ref)
			removed++
		} else {
			fi.indulgence--
		}
	}

	if len(m.history) > historyCap {
		m.history = make(map[instanceKey]struct{})
		m.logger.Log(LevelDebug, "framez: maintainer history capacity exceeded, cleared")
	}

	if m.metrics != nil {
		for i := 0; i < removed; i++ {
			m.metrics.Counter(MetricGCRemovedTotal).Inc()
		}
		m.metrics.Gauge(MetricInstancesLive).Set(float64(len(m.instances)))
	}
	capitan.Info(context.Background(), SignalMaintainerGC,
		FieldRemoved.Field(removed),
		FieldHistorySz.Field(len(m.history)),
	)
}

func (m *Maintainer) emitInstanceEvent(fi *FrameInstance, key hookz.Key) {
	if m.hooks == nil || m.hooks.ListenerCount(key) == 0 {
		return
	}
	_ = m.hooks.Emit(context.Background(), key, InstanceEvent{
		Substrate: fi.substrate.Name(),
		Index:     fi.idx,
		State:     fi.state,
	})
}
