package framez

import (
	"context"
	"sync"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Engine is the top-level entry point (spec §2/§5): it owns the
// Maintainer, the worker pool, the callback dispatcher, and the
// observability stack, and wires registered Filters into Substrates and
// Outputs.
type Engine struct {
	cfg Config

	mu         sync.Mutex
	substrates []*Substrate

	maintainer *Maintainer
	workQueue  *PQueue[*FrameInstance]
	workers    *WorkerPool
	dispatcher *Dispatcher

	logger  Logger
	clock   clockz.Clock
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[InstanceEvent]

	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
}

// New builds an Engine from cfg and starts its Maintainer, worker pool,
// and dispatcher goroutines (spec §5 "Startup").
func New(cfg Config) *Engine {
	cfg = cfg.normalized()

	ctx, cancel := context.WithCancel(context.Background())

	logger := StderrLogger()
	clock := clockz.RealClock
	metrics := metricz.New()
	tracer := tracez.New()
	hooks := hookz.New[InstanceEvent]()

	workQueue := NewPQueue[*FrameInstance]()
	maintainer := newMaintainer(workQueue, logger, clock, metrics, tracer, hooks)
	dispatcher := NewDispatcher(logger)
	workers := NewWorkerPool(maintainer, workQueue, logger, clock, metrics, tracer)

	e := &Engine{
		cfg:        cfg,
		maintainer: maintainer,
		workQueue:  workQueue,
		workers:    workers,
		dispatcher: dispatcher,
		logger:     logger,
		clock:      clock,
		metrics:    metrics,
		tracer:     tracer,
		hooks:      hooks,
		ctx:        ctx,
		cancel:     cancel,
	}

	go maintainer.Run(ctx)
	go dispatcher.Run(ctx)
	workers.Start(ctx, cfg.ThreadCount)

	return e
}

// SetConfig updates the stored tunables. The worker pool is started once,
// by New, and is never resized or restarted: a changed ThreadCount only
// sizes the per-worker clone slots of Substrates registered afterwards.
func (e *Engine) SetConfig(cfg Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg.normalized()
}

// Config returns the Engine's current configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Metrics returns the Engine's metric registry, for host code that wants
// to export it alongside its own.
func (e *Engine) Metrics() *metricz.Registry { return e.metrics }

// Tracer returns the Engine's tracer.
func (e *Engine) Tracer() *tracez.Tracer { return e.tracer }

// Hooks returns the Engine's instance-lifecycle hook registry.
func (e *Engine) Hooks() *hookz.Hooks[InstanceEvent] { return e.hooks }

// BubbleNanos returns the worker pool's accumulated idle time, the raw
// input to a bubble-ratio health metric (spec §4.G).
func (e *Engine) BubbleNanos() int64 { return e.workers.BubbleNanos() }

// RegisterFilter adopts filter as the canonical implementation of a new
// Substrate and returns it (spec §4.E). The Substrate pre-sizes its
// per-worker clone slots to the Engine's current thread count.
func (e *Engine) RegisterFilter(name Name, filter Filter) *Substrate {
	e.mu.Lock()
	workers := e.cfg.ThreadCount
	e.mu.Unlock()

	s := newSubstrate(name, filter, workers)

	e.mu.Lock()
	e.substrates = append(e.substrates, s)
	e.mu.Unlock()

	return s
}

// NewOutput creates an Output façade over substrate.
func (e *Engine) NewOutput(substrate *Substrate) *Output {
	return newOutput(substrate, e.maintainer, e.dispatcher)
}

// Close performs the cooperative shutdown from spec §5: stop accepting
// new work, wake every parked goroutine, and join them all before
// returning.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.maintainer.Stop()
		<-e.maintainer.Done()

		e.workQueue.RequestStop()
		e.workers.Wait()

		e.dispatcher.Stop()
		<-e.dispatcher.Done()

		e.hooks.Close()
		e.cancel()
	})
	return nil
}
