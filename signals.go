package framez

import (
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Signal constants for engine events. Signals follow the teacher's
// <subsystem>.<event> naming pattern.
const (
	// Maintainer signals.
	SignalMaintainerConstruct capitan.Signal = "maintainer.construct"
	SignalMaintainerMiss      capitan.Signal = "maintainer.miss"
	SignalMaintainerNotify    capitan.Signal = "maintainer.notify"
	SignalMaintainerGC        capitan.Signal = "maintainer.gc"
	SignalKillTree            capitan.Signal = "maintainer.kill-tree"
	SignalUnhandledFailure    capitan.Signal = "maintainer.unhandled-failure"

	// Neck (single-threaded substrate backpressure) signals.
	SignalNeckQueued capitan.Signal = "neck.queued"
	SignalNeckBusy   capitan.Signal = "neck.busy"
	SignalNeckFree   capitan.Signal = "neck.free"

	// Worker pool signals.
	SignalWorkerClaimed   capitan.Signal = "worker.claimed"
	SignalWorkerLost      capitan.Signal = "worker.lost-race"
	SignalWorkerFault     capitan.Signal = "worker.fault"
	SignalWorkerBubble    capitan.Signal = "worker.bubble"
	SignalWorkerStarted   capitan.Signal = "worker.started"
	SignalWorkerStopped   capitan.Signal = "worker.stopped"

	// Dispatcher signals.
	SignalDispatchDelivered capitan.Signal = "dispatch.delivered"
	SignalDispatchStopped   capitan.Signal = "dispatch.stopped"

	// Output signals.
	SignalOutputRequested capitan.Signal = "output.requested"
)

// Common field keys using capitan primitive types, matching the teacher's
// convention of typed keys rather than untyped maps.
var (
	FieldSubstrate  = capitan.NewStringKey("substrate")
	FieldIndex      = capitan.NewIntKey("idx")
	FieldTick       = capitan.NewIntKey("tick")
	FieldError      = capitan.NewStringKey("error")
	FieldTimestamp  = capitan.NewFloat64Key("timestamp")
	FieldMissCount  = capitan.NewIntKey("miss_count")
	FieldIndulgence = capitan.NewIntKey("indulgence")
	FieldRemoved    = capitan.NewIntKey("removed")
	FieldHistorySz  = capitan.NewIntKey("history_size")
	FieldBubbleNs   = capitan.NewFloat64Key("bubble_ns")
	FieldWorkerID   = capitan.NewIntKey("worker_id")
	FieldDuration   = capitan.NewFloat64Key("duration")
)

// Metric keys, registered on the Engine's metricz.Registry (engine.go).
const (
	MetricMaintainerTicksTotal = metricz.Key("maintainer.ticks.total")
	MetricMaintainerMissTotal  = metricz.Key("maintainer.miss.total")
	MetricInstancesLive        = metricz.Key("maintainer.instances.live")
	MetricNeckQueued           = metricz.Key("maintainer.neck.queued")
	MetricBubbleRatio          = metricz.Key("worker.bubble.ratio")
	MetricWorkerPoolActive     = metricz.Key("worker.pool.active")
	MetricGCRemovedTotal       = metricz.Key("maintainer.gc.removed.total")
)

// Span keys and tags, used against the Engine's tracez.Tracer.
const (
	SpanConstruct     = tracez.Key("maintainer.construct")
	SpanProcessFrame  = tracez.Key("worker.process_frame")
	SpanNotify        = tracez.Key("maintainer.notify")
	SpanKillTree      = tracez.Key("maintainer.kill_tree")

	TagSubstrate = tracez.Tag("substrate")
	TagIndex     = tracez.Tag("idx")
	TagError     = tracez.Tag("error")
	TagSuccess   = tracez.Tag("success")
)

// InstanceEvent is emitted through the Engine's hookz.Hooks[InstanceEvent]
// registry on every FrameInstance lifecycle transition, so host code can
// observe Ready/Running/Done/Killed without being on the hot path.
type InstanceEvent struct {
	Substrate Name
	Index     uint64
	State     InstanceState
}

// Hook event keys for InstanceEvent.
const (
	EventInstanceReady   = hookz.Key("instance.ready")
	EventInstanceRunning = hookz.Key("instance.running")
	EventInstanceDone    = hookz.Key("instance.done")
	EventInstanceKilled  = hookz.Key("instance.killed")
)
