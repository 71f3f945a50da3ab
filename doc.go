// Package framez is a reactive frame-graph execution engine for
// video-processing pipelines.
//
// # Overview
//
// framez schedules a graph of Filters — small, type-safe stages that
// transform video Frames — without the caller ever constructing that graph
// by hand. A host asks an Output for frame N; framez walks the Filter's
// declared dependencies backward from that request, builds only the
// FrameInstances actually needed to satisfy it, runs them on a worker pool,
// and delivers the result through a callback dispatcher. Frames already
// computed are cached and reference-counted; Filters that are safe to run
// concurrently do so automatically, and Filters that declare otherwise
// (via Flags) are serialized onto a single "neck" per Substrate.
//
// # Core Concepts
//
//   - Filter: the unit of work. Given a frame index, it produces a Frame
//     from its dependencies' Frames.
//   - Substrate: a Filter bound to a per-worker clone, so stateful Filters
//     don't need their own locking.
//   - FrameInstance: one (Substrate, index) computation node in the
//     dependency graph, tracked through a Pending -> Ready -> Running ->
//     Done/Killed state machine.
//   - Maintainer: the single-threaded scheduler that builds the graph,
//     dispatches ready work to the worker pool, and reacts to completions.
//   - Output: the façade a host uses to request a frame by index.
//
// # Concurrency model
//
// Tasks cross thread boundaries through one of two queues: a lock-free
// intrusive single-consumer queue (the Maintainer's inbox, and the
// dispatcher's inbox) and a mutex-guarded priority queue ordered by
// scheduling tick (the worker pool's inbox). Frame and Table copy-on-write
// semantics are built on atomic refcounts instead of locks.
//
// # Observability
//
// Every subsystem emits structured signals through capitan, counters and
// gauges through metricz, spans through tracez, and typed lifecycle hooks
// through hookz, in addition to accepting a pluggable Logger. See
// signals.go for the full catalogue.
//
// # Quick start
//
//	eng := framez.New(framez.DefaultConfig())
//	defer eng.Close()
//
//	sub := eng.RegisterFilter("my-filter", myFilter)
//	out := eng.NewOutput(sub)
//
//	out.GetFrame(ctx, 0, func(f *framez.Frame, err error) {
//	    if err != nil {
//	        log.Println(err)
//	        return
//	    }
//	    // use f
//	})
package framez
