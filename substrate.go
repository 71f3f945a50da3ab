package framez

import "sync"

// Substrate binds a registered Filter to a specific vertex in the frame
// graph (spec §3/§4.E). It holds the canonical filter reference
// ("position zero", used for graph construction — FrameData calls always
// go through it) plus a pre-allocated, worker-indexed vector of lazily
// created clones: REDESIGN FLAGS calls for a vector indexed by worker id
// known at engine start rather than a map keyed by thread identity, since
// the worker count is fixed for the engine's lifetime.
type Substrate struct {
	name      Name
	canonical Filter

	mu      sync.Mutex
	workers []Filter // index i is worker i's clone, nil until first use
}

// newSubstrate allocates a Substrate for filter, with room for
// workerCount per-worker clones.
func newSubstrate(name Name, filter Filter, workerCount int) *Substrate {
	if name == "" {
		name = dynamicTypeName(filter)
	}
	return &Substrate{
		name:      name,
		canonical: filter,
		workers:   make([]Filter, workerCount),
	}
}

// Name returns the substrate's debug label.
func (s *Substrate) Name() Name { return s.name }

// Canonical returns the position-zero filter — the one the Maintainer
// uses for FrameData and graph construction.
func (s *Substrate) Canonical() Filter { return s.canonical }

// WorkerFilter returns the per-worker clone for workerID, lazily cloning
// the canonical filter on first use (spec §4.E: "one clone per live
// worker").
func (s *Substrate) WorkerFilter(workerID int) Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if workerID < 0 || workerID >= len(s.workers) {
		// Engine was reconfigured with fewer workers than this id;
		// fall back to a fresh clone rather than index out of range.
		return s.canonical.Clone()
	}
	if s.workers[workerID] == nil {
		s.workers[workerID] = s.canonical.Clone()
	}
	return s.workers[workerID]
}

// growWorkers extends the per-worker clone vector to workerCount slots,
// keeping existing clones; it never shrinks the vector. The Engine starts
// its worker pool once and does not resize it.
func (s *Substrate) growWorkers(workerCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if workerCount <= len(s.workers) {
		return
	}
	grown := make([]Filter, workerCount)
	copy(grown, s.workers)
	s.workers = grown
}
