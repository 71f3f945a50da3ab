package framez

import "sync/atomic"

// InstanceState is the FrameInstance lifecycle from spec §3/§4.F's state
// machine.
type InstanceState int32

const (
	StatePending InstanceState = iota
	StateReady
	StateRunning
	StateDone
	StateKilled
)

// instanceKey identifies a FrameInstance: one per (substrate, frame index)
// pair (spec §3, invariant I1).
type instanceKey struct {
	substrate *Substrate
	idx       uint64
}

// InstanceRef is an arena handle: a slot index plus a generation counter,
// so a stale reference to a reclaimed slot is detected instead of
// silently aliasing a new instance. This is the REDESIGN FLAGS "arena +
// index" in place of the source's raw FrameInstance* graph.
type InstanceRef struct {
	idx uint32
	gen uint32
}

// Valid reports whether r was ever allocated (the zero InstanceRef is
// never a valid handle, since alloc never hands out generation 0: fresh
// slots start at 1 and reused slots are bumped, and slot 0 itself is
// reserved by newInstanceArena).
func (r InstanceRef) Valid() bool { return r.gen != 0 }

// pendingCallback is a one-shot delivery target attached to a
// FrameInstance, invoked at most once with either a frame or an error
// (spec invariant I5). Multiple top-level get_frame calls can target the
// same (substrate, idx) while it's still in flight — each gets its own
// callback, and all fire together when the instance resolves.
type pendingCallback func(*Frame, error)

// FrameInstance is one scheduled unit of work (spec §3).
type FrameInstance struct {
	self InstanceRef

	substrate *Substrate
	idx       uint64
	frameData FrameData
	tick      uint64

	inputs  []InstanceRef
	outputs []InstanceRef

	product *Frame

	callbacks []pendingCallback

	taken atomic.Bool

	falseDep       bool
	singleThreaded bool
	indulgence     uint32

	state InstanceState
}

// Tick satisfies Ticked, so *FrameInstance can be ordered in a PQueue by
// creation order (spec §4.B).
func (fi *FrameInstance) Tick() uint64 { return fi.tick }

// Key returns the (substrate, idx) identity of this instance.
func (fi *FrameInstance) Key() (substrate *Substrate, idx uint64) {
	return fi.substrate, fi.idx
}

// Product returns the completed frame, or nil if not yet produced.
func (fi *FrameInstance) Product() *Frame { return fi.product }

// State returns the instance's current lifecycle state.
func (fi *FrameInstance) State() InstanceState { return fi.state }

// claim attempts to take ownership for execution (Ready -> Running, spec
// §4.H step 4). It returns true exactly once across all callers — the
// at-most-once execution guarantee (invariant I2).
func (fi *FrameInstance) claim() bool {
	return fi.taken.CompareAndSwap(false, true)
}

// instanceArena is the fixed-slot store backing the Maintainer's instance
// set (REDESIGN FLAGS). It is single-writer — only the Maintainer goroutine
// ever calls alloc/free/get — so no internal locking is needed, matching
// spec §5's "instances ... are single-writer (maintainer)" policy.
//
// Grounded on joeycumines-go-utilpkg's TaskArena (fixed buffer, index
// handles) but extended with a free list and per-slot generation counters:
// TaskArena is reset wholesale once per tick and never reclaims individual
// slots, whereas FrameInstances are torn down individually by GC and
// kill-tree cascades throughout the engine's life, so slot reuse has to be
// safe against stale references.
type instanceArena struct {
	slots []*FrameInstance
	gens  []uint32
	free  []uint32
}

func newInstanceArena() *instanceArena {
	// Slot 0 is reserved so the zero InstanceRef (gen 0) is never valid.
	return &instanceArena{
		slots: []*FrameInstance{nil},
		gens:  []uint32{0},
	}
}

func (a *instanceArena) alloc(fi *FrameInstance) InstanceRef {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
		a.gens[idx]++
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, nil)
		a.gens = append(a.gens, 1)
	}
	ref := InstanceRef{idx: idx, gen: a.gens[idx]}
	fi.self = ref
	a.slots[idx] = fi
	return ref
}

func (a *instanceArena) get(ref InstanceRef) (*FrameInstance, bool) {
	if ref.idx == 0 || int(ref.idx) >= len(a.slots) {
		return nil, false
	}
	if a.gens[ref.idx] != ref.gen {
		return nil, false
	}
	fi := a.slots[ref.idx]
	return fi, fi != nil
}

func (a *instanceArena) release(ref InstanceRef) {
	if ref.idx == 0 || int(ref.idx) >= len(a.slots) {
		return
	}
	if a.gens[ref.idx] != ref.gen {
		return
	}
	a.slots[ref.idx] = nil
	a.free = append(a.free, ref.idx)
}
