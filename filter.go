package framez

import "context"

// Flags is the bitfield a Filter exposes to describe its scheduling
// requirements (spec §6).
type Flags uint8

const (
	FlagNormal         Flags = 0
	FlagMakeLinear     Flags = 4
	FlagSingleThreaded Flags = 8
)

func (f Flags) MakeLinear() bool     { return f&FlagMakeLinear != 0 }
func (f Flags) SingleThreaded() bool { return f&FlagSingleThreaded != 0 }

// Dependency names one upstream (substrate, index) a Filter needs in order
// to produce a given output frame.
type Dependency struct {
	Substrate *Substrate
	Index     uint64
}

// FrameData is what Filter.FrameData returns for a given output index: the
// set of upstream dependencies the Maintainer must construct before
// ProcessFrame can run (spec §3/§6).
type FrameData struct {
	Dependencies []Dependency
}

// Filter is the host-supplied unit of work (spec §6). Implementations are
// stateless with respect to concurrent calls unless FlagSingleThreaded is
// set; Substrate gives each worker its own Clone so stateful filters don't
// need their own locking.
type Filter interface {
	// Flags returns the scheduling bitfield.
	Flags() Flags

	// VideoInfo describes the frame geometry and frame count this filter
	// produces.
	VideoInfo() VideoInfo

	// FrameData is invoked once per new FrameInstance; it must be
	// idempotent for a given idx.
	FrameData(idx uint64) (FrameData, error)

	// ProcessFrame computes the output frame for idx from its dependency
	// frames (in the same order FrameData declared them) and the
	// FrameData previously returned for idx. It runs on a worker
	// goroutine and may return an error, which triggers a kill-tree
	// cascade (spec §4.G).
	ProcessFrame(ctx context.Context, inputs []*Frame, fd FrameData, idx uint64) (*Frame, error)

	// DropFrameData is called when the FrameInstance that owns fd is
	// destroyed, giving the filter a chance to release any resources it
	// associated with that FrameData.
	DropFrameData(fd FrameData)

	// Clone returns an independently usable copy of this filter, for a
	// specific worker's thread-local use.
	Clone() Filter
}
