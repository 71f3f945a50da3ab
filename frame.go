package framez

import "unsafe"

// Plane is a cache-line-aligned byte buffer (alignment = PlaneAlignment,
// spec §3/§6). Frame planes are immutable from the outside; mutation goes
// through Frame.GetPlaneMut's usurp-or-clone.
type Plane struct {
	refcounted
	raw    []byte // unused; data's own backing array holds the over-allocation
	data   []byte // aligned view into raw
	stride int
}

// newAlignedBytes allocates n bytes with a start address aligned to
// PlaneAlignment, mirroring original_source's AlignedBytes container.
func newAlignedBytes(n int) []byte {
	if n <= 0 {
		n = 0
	}
	raw := make([]byte, n+PlaneAlignment-1)
	addr := uintptr(unsafe.Pointer(&raw[0]))
	offset := (PlaneAlignment - int(addr%PlaneAlignment)) % PlaneAlignment
	return raw[offset : offset+n]
}

// NewPlane allocates a zeroed, aligned plane buffer with the given stride
// and number of rows.
func NewPlane(stride, rows int) *Plane {
	size := stride * rows
	return &Plane{
		refcounted: newRefcounted(),
		data:       newAlignedBytes(size),
		stride:     stride,
	}
}

// AdoptPlane wraps an existing aligned buffer without copying, bumping its
// conceptual ownership the way frame.cpp's constructor adopts an
// `in_planes[idx]` argument instead of allocating fresh — the caller hands
// off a buffer it produced (e.g. a previous Frame's released plane).
func AdoptPlane(data []byte, stride int) *Plane {
	return &Plane{refcounted: newRefcounted(), data: data, stride: stride}
}

// Bytes returns the plane's raw byte view.
func (p *Plane) Bytes() []byte { return p.data }

// Stride returns the plane's row stride in bytes.
func (p *Plane) Stride() int { return p.stride }

// Clone deep-copies the plane's bytes into a freshly aligned buffer.
func (p *Plane) Clone() *Plane {
	cloned := &Plane{refcounted: newRefcounted(), stride: p.stride}
	cloned.data = newAlignedBytes(len(p.data))
	copy(cloned.data, p.data)
	return cloned
}

// Frame is the engine's core value type (spec §3): an immutable-until-
// unique collection of planes plus an ordered property Table.
type Frame struct {
	refcounted
	info   FrameInfo
	planes []*Plane
	props  *Table
}

// NewFrame builds a Frame for info, adopting any non-nil entries of
// inPlanes and allocating zeroed, stride-rounded planes for the rest —
// frame.cpp's constructor branches the same way on whether an input plane
// was supplied.
func NewFrame(info FrameInfo, inPlanes []*Plane) *Frame {
	count := info.Format.PlaneCount()
	planes := make([]*Plane, count)
	for i := 0; i < count; i++ {
		if i < len(inPlanes) && inPlanes[i] != nil {
			inPlanes[i].AddRef()
			planes[i] = inPlanes[i]
			continue
		}
		stride := planeStride(info, i)
		rows := int(planeHeight(info, i))
		planes[i] = NewPlane(stride, rows)
	}
	return &Frame{
		refcounted: newRefcounted(),
		info:       info,
		planes:     planes,
		props:      NewTable(0),
	}
}

// FrameInfo returns the frame's geometry.
func (f *Frame) FrameInfo() FrameInfo { return f.info }

// PlaneCount returns the number of planes (1 for Gray, 3 otherwise).
func (f *Frame) PlaneCount() int { return len(f.planes) }

// PlaneWidth returns the pixel width of plane idx, subsampled for planes
// other than 0 (spec §3, supplemented from catsyn.h).
func (f *Frame) PlaneWidth(idx int) uint32 { return planeWidth(f.info, idx) }

// PlaneHeight is the height analogue of PlaneWidth.
func (f *Frame) PlaneHeight(idx int) uint32 { return planeHeight(f.info, idx) }

// Stride returns the byte stride of plane idx.
func (f *Frame) Stride(idx int) int { return f.planes[idx].Stride() }

// GetPlane returns a read-only view of plane idx.
func (f *Frame) GetPlane(idx int) *Plane { return f.planes[idx] }

// GetPlaneMut returns a mutable plane at idx via usurp-or-clone: if the
// plane is uniquely referenced it is returned as-is, otherwise a private
// clone replaces it in this frame (spec §3: "get_plane_mut returns a
// unique clone when shared").
func (f *Frame) GetPlaneMut(idx int) *Plane {
	p := f.planes[idx]
	mutated := usurpOrClone(p.Unique(), p)
	f.planes[idx] = mutated
	return mutated
}

// Props returns the frame's property table (read-only use).
func (f *Frame) Props() *Table { return f.props }

// PropsMut returns a mutable property table via the same usurp-or-clone
// convention as GetPlaneMut.
func (f *Frame) PropsMut() *Table {
	mutated := usurpOrClone(f.props.Unique(), f.props)
	f.props = mutated
	return mutated
}

// SetProps replaces the frame's property table outright.
func (f *Frame) SetProps(t *Table) { f.props = t }

// Clone deep-copies the frame: every plane is deep-copied and the
// property table is cloned via Table.Clone.
func (f *Frame) Clone() *Frame {
	cloned := &Frame{refcounted: newRefcounted(), info: f.info}
	cloned.planes = make([]*Plane, len(f.planes))
	for i, p := range f.planes {
		cloned.planes[i] = p.Clone()
	}
	cloned.props = f.props.Clone()
	return cloned
}
