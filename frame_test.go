package framez

import (
	"testing"
	"unsafe"
)

func gray8(width, height uint32) FrameInfo {
	format := NewFormat(0, 0, 8, SampleInteger, ColorGray)
	return FrameInfo{Format: format, Width: width, Height: height}
}

func TestNewFramePlaneSizing(t *testing.T) {
	info := gray8(4, 2)
	f := NewFrame(info, nil)

	if f.PlaneCount() != 1 {
		t.Fatalf("PlaneCount() = %d, want 1 for Gray8", f.PlaneCount())
	}
	plane := f.GetPlane(0)
	if len(plane.Bytes()) != plane.Stride()*int(f.PlaneHeight(0)) {
		t.Fatalf("plane buffer length %d != stride*height", len(plane.Bytes()))
	}
	if plane.Stride()%PlaneAlignment != 0 {
		t.Fatalf("plane stride %d not aligned to %d", plane.Stride(), PlaneAlignment)
	}
}

func TestPlaneAllocationIsAligned(t *testing.T) {
	p := NewPlane(65, 3) // deliberately unaligned stride
	b := p.Bytes()
	addr := uintptr(unsafe.Pointer(&b[0]))
	if addr%PlaneAlignment != 0 {
		t.Fatalf("plane buffer address %#x not %d-byte aligned", addr, PlaneAlignment)
	}
}

func TestFrameGetPlaneMutUsurpsWhenUnique(t *testing.T) {
	f := NewFrame(gray8(2, 2), nil)
	original := f.GetPlane(0)
	mutated := f.GetPlaneMut(0)
	if mutated != original {
		t.Fatalf("GetPlaneMut should usurp a uniquely-referenced plane in place")
	}
}

func TestFrameGetPlaneMutClonesWhenShared(t *testing.T) {
	f := NewFrame(gray8(2, 2), nil)
	original := f.GetPlane(0)
	original.AddRef() // simulate a second owner, e.g. another Frame sharing this plane

	mutated := f.GetPlaneMut(0)
	if mutated == original {
		t.Fatalf("GetPlaneMut should clone a shared plane rather than mutate in place")
	}
}

func TestFrameCloneIsIndependent(t *testing.T) {
	f := NewFrame(gray8(2, 2), nil)
	f.GetPlaneMut(0).Bytes()[0] = 7

	clone := f.Clone()
	clone.GetPlaneMut(0).Bytes()[0] = 99

	if f.GetPlane(0).Bytes()[0] != 7 {
		t.Fatalf("cloning a frame mutated the original's plane")
	}
}
