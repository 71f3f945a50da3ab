package framez

import "testing"

func TestFormatPacksAndUnpacksFields(t *testing.T) {
	f := NewFormat(1, 2, 8, SampleInteger, ColorYUV)
	if f.HeightSubsampling() != 1 {
		t.Errorf("HeightSubsampling() = %d, want 1", f.HeightSubsampling())
	}
	if f.WidthSubsampling() != 2 {
		t.Errorf("WidthSubsampling() = %d, want 2", f.WidthSubsampling())
	}
	if f.BitsPerSample() != 8 {
		t.Errorf("BitsPerSample() = %d, want 8", f.BitsPerSample())
	}
	if f.SampleType() != SampleInteger {
		t.Errorf("SampleType() = %v, want SampleInteger", f.SampleType())
	}
	if f.ColorFamily() != ColorYUV {
		t.Errorf("ColorFamily() = %v, want ColorYUV", f.ColorFamily())
	}
}

func TestPlaneCountByColorFamily(t *testing.T) {
	gray := NewFormat(0, 0, 8, SampleInteger, ColorGray)
	if gray.PlaneCount() != 1 {
		t.Errorf("Gray PlaneCount() = %d, want 1", gray.PlaneCount())
	}
	yuv := NewFormat(1, 1, 8, SampleInteger, ColorYUV)
	if yuv.PlaneCount() != 3 {
		t.Errorf("YUV PlaneCount() = %d, want 3", yuv.PlaneCount())
	}
}

func TestPlaneGeometrySubsampling(t *testing.T) {
	info := FrameInfo{Format: NewFormat(1, 1, 8, SampleInteger, ColorYUV), Width: 8, Height: 8}
	if w := planeWidth(info, 1); w != 4 {
		t.Errorf("planeWidth(1) = %d, want 4", w)
	}
	if h := planeHeight(info, 1); h != 4 {
		t.Errorf("planeHeight(1) = %d, want 4", h)
	}
	if w := planeWidth(info, 0); w != 8 {
		t.Errorf("planeWidth(0) = %d, want 8", w)
	}
}

func TestPlaneStrideAlignment(t *testing.T) {
	info := FrameInfo{Format: NewFormat(0, 0, 8, SampleInteger, ColorGray), Width: 3, Height: 3}
	stride := planeStride(info, 0)
	if stride%PlaneAlignment != 0 {
		t.Errorf("planeStride() = %d, not a multiple of %d", stride, PlaneAlignment)
	}
	if stride < 3 {
		t.Errorf("planeStride() = %d, too small for width 3", stride)
	}
}
