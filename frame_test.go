package videofx

import (
	"errors"
	"testing"
)

func TestNewFrame(t *testing.T) {
	tests := []struct {
		name        string
		format      PixelFormat
		w, h        int
		wantStrides []int
		wantSizes   []int
	}{
		{"RGBA", FormatRGBA, 4, 4, []int{16}, []int{64}},
		{"NV12", FormatNV12, 4, 4, []int{4, 4}, []int{16, 8}},
		{"I420 odd", FormatI420, 5, 3, []int{5, 3, 3}, []int{15, 6, 6}},
		{"UYVY", FormatUYVY, 4, 2, []int{8}, []int{16}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFrame(tt.w, tt.h, tt.format)
			if err != nil {
				t.Fatalf("NewFrame: %v", err)
			}
			for p := 0; p < tt.format.PlaneCount(); p++ {
				if f.Planes[p].Stride != tt.wantStrides[p] {
					t.Errorf("plane %d stride = %d, want %d", p, f.Planes[p].Stride, tt.wantStrides[p])
				}
				if len(f.Planes[p].Data) != tt.wantSizes[p] {
					t.Errorf("plane %d size = %d, want %d", p, len(f.Planes[p].Data), tt.wantSizes[p])
				}
			}
			if err := f.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestNewFrameInvalid(t *testing.T) {
	if _, err := NewFrame(0, 4, FormatRGBA); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero width: err = %v, want ErrInvalidDimensions", err)
	}
	if _, err := NewFrame(4, -1, FormatRGBA); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("negative height: err = %v, want ErrInvalidDimensions", err)
	}
	if _, err := NewFrame(4, 4, PixelFormat(42)); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("bad format: err = %v, want ErrInvalidFormat", err)
	}
}

func TestFrameValidate(t *testing.T) {
	f, err := NewFrame(4, 4, FormatNV12)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("nil frame", func(t *testing.T) {
		var nilf *Frame
		if err := nilf.Validate(); !errors.Is(err, ErrNilFrame) {
			t.Errorf("err = %v, want ErrNilFrame", err)
		}
	})

	t.Run("short plane", func(t *testing.T) {
		bad := *f
		bad.Planes[1].Data = bad.Planes[1].Data[:3]
		if err := bad.Validate(); !errors.Is(err, ErrPlaneTooSmall) {
			t.Errorf("err = %v, want ErrPlaneTooSmall", err)
		}
	})

	t.Run("undersized stride", func(t *testing.T) {
		bad := *f
		bad.Planes[0].Stride = 2
		if err := bad.Validate(); err == nil {
			t.Error("expected error for undersized stride")
		}
	})
}

func TestFramePlaneRow(t *testing.T) {
	f, err := NewFrame(4, 2, FormatRGBA)
	if err != nil {
		t.Fatal(err)
	}
	for i := range f.Planes[0].Data {
		f.Planes[0].Data[i] = byte(i)
	}
	row := f.PlaneRow(0, 1)
	if len(row) != 16 {
		t.Fatalf("row length = %d, want 16", len(row))
	}
	if row[0] != 16 {
		t.Errorf("row[0] = %d, want 16", row[0])
	}
}

func TestFrameCopyToAndEqualBytes(t *testing.T) {
	src, err := NewFrame(6, 4, FormatI420)
	if err != nil {
		t.Fatal(err)
	}
	for p := 0; p < 3; p++ {
		for i := range src.Planes[p].Data {
			src.Planes[p].Data[i] = byte(p*50 + i)
		}
	}

	dst, err := NewFrame(6, 4, FormatI420)
	if err != nil {
		t.Fatal(err)
	}
	if err := src.CopyTo(dst); err != nil {
		t.Fatalf("CopyTo: %v", err)
	}
	if !src.EqualBytes(dst) {
		t.Error("frames differ after CopyTo")
	}

	dst.Planes[2].Data[0]++
	if src.EqualBytes(dst) {
		t.Error("EqualBytes ignored a changed sample")
	}
}

func TestFrameCopyToStrided(t *testing.T) {
	// A destination with padded rows must receive only the visible samples.
	src, err := NewFrame(4, 2, FormatRGBA)
	if err != nil {
		t.Fatal(err)
	}
	for i := range src.Planes[0].Data {
		src.Planes[0].Data[i] = byte(i + 1)
	}

	dst := &Frame{Width: 4, Height: 2, Format: FormatRGBA}
	dst.Planes[0] = Plane{Data: make([]byte, 2*24), Stride: 24}
	if err := src.CopyTo(dst); err != nil {
		t.Fatalf("CopyTo: %v", err)
	}
	if !src.EqualBytes(dst) {
		t.Error("strided copy lost samples")
	}
	if dst.Planes[0].Data[24] != src.Planes[0].Data[16] {
		t.Error("second row landed at the wrong offset")
	}
}
