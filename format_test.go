package videofx

import "testing"

func TestPixelFormatString(t *testing.T) {
	tests := []struct {
		format PixelFormat
		want   string
	}{
		{FormatBGRA, "BGRA"},
		{FormatRGBA, "RGBA"},
		{FormatNV12, "NV12"},
		{FormatI420, "I420"},
		{FormatUYVY, "UYVY"},
		{FormatYUY2, "YUY2"},
		{PixelFormat(99), "PixelFormat(99)"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("PixelFormat(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestPixelFormatPlaneCount(t *testing.T) {
	tests := []struct {
		format PixelFormat
		want   int
	}{
		{FormatBGRA, 1},
		{FormatRGBA, 1},
		{FormatNV12, 2},
		{FormatI420, 3},
		{FormatUYVY, 1},
		{FormatYUY2, 1},
	}

	for _, tt := range tests {
		if got := tt.format.PlaneCount(); got != tt.want {
			t.Errorf("%v.PlaneCount() = %d, want %d", tt.format, got, tt.want)
		}
	}
}

func TestPixelFormatClassification(t *testing.T) {
	for _, f := range []PixelFormat{FormatBGRA, FormatRGBA} {
		if !f.IsRGB() {
			t.Errorf("%v.IsRGB() = false, want true", f)
		}
		if f.IsYUV() {
			t.Errorf("%v.IsYUV() = true, want false", f)
		}
	}
	for _, f := range []PixelFormat{FormatNV12, FormatI420, FormatUYVY, FormatYUY2} {
		if !f.IsYUV() {
			t.Errorf("%v.IsYUV() = false, want true", f)
		}
	}
	for _, f := range []PixelFormat{FormatUYVY, FormatYUY2} {
		if !f.IsPacked422() {
			t.Errorf("%v.IsPacked422() = false, want true", f)
		}
	}
	if FormatNV12.IsPacked422() {
		t.Error("NV12.IsPacked422() = true, want false")
	}
}

func TestPlaneDimensionsOddSizes(t *testing.T) {
	tests := []struct {
		format PixelFormat
		plane  int
		w, h   int
		wantW  int
		wantH  int
	}{
		{FormatNV12, 0, 7, 5, 7, 5},
		{FormatNV12, 1, 7, 5, 4, 3},
		{FormatI420, 1, 7, 5, 4, 3},
		{FormatI420, 2, 1, 1, 1, 1},
		{FormatUYVY, 0, 7, 5, 8, 5},
		{FormatRGBA, 0, 7, 5, 7, 5},
	}

	for _, tt := range tests {
		w, h := tt.format.PlaneDimensions(tt.plane, tt.w, tt.h)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("%v.PlaneDimensions(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.format, tt.plane, tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestColorMatrixString(t *testing.T) {
	if got := Matrix601.String(); got != "BT.601" {
		t.Errorf("Matrix601.String() = %q, want BT.601", got)
	}
	if got := Matrix709.String(); got != "BT.709" {
		t.Errorf("Matrix709.String() = %q, want BT.709", got)
	}
}
