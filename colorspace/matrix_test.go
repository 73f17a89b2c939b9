package colorspace

import (
	"math"
	"testing"

	videofx "github.com/gogpu/videofx"
)

func near(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) <= float64(eps)
}

func TestYUVToRGBReferencePoints(t *testing.T) {
	tests := []struct {
		name    string
		m       videofx.ColorMatrix
		y, u, v float32
		r, g, b float32
	}{
		{"black", videofx.Matrix601, 16.0 / 255, 0.5, 0.5, 0, 0, 0},
		{"white", videofx.Matrix601, 235.0 / 255, 0.5, 0.5, 1, 1, 1},
		{"mid gray", videofx.Matrix709, 125.5 / 255, 0.5, 0.5, 0.5, 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := YUVToRGB(tt.m, tt.y, tt.u, tt.v)
			if !near(r, tt.r, 0.01) || !near(g, tt.g, 0.01) || !near(b, tt.b, 0.01) {
				t.Errorf("YUVToRGB = (%v, %v, %v), want (%v, %v, %v)", r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestRGBToYUVNeutral(t *testing.T) {
	for _, m := range []videofx.ColorMatrix{videofx.Matrix601, videofx.Matrix709} {
		y, u, v := RGBToYUV(m, 0, 0, 0)
		if !near(y, 16.0/255, 0.002) || !near(u, 0.5, 0.002) || !near(v, 0.5, 0.002) {
			t.Errorf("%v black = (%v, %v, %v)", m, y, u, v)
		}
		y, u, v = RGBToYUV(m, 1, 1, 1)
		if !near(y, 235.0/255, 0.002) || !near(u, 0.5, 0.002) || !near(v, 0.5, 0.002) {
			t.Errorf("%v white = (%v, %v, %v)", m, y, u, v)
		}
	}
}

func TestYUVRoundTrip(t *testing.T) {
	colors := [][3]float32{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{0.25, 0.5, 0.75}, {0.9, 0.1, 0.4},
	}
	for _, m := range []videofx.ColorMatrix{videofx.Matrix601, videofx.Matrix709} {
		for _, c := range colors {
			y, u, v := RGBToYUV(m, c[0], c[1], c[2])
			r, g, b := YUVToRGB(m, y, u, v)
			if !near(r, c[0], 0.01) || !near(g, c[1], 0.01) || !near(b, c[2], 0.01) {
				t.Errorf("%v round trip %v = (%v, %v, %v)", m, c, r, g, b)
			}
		}
	}
}

func TestMatricesDiffer(t *testing.T) {
	// Saturated red separates the two matrices clearly.
	y601, _, v601 := RGBToYUV(videofx.Matrix601, 1, 0, 0)
	y709, _, v709 := RGBToYUV(videofx.Matrix709, 1, 0, 0)
	if near(y601, y709, 0.01) && near(v601, v709, 0.01) {
		t.Error("BT.601 and BT.709 produced the same red encoding")
	}
}
