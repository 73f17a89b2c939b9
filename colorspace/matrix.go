package colorspace

import videofx "github.com/gogpu/videofx"

// Limited-range normalization. Luma occupies [16, 235] and chroma
// [16, 240] in 8-bit video.
const (
	lumaOffset  = 16.0 / 255.0
	lumaScale   = 255.0 / 219.0
	chromaScale = 255.0 / 224.0
)

// yuvCoeffs holds the YUV to RGB conversion coefficients for one matrix.
type yuvCoeffs struct {
	rv, gu, gv, bu float32
}

var (
	coeffs601 = yuvCoeffs{rv: 1.402, gu: -0.344136, gv: -0.714136, bu: 1.772}
	coeffs709 = yuvCoeffs{rv: 1.5748, gu: -0.187324, gv: -0.468124, bu: 1.8556}
)

// lumaWeights holds the Kr/Kb constants for RGB to YUV conversion.
type lumaWeights struct {
	kr, kb float32
}

var (
	weights601 = lumaWeights{kr: 0.299, kb: 0.114}
	weights709 = lumaWeights{kr: 0.2126, kb: 0.0722}
)

// YUVToRGB converts normalized limited-range YUV samples to full-range
// RGB, clamped to [0,1].
func YUVToRGB(m videofx.ColorMatrix, y, u, v float32) (r, g, b float32) {
	yl := (y - lumaOffset) * lumaScale
	cb := (u - 0.5) * chromaScale
	cr := (v - 0.5) * chromaScale

	c := coeffs601
	if m == videofx.Matrix709 {
		c = coeffs709
	}
	r = clamp01(yl + c.rv*cr)
	g = clamp01(yl + c.gu*cb + c.gv*cr)
	b = clamp01(yl + c.bu*cb)
	return r, g, b
}

// RGBToYUV converts normalized full-range RGB to limited-range YUV.
func RGBToYUV(m videofx.ColorMatrix, r, g, b float32) (y, u, v float32) {
	w := weights601
	if m == videofx.Matrix709 {
		w = weights709
	}
	kg := 1 - w.kr - w.kb

	yl := w.kr*r + kg*g + w.kb*b
	y = clamp01(lumaOffset + yl*(219.0/255.0))
	u = clamp01(0.5 + (224.0/255.0)*0.5*(b-yl)/(1-w.kb))
	v = clamp01(0.5 + (224.0/255.0)*0.5*(r-yl)/(1-w.kr))
	return y, u, v
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// quantize converts a normalized sample to 8 bits with round-to-nearest.
func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
