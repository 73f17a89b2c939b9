package effects

import "math"

// hueEpsilon is the cutoff below which hue rotation is skipped.
const hueEpsilon = 0.001

// BT.709 luma weights used by the saturation step.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// Fixed sepia matrix, rows R G B.
var sepiaMatrix = [3][3]float32{
	{0.393, 0.769, 0.189},
	{0.349, 0.686, 0.168},
	{0.272, 0.534, 0.131},
}

// applyChain runs the single-pass grading chain on one pixel. uvx/uvy are
// the pixel's normalized coordinates, frame the monotonically increasing
// frame index for the noise seed.
func (p *Params) applyChain(r, g, b, a float32, px, py float32, uvx, uvy float32, frame float32) (float32, float32, float32, float32) {
	// Brightness.
	r += p.Brightness
	g += p.Brightness
	b += p.Brightness

	// Contrast around mid-gray.
	r = (r-0.5)*p.Contrast + 0.5
	g = (g-0.5)*p.Contrast + 0.5
	b = (b-0.5)*p.Contrast + 0.5

	// Saturation against BT.709 luma.
	luma := lumaR*r + lumaG*g + lumaB*b
	r = luma + (r-luma)*p.Saturation
	g = luma + (g-luma)*p.Saturation
	b = luma + (b-luma)*p.Saturation

	// Hue rotation through HSV.
	if abs32(p.Hue) >= hueEpsilon {
		h, s, v := rgbToHSV(clamp01(r), clamp01(g), clamp01(b))
		h += p.Hue * 0.5
		h -= float32(math.Floor(float64(h)))
		r, g, b = hsvToRGB(h, s, v)
	}

	// Gamma.
	if p.Gamma != 1 {
		inv := 1 / p.Gamma
		r = pow32(clampRange(r, 0.0001, 1), inv)
		g = pow32(clampRange(g, 0.0001, 1), inv)
		b = pow32(clampRange(b, 0.0001, 1), inv)
	}

	// Sepia.
	if p.Sepia > 0 {
		sr := sepiaMatrix[0][0]*r + sepiaMatrix[0][1]*g + sepiaMatrix[0][2]*b
		sg := sepiaMatrix[1][0]*r + sepiaMatrix[1][1]*g + sepiaMatrix[1][2]*b
		sb := sepiaMatrix[2][0]*r + sepiaMatrix[2][1]*g + sepiaMatrix[2][2]*b
		r = mix(r, sr, p.Sepia)
		g = mix(g, sg, p.Sepia)
		b = mix(b, sb, p.Sepia)
	}

	// Invert.
	if p.Invert {
		r = 1 - r
		g = 1 - g
		b = 1 - b
	}

	// Chroma key reduces alpha near the key color.
	if p.ChromaKey.Enabled {
		kr, kg, kb, _ := p.ChromaKey.Color.Floats()
		dr := r - kr
		dg := g - kg
		db := b - kb
		dist := sqrt32(dr*dr + dg*dg + db*db)
		a *= smoothstep(p.ChromaKey.Tolerance, p.ChromaKey.Tolerance+p.ChromaKey.Smoothness, dist)
	}

	// Vignette darkens radially from the frame center.
	if p.Vignette > 0 {
		dx := uvx - 0.5
		dy := uvy - 0.5
		dist := sqrt32(dx*dx+dy*dy) * 1.414
		factor := 1 - smoothstep(0.5, 1.0, dist)*p.Vignette
		r *= factor
		g *= factor
		b *= factor
	}

	// Deterministic grain seeded by pixel position and frame index.
	if p.Noise > 0 {
		n := (hash12(px, py, frame) - 0.5) * p.Noise * 0.5
		r += n
		g += n
		b += n
	}

	return clamp01(r), clamp01(g), clamp01(b), a
}

// hash12 is a compact 2-D to 1-D hash. The frame term animates the grain
// between frames.
func hash12(x, y, frame float32) float32 {
	p3x := fract(x*0.1031 + frame*0.00137)
	p3y := fract(y*0.1031 + frame*0.00137)
	p3z := fract(x*0.1031 + frame*0.00137)

	d := p3x*(p3y+33.33) + p3y*(p3z+33.33) + p3z*(p3x+33.33)
	p3x += d
	p3y += d
	p3z += d
	return fract((p3x + p3y) * p3z)
}

func rgbToHSV(r, g, b float32) (h, s, v float32) {
	max := max32(r, max32(g, b))
	min := min32(r, min32(g, b))
	v = max
	d := max - min
	if max > 0 {
		s = d / max
	}
	if d == 0 {
		return 0, s, v
	}
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h /= 6
	return h, s, v
}

func hsvToRGB(h, s, v float32) (r, g, b float32) {
	i := float32(math.Floor(float64(h * 6)))
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	switch int(i) % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

func smoothstep(edge0, edge1, x float32) float32 {
	if edge1 == edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func mix(a, b, t float32) float32 { return a + (b-a)*t }

func fract(v float32) float32 {
	return v - float32(math.Floor(float64(v)))
}

func pow32(base, exp float32) float32 {
	return float32(math.Pow(float64(base), float64(exp)))
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

func clamp01(v float32) float32 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
