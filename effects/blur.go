package effects

import "github.com/gogpu/videofx"

// 9-tap Gaussian weights, sigma roughly 2.
var blurWeights = [9]float32{
	0.028532, 0.067234, 0.124009, 0.179044, 0.20236,
	0.179044, 0.124009, 0.067234, 0.028532,
}

// blurPass convolves src into dst along one axis. Edge taps clamp to the
// frame border. Alpha is carried through unchanged.
func blurPass(dst, src *videofx.Pixmap, horizontal bool) {
	w := src.Width()
	h := src.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b float32
			for i := -4; i <= 4; i++ {
				sx, sy := x, y
				if horizontal {
					sx += i
				} else {
					sy += i
				}
				tr, tg, tb, _ := src.PixelClamped(sx, sy)
				wgt := blurWeights[i+4]
				r += tr * wgt
				g += tg * wgt
				b += tb * wgt
			}
			_, _, _, a := src.PixelClamped(x, y)
			dst.SetPixel(x, y, r, g, b, a)
		}
	}
}

// applySharpness blends the original against its blurred copy. Positive
// sharpness adds the unsharp-mask detail term, negative sharpness fades
// toward the blur.
func applySharpness(dst, orig, blurred *videofx.Pixmap, sharpness float32) {
	w := orig.Width()
	h := orig.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			or, og, ob, oa := orig.Pixel(x, y)
			br, bg, bb, _ := blurred.Pixel(x, y)
			var r, g, b float32
			if sharpness > 0 {
				r = or + (or-br)*sharpness
				g = og + (og-bg)*sharpness
				b = ob + (ob-bb)*sharpness
			} else {
				t := -sharpness
				r = mix(or, br, t)
				g = mix(og, bg, t)
				b = mix(ob, bb, t)
			}
			dst.SetPixel(x, y, clamp01(r), clamp01(g), clamp01(b), oa)
		}
	}
}
