package composite

import videofx "github.com/gogpu/videofx"

// checkerCell is the edge length of one checker background square.
const checkerCell = 8

const (
	checkerLight = 0.6
	checkerDark  = 0.4
)

// drawBackground fills the canvas according to the configured mode.
func (e *Engine) drawBackground() {
	switch e.cfg.Background {
	case BackgroundBlack:
		e.canvas.Clear(0, 0, 0, 1)
	case BackgroundWhite:
		e.canvas.Clear(1, 1, 1, 1)
	case BackgroundTransparent:
		e.canvas.Clear(0, 0, 0, 0)
	case BackgroundChecker:
		for y := 0; y < e.cfg.Height; y++ {
			for x := 0; x < e.cfg.Width; x++ {
				v := float32(checkerLight)
				if (x/checkerCell+y/checkerCell)%2 == 1 {
					v = checkerDark
				}
				e.canvas.SetPixel(x, y, v, v, v, 1)
			}
		}
	}
}

// drawPad samples the pad's decoded pixmap into its destination
// rectangle and blends it onto the canvas with the pad's operator.
func (e *Engine) drawPad(p pad) error {
	if e.gpuDraw(p) {
		return nil
	}

	d := p.dest
	srcW, srcH := p.pix.Width(), p.pix.Height()

	x0, y0 := d.x, d.y
	x1, y1 := d.x+d.w, d.y+d.h
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > e.cfg.Width {
		x1 = e.cfg.Width
	}
	if y1 > e.cfg.Height {
		y1 = e.cfg.Height
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			// Sample at the pixel center of the destination, mapped back
			// into source space.
			u := (float32(x-d.x) + 0.5) / float32(d.w) * float32(srcW)
			v := (float32(y-d.y) + 0.5) / float32(d.h) * float32(srcH)
			sr, sg, sb, sa := sampleBilinear(p.pix, u-0.5, v-0.5)

			sa *= p.src.Alpha
			// Premultiply.
			sr *= sa
			sg *= sa
			sb *= sa

			dr, dg, db, da := e.canvas.Pixel(x, y)
			var r, g, b, a float32
			switch p.src.Operator {
			case OperatorSource:
				r, g, b, a = sr, sg, sb, sa
			case OperatorOver:
				inv := 1 - sa
				r = sr + dr*inv
				g = sg + dg*inv
				b = sb + db*inv
				a = sa + da*inv
			case OperatorAdd:
				r = sr + dr
				g = sg + dg
				b = sb + db
				a = sa + da
			}
			e.canvas.SetPixel(x, y, r, g, b, a)
		}
	}
	return nil
}

// sampleBilinear samples a pixmap at fractional coordinates with
// clamp-to-edge addressing.
func sampleBilinear(p *videofx.Pixmap, fx, fy float32) (r, g, b, a float32) {
	x0 := floorInt(fx)
	y0 := floorInt(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	r00, g00, b00, a00 := p.PixelClamped(x0, y0)
	r10, g10, b10, a10 := p.PixelClamped(x0+1, y0)
	r01, g01, b01, a01 := p.PixelClamped(x0, y0+1)
	r11, g11, b11, a11 := p.PixelClamped(x0+1, y0+1)

	lerp := func(a, b, t float32) float32 { return a + (b-a)*t }
	r = lerp(lerp(r00, r10, tx), lerp(r01, r11, tx), ty)
	g = lerp(lerp(g00, g10, tx), lerp(g01, g11, tx), ty)
	b = lerp(lerp(b00, b10, tx), lerp(b01, b11, tx), ty)
	a = lerp(lerp(a00, a10, tx), lerp(a01, a11, tx), ty)
	return r, g, b, a
}

func floorInt(v float32) int {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}
