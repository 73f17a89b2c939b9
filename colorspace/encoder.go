package colorspace

import (
	"fmt"

	videofx "github.com/gogpu/videofx"
)

// Encoder writes packed RGBA pixmaps out as video frames in a fixed
// output format and geometry.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	width  int
	height int
	format videofx.PixelFormat
	matrix videofx.ColorMatrix
}

// NewEncoder creates an encoder for the given output geometry and format.
func NewEncoder(width, height int, format videofx.PixelFormat, matrix videofx.ColorMatrix) (*Encoder, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: encoder dimensions %dx%d", videofx.ErrConfiguration, width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: encoder format %v", videofx.ErrConfiguration, format)
	}
	return &Encoder{width: width, height: height, format: format, matrix: matrix}, nil
}

// Encode writes src into dst. dst must match the encoder's geometry and
// format.
func (e *Encoder) Encode(src *videofx.Pixmap, dst *videofx.Frame) error {
	if src == nil || src.Width() != e.width || src.Height() != e.height {
		return fmt.Errorf("%w: pixmap does not match encoder geometry", videofx.ErrConfiguration)
	}
	if err := dst.Validate(); err != nil {
		return err
	}
	if dst.Width != e.width || dst.Height != e.height || dst.Format != e.format {
		return fmt.Errorf("%w: frame does not match encoder output", videofx.ErrConfiguration)
	}

	switch e.format {
	case videofx.FormatRGBA:
		encodeRGBA(src, dst, false)
	case videofx.FormatBGRA:
		encodeRGBA(src, dst, true)
	case videofx.FormatNV12, videofx.FormatI420:
		e.encodePlanar(src, dst)
	case videofx.FormatUYVY, videofx.FormatYUY2:
		e.encodePacked(src, dst)
	default:
		return fmt.Errorf("encode: %w: %v", videofx.ErrInvalidFormat, e.format)
	}
	return nil
}

func encodeRGBA(src *videofx.Pixmap, dst *videofx.Frame, swap bool) {
	w, h := src.Width(), src.Height()
	data := src.Data()
	for y := 0; y < h; y++ {
		row := dst.PlaneRow(0, y)
		for x := 0; x < w; x++ {
			si := (y*w + x) * 4
			di := x * 4
			if swap {
				row[di+0] = data[si+2]
				row[di+1] = data[si+1]
				row[di+2] = data[si+0]
			} else {
				row[di+0] = data[si+0]
				row[di+1] = data[si+1]
				row[di+2] = data[si+2]
			}
			row[di+3] = data[si+3]
		}
	}
}

// encodePlanar writes NV12 or I420. Luma is converted per pixel; each
// chroma sample averages the U/V of its 2x2 source block.
func (e *Encoder) encodePlanar(src *videofx.Pixmap, dst *videofx.Frame) {
	w, h := e.width, e.height

	for y := 0; y < h; y++ {
		row := dst.PlaneRow(0, y)
		for x := 0; x < w; x++ {
			r, g, b, _ := src.Pixel(x, y)
			yv, _, _ := RGBToYUV(e.matrix, r, g, b)
			row[x] = quantize(yv)
		}
	}

	cw, ch := e.format.PlaneDimensions(1, w, h)
	for cy := 0; cy < ch; cy++ {
		for cx := 0; cx < cw; cx++ {
			u, v := e.blockChroma(src, cx, cy)
			if e.format == videofx.FormatNV12 {
				row := dst.PlaneRow(1, cy)
				row[cx*2+0] = quantize(u)
				row[cx*2+1] = quantize(v)
			} else {
				dst.PlaneRow(1, cy)[cx] = quantize(u)
				dst.PlaneRow(2, cy)[cx] = quantize(v)
			}
		}
	}
}

// blockChroma averages the chroma of the up-to-2x2 pixel block covered by
// chroma site (cx, cy). Edge blocks on odd dimensions cover fewer pixels.
func (e *Encoder) blockChroma(src *videofx.Pixmap, cx, cy int) (u, v float32) {
	var sumU, sumV float32
	var n float32
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			x, y := cx*2+dx, cy*2+dy
			if x >= e.width || y >= e.height {
				continue
			}
			r, g, b, _ := src.Pixel(x, y)
			_, pu, pv := RGBToYUV(e.matrix, r, g, b)
			sumU += pu
			sumV += pv
			n++
		}
	}
	return sumU / n, sumV / n
}

// encodePacked writes UYVY or YUY2. Each macropixel carries two luma
// samples and the averaged chroma of both pixels.
func (e *Encoder) encodePacked(src *videofx.Pixmap, dst *videofx.Frame) {
	w, h := e.width, e.height
	for y := 0; y < h; y++ {
		row := dst.PlaneRow(0, y)
		for x := 0; x < w; x += 2 {
			r0, g0, b0, _ := src.Pixel(x, y)
			y0, u0, v0 := RGBToYUV(e.matrix, r0, g0, b0)

			// The right pixel of the last macropixel on an odd width
			// repeats the left pixel.
			x1 := x + 1
			if x1 >= w {
				x1 = x
			}
			r1, g1, b1, _ := src.Pixel(x1, y)
			y1, u1, v1 := RGBToYUV(e.matrix, r1, g1, b1)

			u := quantize((u0 + u1) / 2)
			v := quantize((v0 + v1) / 2)
			i := (x / 2) * 4
			if e.format == videofx.FormatUYVY {
				row[i+0] = u
				row[i+1] = quantize(y0)
				row[i+2] = v
				row[i+3] = quantize(y1)
			} else {
				row[i+0] = quantize(y0)
				row[i+1] = u
				row[i+2] = quantize(y1)
				row[i+3] = v
			}
		}
	}
}
